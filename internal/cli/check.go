package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krisrowe/minimal-cicd-sample/internal/auth"
	"github.com/krisrowe/minimal-cicd-sample/internal/checker"
	"github.com/krisrowe/minimal-cicd-sample/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Structural and API connectivity checks",
	Long: `Validate the repository structure and, if credentials are available,
probe the Apigee API for the project's organization. An absent or
inaccessible org is a skip, not a failure. No side effects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runChecks(cmd.Context(), cfg)
	},
}

// runChecks is shared between the check command and deploy's last step.
func runChecks(ctx context.Context, cfg *config.Config) error {
	color.Cyan("Checking repo structure...")
	result := checker.CheckStructure(".", cfg.TerraformDir, cfg.HelmDir)
	for _, e := range result.Errors {
		color.Red("  ✗ %s", e)
	}
	if !result.Valid {
		return fmt.Errorf("structural checks failed")
	}
	color.Green("  ✓ %s/", cfg.TerraformDir)
	color.Green("  ✓ %s/", cfg.HelmDir)

	creds, err := auth.Resolve(ctx, cfg)
	if err != nil {
		color.Yellow("\n⚠ No credentials found, skipping Apigee API check")
		color.Green("\n✓ All checks passed")
		return nil
	}
	defer creds.Close()

	if creds.ProjectID == "" {
		color.Yellow("\n⚠ No project id resolved, skipping Apigee API check")
		color.Green("\n✓ All checks passed")
		return nil
	}

	color.Cyan("\nChecking Apigee API for project: %s", creds.ProjectID)
	probe := checker.ProbeApigee(ctx, creds.ProjectID, creds.ClientOptions()...)
	switch probe.Outcome {
	case checker.ProbeFound:
		color.Green("  ✓ Apigee org found: %s", probe.Detail)
	case checker.ProbeSkipped:
		color.Yellow("  ⚠ %s — skipping", probe.Detail)
	case checker.ProbeError:
		err := fmt.Errorf("apigee probe failed: %s", probe.Detail)
		color.Red("  ✗ %v", err)
		return err
	}

	color.Green("\n✓ All checks passed")
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
