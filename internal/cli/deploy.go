package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krisrowe/minimal-cicd-sample/internal/auth"
	"github.com/krisrowe/minimal-cicd-sample/internal/config"
	"github.com/krisrowe/minimal-cicd-sample/internal/gcp"
	"github.com/krisrowe/minimal-cicd-sample/internal/toolchain"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Validate infrastructure and chart configuration",
	Long: `Validate that this environment can reach the GCP project and that the
declared configuration is well-formed, without mutating real
infrastructure. Runs terraform plan (diff only), helm template
(client-side only), then the structural checks.

Works both locally and in GitHub Actions; credentials resolve from the
local key file, GCP_SA_KEY, GCP_SA_EMAIL impersonation, or ambient ADC,
in that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		creds, err := auth.Resolve(ctx, cfg)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}
		defer creds.Close()

		color.Cyan("Auth: %s", creds.Mode)

		if creds.ProjectID == "" {
			err := fmt.Errorf("GCP_PROJECT_ID not set (set it with: export GCP_PROJECT_ID=<your-project-id>)")
			color.Red("✗ %v", err)
			return err
		}
		color.Cyan("Project ID: %s", creds.ProjectID)

		color.Cyan("\n--- GCP Access Validation ---")
		client, err := gcp.New(ctx, creds.ClientOptions()...)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}
		name, err := client.VerifyAccess(ctx, creds.ProjectID)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}
		color.Green("✓ Project reachable: %s", name)

		runner := toolchain.New(creds.Env())

		color.Cyan("\n--- Terraform ---")
		if err := runner.TerraformInit(ctx, cfg.TerraformDir); err != nil {
			color.Red("✗ %v", err)
			return err
		}
		if err := runner.TerraformPlan(ctx, cfg.TerraformDir, creds.ProjectID); err != nil {
			color.Red("✗ %v", err)
			return err
		}

		color.Cyan("\n--- Helm ---")
		if err := runner.HelmTemplate(ctx, cfg.Release, cfg.HelmDir, creds.ProjectID); err != nil {
			color.Red("✗ %v", err)
			return err
		}

		color.Cyan("\n--- Checks ---")
		if err := runChecks(ctx, cfg); err != nil {
			return err
		}

		color.Green("\n✓ Deploy complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
