package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/krisrowe/minimal-cicd-sample/internal/auth"
	"github.com/krisrowe/minimal-cicd-sample/internal/config"
	"github.com/krisrowe/minimal-cicd-sample/internal/gcp"
	"github.com/krisrowe/minimal-cicd-sample/internal/ghsecrets"
)

var initCmd = &cobra.Command{
	Use:   "init [project-id]",
	Short: "One-time local GCP project setup",
	Long: `Idempotent GCP project setup. LOCAL ONLY.

Ensures the demo project, enables APIs, creates the deployer service
account, then tries to export a SA JSON key (simplest). If org policy
blocks key creation, falls back to Workload Identity Federation
(keyless OIDC) and publishes the federation parameters as CI secrets.

Project ID resolution (in order):
  1. Positional argument
  2. Existing sa-key.json (idempotent re-run)
  3. Auto-generated: min-cicd-sample-<random6chars>

--billing-account is required when creating a new project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		projectID := resolveProjectID(args, cfg)

		ctx := cmd.Context()

		// init always runs with the operator's own ADC; the deployer
		// credentials it provisions are for deploy and CI.
		client, err := gcp.New(ctx)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}

		color.Cyan("\nInitializing project: %s", projectID)

		if err := ensureProject(ctx, client, projectID, cfg); err != nil {
			color.Red("✗ %v", err)
			return err
		}

		// Best-effort: the key-creation attempt below decides whether
		// the WIF fallback is actually needed.
		color.Cyan("→ Attempting to reset SA key creation policy (best-effort)...")
		if err := client.ResetKeyCreationPolicy(ctx, projectID); err != nil {
			color.Yellow("⚠ Could not reset SA key policy — will try key creation anyway, may fall back to WIF")
		} else {
			color.Green("✓ SA key creation policy reset")
		}

		color.Cyan("→ Enabling APIs...")
		if err := client.EnableAPIs(ctx, projectID, gcp.RequiredAPIs); err != nil {
			color.Red("✗ %v", err)
			return err
		}

		email, created, err := client.EnsureServiceAccount(ctx, projectID, cfg.ServiceAccount, "Deployer SA")
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}
		if created {
			color.Green("✓ Service account %s created", email)
		} else {
			color.Green("✓ Service account already exists")
		}

		color.Cyan("→ Granting Owner role...")
		if err := client.GrantProjectRole(ctx, projectID, "serviceAccount:"+email, "roles/owner"); err != nil {
			color.Red("✗ %v", err)
			return err
		}

		owner, repo := cfg.RepoOwnerName()
		secrets, err := ghsecrets.New(ctx, cfg.GitHubToken, owner, repo)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}

		color.Cyan("→ Exporting SA key to %s...", cfg.KeyFile)
		keyJSON, keyErr := client.CreateServiceAccountKey(ctx, projectID, email)
		if keyErr == nil {
			return finishKeyMode(ctx, cfg, secrets, projectID, keyJSON)
		}

		color.Yellow("⚠ Key creation blocked — setting up Workload Identity Federation instead")
		return finishWIFMode(ctx, client, cfg, secrets, projectID, email)
	},
}

// resolveProjectID applies the documented precedence: positional arg,
// --project / GCP_PROJECT_ID, existing key file, generated id. WIF-mode
// re-runs have no key file, so the env var must win over generation.
func resolveProjectID(args []string, cfg *config.Config) string {
	if len(args) > 0 && args[0] != "" {
		color.Cyan("Using project ID from argument: %s", args[0])
		return args[0]
	}
	if cfg.Project != "" {
		color.Cyan("Using project ID from flag/environment: %s", cfg.Project)
		return cfg.Project
	}
	if projectID, err := auth.ReadKeyProject(cfg.KeyFile); err == nil && projectID != "" {
		color.Cyan("Using project ID from existing %s: %s", cfg.KeyFile, projectID)
		return projectID
	}
	projectID := gcp.RandomProjectID()
	color.Cyan("Auto-generated project ID: %s", projectID)
	return projectID
}

func ensureProject(ctx context.Context, client *gcp.Client, projectID string, cfg *config.Config) error {
	exists, err := client.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}

	if exists {
		color.Green("✓ Project already exists, skipping creation")
	} else {
		if cfg.BillingAccount == "" {
			return fmt.Errorf("--billing-account is required when creating a new project (find yours with: gcloud billing accounts list)")
		}
		color.Cyan("→ Creating project %s...", projectID)
		if err := client.CreateProject(ctx, projectID, "Minimal CICD Demo"); err != nil {
			return err
		}
		color.Green("✓ Project created")
	}

	if cfg.BillingAccount != "" {
		color.Cyan("→ Linking billing account...")
		if err := client.LinkBilling(ctx, projectID, cfg.BillingAccount); err != nil {
			return err
		}
	}
	return nil
}

func finishKeyMode(ctx context.Context, cfg *config.Config, secrets *ghsecrets.Client, projectID string, keyJSON []byte) error {
	if err := os.WriteFile(cfg.KeyFile, keyJSON, 0o600); err != nil {
		color.Red("✗ Failed to write %s: %v", cfg.KeyFile, err)
		return err
	}
	color.Green("✓ SA key saved to %s (gitignored)", cfg.KeyFile)

	color.Cyan("→ Pushing GCP_SA_KEY to GitHub...")
	if err := secrets.Set(ctx, "GCP_SA_KEY", string(keyJSON)); err != nil {
		color.Red("✗ %v", err)
		return err
	}
	if err := secrets.Set(ctx, "GCP_PROJECT_ID", projectID); err != nil {
		color.Red("✗ %v", err)
		return err
	}

	color.Green("\n✓ Done (key file mode)")
	color.Cyan("  %s saved locally (gitignored)", cfg.KeyFile)
	color.Cyan("  GitHub secrets set: GCP_SA_KEY, GCP_PROJECT_ID")
	return nil
}

func finishWIFMode(ctx context.Context, client *gcp.Client, cfg *config.Config, secrets *ghsecrets.Client, projectID, email string) error {
	color.Cyan("→ Falling back to Workload Identity Federation (keyless)...")

	created, err := client.EnsurePool(ctx, projectID, cfg.PoolID, "GitHub Actions Pool")
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}
	if created {
		color.Green("✓ WIF pool %q created", cfg.PoolID)
	} else {
		color.Green("✓ WIF pool %q already exists", cfg.PoolID)
	}

	created, err = client.EnsureProvider(ctx, projectID, cfg.PoolID, cfg.ProviderID, cfg.GitHubRepo)
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}
	if created {
		color.Green("✓ WIF provider %q created", cfg.ProviderID)
	} else {
		color.Green("✓ WIF provider %q already exists", cfg.ProviderID)
	}

	color.Cyan("→ Granting SA impersonation to WIF provider...")
	projectNumber, err := client.ProjectNumber(ctx, projectID)
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}
	member := gcp.WIFMember(projectNumber, cfg.PoolID, cfg.GitHubRepo)
	if err := client.GrantImpersonation(ctx, projectID, email, member); err != nil {
		color.Red("✗ %v", err)
		return err
	}

	providerName, err := client.ProviderResourceName(ctx, projectID, cfg.PoolID, cfg.ProviderID)
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}

	color.Cyan("→ Pushing WIF secrets to GitHub...")
	for name, value := range map[string]string{
		"WIF_PROVIDER":   providerName,
		"WIF_SA_EMAIL":   email,
		"GCP_PROJECT_ID": projectID,
	} {
		if err := secrets.Set(ctx, name, value); err != nil {
			color.Red("✗ %v", err)
			return err
		}
	}

	color.Green("\n✓ Done (WIF mode — no key file)")
	color.Cyan("  GitHub secrets set: WIF_PROVIDER, WIF_SA_EMAIL, GCP_PROJECT_ID")
	color.Cyan("  For local runs: gcloud auth application-default login")
	color.Cyan("  export GCP_PROJECT_ID=%s", projectID)
	color.Cyan("  export GCP_SA_EMAIL=%s", email)
	return nil
}

func init() {
	initCmd.Flags().String("billing-account", "", "Billing account ID (required for new projects)")
	initCmd.Flags().String("github-repo", "", "GitHub repo owner/name for WIF and CI secrets")

	viper.BindPFlag("billing-account", initCmd.Flags().Lookup("billing-account"))
	viper.BindPFlag("github-repo", initCmd.Flags().Lookup("github-repo"))

	rootCmd.AddCommand(initCmd)
}
