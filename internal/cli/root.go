// Package cli wires the cobra commands for the cicd binary.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cicd",
	Short: "Minimal CI/CD validation pipeline for a GCP project",
	Long: `Validate Terraform and Helm configuration against a real GCP project
using keyless federated authentication where possible.

Commands:
  init    one-time local setup (project, deployer identity, CI secrets)
  deploy  credential resolution, access check, terraform plan, helm template
  check   structural checks plus a best-effort Apigee probe`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("project", "", "GCP project id (defaults to GCP_PROJECT_ID or the local key file)")
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
}
