// Package config provides configuration management for the cicd CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	// Project is the GCP project id. Empty means "resolve it"
	// (init generates one, deploy reads it from the key file).
	Project string

	// BillingAccount is required only when init creates a new project.
	BillingAccount string

	// GitHubRepo is the owner/name repository that receives CI secrets
	// and is pinned in the WIF provider attribute condition.
	GitHubRepo string

	// GitHubToken authenticates secret publication. Read from
	// GITHUB_TOKEN or GH_TOKEN, never from a config file.
	GitHubToken string

	// KeyFile is the local service-account key path (gitignored).
	KeyFile string

	// ImpersonateSA is the service-account email to impersonate over
	// ADC when no key material is present (GCP_SA_EMAIL).
	ImpersonateSA string

	ServiceAccount string
	PoolID         string
	ProviderID     string

	TerraformDir string
	HelmDir      string
	Release      string
}

// Init initializes viper with defaults and config file paths
func Init() error {
	// Set config file name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config file search paths
	viper.AddConfigPath("$HOME/.cicd")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("github-repo", "krisrowe/minimal-cicd-sample")
	viper.SetDefault("key-file", "sa-key.json")
	viper.SetDefault("service-account", "deployer")
	viper.SetDefault("pool-id", "github-pool")
	viper.SetDefault("provider-id", "github-provider")
	viper.SetDefault("terraform-dir", "terraform")
	viper.SetDefault("helm-dir", "helm")
	viper.SetDefault("release", "minimal-demo")

	// Bind the environment variable names the CI workflow and the
	// google tooling already use, rather than a synthetic prefix.
	viper.BindEnv("project", "GCP_PROJECT_ID")
	viper.BindEnv("impersonate-service-account", "GCP_SA_EMAIL")
	viper.BindEnv("billing-account", "BILLING_ACCOUNT")
	viper.BindEnv("github-token", "GITHUB_TOKEN", "GH_TOKEN")

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	cfg := &Config{
		Project:        viper.GetString("project"),
		BillingAccount: viper.GetString("billing-account"),
		GitHubRepo:     viper.GetString("github-repo"),
		GitHubToken:    viper.GetString("github-token"),
		KeyFile:        viper.GetString("key-file"),
		ImpersonateSA:  viper.GetString("impersonate-service-account"),
		ServiceAccount: viper.GetString("service-account"),
		PoolID:         viper.GetString("pool-id"),
		ProviderID:     viper.GetString("provider-id"),
		TerraformDir:   viper.GetString("terraform-dir"),
		HelmDir:        viper.GetString("helm-dir"),
		Release:        viper.GetString("release"),
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if owner, name, ok := splitRepo(c.GitHubRepo); !ok || owner == "" || name == "" {
		return fmt.Errorf("invalid github-repo: %q (must be owner/name)", c.GitHubRepo)
	}

	if c.KeyFile == "" {
		return fmt.Errorf("key-file must not be empty")
	}

	if c.ServiceAccount == "" {
		return fmt.Errorf("service-account must not be empty")
	}

	if c.PoolID == "" || c.ProviderID == "" {
		return fmt.Errorf("pool-id and provider-id must not be empty")
	}

	if c.TerraformDir == "" || c.HelmDir == "" {
		return fmt.Errorf("terraform-dir and helm-dir must not be empty")
	}

	return nil
}

// RepoOwnerName splits GitHubRepo into its owner and name parts.
func (c *Config) RepoOwnerName() (owner, name string) {
	owner, name, _ = splitRepo(c.GitHubRepo)
	return owner, name
}

func splitRepo(repo string) (owner, name string, ok bool) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
