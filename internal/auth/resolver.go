// Package auth resolves which Google credential source the current
// environment provides and turns it into client options for the API
// clients plus environment variables for the terraform subprocess.
//
// Resolution precedence:
//  1. Local key file (sa-key.json)
//  2. GCP_SA_KEY env var holding the key JSON (CI key mode)
//  3. GCP_SA_EMAIL impersonation over Application Default Credentials
//  4. Ambient ADC (WIF in CI, or gcloud auth application-default login)
//
// At most one mode is active per resolution.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"

	"github.com/krisrowe/minimal-cicd-sample/internal/config"
)

// Mode identifies the selected credential source.
type Mode int

const (
	ModeKeyFile Mode = iota
	ModeEnvKey
	ModeImpersonate
	ModeAmbient
)

func (m Mode) String() string {
	switch m {
	case ModeKeyFile:
		return "local key file"
	case ModeEnvKey:
		return "GCP_SA_KEY env var (key file mode)"
	case ModeImpersonate:
		return "ADC + service account impersonation"
	case ModeAmbient:
		return "ambient credentials (WIF or ADC)"
	default:
		return "unknown"
	}
}

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Credentials is a resolved credential source. Close releases any
// temporary key material it wrote.
type Credentials struct {
	Mode      Mode
	ProjectID string

	// ServiceAccount is the impersonation target in ModeImpersonate.
	ServiceAccount string

	keyPath string
	tempKey bool
	opts    []option.ClientOption
}

// keyFileProject is the subset of the service-account JSON we read.
type keyFileProject struct {
	ProjectID string `json:"project_id"`
}

// Resolve picks the credential source for this environment. It fails
// only when no source is usable, including ambient ADC discovery.
func Resolve(ctx context.Context, cfg *config.Config) (*Credentials, error) {
	creds := &Credentials{ProjectID: cfg.Project}

	switch {
	case fileExists(cfg.KeyFile):
		abs, err := filepath.Abs(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve key file path: %w", err)
		}
		projectID, err := ReadKeyProject(abs)
		if err != nil {
			return nil, err
		}
		creds.Mode = ModeKeyFile
		creds.keyPath = abs
		creds.opts = []option.ClientOption{option.WithCredentialsFile(abs)}
		if creds.ProjectID == "" {
			creds.ProjectID = projectID
		}

	case os.Getenv("GCP_SA_KEY") != "":
		raw := []byte(os.Getenv("GCP_SA_KEY"))
		var key keyFileProject
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("GCP_SA_KEY is not valid key JSON: %w", err)
		}
		tmp, err := os.CreateTemp("", "sa-key-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to write temp key file: %w", err)
		}
		if _, err := tmp.Write(raw); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("failed to write temp key file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("failed to write temp key file: %w", err)
		}
		creds.Mode = ModeEnvKey
		creds.keyPath = tmp.Name()
		creds.tempKey = true
		creds.opts = []option.ClientOption{option.WithCredentialsFile(tmp.Name())}
		if creds.ProjectID == "" {
			creds.ProjectID = key.ProjectID
		}

	case cfg.ImpersonateSA != "":
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: cfg.ImpersonateSA,
			Scopes:          []string{cloudPlatformScope},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to impersonate %s: %w", cfg.ImpersonateSA, err)
		}
		creds.Mode = ModeImpersonate
		creds.ServiceAccount = cfg.ImpersonateSA
		creds.opts = []option.ClientOption{option.WithTokenSource(ts)}

	default:
		// WIF in CI has already populated ADC; locally this needs
		// gcloud auth application-default login.
		if _, err := google.FindDefaultCredentials(ctx, cloudPlatformScope); err != nil {
			return nil, fmt.Errorf("no usable credentials: no key file, no GCP_SA_KEY, no GCP_SA_EMAIL, and ADC discovery failed: %w", err)
		}
		creds.Mode = ModeAmbient
	}

	return creds, nil
}

// ClientOptions returns the options API clients should be built with.
func (c *Credentials) ClientOptions() []option.ClientOption {
	return c.opts
}

// Env returns the environment additions terraform and helm subprocesses
// need to see the same credentials and project.
func (c *Credentials) Env() []string {
	var env []string
	if c.keyPath != "" {
		env = append(env, "GOOGLE_APPLICATION_CREDENTIALS="+c.keyPath)
	}
	if c.ServiceAccount != "" {
		env = append(env, "GOOGLE_IMPERSONATE_SERVICE_ACCOUNT="+c.ServiceAccount)
	}
	if c.ProjectID != "" {
		env = append(env,
			"GCP_PROJECT_ID="+c.ProjectID,
			"GOOGLE_PROJECT="+c.ProjectID,
		)
	}
	return env
}

// Close removes the temp key file written in ModeEnvKey.
func (c *Credentials) Close() {
	if c.tempKey && c.keyPath != "" {
		os.Remove(c.keyPath)
		c.keyPath = ""
	}
}

// ReadKeyProject extracts project_id from a service-account key file.
func ReadKeyProject(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file %s: %w", path, err)
	}
	var key keyFileProject
	if err := json.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("failed to parse key file %s: %w", path, err)
	}
	return key.ProjectID, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
