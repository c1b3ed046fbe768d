package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/krisrowe/minimal-cicd-sample/internal/config"
	"github.com/krisrowe/minimal-cicd-sample/internal/gcp"
)

func TestResolveProjectID(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "sa-key.json")
	keyJSON := `{"type": "service_account", "project_id": "from-key-file"}`
	if err := os.WriteFile(keyFile, []byte(keyJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		project string
		keyFile string
		want    string
	}{
		{
			name:    "positional argument wins",
			args:    []string{"from-arg"},
			project: "from-env",
			keyFile: keyFile,
			want:    "from-arg",
		},
		{
			name:    "flag or env wins over key file",
			project: "from-env",
			keyFile: keyFile,
			want:    "from-env",
		},
		{
			name:    "key file used when nothing explicit",
			keyFile: keyFile,
			want:    "from-key-file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Project: tt.project, KeyFile: tt.keyFile}
			if got := resolveProjectID(tt.args, cfg); got != tt.want {
				t.Errorf("resolveProjectID() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("generated as last resort", func(t *testing.T) {
		cfg := &config.Config{KeyFile: filepath.Join(dir, "absent.json")}
		got := resolveProjectID(nil, cfg)
		if !strings.HasPrefix(got, gcp.ProjectIDPrefix+"-") {
			t.Errorf("resolveProjectID() = %q, want generated id with prefix %q", got, gcp.ProjectIDPrefix)
		}
	})
}

// fakeResourceManager serves the two cloudresourcemanager endpoints
// ensureProject touches and records every mutating request.
func fakeResourceManager(t *testing.T, projectID string, exists bool) (*gcp.Client, *[]string) {
	t.Helper()

	var mutations []string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/"+projectID, func(w http.ResponseWriter, r *http.Request) {
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 404, "message": "project not found", "status": "NOT_FOUND"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"projectId":      projectID,
			"projectNumber":  "123456789",
			"name":           "Minimal CICD Demo",
			"lifecycleState": "ACTIVE",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mutations = append(mutations, r.Method+" "+r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 404, "message": "not found", "status": "NOT_FOUND"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := gcp.New(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("gcp.New() error = %v", err)
	}
	return client, &mutations
}

func TestEnsureProjectRequiresBillingOnCreate(t *testing.T) {
	const projectID = "min-cicd-sample-abc123"
	client, mutations := fakeResourceManager(t, projectID, false)

	cfg := &config.Config{} // no billing account
	err := ensureProject(context.Background(), client, projectID, cfg)
	if err == nil {
		t.Fatal("ensureProject() without a billing account should fail for a new project")
	}
	if !strings.Contains(err.Error(), "--billing-account") {
		t.Errorf("error = %v, want the usage hint surfaced", err)
	}
	if len(*mutations) != 0 {
		t.Errorf("usage error must precede any mutation, got %v", *mutations)
	}
}

func TestEnsureProjectIdempotentWithoutBilling(t *testing.T) {
	const projectID = "min-cicd-sample-abc123"
	client, mutations := fakeResourceManager(t, projectID, true)

	cfg := &config.Config{} // re-run: no billing account needed
	if err := ensureProject(context.Background(), client, projectID, cfg); err != nil {
		t.Fatalf("ensureProject() on an existing project error = %v", err)
	}
	if len(*mutations) != 0 {
		t.Errorf("re-run against an existing project must create nothing, got %v", *mutations)
	}
}
