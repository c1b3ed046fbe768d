package checker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validChart = "name: minimal-demo\nversion: 0.1.0\n"

func writeLayout(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		valid     bool
		errSubstr string
	}{
		{
			name: "complete layout",
			files: map[string]string{
				"terraform/main.tf": "provider \"google\" {}\n",
				"helm/Chart.yaml":   validChart,
			},
			valid: true,
		},
		{
			name: "terraform dir missing",
			files: map[string]string{
				"helm/Chart.yaml": validChart,
			},
			valid:     false,
			errSubstr: "terraform/ missing",
		},
		{
			name: "no tf files",
			files: map[string]string{
				"terraform/README.md": "empty",
				"helm/Chart.yaml":     validChart,
			},
			valid:     false,
			errSubstr: "no .tf files",
		},
		{
			name: "helm dir missing",
			files: map[string]string{
				"terraform/main.tf": "provider \"google\" {}\n",
			},
			valid:     false,
			errSubstr: "helm/ missing",
		},
		{
			name: "chart manifest missing",
			files: map[string]string{
				"terraform/main.tf": "provider \"google\" {}\n",
				"helm/values.yaml":  "projectId: \"\"\n",
			},
			valid:     false,
			errSubstr: "Chart.yaml missing",
		},
		{
			name: "chart manifest malformed",
			files: map[string]string{
				"terraform/main.tf": "provider \"google\" {}\n",
				"helm/Chart.yaml":   "name: [unclosed\n",
			},
			valid:     false,
			errSubstr: "not valid YAML",
		},
		{
			name: "chart missing version",
			files: map[string]string{
				"terraform/main.tf": "provider \"google\" {}\n",
				"helm/Chart.yaml":   "name: minimal-demo\n",
			},
			valid:     false,
			errSubstr: "no version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeLayout(t, tt.files)

			result := CheckStructure(root, "terraform", "helm")
			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.errSubstr == "" {
				return
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.errSubstr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v missing %q", result.Errors, tt.errSubstr)
			}
		})
	}
}
