// Package checker performs structural sanity checks on the declared
// configuration and an optional, non-destructive probe of the Apigee
// API. It never mutates anything.
package checker

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ValidationResult accumulates structural check failures.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// chartManifest is the subset of Chart.yaml we validate.
type chartManifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// CheckStructure validates that the repository carries the declarative
// surface deploy depends on: a terraform directory with at least one
// .tf file and a helm chart with a well-formed Chart.yaml.
func CheckStructure(root, terraformDir, helmDir string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	tfDir := filepath.Join(root, terraformDir)
	if !isDir(tfDir) {
		result.addError("%s/ missing", terraformDir)
	} else {
		matches, err := filepath.Glob(filepath.Join(tfDir, "*.tf"))
		if err != nil || len(matches) == 0 {
			result.addError("%s/ contains no .tf files", terraformDir)
		}
	}

	chartDir := filepath.Join(root, helmDir)
	if !isDir(chartDir) {
		result.addError("%s/ missing", helmDir)
	} else {
		checkChart(filepath.Join(chartDir, "Chart.yaml"), result)
	}

	return result
}

func checkChart(path string, result *ValidationResult) {
	data, err := os.ReadFile(path)
	if err != nil {
		result.addError("Chart.yaml missing: %v", err)
		return
	}

	var chart chartManifest
	if err := yaml.Unmarshal(data, &chart); err != nil {
		result.addError("Chart.yaml is not valid YAML: %v", err)
		return
	}
	if chart.Name == "" {
		result.addError("Chart.yaml has no name")
	}
	if chart.Version == "" {
		result.addError("Chart.yaml has no version")
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
