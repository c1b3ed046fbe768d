// Package toolchain drives the external terraform and helm binaries.
// Both invocations are validation-only: terraform never applies and
// helm renders client-side without contacting a cluster.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external tools with extra environment on top of the
// parent process environment, streaming output to the user.
type Runner struct {
	env    []string
	stdout io.Writer
	stderr io.Writer
}

// New returns a Runner that layers env over os.Environ.
func New(env []string) *Runner {
	return &Runner{
		env:    env,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// TerraformInit prepares the working directory (providers, modules).
func (r *Runner) TerraformInit(ctx context.Context, dir string) error {
	return r.run(ctx, "terraform", terraformInitArgs(dir)...)
}

// TerraformPlan previews changes without mutating remote state.
func (r *Runner) TerraformPlan(ctx context.Context, dir, projectID string) error {
	return r.run(ctx, "terraform", terraformPlanArgs(dir, projectID)...)
}

// HelmTemplate renders the chart locally, no cluster needed.
func (r *Runner) HelmTemplate(ctx context.Context, release, chartDir, projectID string) error {
	return r.run(ctx, "helm", helmTemplateArgs(release, chartDir, projectID)...)
}

func (r *Runner) run(ctx context.Context, name string, args ...string) error {
	fmt.Fprintf(r.stdout, "  $ %s %s\n", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(cmd.Environ(), r.env...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		label := name
		if len(args) > 0 {
			label = name + " " + args[0]
		}
		return fmt.Errorf("%s failed: %w", label, err)
	}
	return nil
}

func terraformInitArgs(dir string) []string {
	return []string{"-chdir=" + dir, "init"}
}

func terraformPlanArgs(dir, projectID string) []string {
	return []string{"-chdir=" + dir, "plan", "-var", "project_id=" + projectID}
}

func helmTemplateArgs(release, chartDir, projectID string) []string {
	return []string{"template", release, chartDir, "--set", "projectId=" + projectID}
}
