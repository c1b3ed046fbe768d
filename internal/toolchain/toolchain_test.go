package toolchain

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTerraformArgs(t *testing.T) {
	init := terraformInitArgs("terraform")
	if got, want := strings.Join(init, " "), "-chdir=terraform init"; got != want {
		t.Errorf("terraformInitArgs() = %q, want %q", got, want)
	}

	plan := terraformPlanArgs("terraform", "min-cicd-sample-abc123")
	if got, want := strings.Join(plan, " "), "-chdir=terraform plan -var project_id=min-cicd-sample-abc123"; got != want {
		t.Errorf("terraformPlanArgs() = %q, want %q", got, want)
	}

	// Plan-only: apply must never appear.
	for _, a := range plan {
		if a == "apply" {
			t.Error("plan args must not contain apply")
		}
	}
}

func TestHelmTemplateArgs(t *testing.T) {
	args := helmTemplateArgs("minimal-demo", "helm", "min-cicd-sample-abc123")
	want := "template minimal-demo helm --set projectId=min-cicd-sample-abc123"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("helmTemplateArgs() = %q, want %q", got, want)
	}
}

func TestRunEchoesCommand(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{stdout: &out, stderr: &out}

	if err := r.run(context.Background(), "true"); err != nil {
		t.Fatalf("run(true) error = %v", err)
	}
	if !strings.Contains(out.String(), "$ true") {
		t.Errorf("run did not echo the command, output: %q", out.String())
	}
}

func TestRunSurfacesFailure(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{stdout: &out, stderr: &out}

	err := r.run(context.Background(), "false", "--flag")
	if err == nil {
		t.Fatal("run(false) should fail")
	}
	if !strings.Contains(err.Error(), "false --flag failed") {
		t.Errorf("error = %v, want the failing tool surfaced", err)
	}
}
