package checker

import (
	"context"
	"fmt"

	"google.golang.org/api/apigee/v1"
	"google.golang.org/api/option"

	"github.com/krisrowe/minimal-cicd-sample/internal/gcp"
)

// ProbeOutcome classifies the Apigee organization probe.
type ProbeOutcome int

const (
	// ProbeFound means the organization exists and responded.
	ProbeFound ProbeOutcome = iota
	// ProbeSkipped means the org is absent or unreadable (not
	// provisioned yet); this is success, not failure.
	ProbeSkipped
	// ProbeError means the API failed for some other reason.
	ProbeError
)

// ProbeResult is the outcome of one Apigee probe.
type ProbeResult struct {
	Outcome ProbeOutcome
	// Detail is the org name when found, or the skip/error reason.
	Detail string
}

// ProbeApigee looks up the Apigee organization named after the project.
// Absence (404) and lack of access (403) downgrade to a skip.
func ProbeApigee(ctx context.Context, projectID string, opts ...option.ClientOption) *ProbeResult {
	svc, err := apigee.NewService(ctx, opts...)
	if err != nil {
		return &ProbeResult{Outcome: ProbeError, Detail: fmt.Sprintf("failed to create apigee client: %v", err)}
	}

	org, err := svc.Organizations.Get("organizations/" + projectID).Context(ctx).Do()
	if err != nil {
		return classifyProbeErr(err)
	}

	name := org.Name
	if name == "" {
		name = projectID
	}
	return &ProbeResult{Outcome: ProbeFound, Detail: name}
}

func classifyProbeErr(err error) *ProbeResult {
	switch {
	case gcp.IsNotFound(err):
		return &ProbeResult{
			Outcome: ProbeSkipped,
			Detail:  "no Apigee org found for this project (not yet provisioned)",
		}
	case gcp.IsForbidden(err):
		return &ProbeResult{
			Outcome: ProbeSkipped,
			Detail:  "Apigee API not accessible with these credentials",
		}
	default:
		return &ProbeResult{Outcome: ProbeError, Detail: err.Error()}
	}
}
