package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/orgpolicy/v2"
)

const keyCreationConstraint = "iam.disableServiceAccountKeyCreation"

// ResetKeyCreationPolicy resets the org policy that blocks service
// account key creation, restoring the inherited default. Callers treat
// failure as a warning; the subsequent key-creation attempt decides
// whether the WIF fallback is needed.
func (c *Client) ResetKeyCreationPolicy(ctx context.Context, projectID string) error {
	name := fmt.Sprintf("projects/%s/policies/%s", projectID, keyCreationConstraint)
	policy := &orgpolicy.GoogleCloudOrgpolicyV2Policy{
		Name: name,
		Spec: &orgpolicy.GoogleCloudOrgpolicyV2PolicySpec{Reset: true},
	}

	_, err := c.orgpolicy.Projects.Policies.Create("projects/"+projectID, policy).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !IsAlreadyExists(err) {
		return fmt.Errorf("failed to reset %s on %s: %w", keyCreationConstraint, projectID, err)
	}

	_, err = c.orgpolicy.Projects.Policies.Patch(name, policy).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to reset %s on %s: %w", keyCreationConstraint, projectID, err)
	}
	return nil
}
