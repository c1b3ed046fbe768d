package gcp

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/cloudresourcemanager/v1"
)

const (
	maxTries  = 30
	pollDelay = 2 * time.Second
)

// ProjectExists reports whether the project is visible to the caller.
// Both 404 and 403 count as absent: a project id that exists in someone
// else's org cannot be used here anyway.
func (c *Client) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	_, err := c.crm.Projects.Get(projectID).Context(ctx).Do()
	if err != nil {
		if IsNotFound(err) || IsForbidden(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	return true, nil
}

// CreateProject creates the project and waits for it to become visible.
func (c *Client) CreateProject(ctx context.Context, projectID, displayName string) error {
	_, err := c.crm.Projects.Create(&cloudresourcemanager.Project{
		ProjectId: projectID,
		Name:      displayName,
	}).Context(ctx).Do()
	if err != nil {
		if IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("failed to create project %s: %w", projectID, err)
	}

	// Creation is a long-running operation; poll the resource itself
	// until it is active rather than tracking the operation.
	for i := 1; i <= maxTries; i++ {
		p, err := c.crm.Projects.Get(projectID).Context(ctx).Do()
		if err == nil && p.LifecycleState == "ACTIVE" {
			return nil
		}
		if err != nil && !IsNotFound(err) && !IsForbidden(err) {
			return fmt.Errorf("failed waiting for project %s: %w", projectID, err)
		}
		time.Sleep(pollDelay)
	}
	return fmt.Errorf("project %s not active after %d checks", projectID, maxTries)
}

// ProjectNumber returns the numeric id used in WIF member names.
func (c *Client) ProjectNumber(ctx context.Context, projectID string) (int64, error) {
	p, err := c.crm.Projects.Get(projectID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get project number for %s: %w", projectID, err)
	}
	return p.ProjectNumber, nil
}

// VerifyAccess performs a read-only project lookup and returns the
// project display name. Deploy uses this to prove the resolved
// credentials can reach the project before running any tooling.
func (c *Client) VerifyAccess(ctx context.Context, projectID string) (string, error) {
	p, err := c.crm.Projects.Get(projectID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("cannot access project %s with the resolved credentials: %w", projectID, err)
	}
	return p.Name, nil
}

// GrantProjectRole adds member to role on the project IAM policy.
// Adding an existing binding is a no-op.
func (c *Client) GrantProjectRole(ctx context.Context, projectID, member, role string) error {
	policy, err := c.crm.Projects.GetIamPolicy(projectID, &cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read IAM policy of %s: %w", projectID, err)
	}

	var binding *cloudresourcemanager.Binding
	for _, b := range policy.Bindings {
		if b.Role == role {
			binding = b
			break
		}
	}
	if binding == nil {
		binding = &cloudresourcemanager.Binding{Role: role}
		policy.Bindings = append(policy.Bindings, binding)
	}
	for _, m := range binding.Members {
		if m == member {
			return nil
		}
	}
	binding.Members = append(binding.Members, member)

	_, err = c.crm.Projects.SetIamPolicy(projectID, &cloudresourcemanager.SetIamPolicyRequest{
		Policy: policy,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to grant %s to %s on %s: %w", role, member, projectID, err)
	}
	return nil
}
