package gcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/iam/v1"
)

// EnsureServiceAccount creates the deployer identity if it does not
// exist. It returns the account email and whether it was created now.
func (c *Client) EnsureServiceAccount(ctx context.Context, projectID, name, displayName string) (email string, created bool, err error) {
	email = ServiceAccountEmail(name, projectID)

	_, err = c.iam.Projects.ServiceAccounts.Get(serviceAccountResource(projectID, email)).Context(ctx).Do()
	if err == nil {
		return email, false, nil
	}
	if !IsNotFound(err) {
		return "", false, fmt.Errorf("failed to look up service account %s: %w", email, err)
	}

	_, err = c.iam.Projects.ServiceAccounts.Create("projects/"+projectID, &iam.CreateServiceAccountRequest{
		AccountId: name,
		ServiceAccount: &iam.ServiceAccount{
			DisplayName: displayName,
		},
	}).Context(ctx).Do()
	if err != nil {
		if IsAlreadyExists(err) {
			return email, false, nil
		}
		return "", false, fmt.Errorf("failed to create service account %s: %w", name, err)
	}
	return email, true, nil
}

// CreateServiceAccountKey mints a new key and returns the decoded JSON
// credential. Org policy may forbid this; callers fall back to WIF when
// it does.
func (c *Client) CreateServiceAccountKey(ctx context.Context, projectID, email string) ([]byte, error) {
	key, err := c.iam.Projects.ServiceAccounts.Keys.Create(
		serviceAccountResource(projectID, email),
		&iam.CreateServiceAccountKeyRequest{},
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create key for %s: %w", email, err)
	}

	data, err := base64.StdEncoding.DecodeString(key.PrivateKeyData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key material for %s: %w", email, err)
	}
	return data, nil
}

// GrantImpersonation lets member mint tokens for the service account
// (roles/iam.workloadIdentityUser). Existing grants are left untouched.
func (c *Client) GrantImpersonation(ctx context.Context, projectID, email, member string) error {
	resource := serviceAccountResource(projectID, email)

	policy, err := c.iam.Projects.ServiceAccounts.GetIamPolicy(resource).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read IAM policy of %s: %w", email, err)
	}

	const role = "roles/iam.workloadIdentityUser"
	var binding *iam.Binding
	for _, b := range policy.Bindings {
		if b.Role == role {
			binding = b
			break
		}
	}
	if binding == nil {
		binding = &iam.Binding{Role: role}
		policy.Bindings = append(policy.Bindings, binding)
	}
	for _, m := range binding.Members {
		if m == member {
			return nil
		}
	}
	binding.Members = append(binding.Members, member)

	_, err = c.iam.Projects.ServiceAccounts.SetIamPolicy(resource, &iam.SetIamPolicyRequest{
		Policy: policy,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to grant impersonation on %s: %w", email, err)
	}
	return nil
}
