package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/iam/v1"
)

// GitHubIssuerURI is the OIDC issuer for GitHub Actions tokens.
const GitHubIssuerURI = "https://token.actions.githubusercontent.com"

// EnsurePool creates the workload identity pool if absent and reports
// whether this run created it.
func (c *Client) EnsurePool(ctx context.Context, projectID, poolID, displayName string) (created bool, err error) {
	_, err = c.iam.Projects.Locations.WorkloadIdentityPools.Get(poolResource(projectID, poolID)).Context(ctx).Do()
	if err == nil {
		return false, nil
	}
	if !IsNotFound(err) {
		return false, fmt.Errorf("failed to look up identity pool %s: %w", poolID, err)
	}

	_, err = c.iam.Projects.Locations.WorkloadIdentityPools.Create(
		fmt.Sprintf("projects/%s/locations/global", projectID),
		&iam.WorkloadIdentityPool{DisplayName: displayName},
	).WorkloadIdentityPoolId(poolID).Context(ctx).Do()
	if err != nil {
		if IsAlreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create identity pool %s: %w", poolID, err)
	}
	return true, nil
}

// EnsureProvider creates the OIDC provider inside the pool if absent.
// The attribute condition pins token exchange to the given repository.
func (c *Client) EnsureProvider(ctx context.Context, projectID, poolID, providerID, repo string) (created bool, err error) {
	_, err = c.iam.Projects.Locations.WorkloadIdentityPools.Providers.Get(
		providerResource(projectID, poolID, providerID)).Context(ctx).Do()
	if err == nil {
		return false, nil
	}
	if !IsNotFound(err) {
		return false, fmt.Errorf("failed to look up identity provider %s: %w", providerID, err)
	}

	_, err = c.iam.Projects.Locations.WorkloadIdentityPools.Providers.Create(
		poolResource(projectID, poolID),
		&iam.WorkloadIdentityPoolProvider{
			DisplayName: "GitHub Actions",
			Oidc:        &iam.Oidc{IssuerUri: GitHubIssuerURI},
			AttributeMapping: map[string]string{
				"google.subject":       "assertion.sub",
				"attribute.repository": "assertion.repository",
			},
			AttributeCondition: fmt.Sprintf("attribute.repository==%q", repo),
		},
	).WorkloadIdentityPoolProviderId(providerID).Context(ctx).Do()
	if err != nil {
		if IsAlreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create identity provider %s: %w", providerID, err)
	}
	return true, nil
}

// ProviderResourceName returns the full provider name as published to
// CI (the value google-github-actions/auth expects).
func (c *Client) ProviderResourceName(ctx context.Context, projectID, poolID, providerID string) (string, error) {
	p, err := c.iam.Projects.Locations.WorkloadIdentityPools.Providers.Get(
		providerResource(projectID, poolID, providerID)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to resolve identity provider %s: %w", providerID, err)
	}
	return p.Name, nil
}
