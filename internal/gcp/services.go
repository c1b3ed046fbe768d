package gcp

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/serviceusage/v1"
)

// RequiredAPIs is the fixed list enabled on the demo project.
var RequiredAPIs = []string{
	"cloudresourcemanager.googleapis.com",
	"iamcredentials.googleapis.com",
	"orgpolicy.googleapis.com",
	"compute.googleapis.com",
	"apigee.googleapis.com",
}

// EnableAPIs batch-enables the given services and waits for the
// enablement operation to finish. Enabling an enabled service is a no-op.
func (c *Client) EnableAPIs(ctx context.Context, projectID string, apis []string) error {
	op, err := c.usage.Services.BatchEnable("projects/"+projectID, &serviceusage.BatchEnableServicesRequest{
		ServiceIds: apis,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to enable APIs on %s: %w", projectID, err)
	}

	for i := 1; i <= maxTries && !op.Done; i++ {
		time.Sleep(pollDelay)
		op, err = c.usage.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed waiting for API enablement on %s: %w", projectID, err)
		}
	}
	if !op.Done {
		return fmt.Errorf("API enablement on %s not done after %d checks", projectID, maxTries)
	}
	if op.Error != nil {
		return fmt.Errorf("API enablement on %s failed: %s", projectID, op.Error.Message)
	}
	return nil
}
