package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudbilling/v1"
)

// LinkBilling attaches the billing account to the project. Linking an
// already-linked account is accepted by the API, so re-runs are safe.
func (c *Client) LinkBilling(ctx context.Context, projectID, billingAccount string) error {
	_, err := c.billing.Projects.UpdateBillingInfo("projects/"+projectID, &cloudbilling.ProjectBillingInfo{
		BillingAccountName: "billingAccounts/" + billingAccount,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to link billing account %s to %s: %w", billingAccount, projectID, err)
	}
	return nil
}
