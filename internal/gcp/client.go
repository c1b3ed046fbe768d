// Package gcp wraps the handful of Google Cloud control-plane APIs the
// init and deploy commands touch: Resource Manager for projects and
// project IAM, Cloud Billing for account linking, Service Usage for API
// enablement, IAM for service accounts and Workload Identity Federation,
// and Org Policy for the best-effort key-creation policy reset.
//
// Every mutating call is describe-before-create so re-runs are idempotent.
package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/orgpolicy/v2"
	"google.golang.org/api/serviceusage/v1"
)

// Client bundles the per-API services behind one construction point.
type Client struct {
	crm       *cloudresourcemanager.Service
	billing   *cloudbilling.APIService
	usage     *serviceusage.Service
	iam       *iam.Service
	orgpolicy *orgpolicy.Service
}

// New builds a Client from the given credential options. With no options
// the clients fall back to Application Default Credentials.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	crm, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager client: %w", err)
	}

	billing, err := cloudbilling.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create billing client: %w", err)
	}

	usage, err := serviceusage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service usage client: %w", err)
	}

	iamSvc, err := iam.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create iam client: %w", err)
	}

	orgSvc, err := orgpolicy.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create org policy client: %w", err)
	}

	return &Client{
		crm:       crm,
		billing:   billing,
		usage:     usage,
		iam:       iamSvc,
		orgpolicy: orgSvc,
	}, nil
}
