// Package sample is a minimal demonstration of a CI/CD
// pipeline that validates Terraform and Helm configuration against a
// real GCP project using keyless federated authentication.
//
// # Overview
//
// The repository provides:
//   - cicd CLI with init, deploy, and check commands
//   - Terraform provider config with one read-only data lookup
//   - Helm chart skeleton rendered client-side
//   - GitHub Actions workflow consuming the secrets init publishes
//
// # Installation
//
//	go install github.com/krisrowe/minimal-cicd-sample/cmd/cicd@latest
//
// # Quick Start
//
//	cicd init --billing-account <BILLING_ID>
//	cicd deploy
//	cicd check
//
// # Credentials
//
// init tries to export a service-account key (simplest). When org
// policy blocks key creation it falls back to Workload Identity
// Federation and publishes WIF_PROVIDER, WIF_SA_EMAIL, and
// GCP_PROJECT_ID as repository secrets instead of a key. deploy
// resolves whichever source the environment provides: local key file,
// GCP_SA_KEY, GCP_SA_EMAIL impersonation, or ambient ADC.
//
// # Non-goals
//
// It does not manage a Kubernetes cluster, does not provision an Apigee
// organization, does not create infrastructure beyond the demo project
// and service account, and does not run application workloads.
package sample
