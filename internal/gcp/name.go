package gcp

import (
	"fmt"
	"math/rand"
)

// ProjectIDPrefix seeds generated project ids.
const ProjectIDPrefix = "min-cicd-sample"

const suffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomProjectID generates a project id with a 6-character random suffix,
// unique enough to avoid collisions across demo setups.
func RandomProjectID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = suffixChars[rand.Intn(len(suffixChars))]
	}
	return fmt.Sprintf("%s-%s", ProjectIDPrefix, suffix)
}

// ServiceAccountEmail returns the email of a service account by name.
func ServiceAccountEmail(name, projectID string) string {
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", name, projectID)
}

// WIFMember returns the principalSet member granting every workflow run
// of the given repository access through the identity pool.
func WIFMember(projectNumber int64, poolID, repo string) string {
	return fmt.Sprintf(
		"principalSet://iam.googleapis.com/projects/%d/locations/global/workloadIdentityPools/%s/attribute.repository/%s",
		projectNumber, poolID, repo)
}

func poolResource(projectID, poolID string) string {
	return fmt.Sprintf("projects/%s/locations/global/workloadIdentityPools/%s", projectID, poolID)
}

func providerResource(projectID, poolID, providerID string) string {
	return fmt.Sprintf("%s/providers/%s", poolResource(projectID, poolID), providerID)
}

func serviceAccountResource(projectID, email string) string {
	return fmt.Sprintf("projects/%s/serviceAccounts/%s", projectID, email)
}
