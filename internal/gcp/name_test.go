package gcp

import (
	"strings"
	"testing"
)

func TestRandomProjectID(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		id := RandomProjectID()

		if !strings.HasPrefix(id, ProjectIDPrefix+"-") {
			t.Fatalf("RandomProjectID() = %q, want prefix %q", id, ProjectIDPrefix+"-")
		}

		suffix := strings.TrimPrefix(id, ProjectIDPrefix+"-")
		if len(suffix) != 6 {
			t.Fatalf("suffix %q has length %d, want 6", suffix, len(suffix))
		}
		for _, r := range suffix {
			if !strings.ContainsRune(suffixChars, r) {
				t.Fatalf("suffix %q contains invalid character %q", suffix, r)
			}
		}

		seen[id] = true
	}

	if len(seen) < 2 {
		t.Error("RandomProjectID() produced the same id 100 times")
	}
}

func TestServiceAccountEmail(t *testing.T) {
	got := ServiceAccountEmail("deployer", "min-cicd-sample-abc123")
	want := "deployer@min-cicd-sample-abc123.iam.gserviceaccount.com"
	if got != want {
		t.Errorf("ServiceAccountEmail() = %q, want %q", got, want)
	}
}

func TestWIFMember(t *testing.T) {
	got := WIFMember(123456789, "github-pool", "krisrowe/minimal-cicd-sample")
	want := "principalSet://iam.googleapis.com/projects/123456789/locations/global/workloadIdentityPools/github-pool/attribute.repository/krisrowe/minimal-cicd-sample"
	if got != want {
		t.Errorf("WIFMember() = %q, want %q", got, want)
	}
}

func TestResourceNames(t *testing.T) {
	if got, want := poolResource("p1", "github-pool"),
		"projects/p1/locations/global/workloadIdentityPools/github-pool"; got != want {
		t.Errorf("poolResource() = %q, want %q", got, want)
	}

	if got, want := providerResource("p1", "github-pool", "github-provider"),
		"projects/p1/locations/global/workloadIdentityPools/github-pool/providers/github-provider"; got != want {
		t.Errorf("providerResource() = %q, want %q", got, want)
	}

	if got, want := serviceAccountResource("p1", "deployer@p1.iam.gserviceaccount.com"),
		"projects/p1/serviceAccounts/deployer@p1.iam.gserviceaccount.com"; got != want {
		t.Errorf("serviceAccountResource() = %q, want %q", got, want)
	}
}
