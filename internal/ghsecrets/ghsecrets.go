// Package ghsecrets publishes named secrets to a repository's GitHub
// Actions secret store. Values are sealed client-side against the
// repository public key; GitHub never sees plaintext in transit beyond
// TLS and this process never persists them.
package ghsecrets

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/go-github/v29/github"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/oauth2"
)

// Client publishes Actions secrets to one repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// New builds a Client from a personal access token and an owner/name pair.
func New(ctx context.Context, token, owner, repo string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("a GitHub token is required to publish CI secrets (set GITHUB_TOKEN or GH_TOKEN)")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewWithClient(github.NewClient(oauth2.NewClient(ctx, ts)), owner, repo), nil
}

// NewWithClient wraps an existing GitHub client; used by tests.
func NewWithClient(gh *github.Client, owner, repo string) *Client {
	return &Client{gh: gh, owner: owner, repo: repo}
}

// Set creates or updates one repository secret.
func (c *Client) Set(ctx context.Context, name, value string) error {
	key, _, err := c.gh.Actions.GetPublicKey(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("failed to fetch repo public key for %s/%s: %w", c.owner, c.repo, err)
	}

	sealed, err := seal(key.GetKey(), value)
	if err != nil {
		return fmt.Errorf("failed to seal secret %s: %w", name, err)
	}

	_, err = c.gh.Actions.CreateOrUpdateSecret(ctx, c.owner, c.repo, &github.EncryptedSecret{
		Name:           name,
		KeyID:          key.GetKeyID(),
		EncryptedValue: sealed,
	})
	if err != nil {
		return fmt.Errorf("failed to set secret %s on %s/%s: %w", name, c.owner, c.repo, err)
	}
	return nil
}

// seal encrypts value for the base64-encoded NaCl public key, returning
// the base64 ciphertext the secrets API expects.
func seal(publicKey, value string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return "", fmt.Errorf("public key is not valid base64: %w", err)
	}
	if len(decoded) != 32 {
		return "", fmt.Errorf("public key has %d bytes, want 32", len(decoded))
	}

	var key [32]byte
	copy(key[:], decoded)

	sealed, err := box.SealAnonymous(nil, []byte(value), &key, rand.Reader)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
