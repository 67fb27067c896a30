package workspace

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// defaultTokenUser is sent when a token has no username of its own. GitHub,
// GitLab and Bitbucket accept it.
const defaultTokenUser = "x-token-auth"

// CredentialSource resolves the username and access token for a clone URL.
// An empty token means anonymous access.
type CredentialSource func(url string) (username, token string)

// GitCloner clones repositories with go-git.
type GitCloner struct {
	// Depth limits history; 0 fetches the full history.
	Depth       int
	Credentials CredentialSource
}

// NewGitCloner creates a GitCloner with the given history depth.
func NewGitCloner(depth int, creds CredentialSource) *GitCloner {
	return &GitCloner{Depth: depth, Credentials: creds}
}

// Clone clones url into dir, which must not exist or be empty.
func (c *GitCloner) Clone(ctx context.Context, url, dir string) error {
	opts := &git.CloneOptions{
		URL:          url,
		Depth:        c.Depth,
		SingleBranch: true,
		Tags:         git.NoTags,
	}

	if auth := basicAuth(c.Credentials, url); auth != nil {
		opts.Auth = auth
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}

func basicAuth(creds CredentialSource, url string) *http.BasicAuth {
	if creds == nil {
		return nil
	}
	username, token := creds(url)
	if token == "" {
		return nil
	}
	if username == "" {
		username = defaultTokenUser
	}
	return &http.BasicAuth{Username: username, Password: token}
}
