// internal/auth/credentials_test.go
package auth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dsablic/reposcope/internal/auth"
)

func TestCredentialsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	cred := auth.Credentials{AccessToken: "test-token", Username: "dev"}

	if err := store.Save("bitbucket", cred); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := store.Load("bitbucket")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.AccessToken != "test-token" {
		t.Errorf("expected test-token, got %s", loaded.AccessToken)
	}
	if loaded.Username != "dev" {
		t.Errorf("expected dev, got %s", loaded.Username)
	}
}

func TestCredentialsMissing(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	_, err := store.Load("github")
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestCredentialsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	t.Setenv("REPOSCOPE_BITBUCKET_TOKEN", "env-token")

	cred, err := store.LoadWithEnv("bitbucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.AccessToken != "env-token" {
		t.Errorf("expected env-token, got %s", cred.AccessToken)
	}
}

func TestCredentialsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	store := auth.NewFileStore(path)

	cred := auth.Credentials{AccessToken: "secret"}
	if err := store.Save("github", cred); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
	}
}

func TestProviderForURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/org/repo.git", "github"},
		{"https://gitlab.com/group/repo", "gitlab"},
		{"https://bitbucket.org/ws/repo", "bitbucket"},
		{"https://git.example.com/team/repo", "git.example.com"},
		{"/tmp/local/repo", ""},
	}
	for _, tt := range tests {
		if got := auth.ProviderForURL(tt.url); got != tt.want {
			t.Errorf("ProviderForURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCredentialsFor(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json")).WithoutCLI()

	stored := auth.Credentials{AccessToken: "file-token", Username: "ci-bot"}
	if err := store.Save("git.example.com", stored); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	t.Setenv("REPOSCOPE_GITHUB_TOKEN", "gh-env-token")

	if user, token := store.CredentialsFor("https://github.com/org/repo"); token != "gh-env-token" || user != "" {
		t.Errorf("expected env token for github, got %q/%q", user, token)
	}
	if user, token := store.CredentialsFor("https://git.example.com/team/repo"); token != "file-token" || user != "ci-bot" {
		t.Errorf("expected stored credentials for custom host, got %q/%q", user, token)
	}
	if _, token := store.CredentialsFor("https://gitlab.com/group/repo"); token != "" {
		t.Errorf("expected anonymous access for gitlab, got %q", token)
	}
	if _, token := store.CredentialsFor("/tmp/local"); token != "" {
		t.Errorf("expected no token for local paths, got %q", token)
	}
}
