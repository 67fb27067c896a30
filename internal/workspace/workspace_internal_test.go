package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type nopCloner struct{ called bool }

func (c *nopCloner) Clone(context.Context, string, string) error {
	c.called = true
	return nil
}

func TestDeleteTreeStopsAtFirstFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clonedRepo")
	stuck := filepath.Join(dir, "src", "Stuck.java")
	if err := os.MkdirAll(filepath.Dir(stuck), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(stuck, []byte("class Stuck {}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	denied := errors.New("permission denied")
	removeEntry = func(path string) error {
		if path == stuck {
			return denied
		}
		return os.Remove(path)
	}
	t.Cleanup(func() { removeEntry = os.Remove })

	cloner := &nopCloner{}
	err := NewManager(dir, cloner, nil).Prepare(context.Background(), "https://host/x")

	var prepErr *PrepareError
	if !errors.As(err, &prepErr) {
		t.Fatalf("expected *PrepareError, got %v", err)
	}
	if prepErr.Path != stuck {
		t.Errorf("expected failing path %s, got %s", stuck, prepErr.Path)
	}
	if !errors.Is(err, ErrPrepare) || !errors.Is(err, denied) {
		t.Errorf("expected ErrPrepare wrapping the cause, got %v", err)
	}
	if err.Error() != "failed to delete "+stuck {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, statErr := os.Stat(dir); statErr != nil {
		t.Errorf("parent must survive a failed child removal: %v", statErr)
	}
	if cloner.called {
		t.Error("clone must not run after a failed delete")
	}
}

func TestBasicAuth(t *testing.T) {
	if basicAuth(nil, "https://github.com/a/b") != nil {
		t.Error("nil source must mean anonymous access")
	}
	anonymous := func(string) (string, string) { return "someone", "" }
	if basicAuth(anonymous, "https://github.com/a/b") != nil {
		t.Error("empty token must mean anonymous access")
	}

	auth := basicAuth(func(string) (string, string) { return "", "tok" }, "u")
	if auth == nil || auth.Username != defaultTokenUser || auth.Password != "tok" {
		t.Errorf("expected default token user, got %+v", auth)
	}
	auth = basicAuth(func(string) (string, string) { return "ci-bot", "tok" }, "u")
	if auth == nil || auth.Username != "ci-bot" {
		t.Errorf("expected stored username, got %+v", auth)
	}
}
