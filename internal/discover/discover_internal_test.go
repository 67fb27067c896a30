package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesSkipsDirectoriesThatFailToOpen(t *testing.T) {
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	for _, path := range []string{filepath.Join(dir, "Ok.java"), filepath.Join(locked, "Secret.java")} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("class X {}"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	openDir = func(name string) (*os.File, error) {
		if name == locked {
			return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("permission denied")}
		}
		return os.Open(name)
	}
	t.Cleanup(func() { openDir = os.Open })

	got := Files(dir, Options{})
	if len(got) != 1 || got[0] != filepath.Join(dir, "Ok.java") {
		t.Errorf("expected only Ok.java, got %v", got)
	}
}
