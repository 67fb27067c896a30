// Package workspace prepares the local directory a repository is cloned into.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// ErrPrepare marks a failure to clear an existing workspace.
	ErrPrepare = errors.New("failed to delete")
	// ErrClone marks a failure reported by the clone collaborator.
	ErrClone = errors.New("error cloning repository")
)

// Cloner fetches the repository at url into dir.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}

// Manager owns a single workspace directory. Concurrent Prepare calls on
// the same directory are not supported.
type Manager struct {
	dir    string
	cloner Cloner
	logger *slog.Logger
}

// NewManager creates a Manager for dir.
func NewManager(dir string, cloner Cloner, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{dir: dir, cloner: cloner, logger: logger}
}

// Dir returns the workspace directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Prepare removes any existing workspace and clones url into it. On success
// the directory holds a fresh working tree.
func (m *Manager) Prepare(ctx context.Context, url string) error {
	_, err := os.Lstat(m.dir)
	switch {
	case err == nil:
		m.logger.Info("deleting existing cloned repository directory", "dir", m.dir)
		if err := deleteTree(m.dir); err != nil {
			m.logger.Error("failed to clear workspace", "error", err)
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		m.logger.Error("cannot inspect workspace", "dir", m.dir, "error", err)
		return prepareError(m.dir, err)
	}

	m.logger.Info("cloning repository", "url", url, "dir", m.dir)
	if err := m.cloner.Clone(ctx, url, m.dir); err != nil {
		m.logger.Error("error cloning repository", "url", url, "error", err)
		return fmt.Errorf("%w: %v", ErrClone, err)
	}
	m.logger.Info("repository cloned successfully", "dir", m.dir)
	return nil
}

// removeEntry deletes a single file or empty directory.
var removeEntry = os.Remove

// deleteTree removes path depth-first, every child before its parent.
// The first entry that cannot be removed aborts the deletion.
func deleteTree(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return prepareError(path, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return prepareError(path, err)
		}
		for _, entry := range entries {
			if err := deleteTree(filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
	}

	if err := removeEntry(path); err != nil {
		return prepareError(path, err)
	}
	return nil
}

func prepareError(path string, cause error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &PrepareError{Path: abs, Err: cause}
}

// PrepareError reports the workspace entry that could not be removed.
type PrepareError struct {
	Path string
	Err  error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("%s %s", ErrPrepare, e.Path)
}

func (e *PrepareError) Unwrap() []error {
	return []error{ErrPrepare, e.Err}
}
