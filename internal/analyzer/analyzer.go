// internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dsablic/reposcope/internal/discover"
	"github.com/dsablic/reposcope/internal/javaparse"
	"github.com/dsablic/reposcope/internal/license"
	"github.com/dsablic/reposcope/internal/model"
)

// Workspace fetches a repository into a local directory.
type Workspace interface {
	Prepare(ctx context.Context, url string) error
	Dir() string
}

// FileEvent describes one processed source file.
type FileEvent struct {
	Completed int
	Total     int
	// Path is relative to the analyzed directory.
	Path string
	// Failed is set when the file was skipped as unreadable or unparsable.
	Failed bool
}

// Progress receives a notification after each source file is processed.
type Progress interface {
	Update(ev FileEvent)
	Done(total, failed int)
}

// Options configures an Analyzer.
type Options struct {
	// Suffix selects source files; empty means ".java".
	Suffix          string
	ExcludeVendored bool
	// MaxFileBytes skips larger files; zero keeps the parser default.
	MaxFileBytes int
	// CodeStats adds line statistics of the source files to the report.
	CodeStats bool
	// License adds the detected SPDX license of the repository to the report.
	License  bool
	Logger   *slog.Logger
	Progress Progress
}

// Analyzer runs the fetch, discover, parse and aggregate pipeline.
type Analyzer struct {
	ws     Workspace
	parser *javaparse.Parser
	opts   Options
	logger *slog.Logger
}

// New creates an Analyzer that fetches repositories through ws.
func New(ws Workspace, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		ws:     ws,
		parser: javaparse.New(javaparse.WithMaxFileBytes(opts.MaxFileBytes)),
		opts:   opts,
		logger: logger,
	}
}

// RepoName returns the display name of a repository URL: everything after
// the last slash.
func RepoName(repoURL string) string {
	return repoURL[strings.LastIndex(repoURL, "/")+1:]
}

func relPath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Analyze fetches and analyzes repoURL. Failures are reported in the
// returned Report rather than as an error.
func (a *Analyzer) Analyze(ctx context.Context, repoURL string) model.Report {
	data, err := a.Run(ctx, repoURL)
	if err != nil {
		a.logger.Error("error analyzing repository", "url", repoURL, "error", err)
		return model.Failure(err.Error())
	}
	return model.Success(data)
}

// Run fetches repoURL into the workspace and analyzes it.
func (a *Analyzer) Run(ctx context.Context, repoURL string) (*model.AnalysisData, error) {
	a.logger.Info("starting repository analysis", "url", repoURL)
	if a.ws == nil {
		return nil, fmt.Errorf("no workspace configured")
	}
	if err := a.ws.Prepare(ctx, repoURL); err != nil {
		return nil, err
	}
	return a.AnalyzeDir(ctx, RepoName(repoURL), a.ws.Dir())
}

// AnalyzeDir analyzes a repository that is already checked out in dir.
func (a *Analyzer) AnalyzeDir(ctx context.Context, name, dir string) (*model.AnalysisData, error) {
	a.logger.Info("starting analysis of files", "dir", dir)

	files := discover.Files(dir, discover.Options{
		Suffix:          a.opts.Suffix,
		ExcludeVendored: a.opts.ExcludeVendored,
	})
	a.logger.Info("found source files", "count", len(files))

	r := newRun()
	failed := 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis interrupted: %w", err)
		}

		a.logger.Debug("analyzing file", "path", path)
		unit, err := a.parser.ParseFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("analysis interrupted: %w", ctx.Err())
			}
			a.logger.Warn("failed to parse file", "path", path, "error", err)
			failed++
		} else {
			for _, decl := range unit.Types {
				a.logger.Debug("found class or interface", "name", decl.Name, "kind", model.KindOf(decl.IsInterface(), decl.IsAbstract()))
				r.visitType(decl)
			}
		}

		if a.opts.Progress != nil {
			a.opts.Progress.Update(FileEvent{
				Completed: i + 1,
				Total:     len(files),
				Path:      relPath(dir, path),
				Failed:    err != nil,
			})
		}
	}
	if a.opts.Progress != nil {
		a.opts.Progress.Done(len(files), failed)
	}

	data := r.data(name)
	a.logger.Info("file analysis completed",
		"totalClasses", data.RepositoryInfo.TotalClasses,
		"totalMethods", data.RepositoryInfo.TotalMethods,
		"abstractClasses", data.Summary.AbstractClasses,
		"interfaces", data.Summary.Interfaces)

	if a.opts.CodeStats {
		stats, err := CountStats(ctx, files)
		if err != nil {
			return nil, err
		}
		data.RepositoryInfo.CodeStats = stats
	}
	if a.opts.License {
		data.RepositoryInfo.License = license.Detect(dir)
	}

	return data, nil
}
