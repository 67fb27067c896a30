package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/dsablic/reposcope/internal/model"
)

var initOnce sync.Once

// CountStats runs scc over files and sums their line statistics. Files that
// cannot be read or are detected as binary are skipped.
func CountStats(ctx context.Context, files []string) (*model.CodeStats, error) {
	initOnce.Do(func() {
		processor.ProcessConstants()
	})

	stats := &model.CodeStats{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		name := filepath.Base(path)
		possibleLanguages, _ := processor.DetectLanguage(name)
		if len(possibleLanguages) == 0 {
			continue
		}

		job := &processor.FileJob{
			Filename:          name,
			Content:           content,
			Bytes:             int64(len(content)),
			PossibleLanguages: possibleLanguages,
		}
		job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
		if job.Language == "" {
			continue
		}

		processor.CountStats(job)
		if job.Binary {
			continue
		}

		stats.Files++
		stats.Lines += job.Lines
		stats.Code += job.Code
		stats.Comments += job.Comment
		stats.Blanks += job.Blank
		stats.Complexity += job.Complexity
	}

	return stats, nil
}
