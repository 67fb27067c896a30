// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"github.com/dsablic/reposcope/internal/model"
)

// WriteJSON writes the report as pretty-printed JSON to w. Source text is
// written as is; <, > and & are not escaped.
func WriteJSON(w io.Writer, report model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// Write dispatches on format ("json" or "markdown").
func Write(w io.Writer, report model.Report, format string) error {
	switch format {
	case "", "json":
		return WriteJSON(w, report)
	case "markdown", "md":
		return WriteMarkdown(w, report)
	default:
		return &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError is returned by Write for unsupported formats.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "unknown output format: " + e.Format + " (use json or markdown)"
}
