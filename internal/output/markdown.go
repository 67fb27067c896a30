// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsablic/reposcope/internal/model"
)

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# Repository Analysis Report\n\n")

	if report.Status != model.StatusSuccess || report.Data == nil {
		fmt.Fprintf(w, "**Status:** %s\n\n", report.Status)
		fmt.Fprintf(w, "%s\n", report.Message)
		return nil
	}

	data := report.Data
	info := data.RepositoryInfo
	fmt.Fprintf(w, "**Repository:** %s\n", info.RepoName)
	if info.License != "" {
		fmt.Fprintf(w, "**License:** %s\n", info.License)
	}
	fmt.Fprintln(w)

	// Summary totals
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Classes | %d |\n", info.TotalClasses)
	fmt.Fprintf(w, "| Methods | %d |\n", info.TotalMethods)
	fmt.Fprintf(w, "| Interfaces | %d |\n", data.Summary.Interfaces)
	fmt.Fprintf(w, "| Abstract Classes | %d |\n", data.Summary.AbstractClasses)
	fmt.Fprintf(w, "| Loop Statements | %d |\n", data.Summary.MethodWithLoops)
	fmt.Fprintf(w, "| Conditional Statements | %d |\n", data.Summary.MethodWithConditionals)
	if s := info.CodeStats; s != nil {
		fmt.Fprintf(w, "| Files | %d |\n", s.Files)
		fmt.Fprintf(w, "| Code Lines | %d |\n", s.Code)
		fmt.Fprintf(w, "| Comment Lines | %d |\n", s.Comments)
		fmt.Fprintf(w, "| Complexity | %d |\n", s.Complexity)
	}
	fmt.Fprintln(w)

	// Per class
	fmt.Fprintf(w, "## Classes\n\n")
	fmt.Fprintf(w, "| Class | Type | Methods | With Loops | With Conditionals |\n")
	fmt.Fprintf(w, "|-------|------|--------:|-----------:|------------------:|\n")
	for _, c := range data.ClassDetails {
		var loops, conds int
		for _, m := range c.Methods {
			if m.ContainsLoops {
				loops++
			}
			if m.ContainsConditionals {
				conds++
			}
		}
		fmt.Fprintf(w, "| %s | %s | %d | %d | %d |\n", c.ClassName, c.Type, len(c.Methods), loops, conds)
	}
	fmt.Fprintln(w)

	// Call edges
	if len(data.MethodCalls) > 0 {
		fmt.Fprintf(w, "## Method Calls\n\n")
		fmt.Fprintf(w, "| Caller | Called Method |\n")
		fmt.Fprintf(w, "|--------|---------------|\n")
		for _, e := range data.MethodCalls {
			fmt.Fprintf(w, "| %s | %s |\n", e.Caller, e.CalledMethod)
		}
		fmt.Fprintln(w)
	}

	// Control flow
	if len(data.LoopsAndConditionals) > 0 {
		fmt.Fprintf(w, "## Loops and Conditionals\n\n")
		for _, e := range data.LoopsAndConditionals {
			kind, text := "conditional", e.ConditionalType
			if e.IsLoop() {
				kind, text = "loop", e.LoopType
			}
			fmt.Fprintf(w, "- **%s** (%s): `%s`\n", e.Method, kind, firstLine(text))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	line = strings.TrimSpace(line)
	if cut {
		line += " ..."
	}
	return strings.ReplaceAll(line, "`", "'")
}
