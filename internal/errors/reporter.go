package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders diagnostics against the source they were produced from
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter creates a reporter for one source file
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a diagnostic in the style:
//
//	error[E0001]: undeclared identifier 'y'
//	  --> main.dream:3:12
//	   │
//	 3 │     return y;
//	   │            ^
func (r *Reporter) Format(err CompilerError) string {
	var out strings.Builder

	levelColor := levelColorFunc(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	header := string(err.Level)
	if err.Code != "" {
		header = fmt.Sprintf("%s[%s]", header, err.Code)
	}
	fmt.Fprintf(&out, "%s: %s\n", levelColor(header), err.Message)

	line := err.Position.Line
	width := len(fmt.Sprintf("%d", line+1))
	indent := strings.Repeat(" ", width)
	bar := dim("│")

	if line <= 0 {
		fmt.Fprintf(&out, "%s %s %s\n", indent, dim("-->"), r.filename)
	} else {
		fmt.Fprintf(&out, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, line, err.Position.Column)
		fmt.Fprintf(&out, "%s %s\n", indent, bar)

		if line > 1 && line-2 < len(r.lines) {
			fmt.Fprintf(&out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), bar, r.lines[line-2])
		}
		if line <= len(r.lines) {
			fmt.Fprintf(&out, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), bar, r.lines[line-1])
			fmt.Fprintf(&out, "%s %s %s\n", indent, bar, marker(err.Position.Column, err.Length, levelColor))
		}
	}

	if len(err.Suggestions) > 0 {
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(&out, "%s %s\n", indent, bar)
		for i, s := range err.Suggestions {
			if i == 0 {
				fmt.Fprintf(&out, "%s %s: %s\n", indent, cyan("help"), s.Message)
			} else {
				fmt.Fprintf(&out, "%s       %s\n", indent, s.Message)
			}
			if s.Replacement != "" {
				fmt.Fprintf(&out, "%s %s %s\n", indent, cyan("│"), cyan(s.Replacement))
			}
		}
	}

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, bar, noteColor("note:"), note)
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, bar, helpColor("help:"), err.HelpText)
	}

	out.WriteString("\n")
	return out.String()
}

// FormatAll renders every diagnostic followed by a summary line
func (r *Reporter) FormatAll(list []CompilerError) string {
	var out strings.Builder
	warnings := 0
	for _, err := range list {
		if err.IsWarning() {
			warnings++
		}
		out.WriteString(r.Format(err))
	}
	if n := len(list) - warnings; n > 0 {
		fmt.Fprintf(&out, "%s: could not compile '%s' (%s)\n",
			levelColorFunc(Error)("error"), r.filename, Summary(list))
	}
	if warnings > 0 {
		plural := ""
		if warnings > 1 {
			plural = "s"
		}
		fmt.Fprintf(&out, "%s: %d warning%s emitted\n", levelColorFunc(Warning)("warning"), warnings, plural)
	}
	return out.String()
}

func levelColorFunc(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func marker(column, length int, paint func(...interface{}) string) string {
	if length <= 0 {
		length = 1
	}
	return strings.Repeat(" ", max(0, column-1)) + paint(strings.Repeat("^", length))
}
