package grammar

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var outlineParser = participle.MustBuild[Outline](
	participle.Lexer(DreamLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(2),
)

// ParseString reads the outline of source. The first error stops the
// parse; the returned outline then holds the declarations read so far.
func ParseString(filename, source string) (*Outline, error) {
	return outlineParser.ParseString(filename, source)
}

func ParseFile(path string) (*Outline, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// EBNF describes the outline grammar
func EBNF() string {
	return outlineParser.String()
}

// FormatError renders a caret-style message for an outline parse error
func FormatError(src string, err error) string {
	pe, ok := err.(participle.Error)
	if !ok {
		return color.RedString("Unexpected error: %s", err) + "\n"
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return color.RedString("Syntax error at unknown location: %s", err) + "\n"
	}

	var b strings.Builder
	b.WriteString(color.RedString("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column))
	b.WriteString("\n")
	b.WriteString(lines[pos.Line-1])
	b.WriteString("\n")
	b.WriteString(color.HiRedString(strings.Repeat(" ", max(pos.Column-1, 0)) + "^"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "→ %s\n", pe.Message())
	return b.String()
}
