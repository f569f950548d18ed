package repl

import (
	"strings"

	"dream/grammar"
	"dream/internal/config"
	"dream/internal/lexer"
	"dream/internal/pipeline"
)

const unitName = "<repl>"

// Session accumulates the declarations entered so far. Each new chunk is
// compiled together with everything accepted before it, so later input
// can call earlier functions.
type Session struct {
	cfg    *config.Config
	chunks []string
}

func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		defaults := config.Defaults
		cfg = &defaults
	}
	return &Session{cfg: cfg}
}

// Source is the text of every accepted chunk
func (s *Session) Source() string {
	return strings.Join(s.chunks, "")
}

func (s *Session) Reset() {
	s.chunks = nil
}

// Submit compiles chunk after the accepted source. The chunk is kept only
// when the result has no errors; the unit is returned either way and its
// positions refer to the combined text.
func (s *Session) Submit(chunk string) (*pipeline.Unit, bool) {
	if !strings.HasSuffix(chunk, "\n") {
		chunk += "\n"
	}
	unit := pipeline.Compile(unitName, s.Source()+chunk, s.cfg)
	if unit.HasErrors() {
		return unit, false
	}
	s.chunks = append(s.chunks, chunk)
	return unit, true
}

// Current compiles the accepted source as is
func (s *Session) Current() *pipeline.Unit {
	return pipeline.Compile(unitName, s.Source(), s.cfg)
}

// Incomplete reports whether src leaves a brace or parenthesis open, in
// which case the prompt keeps reading
func Incomplete(src string) bool {
	depth := 0
	for _, tok := range lexer.Tokenize(src) {
		switch tok.Type {
		case lexer.LEFT_BRACE, lexer.LEFT_PAREN:
			depth++
		case lexer.RIGHT_BRACE, lexer.RIGHT_PAREN:
			depth--
		}
	}
	return depth > 0
}

// describe summarizes the declarations of an accepted chunk
func describe(chunk string) []string {
	outline, err := grammar.ParseString(unitName, chunk)
	if err != nil {
		return nil
	}
	lines := make([]string, len(outline.Decls))
	for i, d := range outline.Decls {
		lines[i] = d.String()
	}
	return lines
}
