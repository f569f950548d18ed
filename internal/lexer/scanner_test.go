package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream/internal/errors"
)

type lexed struct {
	Type   TokenType
	Lexeme string
}

func scanSignificant(t *testing.T, input string) []lexed {
	t.Helper()
	var out []lexed
	for _, tok := range Significant(Tokenize(input)) {
		out = append(out, lexed{tok.Type, tok.Lexeme})
	}
	return out
}

func TestLetDeclaration(t *testing.T) {
	got := scanSignificant(t, "let x: int = 10;")
	want := []lexed{
		{KEYWORD, "let"},
		{IDENTIFIER, "x"},
		{COLON, ":"},
		{KEYWORD, "int"},
		{ASSIGN, "="},
		{INTEGER, "10"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks := Significant(Tokenize("LET Fn wHiLe True FALSE Int customIdent _x9"))
	require.Len(t, toks, 9)

	assert.Equal(t, KEYWORD, toks[0].Type)
	assert.Equal(t, "LET", toks[0].Lexeme)
	assert.True(t, toks[0].IsKeyword("let"))
	assert.Equal(t, KEYWORD, toks[1].Type)
	assert.Equal(t, KEYWORD, toks[2].Type)
	assert.Equal(t, BOOLEAN, toks[3].Type)
	assert.Equal(t, BOOLEAN, toks[4].Type)
	assert.Equal(t, KEYWORD, toks[5].Type)
	assert.Equal(t, IDENTIFIER, toks[6].Type)
	assert.Equal(t, "customIdent", toks[6].Lexeme)
	assert.Equal(t, IDENTIFIER, toks[7].Type)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", INTEGER},
		{"0", INTEGER},
		{"-7", INTEGER},
		{"+7", INTEGER},
		{"3.14", FLOAT},
		{"-0.5", FLOAT},
		{"1e10", FLOAT},
		{"2.5E-3", FLOAT},
		{"+6e+2", FLOAT},
	}
	for _, tt := range tests {
		toks := Significant(Tokenize(tt.input))
		require.Len(t, toks, 2, tt.input)
		assert.Equal(t, tt.typ, toks[0].Type, tt.input)
		assert.Equal(t, tt.input, toks[0].Lexeme, tt.input)
	}
}

func TestNumberEdges(t *testing.T) {
	assert.Equal(t, []lexed{{INTEGER, "1"}, {DOT, "."}, {IDENTIFIER, "x"}, {EOF, ""}}, scanSignificant(t, "1.x"))
	assert.Equal(t, []lexed{{INTEGER, "2"}, {IDENTIFIER, "e"}, {EOF, ""}}, scanSignificant(t, "2e"))
	assert.Equal(t, []lexed{{INTEGER, "2"}, {IDENTIFIER, "e"}, {PLUS, "+"}, {IDENTIFIER, "x"}, {EOF, ""}}, scanSignificant(t, "2e+x"))
}

func TestSignIsContextual(t *testing.T) {
	assert.Equal(t, []lexed{{IDENTIFIER, "x"}, {MINUS, "-"}, {INTEGER, "1"}, {EOF, ""}}, scanSignificant(t, "x-1"))
	assert.Equal(t, []lexed{{IDENTIFIER, "x"}, {MINUS, "-"}, {INTEGER, "1"}, {EOF, ""}}, scanSignificant(t, "x - 1"))
	assert.Equal(t, []lexed{{RIGHT_PAREN, ")"}, {PLUS, "+"}, {INTEGER, "2"}, {EOF, ""}}, scanSignificant(t, ")+2"))
	assert.Equal(t, []lexed{{ASSIGN, "="}, {INTEGER, "-1"}, {EOF, ""}}, scanSignificant(t, "= -1"))
	assert.Equal(t, []lexed{{KEYWORD, "return"}, {INTEGER, "-1"}, {EOF, ""}}, scanSignificant(t, "return -1"))
	assert.Equal(t, []lexed{{IDENTIFIER, "a"}, {MINUS, "-"}, {INTEGER, "-1"}, {EOF, ""}}, scanSignificant(t, "a - -1"))
	assert.Equal(t, []lexed{{MINUS, "-"}, {IDENTIFIER, "x"}, {EOF, ""}}, scanSignificant(t, "-x"))
}

func TestStrings(t *testing.T) {
	toks := Significant(Tokenize(`"hello" 'world' "a\tb\n" "q\"q" 'it\'s' "\d"`))
	require.Len(t, toks, 7)

	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "hello", toks[0].Lexeme)
	assert.Equal(t, "world", toks[1].Lexeme)
	assert.Equal(t, "a\tb\n", toks[2].Lexeme)
	assert.Equal(t, `q"q`, toks[3].Lexeme)
	assert.Equal(t, "it's", toks[4].Lexeme)
	assert.Equal(t, `\d`, toks[5].Lexeme)
	assert.Equal(t, 7, toks[0].Span())
}

func TestUnterminatedString(t *testing.T) {
	s := NewScanner("let s = \"abc\nlet y = 1;")
	toks := Significant(s.ScanTokens())

	require.Len(t, s.Errors(), 1)
	err := s.Errors()[0]
	assert.Equal(t, errors.LexicalError, err.Kind)
	assert.Equal(t, errors.ErrorUnterminatedString, err.Code)
	assert.Equal(t, 1, err.Position.Line)
	assert.Equal(t, 13, err.Position.Column)

	assert.Equal(t, INVALID, toks[3].Type)
	assert.Equal(t, `"abc`, toks[3].Lexeme)
	assert.Equal(t, KEYWORD, toks[4].Type)
	assert.Equal(t, 2, toks[4].Position.Line)
}

func TestComments(t *testing.T) {
	toks := Tokenize("x // note\n/* a\nb */ y")
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		IDENTIFIER, WHITESPACE, COMMENT_SINGLE, NEW_LINE, COMMENT_MULTI_LINE, WHITESPACE, IDENTIFIER, EOF,
	}, types)
	assert.Equal(t, "// note", toks[2].Lexeme)
	assert.Equal(t, "/* a\nb */", toks[4].Lexeme)
	assert.Equal(t, 3, toks[6].Position.Line)
	assert.Equal(t, 6, toks[6].Position.Column)
}

func TestUnterminatedComment(t *testing.T) {
	s := NewScanner("x /* never\nclosed")
	toks := s.ScanTokens()

	require.Len(t, s.Errors(), 1)
	assert.Equal(t, errors.ErrorUnterminatedComment, s.Errors()[0].Code)
	assert.Equal(t, 2, s.Errors()[0].Position.Line)
	assert.Equal(t, 7, s.Errors()[0].Position.Column)

	sig := Significant(toks)
	require.Len(t, sig, 3)
	assert.Equal(t, INVALID, sig[1].Type)
	assert.Equal(t, "/* never\nclosed", sig[1].Lexeme)
}

func TestOperatorsLongestMatch(t *testing.T) {
	input := `+ - * / % = += -= *= /= == != <> < <= > >= && || ! & | -> ++ -- |> <=> @* ...+ ( ) { } [ ] , ; : .`
	expected := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		EQUAL, NOT_EQUAL, NOT_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL, AND, OR, BANG, AMPERSAND, BAR,
		ARROW, INCREMENT, DECREMENT, PIPE, SWAP, SPLAT, SPREAD,
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, LEFT_BRACKET, RIGHT_BRACKET,
		COMMA, SEMICOLON, COLON, DOT, EOF,
	}

	toks := Significant(Tokenize(input))
	require.Len(t, toks, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp, toks[i].Type, "token %d %q", i, toks[i].Lexeme)
	}
	assert.Equal(t, "<>", toks[12].Lexeme)
}

func TestInvalidCharacterContinues(t *testing.T) {
	s := NewScanner("a $ b € c")
	toks := Significant(s.ScanTokens())

	require.Len(t, s.Errors(), 2)
	assert.Equal(t, errors.ErrorUnexpectedCharacter, s.Errors()[0].Code)
	assert.Equal(t, 3, s.Errors()[0].Position.Column)
	assert.Equal(t, 7, s.Errors()[1].Position.Column)

	require.Len(t, toks, 6)
	assert.Equal(t, INVALID, toks[1].Type)
	assert.Equal(t, "€", toks[3].Lexeme)
	assert.Equal(t, IDENTIFIER, toks[4].Type)
	assert.Equal(t, 9, toks[4].Position.Column)
}

func TestLineAndColumnTracking(t *testing.T) {
	toks := Significant(Tokenize("fn main() -> void {\n    return;\n}"))
	require.Len(t, toks, 11)

	ret := toks[7]
	assert.Equal(t, "return", ret.Lexeme)
	assert.Equal(t, 2, ret.Position.Line)
	assert.Equal(t, 5, ret.Position.Column)
	assert.Equal(t, 11, ret.EndPosition().Column)

	closing := toks[9]
	assert.Equal(t, RIGHT_BRACE, closing.Type)
	assert.Equal(t, 3, closing.Position.Line)
	assert.Equal(t, 1, closing.Position.Column)
	assert.Equal(t, EOF, toks[10].Type)
}

func TestKindFromString(t *testing.T) {
	for tt := INVALID; tt <= DOT; tt++ {
		assert.Equal(t, tt, KindFromString(tt.String()))
	}
	assert.Equal(t, INVALID, KindFromString("Nonsense"))
}

func TestTokenizeIsTotal(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 500; i++ {
		var input string
		f.Fuzz(&input)

		toks := Tokenize(input)
		require.NotEmpty(t, toks)
		assert.Equal(t, EOF, toks[len(toks)-1].Type)

		// every byte is covered exactly once by the token stream
		var rebuilt strings.Builder
		for _, tok := range toks {
			rebuilt.WriteString(input[tok.Position.Offset:tok.End.Offset])
		}
		assert.Equal(t, input, rebuilt.String())

		assert.Equal(t, toks, Tokenize(input))
	}
}

func TestIdentifierProperty(t *testing.T) {
	f := fuzz.New().NilChance(0).Funcs(func(s *string, c fuzz.Continue) {
		const first = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
		const rest = first + "0123456789"
		var b strings.Builder
		b.WriteByte(first[c.Intn(len(first))])
		for n := c.Intn(12); n > 0; n-- {
			b.WriteByte(rest[c.Intn(len(rest))])
		}
		*s = b.String()
	})

	for i := 0; i < 200; i++ {
		var name string
		f.Fuzz(&name)
		toks := Significant(Tokenize(name))
		require.Len(t, toks, 2)
		if IsReserved(name) {
			continue
		}
		assert.Equal(t, IDENTIFIER, toks[0].Type, name)
		assert.Equal(t, name, toks[0].Lexeme)
	}
}
