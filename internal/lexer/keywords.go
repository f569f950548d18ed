package lexer

import "strings"

// KEYWORDS is the reserved word set. Lookups are case-insensitive.
var KEYWORDS = map[string]TokenType{
	"let":    KEYWORD,
	"const":  KEYWORD,
	"fn":     KEYWORD,
	"if":     KEYWORD,
	"else":   KEYWORD,
	"while":  KEYWORD,
	"do":     KEYWORD,
	"until":  KEYWORD,
	"for":    KEYWORD,
	"in":     KEYWORD,
	"struct": KEYWORD,
	"return": KEYWORD,
	"int":    KEYWORD,
	"float":  KEYWORD,
	"string": KEYWORD,
	"bool":   KEYWORD,
	"void":   KEYWORD,
	"true":   BOOLEAN,
	"false":  BOOLEAN,
}

func lookupIdentifier(text string) TokenType {
	if t, ok := KEYWORDS[strings.ToLower(text)]; ok {
		return t
	}
	return IDENTIFIER
}

// IsReserved reports whether a name is a reserved word
func IsReserved(name string) bool {
	return lookupIdentifier(name) != IDENTIFIER
}
