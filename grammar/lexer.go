package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var DreamLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*|/\*([^*]|\*+[^*/])*\*+/`, nil},
		{"String", `"(\\.|[^"\\\n])*"|'(\\.|[^'\\\n])*'`, nil},
		{"Number", `[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`, nil},

		// Keywords are matched as identifiers, case-insensitively
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Longest operators first
		{"Operator", `\.\.\.\+|<=>|->|\|>|@\*|==|!=|<>|<=|>=|&&|\|\||\+\+|--|\+=|-=|\*=|/=|[-+*/%!&|<>=@]`, nil},

		{"Punctuation", `[{}()\[\],;:.]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
