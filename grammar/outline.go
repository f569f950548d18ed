package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Outline is the top-level shape of a source file. Function bodies are
// matched as balanced braces without looking inside.
type Outline struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Decls  []*Decl `@@*`
}

type Decl struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Struct   *Struct   `  @@`
	Function *Function `| @@`
	Global   *Global   `| @@`
}

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Struct struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"struct" @@ "{"`
	Fields []*Field `( @@ ","? )* "}" ";"?`
}

type Field struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `@@ ":"`
	Type   string   `@Ident`
}

type Function struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"fn" @@ "("`
	Params []*Param `( @@ ( "," @@ )* )? ")"`
	Return string   `( "->" @Ident )?`
	Body   *Body    `@@`
}

type Param struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `@@ ":"`
	Type   string   `@Ident`
}

// Body is a braced token run; nested braces must balance
type Body struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*BodyItem `"{" @@* "}"`
}

type BodyItem struct {
	Block *Body  `  @@`
	Token string `| @~( "{" | "}" )`
}

// Global is a top-level let or const. Value keeps the initializer tokens.
type Global struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Keyword string   `@( "let" | "const" )`
	Name    PosIdent `@@`
	Type    string   `( ":" @Ident )?`
	Value   []string `"=" ( @~";" )* ";"`
}

// Name returns the declared name
func (d *Decl) Name() PosIdent {
	switch {
	case d.Struct != nil:
		return d.Struct.Name
	case d.Function != nil:
		return d.Function.Name
	default:
		return d.Global.Name
	}
}

// Kind is one of "struct", "fn", "let" or "const"
func (d *Decl) Kind() string {
	switch {
	case d.Struct != nil:
		return "struct"
	case d.Function != nil:
		return "fn"
	default:
		return strings.ToLower(d.Global.Keyword)
	}
}
