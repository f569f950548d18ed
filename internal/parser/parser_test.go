package parser

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/lexer"
)

func parseExpr(t *testing.T, src string) (ast.Expr, []errors.CompilerError) {
	t.Helper()
	p := NewParser(lexer.Tokenize(src))
	expr := p.parseExpression()
	return expr, p.Errors()
}

// parseBody parses statements wrapped in 'fn main() -> void { ... }'
func parseBody(t *testing.T, body string) ([]ast.Stmt, []errors.CompilerError) {
	t.Helper()
	program, errs := ParseSource("fn main() -> void {\n" + body + "\n}")
	require.NotEmpty(t, program.Decls)
	fn, ok := program.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok, "expected a function, got %T", program.Decls[0])
	return fn.Body.Stmts, errs
}

func errorTypes(errs []errors.CompilerError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.ErrorType)
	}
	return out
}

func TestParseFibonacci(t *testing.T) {
	source := `fn fib(n: int) -> int {
    if (n <= 1) {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}`

	program, errs := ParseSource(source)
	require.Empty(t, errs)
	require.Len(t, program.Decls, 1)

	fn := program.Decls[0].(*ast.FunctionDecl)
	assert.Equal(t, "fib", fn.Name.Value)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "n", fn.Params[0].Name.Value)
	assert.Equal(t, "int", fn.Params[0].Type.Name)
	assert.Equal(t, "int", fn.ReturnType.Name)
	require.Len(t, fn.Body.Stmts, 2)

	assert.Equal(t, 1, fn.Pos.Line)
	assert.Equal(t, 1, fn.Pos.Column)
	assert.Equal(t, 6, fn.EndPos.Line)

	assert.Equal(t, source, program.String())
}

func TestParseConditionRequiresParentheses(t *testing.T) {
	source := `fn f(n: int) -> int {
    if n <= 1 {
        return n;
    }
    return 0;
}`

	program, errs := ParseSource(source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingParenthesis, errs[0].ErrorType)
	assert.Equal(t, errors.SyntaxError, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Position.Line)
	assert.Equal(t, 8, errs[0].Position.Column)

	// the body after the bad condition still parses
	fn := program.Decls[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 2)
	_, isReturn := fn.Body.Stmts[1].(*ast.ReturnStmt)
	assert.True(t, isReturn)

	_, errs = ParseSource(`fn f(n: int) -> int { if (n <= 1) { return n; } return 0; }`)
	assert.Empty(t, errs)
}

func TestParseWhileConditionRequiresParentheses(t *testing.T) {
	_, errs := parseBody(t, "while x < 3 { x = x + 1; }")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingParenthesis, errs[0].ErrorType)

	_, errs = parseBody(t, "while (x < 3 { x = x + 1; }")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingParenthesis, errs[0].ErrorType)
}

func TestBinaryPrecedence(t *testing.T) {
	expr, errs := parseExpr(t, "a + b * c == d || !e && f")
	require.Empty(t, errs)

	or, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)

	eq := or.Left.(*ast.BinaryExpr)
	assert.Equal(t, "==", eq.Op)
	add := eq.Left.(*ast.BinaryExpr)
	assert.Equal(t, "+", add.Op)
	mul := add.Right.(*ast.BinaryExpr)
	assert.Equal(t, "*", mul.Op)

	and := or.Right.(*ast.BinaryExpr)
	assert.Equal(t, "&&", and.Op)
	not := and.Left.(*ast.UnaryExpr)
	assert.Equal(t, "!", not.Op)
}

func TestBinaryLeftAssociativity(t *testing.T) {
	expr, errs := parseExpr(t, "10 - 2 - 3")
	require.Empty(t, errs)

	top := expr.(*ast.BinaryExpr)
	assert.Equal(t, "-", top.Op)
	assert.Equal(t, "3", top.Right.(*ast.LiteralExpr).Value)
	assert.Equal(t, "10 - 2", top.Left.String())
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	expr, errs := parseExpr(t, "(a + b) * c")
	require.Empty(t, errs)

	mul := expr.(*ast.BinaryExpr)
	assert.Equal(t, "*", mul.Op)
	grouped, ok := mul.Left.(*ast.GroupedExpr)
	require.True(t, ok)
	assert.Equal(t, "a + b", grouped.Inner.String())
}

func TestNotEqualSpellings(t *testing.T) {
	for _, src := range []string{"a != b", "a <> b"} {
		expr, errs := parseExpr(t, src)
		require.Empty(t, errs, src)
		assert.Equal(t, "!=", expr.(*ast.BinaryExpr).Op, src)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		src   string
		kind  ast.LiteralKind
		value string
	}{
		{"42", ast.IntLiteral, "42"},
		{"-7", ast.IntLiteral, "-7"},
		{"3.5e2", ast.FloatLiteral, "3.5e2"},
		{`"hi"`, ast.StringLiteral, "hi"},
		{"TRUE", ast.BoolLiteral, "true"},
		{"false", ast.BoolLiteral, "false"},
	}
	for _, tt := range tests {
		expr, errs := parseExpr(t, tt.src)
		require.Empty(t, errs, tt.src)
		lit, ok := expr.(*ast.LiteralExpr)
		require.True(t, ok, tt.src)
		assert.Equal(t, tt.kind, lit.Kind, tt.src)
		assert.Equal(t, tt.value, lit.Value, tt.src)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr, errs := parseExpr(t, "a = b = 3")
	require.Empty(t, errs)

	outer := expr.(*ast.AssignExpr)
	assert.Equal(t, "a", outer.Target.String())
	inner, ok := outer.Value.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "b = 3", inner.String())
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	tests := map[string]string{
		"x += 2":       "x = x + 2",
		"x -= y * 2":   "x = x - y * 2",
		"x *= 3":       "x = x * 3",
		"p.total /= 4": "p.total = p.total / 4",
	}
	for src, want := range tests {
		expr, errs := parseExpr(t, src)
		require.Empty(t, errs, src)
		assign, ok := expr.(*ast.AssignExpr)
		require.True(t, ok, src)
		assert.Equal(t, want, assign.String(), src)

		// the desugared operand is a copy of the target, not the same node
		bin := assign.Value.(*ast.BinaryExpr)
		assert.NotSame(t, assign.Target, bin.Left, src)
	}
}

func TestPostfixIncrementDesugars(t *testing.T) {
	stmts, errs := parseBody(t, "i++;\np.count--;")
	require.Empty(t, errs)
	require.Len(t, stmts, 2)

	assert.Equal(t, "i = i + 1;", stmts[0].String())
	assert.Equal(t, "p.count = p.count - 1;", stmts[1].String())

	assign := stmts[0].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	one := assign.Value.(*ast.BinaryExpr).Right.(*ast.LiteralExpr)
	assert.Equal(t, ast.IntLiteral, one.Kind)
}

func TestPostfixOnNonAssignable(t *testing.T) {
	expr, errs := parseExpr(t, "f()++")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.InvalidAssignmentTarget, errs[0].ErrorType)
	_, bad := expr.(*ast.BadExpr)
	assert.True(t, bad)
}

func TestPipeDesugars(t *testing.T) {
	tests := map[string]string{
		"x |> f(y)":       "f(x, y)",
		"x |> g":          "g(x)",
		"a + b |> h":      "h(a + b)",
		"x |> f |> g(1)":  "g(f(x), 1)",
		"x |> f() |> g()": "g(f(x))",
	}
	for src, want := range tests {
		expr, errs := parseExpr(t, src)
		require.Empty(t, errs, src)
		call, ok := expr.(*ast.CallExpr)
		require.True(t, ok, src)
		assert.Equal(t, want, call.String(), src)
	}

	_, errs := parseExpr(t, "x |> 3")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.UnexpectedToken, errs[0].ErrorType)
}

func TestUnsupportedOperators(t *testing.T) {
	for _, src := range []string{"a <=> b", "@*a", "...+a", "a @* b"} {
		expr, errs := parseExpr(t, src)
		require.Len(t, errs, 1, src)
		assert.Equal(t, errors.UnsupportedOperator, errs[0].ErrorType, src)
		assert.Equal(t, errors.ErrorUnsupportedOperator, errs[0].Code, src)
		_, bad := expr.(*ast.BadExpr)
		assert.True(t, bad, src)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	stmts, errs := parseBody(t, "1 = x;\nf() = 3;\nx = 1;")
	require.Len(t, errs, 2)
	assert.Equal(t, []string{errors.InvalidAssignmentTarget, errors.InvalidAssignmentTarget}, errorTypes(errs))
	assert.Equal(t, 2, errs[0].Position.Line)
	assert.Equal(t, 1, errs[0].Position.Column)

	require.Len(t, stmts, 3)
	_, bad := stmts[0].(*ast.ExprStmt).Expr.(*ast.BadExpr)
	assert.True(t, bad)
	assert.Equal(t, "x = 1;", stmts[2].String())
}

func TestRecoveryCollectsMultipleErrors(t *testing.T) {
	stmts, errs := parseBody(t, `    let a = ;
    let b = 2
    let c: int = 3;
    foo(;`)

	assert.Equal(t,
		[]string{errors.UnexpectedToken, errors.MissingSemicolon, errors.UnexpectedToken},
		errorTypes(errs))
	require.Len(t, stmts, 4)

	decl := stmts[2].(*ast.DeclStmt).Decl
	assert.Equal(t, "c", decl.Name.Value)
	assert.Equal(t, "let c: int = 3;", decl.String())

	_, bad := stmts[0].(*ast.DeclStmt).Decl.Value.(*ast.BadExpr)
	assert.True(t, bad)
}

func TestMissingSemicolon(t *testing.T) {
	_, errs := ParseSource("fn f() -> int { return 1 }")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingSemicolon, errs[0].ErrorType)
	assert.Equal(t, errors.ErrorMissingSemicolon, errs[0].Code)
	assert.Equal(t, "expected ';' after return statement, found '}'", errs[0].Message)
}

func TestUnexpectedEndOfFile(t *testing.T) {
	_, errs := ParseSource("fn f() -> int { return 1;")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.UnexpectedEndOfFile, errs[0].ErrorType)
}

func TestForInStatement(t *testing.T) {
	stmts, errs := parseBody(t, "for (i in 10) { print(i); }")
	require.Empty(t, errs)
	require.Len(t, stmts, 1)

	loop, ok := stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	assert.Equal(t, "i", loop.Var.Value)
	assert.Equal(t, "10", loop.Iterable.String())
	assert.Equal(t, "for (i in 10) {\n    print(i);\n}", loop.String())

	_, errs = parseBody(t, "for (i 10) {}")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingInKeyword, errs[0].ErrorType)
}

func TestDoUntilStatement(t *testing.T) {
	stmts, errs := parseBody(t, "do { x = x + 1; } until (x > 10);")
	require.Empty(t, errs)

	loop, ok := stmts[0].(*ast.DoUntilStmt)
	require.True(t, ok)
	assert.Equal(t, "x > 10", loop.Cond.String())
	assert.Equal(t, "do {\n    x = x + 1;\n} until (x > 10);", loop.String())

	_, errs = parseBody(t, "do { x = 1; } (x > 10);")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "expected 'until'")
}

func TestElseIfChain(t *testing.T) {
	stmts, errs := parseBody(t, "if (a) { x = 1; } else if (b) { x = 2; } else { x = 3; }")
	require.Empty(t, errs)

	first := stmts[0].(*ast.IfStmt)
	second, ok := first.Else.(*ast.IfStmt)
	require.True(t, ok)
	_, ok = second.Else.(*ast.Block)
	assert.True(t, ok)
}

func TestReturnWithoutValue(t *testing.T) {
	stmts, errs := parseBody(t, "return;")
	require.Empty(t, errs)
	assert.Nil(t, stmts[0].(*ast.ReturnStmt).Value)
}

func TestStructDeclaration(t *testing.T) {
	program, errs := ParseSource("struct Point { x: int, y: float };\nstruct Empty { a: Point, }")
	require.Empty(t, errs)
	require.Len(t, program.Decls, 2)

	point := program.Decls[0].(*ast.StructDecl)
	assert.Equal(t, "Point", point.Name.Value)
	require.Len(t, point.Fields, 2)
	assert.Equal(t, "y", point.Fields[1].Name.Value)
	assert.Equal(t, "float", point.Fields[1].Type.Name)
	assert.Equal(t, "struct Point { x: int, y: float }", point.String())

	other := program.Decls[1].(*ast.StructDecl)
	require.Len(t, other.Fields, 1)
	assert.Equal(t, "Point", other.Fields[0].Type.Name)
}

func TestGlobalDeclarations(t *testing.T) {
	program, errs := ParseSource("let g: int = 5;\nconst K = 2.5;")
	require.Empty(t, errs)
	require.Len(t, program.Decls, 2)

	g := program.Decls[0].(*ast.VarDecl)
	assert.False(t, g.Const)
	assert.Equal(t, "int", g.Type.Name)

	k := program.Decls[1].(*ast.VarDecl)
	assert.True(t, k.Const)
	assert.Nil(t, k.Type)
	assert.Equal(t, ast.CONST_DECL, k.NodeType())
}

func TestTopLevelStatementIsAnError(t *testing.T) {
	program, errs := ParseSource("x = 1;\nfn main() -> void {}")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.UnexpectedToken, errs[0].ErrorType)

	require.Len(t, program.Decls, 2)
	_, bad := program.Decls[0].(*ast.BadDecl)
	assert.True(t, bad)
	_, fn := program.Decls[1].(*ast.FunctionDecl)
	assert.True(t, fn)
}

func TestNestedFunctionIsAnError(t *testing.T) {
	stmts, errs := parseBody(t, "fn inner() -> void {}\nlet x = 1;")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "only allowed at top level")

	_, bad := stmts[0].(*ast.BadStmt)
	assert.True(t, bad)
	last := stmts[len(stmts)-1].(*ast.DeclStmt)
	assert.Equal(t, "x", last.Decl.Name.Value)
}

func TestMissingReturnType(t *testing.T) {
	program, errs := ParseSource("fn f() { }")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.MissingType, errs[0].ErrorType)

	fn := program.Decls[0].(*ast.FunctionDecl)
	assert.Nil(t, fn.ReturnType)
}

func TestLexicalErrorsComeFirst(t *testing.T) {
	_, errs := ParseSource("let x = 1;\n$")
	require.Len(t, errs, 2)
	assert.Equal(t, errors.LexicalError, errs[0].Kind)
	assert.Equal(t, errors.SyntaxError, errs[1].Kind)
}

func TestParseIgnoresTrivia(t *testing.T) {
	tokens := lexer.Tokenize("let /* c */ x // trailing\n = 1;")
	program, errs := Parse(tokens)
	require.Empty(t, errs)
	assert.Equal(t, "let x = 1;", program.String())
}

func TestParseWithoutEOF(t *testing.T) {
	tokens := lexer.Significant(lexer.Tokenize("let x = 1;"))
	program, errs := Parse(tokens[:len(tokens)-1])
	require.Empty(t, errs)
	assert.Len(t, program.Decls, 1)

	program, errs = Parse(nil)
	assert.Empty(t, errs)
	assert.Empty(t, program.Decls)
}

func TestParserNeverPanics(t *testing.T) {
	f := fuzz.New().NilChance(0)
	alphabet := []string{"fn", "let", "if", "(", ")", "{", "}", ";", "x", "1", "+", "=", "->", "int", ",", "|>", "else", "do", "until", "for", "in", "struct", ":", ".", "++"}

	for i := 0; i < 300; i++ {
		var picks []uint8
		f.Fuzz(&picks)
		src := ""
		for _, b := range picks {
			src += alphabet[int(b)%len(alphabet)] + " "
		}
		assert.NotPanics(t, func() {
			program, _ := ParseSource(src)
			require.NotNil(t, program)
		}, src)
	}
}
