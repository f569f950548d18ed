package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream/internal/config"
	"dream/internal/errors"
)

const fibSource = `fn fib(n: int) -> int {
    if (n <= 1) {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}

fn main() -> void {
    print(fib(10));
}`

func TestAnalyzeFiltersTrivia(t *testing.T) {
	tokens := Analyze("let x: int = 10; // ten")

	want := TokenList{
		{TokenType: "Keyword", Lexeme: "let", Line: 1, Column: 1},
		{TokenType: "Identifier", Lexeme: "x", Line: 1, Column: 5},
		{TokenType: "Colon", Lexeme: ":", Line: 1, Column: 6},
		{TokenType: "Keyword", Lexeme: "int", Line: 1, Column: 8},
		{TokenType: "Assign", Lexeme: "=", Line: 1, Column: 12},
		{TokenType: "Integer", Lexeme: "10", Line: 1, Column: 14},
		{TokenType: "Semicolon", Lexeme: ";", Line: 1, Column: 16},
		{TokenType: "EOF", Lexeme: "", Line: 1, Column: 24},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenJSONShape(t *testing.T) {
	data, err := json.Marshal(Analyze("x")[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"token_type":"Identifier","lexeme":"x","line":1,"column":1}`, string(data))
}

func TestParseMatchesParseFromSource(t *testing.T) {
	fromTokens := Parse(Analyze(fibSource))
	fromSource := ParseFromSource(fibSource)

	assert.Empty(t, fromTokens.Errors)
	assert.Empty(t, fromSource.Errors)
	assert.Equal(t, fromSource.Program.String(), fromTokens.Program.String())
	assert.Equal(t, len(fromSource.AST.Children), len(fromTokens.AST.Children))
}

func TestParseUnknownTokenType(t *testing.T) {
	resp := Parse(TokenList{
		{TokenType: "Keyword", Lexeme: "fn", Line: 1, Column: 1},
		{TokenType: "Sparkle", Lexeme: "*", Line: 1, Column: 4},
	})
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, string(errors.SyntaxError), resp.Errors[0].Kind)
	assert.NotEmpty(t, resp.Errors[0].ErrorType)
}

func TestParseErrorWireShape(t *testing.T) {
	resp := ParseFromSource("fn f(n: int) -> int { if n <= 1 { return n; } return 0; }")
	require.Len(t, resp.Errors, 1)

	diag := resp.Errors[0]
	assert.Equal(t, "SyntaxError", diag.Kind)
	assert.Equal(t, errors.MissingParenthesis, diag.ErrorType)
	assert.Equal(t, uint32(1), diag.Line)
	assert.Equal(t, uint32(26), diag.Column)
}

func TestWireTree(t *testing.T) {
	resp := ParseFromSource(fibSource)
	require.Empty(t, resp.Errors)

	root := resp.AST
	assert.Equal(t, "Program", root.NodeType)
	require.Len(t, root.Children, 2)

	fib := root.Children[0]
	assert.Equal(t, "Function", fib.NodeType)
	assert.Equal(t, "fib", fib.Value)
	assert.Equal(t, uint32(1), fib.StartLine)
	assert.Equal(t, uint32(1), fib.StartColumn)
	assert.Equal(t, uint32(6), fib.EndLine)

	require.Len(t, fib.Children, 3)
	params, ret, body := fib.Children[0], fib.Children[1], fib.Children[2]
	assert.Equal(t, "Parameters", params.NodeType)
	require.Len(t, params.Children, 1)
	assert.Equal(t, "Parameter", params.Children[0].NodeType)
	assert.Equal(t, "n", params.Children[0].Value)
	assert.Equal(t, "Type", params.Children[0].Children[0].NodeType)
	assert.Equal(t, "int", params.Children[0].Children[0].Value)
	assert.Equal(t, "Type", ret.NodeType)
	assert.Equal(t, "Block", body.NodeType)

	ifNode := body.Children[0]
	assert.Equal(t, "If", ifNode.NodeType)
	cond := ifNode.Children[0]
	assert.Equal(t, "Binary", cond.NodeType)
	assert.Equal(t, "<=", cond.Value)
	assert.Empty(t, cond.InferredType, "types are unknown before analysis")

	ret2 := body.Children[1]
	assert.Equal(t, "Return", ret2.NodeType)
	sum := ret2.Children[0]
	assert.Equal(t, "+", sum.Value)
	call := sum.Children[0]
	assert.Equal(t, "FunctionCall", call.NodeType)
	assert.Equal(t, "fib", call.Value)
	require.Len(t, call.Children, 1)
	assert.Equal(t, "Arguments", call.Children[0].NodeType)
}

func TestWireTreeStatements(t *testing.T) {
	resp := ParseFromSource(`struct P { x: int }
const LIMIT = 3;
fn f(a: bool) -> void {
    let i = 0;
    while (i < LIMIT) { i = i + 1; }
    do { i = i - 1; } until (i == 0);
    for (k in 4) { print(k); }
    if (a) { return; } else if (!a) { print("no"); }
}`)
	require.Empty(t, resp.Errors)

	var nodeTypes []string
	var walk func(n *Node)
	walk = func(n *Node) {
		nodeTypes = append(nodeTypes, n.NodeType)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(resp.AST)

	for _, want := range []string{
		"StructDeclaration", "Fields", "Field", "ConstantDeclaration", "VariableDeclaration",
		"While", "DoUntil", "For", "If", "Else", "Assignment", "Unary", "StringLiteral",
		"IntLiteral", "ExpressionStatement", "Return",
	} {
		assert.Contains(t, nodeTypes, want)
	}
	assert.NotContains(t, nodeTypes, "Error")
}

func TestWireTreeErrorNode(t *testing.T) {
	resp := ParseFromSource("fn f() -> void { let = 1; }")
	require.NotEmpty(t, resp.Errors)

	data, err := json.Marshal(resp.AST)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"node_type":"Error"`)
}

func TestAnalyzeSemantics(t *testing.T) {
	parsed := ParseFromSource(fibSource)
	resp := AnalyzeSemantics(parsed.Program)

	assert.Empty(t, resp.Errors)
	cond := resp.AST.Children[0].Children[2].Children[0].Children[0]
	assert.Equal(t, "Bool", cond.InferredType)

	require.NotEmpty(t, resp.Symbols)
	global := resp.Symbols[0]
	assert.Equal(t, "global", global.Kind)
	assert.Equal(t, -1, global.Parent)
	require.Len(t, global.Symbols, 2)
	assert.Equal(t, Symbol{Name: "fib", Kind: "function", Type: "Int", Params: []string{"Int"}, Line: 1, Column: 4}, global.Symbols[0])
}

func TestAnalyzeSemanticsReportsUndeclared(t *testing.T) {
	resp := AnalyzeSemantics(ParseFromSource("fn f() -> Int { return y; }").Program)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "SemanticError", resp.Errors[0].Kind)
	assert.Equal(t, errors.ErrorUndeclaredIdentifier, resp.Errors[0].Code)
	assert.Equal(t, uint32(24), resp.Errors[0].Column)
}

func TestGenerateIR(t *testing.T) {
	analyzed := AnalyzeSemantics(ParseFromSource(fibSource).Program)
	resp := GenerateIR(analyzed.Result)

	assert.Empty(t, resp.Errors)
	assert.Contains(t, resp.IR, "define i64 @fib(i64 %n)")
	assert.Contains(t, resp.IR, "define void @main()")
}

func TestGenerateIRPrecondition(t *testing.T) {
	analyzed := AnalyzeSemantics(ParseFromSource("fn f() -> Int { return y; }").Program)
	resp := GenerateIR(analyzed.Result)

	assert.Empty(t, resp.IR)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "CodegenError", resp.Errors[0].Kind)
	assert.Equal(t, errors.ErrorPreconditionFailed, resp.Errors[0].Code)
}

func TestCompileIsDeterministic(t *testing.T) {
	first := Compile("fib.dream", fibSource, nil)
	second := Compile("fib.dream", fibSource, nil)

	require.False(t, first.HasErrors())
	assert.Equal(t, first.IR, second.IR)
	assert.Contains(t, first.IR, `source_filename = "fib.dream"`)
	assert.Len(t, first.Timings, 4)
}

func TestCompileUsesConfig(t *testing.T) {
	cfg := config.Defaults
	cfg.Compiler.ModuleID = "custom"
	cfg.Compiler.TargetTriple = "x86_64-pc-linux-gnu"

	unit := Compile("fib.dream", fibSource, &cfg)
	assert.True(t, strings.HasPrefix(unit.IR, "; ModuleID = 'custom'\n"))
	assert.Contains(t, unit.IR, `target triple = "x86_64-pc-linux-gnu"`)
}

func TestCompileStopsAfterStage(t *testing.T) {
	unit := CompileWith("fib.dream", fibSource, Options{StopAfter: StageParse})
	assert.NotNil(t, unit.Program)
	assert.Nil(t, unit.Semantic)
	assert.Empty(t, unit.IR)
	assert.Len(t, unit.Timings, 2)

	unit = CompileWith("fib.dream", fibSource, Options{StopAfter: StageLex})
	assert.NotEmpty(t, unit.Tokens)
	assert.Nil(t, unit.Program)
}

func TestCompileSkipsCodegenAfterErrors(t *testing.T) {
	unit := Compile("bad.dream", `fn main() -> void { let s = "open; }`, nil)

	require.True(t, unit.HasErrors())
	assert.Equal(t, errors.LexicalError, unit.Diagnostics[0].Kind)
	assert.Empty(t, unit.IR)
	_, generated := unit.Timings[StageGenerate]
	assert.False(t, generated)
}

func TestCompileStringComparison(t *testing.T) {
	unit := Compile("s.dream", `fn main() -> void { let a = "x"; if (a == "x") { print(a); } }`, nil)

	assert.Empty(t, unit.Diagnostics)
	assert.Contains(t, unit.IR, "define void @main()")
	assert.Contains(t, unit.IR, "call i32 @strcmp(")
}

func TestCompileWarnings(t *testing.T) {
	source := `fn f() -> int {
    return 1;
    print(2);
}`
	unit := Compile("w.dream", source, nil)
	require.Len(t, unit.Diagnostics, 1)
	assert.True(t, unit.Diagnostics[0].IsWarning())
	assert.False(t, unit.HasErrors())
	assert.Contains(t, unit.IR, "define i64 @f()")

	cfg := config.Defaults
	cfg.Compiler.EmitWarnings = false
	unit = Compile("w.dream", source, &cfg)
	assert.Empty(t, unit.Diagnostics)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{
		fibSource,
		"fn f() -> Int { return y; }",
		"fn main() -> void { print(1.5); }",
	} {
		path := filepath.Join(dir, string(rune('a'+i))+".dream")
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		paths = append(paths, path)
	}

	units, err := CompileFiles(context.Background(), paths, Options{StopAfter: StageGenerate, Jobs: 2})
	require.NoError(t, err)
	require.Len(t, units, 3)

	for i, unit := range units {
		assert.Equal(t, paths[i], unit.Name)
	}
	assert.False(t, units[0].HasErrors())
	assert.True(t, units[1].HasErrors())
	assert.Contains(t, units[2].IR, `c"%f\0A\00"`)
}

func TestCompileFilesMissingFile(t *testing.T) {
	_, err := CompileFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.dream")}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.dream")
}

func TestCompileFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileFiles(ctx, []string{"a.dream"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnitResponse(t *testing.T) {
	unit := CompileWith("r.dream", "fn f() -> Int { return y; }", Options{StopAfter: StageAnalyze})

	lex, ok := unit.Response(StageLex).(LexResponse)
	require.True(t, ok)
	assert.Equal(t, "Keyword", lex.Tokens[0].TokenType)

	sem, ok := unit.Response(StageAnalyze).(SemanticResponse)
	require.True(t, ok)
	require.Len(t, sem.Errors, 1)
	assert.Equal(t, errors.ErrorUndeclaredIdentifier, sem.Errors[0].Code)
	require.NotEmpty(t, sem.Symbols)
	assert.Equal(t, "global", sem.Symbols[0].Kind)

	data, err := json.Marshal(unit.Response(StageParse))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"ast":{"node_type":"Program"`))

	ir := Compile("ok.dream", fibSource, nil).Response(StageGenerate).(IRResponse)
	assert.Contains(t, ir.IR, "define i64 @fib(i64 %n)")
	assert.Empty(t, ir.Errors)
}
