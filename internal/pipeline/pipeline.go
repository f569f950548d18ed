package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"dream/internal/ast"
	"dream/internal/codegen"
	"dream/internal/config"
	"dream/internal/errors"
	"dream/internal/lexer"
	"dream/internal/parser"
	"dream/internal/semantic"
)

var log = commonlog.GetLogger("dream.pipeline")

type LexResponse struct {
	Tokens TokenList    `json:"tokens"`
	Errors []Diagnostic `json:"errors"`
}

// ParseResponse carries a best-effort tree and every error found while
// building it
type ParseResponse struct {
	Program *ast.Program `json:"-"`
	AST     *Node        `json:"ast"`
	Errors  []Diagnostic `json:"errors"`
}

type SemanticResponse struct {
	Result  *semantic.Result `json:"-"`
	AST     *Node            `json:"ast"`
	Symbols []Scope          `json:"symbols"`
	Errors  []Diagnostic     `json:"errors"`
}

type IRResponse struct {
	IR     string       `json:"ir"`
	Errors []Diagnostic `json:"errors"`
}

// Analyze tokenizes source. Trivia is left out of the list.
func Analyze(source string) TokenList {
	return ToWireTokens(lexer.Tokenize(source))
}

// Parse builds a tree from a client supplied token list
func Parse(tokens TokenList) ParseResponse {
	program, errs := parser.Parse(FromWireTokens(tokens))
	return newParseResponse(program, errs)
}

// ParseFromSource tokenizes and parses source. Lexical errors are listed
// before syntax errors.
func ParseFromSource(source string) ParseResponse {
	program, errs := parser.ParseSource(source)
	return newParseResponse(program, errs)
}

func newParseResponse(program *ast.Program, errs []errors.CompilerError) ParseResponse {
	return ParseResponse{
		Program: program,
		AST:     ToNode(program),
		Errors:  ToDiagnostics(errs),
	}
}

// AnalyzeSemantics checks a parsed program and annotates it in place
func AnalyzeSemantics(program *ast.Program) SemanticResponse {
	result := semantic.Analyze(program)
	return SemanticResponse{
		Result:  result,
		AST:     ToNode(result.Program),
		Symbols: ToScopes(result.Symbols),
		Errors:  ToDiagnostics(result.Errors),
	}
}

// GenerateIR lowers an analyzed program with the default module header.
// A result with semantic errors yields a precondition failure and no IR.
func GenerateIR(result *semantic.Result) IRResponse {
	text, errs := codegen.Generate(result, codegen.DefaultOptions())
	return IRResponse{IR: text, Errors: ToDiagnostics(errs)}
}

// Stage names a pipeline step. Compilation stops after the requested one.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageAnalyze
	StageGenerate
)

var stageNames = [...]string{
	StageLex:      "lex",
	StageParse:    "parse",
	StageAnalyze:  "analyze",
	StageGenerate: "generate",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Unit holds everything one compilation produced. Fields of stages that
// did not run are left empty.
type Unit struct {
	Name     string
	Source   string
	Tokens   []lexer.Token
	Program  *ast.Program
	Semantic *semantic.Result
	IR       string

	// Diagnostics are ordered by stage, then by position within a stage
	Diagnostics []errors.CompilerError
	Timings     map[Stage]time.Duration
}

// HasErrors reports whether any stage produced a non-warning diagnostic
func (u *Unit) HasErrors() bool {
	return errors.HasErrors(u.Diagnostics)
}

// Options select how far compilation goes and how many files run at once
type Options struct {
	Config    *config.Config
	StopAfter Stage
	Jobs      int
}

// Compile runs every stage on source
func Compile(name, source string, cfg *config.Config) *Unit {
	return CompileWith(name, source, Options{Config: cfg, StopAfter: StageGenerate})
}

// CompileWith runs the stages up to opts.StopAfter. IR is only generated
// when no earlier stage reported an error.
func CompileWith(name, source string, opts Options) *Unit {
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Defaults
		cfg = &defaults
	}

	unit := &Unit{
		Name:    name,
		Source:  source,
		Timings: make(map[Stage]time.Duration),
	}

	var scanner *lexer.Scanner
	unit.timed(StageLex, func() {
		scanner = lexer.NewScanner(source)
		unit.Tokens = scanner.ScanTokens()
	})
	unit.Diagnostics = append(unit.Diagnostics, scanner.Errors()...)
	if opts.StopAfter == StageLex {
		return unit.finish(cfg)
	}

	var syntaxErrors []errors.CompilerError
	unit.timed(StageParse, func() {
		unit.Program, syntaxErrors = parser.Parse(unit.Tokens)
	})
	unit.Diagnostics = append(unit.Diagnostics, syntaxErrors...)
	if opts.StopAfter == StageParse {
		return unit.finish(cfg)
	}

	unit.timed(StageAnalyze, func() {
		unit.Semantic = semantic.Analyze(unit.Program)
	})
	unit.Diagnostics = append(unit.Diagnostics, unit.Semantic.Errors...)
	if opts.StopAfter == StageAnalyze || unit.HasErrors() {
		return unit.finish(cfg)
	}

	var codegenErrors []errors.CompilerError
	unit.timed(StageGenerate, func() {
		unit.IR, codegenErrors = codegen.Generate(unit.Semantic, cfg.CodegenOptions(name))
	})
	unit.Diagnostics = append(unit.Diagnostics, codegenErrors...)
	return unit.finish(cfg)
}

func (u *Unit) timed(stage Stage, fn func()) {
	start := time.Now()
	fn()
	u.Timings[stage] = time.Since(start)
	log.Debugf("%s: %s took %s", u.Name, stage, u.Timings[stage])
}

func (u *Unit) finish(cfg *config.Config) *Unit {
	if !cfg.Compiler.EmitWarnings {
		u.Diagnostics = errors.OnlyErrors(u.Diagnostics)
	}
	if len(u.Diagnostics) > 0 {
		log.Debugf("%s: %s", u.Name, errors.Summary(u.Diagnostics))
	}
	return u
}

// Response is the wire shape of the unit as seen after stage. Diagnostics
// of every stage that ran are included.
func (u *Unit) Response(stage Stage) any {
	diagnostics := ToDiagnostics(u.Diagnostics)
	switch stage {
	case StageLex:
		return LexResponse{Tokens: ToWireTokens(u.Tokens), Errors: diagnostics}
	case StageParse:
		return ParseResponse{Program: u.Program, AST: ToNode(u.Program), Errors: diagnostics}
	case StageAnalyze:
		resp := SemanticResponse{Result: u.Semantic, AST: ToNode(u.Program), Errors: diagnostics}
		if u.Semantic != nil {
			resp.Symbols = ToScopes(u.Semantic.Symbols)
		}
		return resp
	default:
		return IRResponse{IR: u.IR, Errors: diagnostics}
	}
}

// CompileFiles reads and compiles every path, at most opts.Jobs at a time.
// Each file gets its own pipeline; units come back in the order of paths.
// Only I/O failures are returned as an error, diagnostics stay in the units.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Unit, error) {
	units := make([]*Unit, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			units[i] = CompileWith(path, string(source), opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}
