package semantic

import (
	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/types"
)

// FlowAnalyzer checks that non-void functions return on every path and
// warns about statements that follow a return.
type FlowAnalyzer struct {
	analyzer *Analyzer
}

func NewFlowAnalyzer(analyzer *Analyzer) *FlowAnalyzer {
	return &FlowAnalyzer{analyzer: analyzer}
}

// AnalyzeFunction reports unreachable statements in fn and a missing
// return when returnType is a known non-void type.
func (fa *FlowAnalyzer) AnalyzeFunction(fn *ast.FunctionDecl, returnType types.Type) {
	if fn.Body == nil {
		return
	}

	returns := fa.blockReturns(fn.Body.Stmts)
	if !returns && returnType.IsKnown() && !returnType.IsVoid() {
		fa.analyzer.addCompilerError(errors.MissingReturn(fn.Name.Value, returnType.String(), fn.Name.Pos))
	}
}

// blockReturns reports whether stmts always return. The first statement
// after one that returns is flagged as unreachable.
func (fa *FlowAnalyzer) blockReturns(stmts []ast.Stmt) bool {
	for i, stmt := range stmts {
		if !fa.stmtReturns(stmt) {
			continue
		}
		if i+1 < len(stmts) {
			fa.analyzer.addCompilerError(errors.UnreachableCode(stmts[i+1].NodePos()))
		}
		return true
	}
	return false
}

func (fa *FlowAnalyzer) stmtReturns(stmt ast.Stmt) bool {
	switch node := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.Block:
		return fa.blockReturns(node.Stmts)
	case *ast.IfStmt:
		thenReturns := fa.blockReturns(node.Then.Stmts)
		if node.Else == nil {
			return false
		}
		elseReturns := fa.stmtReturns(node.Else)
		return thenReturns && elseReturns
	case *ast.DoUntilStmt:
		// the body runs at least once
		return fa.blockReturns(node.Body.Stmts)
	case *ast.WhileStmt:
		fa.blockReturns(node.Body.Stmts)
		return false
	case *ast.ForInStmt:
		fa.blockReturns(node.Body.Stmts)
		return false
	default:
		return false
	}
}
