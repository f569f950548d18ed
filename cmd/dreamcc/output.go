// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"dream/grammar"
	"dream/internal/errors"
	"dream/internal/lexer"
	"dream/internal/pipeline"
	"dream/internal/semantic"
)

var astDumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// emitter writes what the selected stage produced for each unit.
// Diagnostics always go to errOut.
type emitter struct {
	out      io.Writer
	errOut   io.Writer
	stage    pipeline.Stage
	json     bool
	dumpAST  bool
	emitLLVM bool
}

func (e *emitter) emit(unit *pipeline.Unit) error {
	if len(unit.Diagnostics) > 0 && !e.json {
		reporter := errors.NewReporter(unit.Name, unit.Source)
		fmt.Fprint(e.errOut, reporter.FormatAll(unit.Diagnostics))
	}

	if e.json {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(unit.Response(e.stage)); err != nil {
			return fmt.Errorf("encode %s: %w", unit.Name, err)
		}
		return nil
	}

	if e.dumpAST && unit.Program != nil {
		astDumper.Fdump(e.out, unit.Program)
	}

	switch e.stage {
	case pipeline.StageLex:
		writeTokenTable(e.out, unit.Tokens)
	case pipeline.StageParse:
		if !e.dumpAST && unit.Program != nil {
			fmt.Fprintln(e.out, unit.Program.String())
		}
	case pipeline.StageAnalyze:
		if unit.Semantic != nil {
			writeSymbolTable(e.out, unit.Semantic.Symbols)
		}
	default:
		if e.emitLLVM && !unit.HasErrors() {
			fmt.Fprint(e.out, unit.IR)
		}
	}
	return nil
}

func writeTokenTable(w io.Writer, tokens []lexer.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Column", "Type", "Lexeme"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, tok := range lexer.Significant(tokens) {
		table.Append([]string{
			strconv.Itoa(tok.Position.Line),
			strconv.Itoa(tok.Position.Column),
			tok.Type.String(),
			strconv.Quote(tok.Lexeme),
		})
	}
	table.Render()
}

func writeSymbolTable(w io.Writer, symbols *semantic.SymbolTable) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Scope", "Depth", "Kind", "Name", "Type", "Declared"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, scope := range symbols.Scopes() {
		for _, sym := range scope.Symbols() {
			table.Append([]string{
				fmt.Sprintf("%d (%s)", scope.ID, scope.Kind),
				strconv.Itoa(scope.Depth),
				sym.Kind.String(),
				sym.Name,
				symbolType(sym),
				fmt.Sprintf("%d:%d", sym.Position.Line, sym.Position.Column),
			})
		}
	}
	table.Render()
}

func symbolType(sym *semantic.Symbol) string {
	if sym.Kind != semantic.SymbolFunction {
		return sym.Type.String()
	}
	params := ""
	for i, p := range sym.Params {
		if i > 0 {
			params += ", "
		}
		params += p.String()
	}
	return fmt.Sprintf("(%s) -> %s", params, sym.Type)
}

// printOutlines lists the top-level declarations of each file without
// running the compiler
func printOutlines(w io.Writer, paths []string) error {
	failed := false
	for _, path := range paths {
		outline, err := grammar.ParseFile(path)
		if err != nil {
			failed = true
			source, readErr := os.ReadFile(path)
			if readErr != nil {
				fmt.Fprintln(w, err)
				continue
			}
			fmt.Fprint(w, grammar.FormatError(string(source), err))
			continue
		}
		if len(paths) > 1 {
			fmt.Fprintf(w, "%s:\n", path)
		}
		fmt.Fprint(w, outline.String())
	}
	if failed {
		return fmt.Errorf("outline failed")
	}
	return nil
}
