package ir

import (
	"fmt"
	"strings"
)

// Printer renders a module as LLVM textual IR
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the textual IR of a module
func Print(module *Module) string {
	p := NewPrinter()
	p.printModule(module)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	p.writeLine("; ModuleID = '%s'", m.ID)
	p.writeLine("source_filename = \"%s\"", escapeBytes(m.SourceFilename))
	if m.TargetTriple != "" {
		p.writeLine("target triple = \"%s\"", m.TargetTriple)
	}

	if len(m.Structs) > 0 {
		p.writeLine("")
		for _, s := range m.Structs {
			p.writeLine("%s = type %s", s, s.Body())
		}
	}

	if len(m.Globals) > 0 {
		p.writeLine("")
		for _, g := range m.Globals {
			kind := "global"
			if g.Constant {
				kind = "constant"
			}
			p.writeLine("@%s = %s %s %s", g.Name, kind, g.Type, g.Init.Ref)
		}
	}

	if len(m.Strings) > 0 {
		p.writeLine("")
		for _, s := range m.Strings {
			p.writeLine("@%s = private unnamed_addr constant %s c\"%s\\00\"", s.Name, s.ArrayType(), escapeBytes(s.Value))
		}
	}

	if len(m.Declares) > 0 {
		p.writeLine("")
		for _, d := range m.Declares {
			p.writeLine("declare %s @%s%s", d.Return, d.Name, d.paramList())
		}
	}

	for _, fn := range m.Functions {
		p.writeLine("")
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", param.Type, param.Name)
	}
	p.writeLine("define %s @%s(%s) {", fn.Return, fn.Name, strings.Join(params, ", "))

	for i, block := range fn.Blocks {
		if i > 0 {
			p.writeLine("")
		}
		p.writeLine("%s:", block.Label)
		p.indent++
		for _, inst := range block.Instructions {
			p.writeLine("%s", inst)
		}
		if block.Terminator != nil {
			p.writeLine("%s", block.Terminator)
		}
		p.indent--
	}

	p.writeLine("}")
}

// FunctionType renders the type used to call a variadic declaration,
// e.g. "i32 (ptr, ...)"
func (d *Declare) FunctionType() string {
	return fmt.Sprintf("%s %s", d.Return, d.paramList())
}

func (d *Declare) paramList() string {
	params := make([]string, 0, len(d.Params)+1)
	for _, t := range d.Params {
		params = append(params, t.String())
	}
	if d.Variadic {
		params = append(params, "...")
	}
	return "(" + strings.Join(params, ", ") + ")"
}

// escapeBytes escapes a string for a c"..." literal. Non-printable
// bytes, quotes and backslashes become \HH.
func escapeBytes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
