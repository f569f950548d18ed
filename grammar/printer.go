package grammar

import (
	"fmt"
	"strings"
)

func (o *Outline) String() string {
	var b strings.Builder
	for _, d := range o.Decls {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Decl) String() string {
	switch {
	case d.Struct != nil:
		return d.Struct.String()
	case d.Function != nil:
		return d.Function.String()
	case d.Global != nil:
		return d.Global.String()
	}
	return ""
}

func (s *Struct) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name.Value, f.Type)
	}
	if len(fields) == 0 {
		return fmt.Sprintf("struct %s {}", s.Name.Value)
	}
	return fmt.Sprintf("struct %s { %s }", s.Name.Value, strings.Join(fields, ", "))
}

// String prints the signature only
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name.Value, p.Type)
	}
	sig := fmt.Sprintf("fn %s(%s)", f.Name.Value, strings.Join(params, ", "))
	if f.Return != "" {
		sig += " -> " + f.Return
	}
	return sig
}

func (g *Global) String() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(g.Keyword))
	b.WriteString(" ")
	b.WriteString(g.Name.Value)
	if g.Type != "" {
		b.WriteString(": ")
		b.WriteString(g.Type)
	}
	b.WriteString(" = ")
	b.WriteString(strings.Join(g.Value, " "))
	b.WriteString(";")
	return b.String()
}
