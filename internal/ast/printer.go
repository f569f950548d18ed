package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func (p *Program) String() string {
	parts := make([]string, len(p.Decls))
	for i, d := range p.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n\n")
}

func (f *FunctionDecl) String() string {
	var b strings.Builder

	b.WriteString("fn ")
	b.WriteString(f.Name.Value)
	b.WriteString("(")
	for i, param := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.String())
	}
	b.WriteString(")")

	if f.ReturnType != nil {
		b.WriteString(" -> ")
		b.WriteString(f.ReturnType.String())
	}

	b.WriteString(" ")
	if f.Body != nil {
		b.WriteString(f.Body.String())
	} else {
		b.WriteString("{}")
	}
	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s: %s", p.Name.Value, p.Type.String())
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<missing>"
	}
	return t.Name
}

func (s *StructDecl) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("struct %s {", s.Name.Value))
	for i, field := range s.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(field.String())
	}
	b.WriteString(" }")
	return b.String()
}

func (f *Field) String() string {
	return fmt.Sprintf("%s: %s", f.Name.Value, f.Type.String())
}

func (v *VarDecl) String() string {
	var b strings.Builder
	if v.Const {
		b.WriteString("const ")
	} else {
		b.WriteString("let ")
	}
	b.WriteString(v.Name.Value)
	if v.Type != nil {
		b.WriteString(": ")
		b.WriteString(v.Type.String())
	}
	if v.Value != nil {
		b.WriteString(" = ")
		b.WriteString(v.Value.String())
	}
	b.WriteString(";")
	return b.String()
}

func (bd *BadDecl) String() string {
	return fmt.Sprintf("BadDecl: %s", bd.Bad.Message)
}

func (b *Block) String() string {
	if len(b.Stmts) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, stmt := range b.Stmts {
		sb.WriteString("    " + strings.ReplaceAll(stmt.String(), "\n", "\n    ") + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (i *IfStmt) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond.String(), i.Then.String())
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", w.Cond.String(), w.Body.String())
}

func (d *DoUntilStmt) String() string {
	return fmt.Sprintf("do %s until (%s);", d.Body.String(), d.Cond.String())
}

func (f *ForInStmt) String() string {
	return fmt.Sprintf("for (%s in %s) %s", f.Var.Value, f.Iterable.String(), f.Body.String())
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

func (e *ExprStmt) String() string {
	return e.Expr.String() + ";"
}

func (d *DeclStmt) String() string {
	return d.Decl.String()
}

func (bs *BadStmt) String() string {
	return fmt.Sprintf("BadStmt: %s", bs.Bad.Message)
}

func (l *LiteralExpr) String() string {
	if l.Kind == StringLiteral {
		return strconv.Quote(l.Value)
	}
	return l.Value
}

func (i *IdentExpr) String() string {
	return i.Name
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", b.Left.String(), b.Op, b.Right.String())
}

func (u *UnaryExpr) String() string {
	return u.Op + u.Operand.String()
}

func (g *GroupedExpr) String() string {
	return "(" + g.Inner.String() + ")"
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(args, ", "))
}

func (a *AssignExpr) String() string {
	return fmt.Sprintf("%s = %s", a.Target.String(), a.Value.String())
}

func (m *MemberExpr) String() string {
	return m.Target.String() + "." + m.Field.Value
}

func (be *BadExpr) String() string {
	return fmt.Sprintf("BadExpr: %s", be.Bad.Message)
}
