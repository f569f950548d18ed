package semantic

import (
	"dream/internal/ast"
	"dream/internal/errors"
	"dream/internal/types"
)

// declareStruct registers a struct name. It returns false for a duplicate.
func (a *Analyzer) declareStruct(s *ast.StructDecl) bool {
	sym := &Symbol{
		Name:     s.Name.Value,
		Kind:     SymbolStruct,
		Type:     types.StructType(s.Name.Value),
		Position: s.Name.Pos,
		Node:     s,
	}
	if existing, ok := a.symbols.Define(GlobalScope, sym); !ok {
		a.addCompilerError(errors.DuplicateDeclaration(s.Name.Value, s.Name.Pos, existing.Position))
		return false
	}
	a.registry.Define(&types.StructDef{Name: s.Name.Value})
	return true
}

func (a *Analyzer) resolveStructFields(s *ast.StructDecl) {
	def, _ := a.registry.Lookup(s.Name.Value)
	seen := make(map[string]bool)

	for _, field := range s.Fields {
		name := field.Name.Value
		if seen[name] {
			a.addCompilerError(errors.DuplicateField(s.Name.Value, name, field.Name.Pos))
			continue
		}
		seen[name] = true

		fieldType := a.resolveTypeRef(field.Type)
		if fieldType.IsVoid() {
			a.addCompilerError(errors.VoidDeclaration("field", name, field.Name.Pos))
			fieldType = types.UnknownType
		}
		def.Fields = append(def.Fields, types.Field{Name: name, Type: fieldType})
	}
}

func (a *Analyzer) declareFunction(fn *ast.FunctionDecl) {
	sig := &signature{returnType: a.resolveTypeRef(fn.ReturnType)}
	for _, param := range fn.Params {
		paramType := a.resolveTypeRef(param.Type)
		if paramType.IsVoid() {
			a.addCompilerError(errors.VoidDeclaration("parameter", param.Name.Value, param.Name.Pos))
			paramType = types.UnknownType
		}
		sig.params = append(sig.params, paramType)
	}
	a.signatures[fn] = sig

	sym := &Symbol{
		Name:     fn.Name.Value,
		Kind:     SymbolFunction,
		Type:     sig.returnType,
		Params:   sig.params,
		Position: fn.Name.Pos,
		Node:     fn,
	}
	if existing, ok := a.symbols.Define(GlobalScope, sym); !ok {
		a.addCompilerError(errors.DuplicateDeclaration(fn.Name.Value, fn.Name.Pos, existing.Position))
	}
}

// analyzeVarDecl checks a let or const declaration and defines it in the
// current scope. The initializer is checked first, so it cannot refer to
// the name being declared.
func (a *Analyzer) analyzeVarDecl(decl *ast.VarDecl) {
	if decl == nil {
		return
	}
	name := decl.Name.Value

	declared := types.UnknownType
	if decl.Type != nil {
		declared = a.resolveTypeRef(decl.Type)
		if declared.IsVoid() {
			a.addCompilerError(errors.VoidDeclaration(declKind(decl), name, decl.Name.Pos))
			declared = types.UnknownType
		}
	}

	valueType := types.UnknownType
	if decl.Value != nil {
		valueType = a.analyzeExpression(decl.Value)
		if valueType.IsVoid() {
			a.addCompilerError(errors.VoidInExpression("initializer of '"+name+"'", decl.Value.NodePos()))
			valueType = types.UnknownType
		}
	}

	varType := valueType
	if decl.Type != nil {
		varType = declared
		if declared.IsKnown() && valueType.IsKnown() && !declared.Equal(valueType) {
			a.addCompilerError(errors.TypeMismatch(declared.String(), valueType.String(), decl.Value.NodePos()))
		}
	}

	kind := SymbolVariable
	if decl.Const {
		kind = SymbolConstant
	}
	sym := &Symbol{
		Name:     name,
		Kind:     kind,
		Type:     varType,
		Position: decl.Name.Pos,
		Node:     decl,
	}
	if existing, ok := a.symbols.Define(a.scope, sym); !ok {
		a.addCompilerError(errors.DuplicateDeclaration(name, decl.Name.Pos, existing.Position))
	}
}

func declKind(decl *ast.VarDecl) string {
	if decl.Const {
		return "constant"
	}
	return "variable"
}

// resolveTypeRef maps an annotation to a type. A missing annotation was
// already reported by the parser and resolves to Unknown silently.
func (a *Analyzer) resolveTypeRef(ref *ast.TypeRef) types.Type {
	if ref == nil {
		a.incomplete = true
		return types.UnknownType
	}
	t := types.FromAnnotation(ref.Name)
	if t.IsStruct() && !a.registry.IsValidType(t) {
		similar := errors.SimilarNames(ref.Name, a.registry.TypeNames())
		a.addCompilerError(errors.UnknownType(ref.Name, ref.Pos, similar))
		return types.UnknownType
	}
	return t
}
