package printer

import (
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/diag"
	"flowdef/internal/engine/syntax"
	"fmt"
)

const unmappedPrefix = "NO PRINT IMPLEMENTED: "

var keywords = map[syntax.Kind]string{
	syntax.KindAnyKeyword:       "any",
	syntax.KindStringKeyword:    "string",
	syntax.KindNumberKeyword:    "number",
	syntax.KindBooleanKeyword:   "boolean",
	syntax.KindVoidKeyword:      "void",
	syntax.KindUnknownKeyword:   "mixed",
	syntax.KindNeverKeyword:     "empty",
	syntax.KindObjectKeyword:    "{}",
	syntax.KindSymbolKeyword:    "Symbol",
	syntax.KindUndefinedKeyword: "void",
	syntax.KindNullKeyword:      "null",
	syntax.KindBigIntKeyword:    "bigint",
	syntax.KindTrueKeyword:      "true",
	syntax.KindFalseKeyword:     "false",
	syntax.KindThisType:         "this",
}

// Type renders t. A missing type prints as any.
func (p *Printer) Type(t decl.Type) string {
	if t == nil {
		return "any"
	}
	w := &typeWriter{p: p}
	decl.Visit(t, w)
	return w.out
}

func (p *Printer) unmapped(kind syntax.Kind) string {
	p.diags = append(p.diags, diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Code:     diag.CodeUnmappedKind,
		Context:  p.scope,
		Symbol:   kind.String(),
		Message:  fmt.Sprintf("no Flow rendering for %s; placeholder emitted", kind),
	})
	return unmappedPrefix + kind.String()
}

// typeWriter is the printer's decl.TypeVisitor. Each method leaves its
// rendering in out.
type typeWriter struct {
	p   *Printer
	out string
}

func (w *typeWriter) VisitKeyword(t *decl.Keyword) {
	if s, ok := keywords[t.Token]; ok {
		w.out = s
		return
	}
	w.out = w.p.unmapped(t.Token)
}

func (w *typeWriter) VisitFunctionType(t *decl.FunctionType) {
	w.out = w.p.signature(t.Signature, " =>")
}

func (w *typeWriter) VisitConstructorType(t *decl.ConstructorType) {
	w.out = "Class<" + w.p.Type(t.Return) + ">"
}

func (w *typeWriter) VisitTypeLiteral(t *decl.TypeLiteral) {
	w.out = w.p.body(t.Members, ",")
}

func (w *typeWriter) VisitIdentifier(t *decl.Identifier) {
	w.out = t.Text
}

func (w *typeWriter) VisitQualifiedName(t *decl.QualifiedName) {
	right := ""
	if t.Right != nil {
		right = t.Right.Text
	}
	w.out = w.p.Type(t.Left) + "." + right + w.p.typeArguments(t.TypeArguments)
}

func (w *typeWriter) VisitTypeReference(t *decl.TypeReference) {
	w.out = w.p.Type(t.Name) + w.p.typeArguments(t.TypeArguments)
}

func (w *typeWriter) VisitLiteralType(t *decl.LiteralType) {
	if t.Token == syntax.KindStringLiteral {
		w.out = syntax.QuoteString(t.Text)
		return
	}
	w.out = t.Text
}

func (w *typeWriter) VisitTupleType(t *decl.TupleType) {
	w.out = "[" + w.p.joinTypes(t.Elements, ", ") + "]"
}

func (w *typeWriter) VisitUnionType(t *decl.UnionType) {
	w.out = w.p.joinTypes(t.Types, " | ")
}

func (w *typeWriter) VisitIntersectionType(t *decl.IntersectionType) {
	w.out = w.p.joinTypes(t.Types, " & ")
}

func (w *typeWriter) VisitArrayType(t *decl.ArrayType) {
	w.out = w.p.Type(t.Element) + "[]"
}

func (w *typeWriter) VisitParenthesizedType(t *decl.ParenthesizedType) {
	w.out = "(" + w.p.Type(t.Type) + ")"
}

func (w *typeWriter) VisitIndexSignature(t *decl.IndexSignature) {
	w.out = "[" + w.p.parameters(t.Parameters) + "]: " + w.p.Type(t.Type)
}

func (w *typeWriter) VisitPropertySignature(t *decl.PropertySignature) {
	w.out = variance(t.Modifiers) + t.Name + optional(t.Optional) + ": " + w.p.Type(t.Type)
}

func (w *typeWriter) VisitPropertyDeclaration(t *decl.PropertyDeclaration) {
	if t.Modifiers.Has(decl.ModPrivate) {
		w.out = ""
		return
	}
	w.out = static(t.Modifiers) + variance(t.Modifiers) + t.Name + optional(t.Optional) + ": " + w.p.Type(t.Type)
}

func (w *typeWriter) VisitMethodSignature(t *decl.MethodSignature) {
	if t.Optional {
		w.out = t.Name + "?: " + w.p.signature(t.Signature, " =>")
		return
	}
	w.out = t.Name + w.p.signature(t.Signature, ":")
}

func (w *typeWriter) VisitMethodDeclaration(t *decl.MethodDeclaration) {
	if t.Modifiers.Has(decl.ModPrivate) {
		w.out = ""
		return
	}
	if t.Optional {
		w.out = static(t.Modifiers) + t.Name + "?: " + w.p.signature(t.Signature, " =>")
		return
	}
	w.out = static(t.Modifiers) + t.Name + w.p.signature(t.Signature, ":")
}

func (w *typeWriter) VisitCallSignature(t *decl.CallSignature) {
	w.out = w.p.signature(t.Signature, ":")
}

func (w *typeWriter) VisitConstructSignature(t *decl.ConstructSignature) {
	w.out = "new " + w.p.signature(t.Signature, ":")
}

func (w *typeWriter) VisitConstructor(t *decl.Constructor) {
	w.out = "constructor(" + w.p.parameters(t.Parameters) + "): this"
}

func (w *typeWriter) VisitTypeQuery(t *decl.TypeQuery) {
	w.out = "typeof " + t.ExprName
}

func (w *typeWriter) VisitTypePredicate(t *decl.TypePredicate) {
	w.out = t.ParameterName
}

func (w *typeWriter) VisitBindingElement(t *decl.BindingElement) {
	w.out = t.Name
}

func (w *typeWriter) VisitTypeParameter(t *decl.TypeParameter) {
	s := t.Name
	if t.Constraint != nil {
		s += ": " + w.p.Type(t.Constraint)
	}
	if t.Default != nil {
		s += " = " + w.p.Type(t.Default)
	}
	w.out = s
}

func (w *typeWriter) VisitExpressionWithTypeArguments(t *decl.ExpressionWithTypeArguments) {
	w.out = w.p.Type(t.Expression) + w.p.typeArguments(t.TypeArguments)
}

func (w *typeWriter) VisitPropertyAccessExpression(t *decl.PropertyAccessExpression) {
	w.out = t.Expression + "$" + t.Name
}

func (w *typeWriter) VisitKeyofType(t *decl.KeyofType) {
	w.out = "$Keys<" + w.p.Type(t.Type) + ">"
}

func (w *typeWriter) VisitIndexedAccessType(t *decl.IndexedAccessType) {
	w.out = "$ElementType<" + w.p.Type(t.Object) + ", " + w.p.Type(t.Index) + ">"
}

func (w *typeWriter) VisitUnsupported(t *decl.Unsupported) {
	w.out = w.p.unmapped(t.Source)
}

func optional(b bool) string {
	if b {
		return "?"
	}
	return ""
}

// variance marks readonly members covariant.
func variance(m decl.Modifiers) string {
	if m.Has(decl.ModReadonly) {
		return "+"
	}
	return ""
}

func static(m decl.Modifiers) string {
	if m.Has(decl.ModStatic) {
		return "static "
	}
	return ""
}
