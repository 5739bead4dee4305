package decl

import "flowdef/internal/engine/syntax"

// Type is any node that can appear in type position or as a member of an
// interface, class or type literal. The set is closed: only types in this
// package implement it, and every one of them has a TypeVisitor method.
type Type interface {
	Kind() syntax.Kind
	accept(v TypeVisitor)
}

// TypeVisitor has one method per Type shape. Adding a shape without adding
// the matching method breaks every visitor at compile time.
type TypeVisitor interface {
	VisitKeyword(*Keyword)
	VisitFunctionType(*FunctionType)
	VisitConstructorType(*ConstructorType)
	VisitTypeLiteral(*TypeLiteral)
	VisitIdentifier(*Identifier)
	VisitQualifiedName(*QualifiedName)
	VisitTypeReference(*TypeReference)
	VisitLiteralType(*LiteralType)
	VisitTupleType(*TupleType)
	VisitUnionType(*UnionType)
	VisitIntersectionType(*IntersectionType)
	VisitArrayType(*ArrayType)
	VisitParenthesizedType(*ParenthesizedType)
	VisitIndexSignature(*IndexSignature)
	VisitPropertySignature(*PropertySignature)
	VisitPropertyDeclaration(*PropertyDeclaration)
	VisitMethodSignature(*MethodSignature)
	VisitMethodDeclaration(*MethodDeclaration)
	VisitCallSignature(*CallSignature)
	VisitConstructSignature(*ConstructSignature)
	VisitConstructor(*Constructor)
	VisitTypeQuery(*TypeQuery)
	VisitTypePredicate(*TypePredicate)
	VisitBindingElement(*BindingElement)
	VisitTypeParameter(*TypeParameter)
	VisitExpressionWithTypeArguments(*ExpressionWithTypeArguments)
	VisitPropertyAccessExpression(*PropertyAccessExpression)
	VisitKeyofType(*KeyofType)
	VisitIndexedAccessType(*IndexedAccessType)
	VisitUnsupported(*Unsupported)
}

// Visit dispatches t to the matching visitor method. A nil t is ignored.
func Visit(t Type, v TypeVisitor) {
	if t == nil {
		return
	}
	t.accept(v)
}

// Signature is shared by every callable shape.
type Signature struct {
	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	// Return is nil when the source omitted the return annotation.
	Return Type
}

// Parameter is a formal parameter. Binding is set instead of Name for
// object destructuring patterns.
type Parameter struct {
	Name     string
	Binding  []*BindingElement
	Optional bool
	Rest     bool
	Type     Type
}

// Keyword is a primitive keyword type, kept by its source kind.
type Keyword struct {
	Token syntax.Kind
}

type FunctionType struct {
	Signature
}

type ConstructorType struct {
	Signature
}

type TypeLiteral struct {
	Members []Type
}

type Identifier struct {
	Text string
}

type QualifiedName struct {
	Left          Type
	Right         *Identifier
	TypeArguments []Type
}

type TypeReference struct {
	Name          Type
	TypeArguments []Type
}

// LiteralType is a literal in type position. Token is StringLiteral,
// NumericLiteral, TrueKeyword, FalseKeyword or NullKeyword.
type LiteralType struct {
	Token syntax.Kind
	Text  string
}

type TupleType struct {
	Elements []Type
}

type UnionType struct {
	Types []Type
}

type IntersectionType struct {
	Types []Type
}

type ArrayType struct {
	Element Type
}

type ParenthesizedType struct {
	Type Type
}

type IndexSignature struct {
	Parameters []*Parameter
	Type       Type
}

type PropertySignature struct {
	Name      string
	Modifiers Modifiers
	Optional  bool
	Type      Type
}

type PropertyDeclaration struct {
	Name      string
	Modifiers Modifiers
	Optional  bool
	Type      Type
}

type MethodSignature struct {
	Name     string
	Optional bool
	Signature
}

type MethodDeclaration struct {
	Name      string
	Modifiers Modifiers
	Optional  bool
	Signature
}

type CallSignature struct {
	Signature
}

type ConstructSignature struct {
	Signature
}

type Constructor struct {
	Parameters []*Parameter
}

type TypeQuery struct {
	ExprName string
}

type TypePredicate struct {
	ParameterName string
	Type          Type
}

type BindingElement struct {
	Name string
}

type TypeParameter struct {
	Name       string
	Constraint Type
	Default    Type
}

type ExpressionWithTypeArguments struct {
	Expression    Type
	TypeArguments []Type
}

type PropertyAccessExpression struct {
	Expression string
	Name       string
}

// KeyofType is `keyof T`.
type KeyofType struct {
	Type Type
}

// IndexedAccessType is `T[K]`.
type IndexedAccessType struct {
	Object Type
	Index  Type
}

// Unsupported stands in for shapes the target dialect has no rendering for
// (conditional, mapped, template literal types, ...). It keeps the source
// kind so the gap stays visible.
type Unsupported struct {
	Source syntax.Kind
}

func (t *Keyword) Kind() syntax.Kind                     { return t.Token }
func (t *FunctionType) Kind() syntax.Kind                { return syntax.KindFunctionType }
func (t *ConstructorType) Kind() syntax.Kind             { return syntax.KindConstructorType }
func (t *TypeLiteral) Kind() syntax.Kind                 { return syntax.KindTypeLiteral }
func (t *Identifier) Kind() syntax.Kind                  { return syntax.KindIdentifier }
func (t *QualifiedName) Kind() syntax.Kind               { return syntax.KindQualifiedName }
func (t *TypeReference) Kind() syntax.Kind               { return syntax.KindTypeReference }
func (t *LiteralType) Kind() syntax.Kind                 { return syntax.KindLiteralType }
func (t *TupleType) Kind() syntax.Kind                   { return syntax.KindTupleType }
func (t *UnionType) Kind() syntax.Kind                   { return syntax.KindUnionType }
func (t *IntersectionType) Kind() syntax.Kind            { return syntax.KindIntersectionType }
func (t *ArrayType) Kind() syntax.Kind                   { return syntax.KindArrayType }
func (t *ParenthesizedType) Kind() syntax.Kind           { return syntax.KindParenthesizedType }
func (t *IndexSignature) Kind() syntax.Kind              { return syntax.KindIndexSignature }
func (t *PropertySignature) Kind() syntax.Kind           { return syntax.KindPropertySignature }
func (t *PropertyDeclaration) Kind() syntax.Kind         { return syntax.KindPropertyDeclaration }
func (t *MethodSignature) Kind() syntax.Kind             { return syntax.KindMethodSignature }
func (t *MethodDeclaration) Kind() syntax.Kind           { return syntax.KindMethodDeclaration }
func (t *CallSignature) Kind() syntax.Kind               { return syntax.KindCallSignature }
func (t *ConstructSignature) Kind() syntax.Kind          { return syntax.KindConstructSignature }
func (t *Constructor) Kind() syntax.Kind                 { return syntax.KindConstructor }
func (t *TypeQuery) Kind() syntax.Kind                   { return syntax.KindTypeQuery }
func (t *TypePredicate) Kind() syntax.Kind               { return syntax.KindTypePredicate }
func (t *BindingElement) Kind() syntax.Kind              { return syntax.KindBindingElement }
func (t *TypeParameter) Kind() syntax.Kind               { return syntax.KindTypeParameter }
func (t *ExpressionWithTypeArguments) Kind() syntax.Kind { return syntax.KindExpressionWithTypeArguments }
func (t *PropertyAccessExpression) Kind() syntax.Kind    { return syntax.KindPropertyAccessExpression }
func (t *KeyofType) Kind() syntax.Kind                   { return syntax.KindTypeOperator }
func (t *IndexedAccessType) Kind() syntax.Kind           { return syntax.KindIndexedAccessType }
func (t *Unsupported) Kind() syntax.Kind                 { return t.Source }

func (t *Keyword) accept(v TypeVisitor)                     { v.VisitKeyword(t) }
func (t *FunctionType) accept(v TypeVisitor)                { v.VisitFunctionType(t) }
func (t *ConstructorType) accept(v TypeVisitor)             { v.VisitConstructorType(t) }
func (t *TypeLiteral) accept(v TypeVisitor)                 { v.VisitTypeLiteral(t) }
func (t *Identifier) accept(v TypeVisitor)                  { v.VisitIdentifier(t) }
func (t *QualifiedName) accept(v TypeVisitor)               { v.VisitQualifiedName(t) }
func (t *TypeReference) accept(v TypeVisitor)               { v.VisitTypeReference(t) }
func (t *LiteralType) accept(v TypeVisitor)                 { v.VisitLiteralType(t) }
func (t *TupleType) accept(v TypeVisitor)                   { v.VisitTupleType(t) }
func (t *UnionType) accept(v TypeVisitor)                   { v.VisitUnionType(t) }
func (t *IntersectionType) accept(v TypeVisitor)            { v.VisitIntersectionType(t) }
func (t *ArrayType) accept(v TypeVisitor)                   { v.VisitArrayType(t) }
func (t *ParenthesizedType) accept(v TypeVisitor)           { v.VisitParenthesizedType(t) }
func (t *IndexSignature) accept(v TypeVisitor)              { v.VisitIndexSignature(t) }
func (t *PropertySignature) accept(v TypeVisitor)           { v.VisitPropertySignature(t) }
func (t *PropertyDeclaration) accept(v TypeVisitor)         { v.VisitPropertyDeclaration(t) }
func (t *MethodSignature) accept(v TypeVisitor)             { v.VisitMethodSignature(t) }
func (t *MethodDeclaration) accept(v TypeVisitor)           { v.VisitMethodDeclaration(t) }
func (t *CallSignature) accept(v TypeVisitor)               { v.VisitCallSignature(t) }
func (t *ConstructSignature) accept(v TypeVisitor)          { v.VisitConstructSignature(t) }
func (t *Constructor) accept(v TypeVisitor)                 { v.VisitConstructor(t) }
func (t *TypeQuery) accept(v TypeVisitor)                   { v.VisitTypeQuery(t) }
func (t *TypePredicate) accept(v TypeVisitor)               { v.VisitTypePredicate(t) }
func (t *BindingElement) accept(v TypeVisitor)              { v.VisitBindingElement(t) }
func (t *TypeParameter) accept(v TypeVisitor)               { v.VisitTypeParameter(t) }
func (t *ExpressionWithTypeArguments) accept(v TypeVisitor) { v.VisitExpressionWithTypeArguments(t) }
func (t *PropertyAccessExpression) accept(v TypeVisitor)    { v.VisitPropertyAccessExpression(t) }
func (t *KeyofType) accept(v TypeVisitor)                   { v.VisitKeyofType(t) }
func (t *IndexedAccessType) accept(v TypeVisitor)           { v.VisitIndexedAccessType(t) }
func (t *Unsupported) accept(v TypeVisitor)                 { v.VisitUnsupported(t) }
