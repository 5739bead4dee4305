// Package syntax defines the node shape the converter consumes from a parser.
//
// A Node is one struct carrying every child slot the supported declaration
// shapes use; field comments name the kinds that fill each slot. Parsers adapt
// their own trees onto this shape and the collector normalizes it into decl
// nodes.
package syntax

import (
	"fmt"
	"strings"
)

// NodeFlags mirror the subset of compiler node flags the collector reads.
type NodeFlags uint8

const (
	// FlagNamespace marks a ModuleDeclaration written with `namespace`.
	FlagNamespace NodeFlags = 1 << iota
	// FlagNestedNamespace marks the inner levels of `namespace A.B`.
	FlagNestedNamespace
	// FlagGlobalAugmentation marks `declare global { ... }`.
	FlagGlobalAugmentation
	FlagConst
	FlagLet
)

func (f NodeFlags) Has(flag NodeFlags) bool { return f&flag != 0 }

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Node struct {
	Kind  Kind
	Pos   Position
	Flags NodeFlags
	// Text holds identifier and literal text. String literals are unquoted
	// with their escape sequences decoded.
	Text string

	Name      *Node
	Modifiers []Kind

	// Statement containers: SourceFile, ModuleBlock.
	Statements []*Node
	// ModuleDeclaration body: a ModuleBlock, or a nested ModuleDeclaration
	// for dotted namespaces.
	Body *Node

	// VariableStatement -> DeclarationList -> Declarations.
	DeclarationList *Node
	Declarations    []*Node

	Type            *Node
	TypeName        *Node // TypeReference
	ExprName        *Node // TypeQuery
	Expression      *Node // ExportAssignment, ExpressionWithTypeArguments, PropertyAccessExpression
	Left            *Node // QualifiedName
	Right           *Node // QualifiedName
	Literal         *Node // LiteralType
	ParameterName   *Node // TypePredicate
	ObjectType      *Node // IndexedAccessType
	IndexType       *Node // IndexedAccessType
	ElementType     *Node // ArrayType
	Constraint      *Node // TypeParameter
	Default         *Node // TypeParameter
	PropertyName    *Node // ImportSpecifier, BindingElement
	ModuleSpecifier *Node // ImportDeclaration

	Parameters      []*Node
	TypeParameters  []*Node
	TypeArguments   []*Node
	Members         []*Node
	HeritageClauses []*Node
	Types           []*Node // UnionType, IntersectionType, HeritageClause
	ElementTypes    []*Node // TupleType
	Elements        []*Node // binding patterns, ImportDeclaration named bindings

	// Token qualifies HeritageClause (Extends/Implements) and TypeOperator
	// (KeyOf/Readonly/Unique).
	Token Kind

	QuestionToken  bool
	DotDotDotToken bool
	IsExportEquals bool
}

// HasModifier reports whether the node carries the given modifier keyword.
func (n *Node) HasModifier(k Kind) bool {
	if n == nil {
		return false
	}
	for _, m := range n.Modifiers {
		if m == k {
			return true
		}
	}
	return false
}

// EntityText renders identifiers, string literals, qualified names and
// property access chains as dotted text. Anything else yields "".
func (n *Node) EntityText() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier, KindStringLiteral, KindNumericLiteral:
		return n.Text
	case KindQualifiedName:
		left, right := n.Left.EntityText(), n.Right.EntityText()
		if left == "" || right == "" {
			return ""
		}
		return left + "." + right
	case KindPropertyAccessExpression:
		left, right := n.Expression.EntityText(), n.Name.EntityText()
		if left == "" || right == "" {
			return ""
		}
		return left + "." + right
	}
	return ""
}

// SplitEntity splits dotted entity text into its qualifier and final part.
// "A.B.C" yields ("A.B", "C"); "X" yields ("", "X").
func SplitEntity(text string) (qualifier, last string) {
	idx := strings.LastIndex(text, ".")
	if idx < 0 {
		return "", text
	}
	return text[:idx], text[idx+1:]
}

// Ident builds an Identifier node.
func Ident(text string) *Node {
	return &Node{Kind: KindIdentifier, Text: text}
}

// Keyword builds a keyword type node.
func Keyword(k Kind) *Node {
	return &Node{Kind: k}
}

// Ref builds a TypeReference to a possibly dotted name.
func Ref(name string, args ...*Node) *Node {
	return &Node{Kind: KindTypeReference, TypeName: EntityName(name), TypeArguments: args}
}

// EntityName builds an Identifier or a left-nested QualifiedName chain.
func EntityName(name string) *Node {
	parts := strings.Split(name, ".")
	node := Ident(parts[0])
	for _, part := range parts[1:] {
		node = &Node{Kind: KindQualifiedName, Left: node, Right: Ident(part)}
	}
	return node
}
