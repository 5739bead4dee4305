package collector

import (
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/syntax"
)

func (c *Collector) function(n *syntax.Node, context string) (*decl.FunctionDeclaration, error) {
	name := n.Name.EntityText()
	if name == "" {
		return nil, unnamed(n, context)
	}
	sig, err := c.signature(n, context)
	if err != nil {
		return nil, err
	}
	return &decl.FunctionDeclaration{Name: name, Modifiers: modifiers(n), Signature: sig}, nil
}

func (c *Collector) interfaceDecl(n *syntax.Node, context string) (*decl.InterfaceDeclaration, error) {
	name := n.Name.EntityText()
	if name == "" {
		return nil, unnamed(n, context)
	}
	tps, err := c.typeParameters(n.TypeParameters, context)
	if err != nil {
		return nil, err
	}
	members, err := c.types(n.Members, context)
	if err != nil {
		return nil, err
	}
	iface := &decl.InterfaceDeclaration{
		Name:           name,
		Modifiers:      modifiers(n),
		TypeParameters: tps,
		Members:        members,
	}
	for _, clause := range n.HeritageClauses {
		if clause == nil {
			continue
		}
		types, err := c.types(clause.Types, context)
		if err != nil {
			return nil, err
		}
		iface.Extends = append(iface.Extends, types...)
	}
	return iface, nil
}

func (c *Collector) class(n *syntax.Node, context string) (*decl.ClassDeclaration, error) {
	name := n.Name.EntityText()
	if name == "" {
		return nil, unnamed(n, context)
	}
	tps, err := c.typeParameters(n.TypeParameters, context)
	if err != nil {
		return nil, err
	}
	members, err := c.types(n.Members, context)
	if err != nil {
		return nil, err
	}
	class := &decl.ClassDeclaration{
		Name:           name,
		Modifiers:      modifiers(n),
		TypeParameters: tps,
		Members:        members,
	}
	for _, clause := range n.HeritageClauses {
		if clause == nil {
			continue
		}
		types, err := c.types(clause.Types, context)
		if err != nil {
			return nil, err
		}
		if clause.Token == syntax.KindImplementsKeyword {
			class.Implements = append(class.Implements, types...)
		} else {
			class.Extends = append(class.Extends, types...)
		}
	}
	return class, nil
}

func (c *Collector) typeAlias(n *syntax.Node, context string) (*decl.TypeAliasDeclaration, error) {
	name := n.Name.EntityText()
	if name == "" {
		return nil, unnamed(n, context)
	}
	tps, err := c.typeParameters(n.TypeParameters, context)
	if err != nil {
		return nil, err
	}
	t, err := c.typeNode(n.Type, context)
	if err != nil {
		return nil, err
	}
	return &decl.TypeAliasDeclaration{Name: name, Modifiers: modifiers(n), TypeParameters: tps, Type: t}, nil
}

func (c *Collector) signature(n *syntax.Node, context string) (decl.Signature, error) {
	var sig decl.Signature
	var err error
	if sig.TypeParameters, err = c.typeParameters(n.TypeParameters, context); err != nil {
		return sig, err
	}
	if sig.Parameters, err = c.parameters(n.Parameters, context); err != nil {
		return sig, err
	}
	if sig.Return, err = c.typeNode(n.Type, context); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Collector) parameters(nodes []*syntax.Node, context string) ([]*decl.Parameter, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]*decl.Parameter, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		p := &decl.Parameter{Optional: n.QuestionToken, Rest: n.DotDotDotToken}
		switch {
		case n.Name != nil && n.Name.Kind == syntax.KindObjectBindingPattern:
			for _, el := range n.Name.Elements {
				if el == nil {
					continue
				}
				p.Binding = append(p.Binding, &decl.BindingElement{Name: el.Name.EntityText()})
			}
		case n.Name != nil && n.Name.Kind == syntax.KindArrayBindingPattern:
			p.Name = "args"
		default:
			p.Name = n.Name.EntityText()
			if p.Name == "" {
				return nil, unnamed(n, context)
			}
		}
		t, err := c.typeNode(n.Type, context)
		if err != nil {
			return nil, err
		}
		p.Type = t
		out = append(out, p)
	}
	return out, nil
}

func (c *Collector) typeParameters(nodes []*syntax.Node, context string) ([]*decl.TypeParameter, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]*decl.TypeParameter, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		tp, err := c.typeParameter(n, context)
		if err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, nil
}

func (c *Collector) typeParameter(n *syntax.Node, context string) (*decl.TypeParameter, error) {
	name := n.Name.EntityText()
	if name == "" {
		return nil, unnamed(n, context)
	}
	constraint, err := c.typeNode(n.Constraint, context)
	if err != nil {
		return nil, err
	}
	def, err := c.typeNode(n.Default, context)
	if err != nil {
		return nil, err
	}
	return &decl.TypeParameter{Name: name, Constraint: constraint, Default: def}, nil
}

func (c *Collector) types(nodes []*syntax.Node, context string) ([]decl.Type, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]decl.Type, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		t, err := c.typeNode(n, context)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// typeNode normalizes a type-position or member node. Shapes with no
// rendering become decl.Unsupported so the printer can report them.
func (c *Collector) typeNode(n *syntax.Node, context string) (decl.Type, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind.IsKeywordType() {
		return &decl.Keyword{Token: n.Kind}, nil
	}

	switch n.Kind {
	case syntax.KindFunctionType:
		sig, err := c.signature(n, context)
		if err != nil {
			return nil, err
		}
		return &decl.FunctionType{Signature: sig}, nil

	case syntax.KindConstructorType:
		sig, err := c.signature(n, context)
		if err != nil {
			return nil, err
		}
		return &decl.ConstructorType{Signature: sig}, nil

	case syntax.KindTypeLiteral:
		members, err := c.types(n.Members, context)
		if err != nil {
			return nil, err
		}
		return &decl.TypeLiteral{Members: members}, nil

	case syntax.KindIdentifier:
		return &decl.Identifier{Text: n.Text}, nil

	case syntax.KindQualifiedName:
		left, err := c.typeNode(n.Left, context)
		if err != nil {
			return nil, err
		}
		args, err := c.types(n.TypeArguments, context)
		if err != nil {
			return nil, err
		}
		return &decl.QualifiedName{Left: left, Right: &decl.Identifier{Text: n.Right.EntityText()}, TypeArguments: args}, nil

	case syntax.KindTypeReference:
		name, err := c.typeNode(n.TypeName, context)
		if err != nil {
			return nil, err
		}
		args, err := c.types(n.TypeArguments, context)
		if err != nil {
			return nil, err
		}
		return &decl.TypeReference{Name: name, TypeArguments: args}, nil

	case syntax.KindLiteralType:
		return literal(n), nil

	case syntax.KindStringLiteral, syntax.KindNumericLiteral:
		return &decl.LiteralType{Token: n.Kind, Text: n.Text}, nil

	case syntax.KindTupleType:
		elems, err := c.types(n.ElementTypes, context)
		if err != nil {
			return nil, err
		}
		return &decl.TupleType{Elements: elems}, nil

	case syntax.KindNamedTupleMember:
		return c.typeNode(n.Type, context)

	case syntax.KindUnionType:
		types, err := c.types(n.Types, context)
		if err != nil {
			return nil, err
		}
		return &decl.UnionType{Types: types}, nil

	case syntax.KindIntersectionType:
		types, err := c.types(n.Types, context)
		if err != nil {
			return nil, err
		}
		return &decl.IntersectionType{Types: types}, nil

	case syntax.KindArrayType:
		elem, err := c.typeNode(n.ElementType, context)
		if err != nil {
			return nil, err
		}
		return &decl.ArrayType{Element: elem}, nil

	case syntax.KindParenthesizedType:
		inner, err := c.typeNode(n.Type, context)
		if err != nil {
			return nil, err
		}
		return &decl.ParenthesizedType{Type: inner}, nil

	case syntax.KindTypeQuery:
		return &decl.TypeQuery{ExprName: n.ExprName.EntityText()}, nil

	case syntax.KindTypePredicate:
		t, err := c.typeNode(n.Type, context)
		if err != nil {
			return nil, err
		}
		param := n.ParameterName.EntityText()
		if n.ParameterName != nil && n.ParameterName.Kind == syntax.KindThisType {
			param = "this"
		}
		return &decl.TypePredicate{ParameterName: param, Type: t}, nil

	case syntax.KindTypeOperator:
		return c.typeOperator(n, context)

	case syntax.KindIndexedAccessType:
		obj, err := c.typeNode(n.ObjectType, context)
		if err != nil {
			return nil, err
		}
		idx, err := c.typeNode(n.IndexType, context)
		if err != nil {
			return nil, err
		}
		return &decl.IndexedAccessType{Object: obj, Index: idx}, nil

	case syntax.KindExpressionWithTypeArguments:
		expr, err := c.typeNode(n.Expression, context)
		if err != nil {
			return nil, err
		}
		args, err := c.types(n.TypeArguments, context)
		if err != nil {
			return nil, err
		}
		return &decl.ExpressionWithTypeArguments{Expression: expr, TypeArguments: args}, nil

	case syntax.KindPropertyAccessExpression:
		return &decl.PropertyAccessExpression{Expression: n.Expression.EntityText(), Name: n.Name.EntityText()}, nil

	case syntax.KindTypeParameter:
		return c.typeParameter(n, context)

	case syntax.KindBindingElement:
		return &decl.BindingElement{Name: n.Name.EntityText()}, nil

	case syntax.KindPropertySignature, syntax.KindPropertyDeclaration:
		return c.property(n, context)

	case syntax.KindMethodSignature, syntax.KindMethodDeclaration:
		return c.method(n, context)

	case syntax.KindCallSignature:
		sig, err := c.signature(n, context)
		if err != nil {
			return nil, err
		}
		return &decl.CallSignature{Signature: sig}, nil

	case syntax.KindConstructSignature:
		sig, err := c.signature(n, context)
		if err != nil {
			return nil, err
		}
		return &decl.ConstructSignature{Signature: sig}, nil

	case syntax.KindConstructor:
		params, err := c.parameters(n.Parameters, context)
		if err != nil {
			return nil, err
		}
		return &decl.Constructor{Parameters: params}, nil

	case syntax.KindIndexSignature:
		params, err := c.parameters(n.Parameters, context)
		if err != nil {
			return nil, err
		}
		t, err := c.typeNode(n.Type, context)
		if err != nil {
			return nil, err
		}
		return &decl.IndexSignature{Parameters: params, Type: t}, nil
	}

	return &decl.Unsupported{Source: n.Kind}, nil
}

func (c *Collector) typeOperator(n *syntax.Node, context string) (decl.Type, error) {
	inner, err := c.typeNode(n.Type, context)
	if err != nil {
		return nil, err
	}
	switch n.Token {
	case syntax.KindKeyOfKeyword:
		return &decl.KeyofType{Type: inner}, nil
	case syntax.KindReadonlyKeyword:
		if arr, ok := inner.(*decl.ArrayType); ok {
			return &decl.TypeReference{
				Name:          &decl.Identifier{Text: "$ReadOnlyArray"},
				TypeArguments: []decl.Type{arr.Element},
			}, nil
		}
		return inner, nil
	case syntax.KindUniqueKeyword:
		return inner, nil
	}
	return &decl.Unsupported{Source: n.Kind}, nil
}

func (c *Collector) property(n *syntax.Node, context string) (decl.Type, error) {
	name := memberName(n.Name)
	if name == "" {
		return nil, unnamed(n, context)
	}
	t, err := c.typeNode(n.Type, context)
	if err != nil {
		return nil, err
	}
	if n.Kind == syntax.KindPropertyDeclaration {
		return &decl.PropertyDeclaration{Name: name, Modifiers: modifiers(n), Optional: n.QuestionToken, Type: t}, nil
	}
	return &decl.PropertySignature{Name: name, Modifiers: modifiers(n), Optional: n.QuestionToken, Type: t}, nil
}

func (c *Collector) method(n *syntax.Node, context string) (decl.Type, error) {
	name := memberName(n.Name)
	if name == "" {
		return nil, unnamed(n, context)
	}
	sig, err := c.signature(n, context)
	if err != nil {
		return nil, err
	}
	if n.Kind == syntax.KindMethodDeclaration {
		return &decl.MethodDeclaration{Name: name, Modifiers: modifiers(n), Optional: n.QuestionToken, Signature: sig}, nil
	}
	return &decl.MethodSignature{Name: name, Optional: n.QuestionToken, Signature: sig}, nil
}

// memberName keeps quoted keys quoted so they print back as valid keys.
func memberName(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == syntax.KindStringLiteral {
		return syntax.QuoteString(n.Text)
	}
	return n.EntityText()
}

func literal(n *syntax.Node) decl.Type {
	lit := n.Literal
	if lit == nil {
		return &decl.Unsupported{Source: n.Kind}
	}
	switch lit.Kind {
	case syntax.KindStringLiteral, syntax.KindNumericLiteral:
		return &decl.LiteralType{Token: lit.Kind, Text: lit.Text}
	case syntax.KindTrueKeyword:
		return &decl.LiteralType{Token: lit.Kind, Text: "true"}
	case syntax.KindFalseKeyword:
		return &decl.LiteralType{Token: lit.Kind, Text: "false"}
	case syntax.KindNullKeyword:
		return &decl.LiteralType{Token: lit.Kind, Text: "null"}
	}
	return &decl.Unsupported{Source: lit.Kind}
}

var modifierKinds = map[syntax.Kind]decl.Modifiers{
	syntax.KindExportKeyword:    decl.ModExport,
	syntax.KindDefaultKeyword:   decl.ModDefault,
	syntax.KindDeclareKeyword:   decl.ModDeclare,
	syntax.KindPrivateKeyword:   decl.ModPrivate,
	syntax.KindProtectedKeyword: decl.ModProtected,
	syntax.KindPublicKeyword:    decl.ModPublic,
	syntax.KindStaticKeyword:    decl.ModStatic,
	syntax.KindReadonlyKeyword:  decl.ModReadonly,
	syntax.KindAbstractKeyword:  decl.ModAbstract,
}

func modifiers(n *syntax.Node) decl.Modifiers {
	var m decl.Modifiers
	for _, k := range n.Modifiers {
		m |= modifierKinds[k]
	}
	return m
}
