package tsparse

import (
	"flowdef/internal/engine/syntax"
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var predefined = map[string]syntax.Kind{
	"any":       syntax.KindAnyKeyword,
	"string":    syntax.KindStringKeyword,
	"number":    syntax.KindNumberKeyword,
	"boolean":   syntax.KindBooleanKeyword,
	"void":      syntax.KindVoidKeyword,
	"unknown":   syntax.KindUnknownKeyword,
	"never":     syntax.KindNeverKeyword,
	"object":    syntax.KindObjectKeyword,
	"symbol":    syntax.KindSymbolKeyword,
	"undefined": syntax.KindUndefinedKeyword,
	"null":      syntax.KindNullKeyword,
	"bigint":    syntax.KindBigIntKeyword,
}

var accessibility = map[string]syntax.Kind{
	"private":   syntax.KindPrivateKeyword,
	"protected": syntax.KindProtectedKeyword,
	"public":    syntax.KindPublicKeyword,
}

// signature fills the type parameters, parameters and return type of a
// callable node. returnField names the field holding the return type.
func (c *converter) signature(dst *syntax.Node, n *sitter.Node, returnField string) {
	dst.TypeParameters = c.typeParameters(n.ChildByFieldName("type_parameters"))
	dst.Parameters = c.parameters(n.ChildByFieldName("parameters"))
	dst.Type = c.typ(n.ChildByFieldName(returnField))
}

func (c *converter) typeParameters(n *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, tp := range named(n) {
		if tp.Kind() != "type_parameter" {
			continue
		}
		p := c.node(syntax.KindTypeParameter, tp)
		p.Name = c.ident(tp.ChildByFieldName("name"))
		if constraint := tp.ChildByFieldName("constraint"); constraint != nil {
			p.Constraint = c.typ(firstNamed(constraint))
		}
		if def := tp.ChildByFieldName("value"); def != nil {
			p.Default = c.typ(firstNamed(def))
		}
		out = append(out, p)
	}
	return out
}

func (c *converter) typeArguments(n *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, arg := range named(n) {
		if t := c.typ(arg); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (c *converter) parameters(n *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, p := range named(n) {
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			continue
		}
		pattern := p.ChildByFieldName("pattern")
		if pattern == nil {
			pattern = firstNamed(p)
		}
		if pattern == nil || pattern.Kind() == "this" {
			continue
		}

		param := c.node(syntax.KindParameter, p)
		param.QuestionToken = p.Kind() == "optional_parameter"
		param.Type = c.typ(p.ChildByFieldName("type"))

		switch pattern.Kind() {
		case "rest_pattern":
			param.DotDotDotToken = true
			param.Name = c.ident(firstNamed(pattern))
		case "object_pattern":
			param.Name = c.objectPattern(pattern)
		case "array_pattern":
			param.Name = c.node(syntax.KindArrayBindingPattern, pattern)
		default:
			param.Name = c.ident(pattern)
		}
		out = append(out, param)
	}
	return out
}

func (c *converter) objectPattern(n *sitter.Node) *syntax.Node {
	pattern := c.node(syntax.KindObjectBindingPattern, n)
	for _, el := range named(n) {
		var name *sitter.Node
		switch el.Kind() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			name = el
		case "pair_pattern":
			name = el.ChildByFieldName("key")
		case "object_assignment_pattern":
			name = el.ChildByFieldName("left")
		case "rest_pattern":
			name = firstNamed(el)
		}
		if name == nil {
			continue
		}
		be := c.node(syntax.KindBindingElement, el)
		be.Name = c.ident(name)
		pattern.Elements = append(pattern.Elements, be)
	}
	return pattern
}

// members adapts the body of an interface, object type or class.
func (c *converter) members(body *sitter.Node, inClass bool) []*syntax.Node {
	var out []*syntax.Node
	for _, m := range named(body) {
		if member := c.member(m, inClass); member != nil {
			out = append(out, member)
		}
	}
	return out
}

func (c *converter) member(n *sitter.Node, inClass bool) *syntax.Node {
	switch n.Kind() {
	case "property_signature", "public_field_definition":
		kind := syntax.KindPropertySignature
		if inClass {
			kind = syntax.KindPropertyDeclaration
		}
		prop := c.node(kind, n)
		prop.Name = c.propertyName(n.ChildByFieldName("name"))
		prop.Modifiers = c.memberModifiers(n)
		prop.QuestionToken = hasToken(n, "?")
		prop.Type = c.typ(n.ChildByFieldName("type"))
		return prop

	case "method_signature", "method_definition", "abstract_method_signature":
		nameNode := n.ChildByFieldName("name")
		if inClass && c.text(nameNode) == "constructor" {
			ctor := c.node(syntax.KindConstructor, n)
			ctor.Parameters = c.parameters(n.ChildByFieldName("parameters"))
			return ctor
		}
		if hasToken(n, "set") {
			return nil
		}
		if hasToken(n, "get") {
			kind := syntax.KindPropertySignature
			if inClass {
				kind = syntax.KindPropertyDeclaration
			}
			prop := c.node(kind, n)
			prop.Name = c.propertyName(nameNode)
			prop.Modifiers = append(c.memberModifiers(n), syntax.KindReadonlyKeyword)
			prop.Type = c.typ(n.ChildByFieldName("return_type"))
			return prop
		}

		kind := syntax.KindMethodSignature
		if inClass {
			kind = syntax.KindMethodDeclaration
		}
		method := c.node(kind, n)
		method.Name = c.propertyName(nameNode)
		method.Modifiers = c.memberModifiers(n)
		if n.Kind() == "abstract_method_signature" {
			method.Modifiers = append(method.Modifiers, syntax.KindAbstractKeyword)
		}
		method.QuestionToken = hasToken(n, "?")
		c.signature(method, n, "return_type")
		return method

	case "call_signature":
		call := c.node(syntax.KindCallSignature, n)
		c.signature(call, n, "return_type")
		return call

	case "construct_signature":
		ctor := c.node(syntax.KindConstructSignature, n)
		c.signature(ctor, n, "type")
		return ctor

	case "index_signature":
		if hasToken(n, "mapped_type_clause") {
			return c.node(syntax.KindMappedType, n)
		}
		idx := c.node(syntax.KindIndexSignature, n)
		idx.Modifiers = c.memberModifiers(n)
		if name := n.ChildByFieldName("name"); name != nil {
			key := c.node(syntax.KindParameter, name)
			key.Name = c.ident(name)
			key.Type = c.typ(n.ChildByFieldName("index_type"))
			idx.Parameters = []*syntax.Node{key}
		}
		idx.Type = c.typ(n.ChildByFieldName("type"))
		return idx
	}

	slog.Debug("no syntax mapping for member", "kind", n.Kind(), "position", c.pos(n).String())
	return nil
}

func (c *converter) memberModifiers(n *sitter.Node) []syntax.Kind {
	var mods []syntax.Kind
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "accessibility_modifier":
			if k, ok := accessibility[strings.TrimSpace(c.text(child))]; ok {
				mods = append(mods, k)
			}
		case "static":
			mods = append(mods, syntax.KindStaticKeyword)
		case "readonly":
			mods = append(mods, syntax.KindReadonlyKeyword)
		case "abstract":
			mods = append(mods, syntax.KindAbstractKeyword)
		case "declare":
			mods = append(mods, syntax.KindDeclareKeyword)
		}
	}
	return mods
}

// propertyName maps a member key. Quoted keys become string literals,
// `[Symbol.iterator]` becomes Flow's `@@iterator`.
func (c *converter) propertyName(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "string":
		return &syntax.Node{Kind: syntax.KindStringLiteral, Text: unquote(c.text(n)), Pos: c.pos(n)}
	case "number":
		return &syntax.Node{Kind: syntax.KindNumericLiteral, Text: c.text(n), Pos: c.pos(n)}
	case "computed_property_name":
		inner := strings.Join(strings.Fields(c.text(firstNamed(n))), "")
		if sym, ok := strings.CutPrefix(inner, "Symbol."); ok {
			return &syntax.Node{Kind: syntax.KindIdentifier, Text: "@@" + sym, Pos: c.pos(n)}
		}
		return &syntax.Node{Kind: syntax.KindIdentifier, Text: "[" + inner + "]", Pos: c.pos(n)}
	}
	return c.ident(n)
}

// typ adapts a node in type position. Annotation wrappers are unwrapped.
func (c *converter) typ(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation",
		"type_predicate_annotation", "constraint", "default_type":
		return c.typ(firstNamed(n))

	case "asserts_annotation", "asserts":
		return c.node(syntax.KindVoidKeyword, n)

	case "predefined_type":
		text := strings.Join(strings.Fields(c.text(n)), " ")
		if k, ok := predefined[text]; ok {
			return c.node(k, n)
		}
		if text == "unique symbol" {
			op := c.node(syntax.KindTypeOperator, n)
			op.Token = syntax.KindUniqueKeyword
			op.Type = c.node(syntax.KindSymbolKeyword, n)
			return op
		}
		return c.reference(n, nil)

	case "type_identifier", "identifier":
		if k, ok := predefined[c.text(n)]; ok && (k == syntax.KindUndefinedKeyword || k == syntax.KindNullKeyword) {
			return c.node(k, n)
		}
		return c.reference(n, nil)

	case "nested_type_identifier":
		return c.reference(n, nil)

	case "generic_type":
		return c.reference(n.ChildByFieldName("name"), c.typeArguments(n.ChildByFieldName("type_arguments")))

	case "this_type", "this":
		return c.node(syntax.KindThisType, n)

	case "object_type":
		for _, m := range named(n) {
			if m.Kind() == "index_signature" && hasToken(m, "mapped_type_clause") {
				return c.node(syntax.KindMappedType, n)
			}
		}
		lit := c.node(syntax.KindTypeLiteral, n)
		lit.Members = c.members(n, false)
		return lit

	case "array_type":
		arr := c.node(syntax.KindArrayType, n)
		arr.ElementType = c.typ(firstNamed(n))
		return arr

	case "tuple_type":
		tuple := c.node(syntax.KindTupleType, n)
		for _, el := range named(n) {
			tuple.ElementTypes = append(tuple.ElementTypes, c.tupleElement(el))
		}
		return tuple

	case "union_type", "intersection_type":
		kind := syntax.KindUnionType
		if n.Kind() == "intersection_type" {
			kind = syntax.KindIntersectionType
		}
		set := c.node(kind, n)
		set.Types = c.flatten(n, n.Kind())
		return set

	case "function_type":
		fn := c.node(syntax.KindFunctionType, n)
		c.signature(fn, n, "return_type")
		return fn

	case "constructor_type":
		ctor := c.node(syntax.KindConstructorType, n)
		c.signature(ctor, n, "type")
		return ctor

	case "parenthesized_type":
		paren := c.node(syntax.KindParenthesizedType, n)
		paren.Type = c.typ(firstNamed(n))
		return paren

	case "literal_type":
		return c.literal(n)

	case "string", "template_string":
		lit := c.node(syntax.KindLiteralType, n)
		lit.Literal = &syntax.Node{Kind: syntax.KindStringLiteral, Text: unquote(c.text(n)), Pos: c.pos(n)}
		return lit

	case "number":
		lit := c.node(syntax.KindLiteralType, n)
		lit.Literal = &syntax.Node{Kind: syntax.KindNumericLiteral, Text: c.text(n), Pos: c.pos(n)}
		return lit

	case "true", "false":
		return c.node(keywordFor(n.Kind()), n)

	case "type_query":
		q := c.node(syntax.KindTypeQuery, n)
		target := firstNamed(n)
		if target != nil && target.Kind() == "generic_type" {
			target = target.ChildByFieldName("name")
		}
		q.ExprName = c.entity(target)
		return q

	case "index_type_query":
		op := c.node(syntax.KindTypeOperator, n)
		op.Token = syntax.KindKeyOfKeyword
		op.Type = c.typ(firstNamed(n))
		return op

	case "readonly_type":
		op := c.node(syntax.KindTypeOperator, n)
		op.Token = syntax.KindReadonlyKeyword
		op.Type = c.typ(firstNamed(n))
		return op

	case "lookup_type":
		parts := named(n)
		access := c.node(syntax.KindIndexedAccessType, n)
		if len(parts) >= 2 {
			access.ObjectType = c.typ(parts[0])
			access.IndexType = c.typ(parts[1])
		}
		return access

	case "type_predicate":
		pred := c.node(syntax.KindTypePredicate, n)
		name := n.ChildByFieldName("name")
		if name != nil && name.Kind() == "this" {
			pred.ParameterName = c.node(syntax.KindThisType, name)
		} else {
			pred.ParameterName = c.ident(name)
		}
		pred.Type = c.typ(n.ChildByFieldName("type"))
		return pred

	case "conditional_type":
		return c.node(syntax.KindConditionalType, n)
	case "infer_type":
		return c.node(syntax.KindInferType, n)
	case "template_literal_type":
		return c.node(syntax.KindTemplateLiteralType, n)
	case "optional_type":
		return c.node(syntax.KindOptionalType, n)
	case "rest_type":
		return c.node(syntax.KindRestType, n)
	case "existential_type":
		return c.node(syntax.KindAnyKeyword, n)
	}

	slog.Debug("no syntax mapping for type", "kind", n.Kind(), "position", c.pos(n).String())
	return c.node(syntax.KindUnknown, n)
}

// reference builds a TypeReference to the (possibly dotted) name at n.
func (c *converter) reference(n *sitter.Node, args []*syntax.Node) *syntax.Node {
	ref := c.node(syntax.KindTypeReference, n)
	ref.TypeName = c.entity(n)
	ref.TypeArguments = args
	return ref
}

// flatten collects the operands of a left-nested binary union or
// intersection into one list.
func (c *converter) flatten(n *sitter.Node, kind string) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range named(n) {
		if child.Kind() == kind {
			out = append(out, c.flatten(child, kind)...)
			continue
		}
		out = append(out, c.typ(child))
	}
	return out
}

func (c *converter) tupleElement(n *sitter.Node) *syntax.Node {
	switch n.Kind() {
	case "tuple_parameter", "required_parameter":
		member := c.node(syntax.KindNamedTupleMember, n)
		member.Name = c.ident(n.ChildByFieldName("name"))
		member.Type = c.typ(n.ChildByFieldName("type"))
		return member
	case "optional_tuple_parameter", "optional_parameter":
		return c.node(syntax.KindOptionalType, n)
	}
	return c.typ(n)
}

func (c *converter) literal(n *sitter.Node) *syntax.Node {
	inner := firstNamed(n)
	lit := c.node(syntax.KindLiteralType, n)
	if inner == nil {
		// Keyword literals (true, false, null) may be anonymous.
		text := strings.TrimSpace(c.text(n))
		if text == "undefined" {
			return c.node(syntax.KindUndefinedKeyword, n)
		}
		lit.Literal = c.node(keywordFor(text), n)
		return lit
	}

	switch inner.Kind() {
	case "string":
		lit.Literal = &syntax.Node{Kind: syntax.KindStringLiteral, Text: unquote(c.text(inner)), Pos: c.pos(inner)}
	case "number", "unary_expression":
		lit.Literal = &syntax.Node{Kind: syntax.KindNumericLiteral, Text: strings.Join(strings.Fields(c.text(inner)), ""), Pos: c.pos(inner)}
	case "undefined":
		return c.node(syntax.KindUndefinedKeyword, n)
	default:
		lit.Literal = c.node(keywordFor(inner.Kind()), inner)
	}
	return lit
}

func keywordFor(text string) syntax.Kind {
	switch text {
	case "true":
		return syntax.KindTrueKeyword
	case "false":
		return syntax.KindFalseKeyword
	case "null":
		return syntax.KindNullKeyword
	}
	return syntax.KindUnknown
}
