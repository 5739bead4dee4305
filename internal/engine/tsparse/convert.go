package tsparse

import (
	"flowdef/internal/engine/syntax"
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// converter carries the source of one file while its tree is adapted.
type converter struct {
	src  []byte
	path string
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) pos(n *sitter.Node) syntax.Position {
	p := n.StartPosition()
	return syntax.Position{File: c.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (c *converter) node(kind syntax.Kind, n *sitter.Node) *syntax.Node {
	return &syntax.Node{Kind: kind, Pos: c.pos(n)}
}

func (c *converter) ident(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	id := c.node(syntax.KindIdentifier, n)
	id.Text = c.text(n)
	return id
}

// named lists the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if parts := named(n); len(parts) > 0 {
		return parts[0]
	}
	return nil
}

// hasToken reports whether n has a direct child of the given kind, named or
// anonymous ("?", "default", "static", ...).
func hasToken(n *sitter.Node, kind string) bool {
	return childOfKind(n, kind) != nil
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// entity builds an Identifier or QualifiedName chain from dotted source
// text such as `A.B.C` or `A . B`.
func (c *converter) entity(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	text := strings.Join(strings.Fields(c.text(n)), "")
	if text == "" {
		return nil
	}
	e := syntax.EntityName(text)
	setPos(e, c.pos(n))
	return e
}

func setPos(n *syntax.Node, pos syntax.Position) {
	if n == nil {
		return
	}
	n.Pos = pos
	setPos(n.Left, pos)
	setPos(n.Right, pos)
}

func (c *converter) program(root *sitter.Node) *syntax.Node {
	file := c.node(syntax.KindSourceFile, root)
	file.Statements = c.statements(root)
	return file
}

func (c *converter) statements(container *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range named(container) {
		if stmt := c.statement(child, nil); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (c *converter) block(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	b := c.node(syntax.KindModuleBlock, n)
	b.Statements = c.statements(n)
	return b
}

func (c *converter) statement(n *sitter.Node, mods []syntax.Kind) *syntax.Node {
	switch n.Kind() {
	case "ambient_declaration":
		mods = append(mods, syntax.KindDeclareKeyword)
		if hasToken(n, "global") {
			global := c.node(syntax.KindModuleDeclaration, n)
			global.Name = &syntax.Node{Kind: syntax.KindIdentifier, Text: "global", Pos: global.Pos}
			global.Flags = syntax.FlagGlobalAugmentation
			global.Modifiers = mods
			global.Body = c.block(childOfKind(n, "statement_block"))
			return global
		}
		if child := firstNamed(n); child != nil {
			return c.statement(child, mods)
		}
		return nil

	case "export_statement":
		return c.exportStatement(n, mods)

	case "module":
		return c.module(n, mods, false)

	case "internal_module":
		return c.module(n, mods, true)

	case "function_signature", "function_declaration", "generator_function_declaration":
		fn := c.node(syntax.KindFunctionDeclaration, n)
		fn.Name = c.ident(n.ChildByFieldName("name"))
		fn.Modifiers = mods
		c.signature(fn, n, "return_type")
		return fn

	case "interface_declaration":
		return c.interfaceDecl(n, mods)

	case "type_alias_declaration":
		alias := c.node(syntax.KindTypeAliasDeclaration, n)
		alias.Name = c.ident(n.ChildByFieldName("name"))
		alias.Modifiers = mods
		alias.TypeParameters = c.typeParameters(n.ChildByFieldName("type_parameters"))
		alias.Type = c.typ(n.ChildByFieldName("value"))
		return alias

	case "class_declaration", "abstract_class_declaration", "class":
		if n.Kind() == "abstract_class_declaration" {
			mods = append(mods, syntax.KindAbstractKeyword)
		}
		return c.class(n, mods)

	case "lexical_declaration", "variable_declaration":
		return c.variableStatement(n, mods)

	case "import_statement":
		return c.importStatement(n)

	case "enum_declaration":
		enum := c.node(syntax.KindEnumDeclaration, n)
		enum.Name = c.ident(n.ChildByFieldName("name"))
		return enum

	case "import_alias":
		return c.node(syntax.KindImportEqualsDeclaration, n)

	case "expression_statement":
		// A bare `namespace X {}` parses as an expression statement.
		if inner := firstNamed(n); inner != nil && inner.Kind() == "internal_module" {
			return c.module(inner, mods, true)
		}
		return c.node(syntax.KindExpressionStatement, n)

	case "empty_statement", "comment":
		return nil
	}

	slog.Debug("no syntax mapping for statement", "kind", n.Kind(), "position", c.pos(n).String())
	return c.node(syntax.KindUnknown, n)
}

func (c *converter) exportStatement(n *sitter.Node, mods []syntax.Kind) *syntax.Node {
	mods = append(mods, syntax.KindExportKeyword)
	isDefault := hasToken(n, "default")
	if isDefault {
		mods = append(mods, syntax.KindDefaultKeyword)
	}

	if d := n.ChildByFieldName("declaration"); d != nil {
		return c.statement(d, mods)
	}

	if hasToken(n, "=") || isDefault {
		target := n.ChildByFieldName("value")
		if target == nil {
			target = firstNamed(n)
		}
		expr := c.expression(target)
		if expr == nil {
			slog.Debug("skipping export of a non-entity expression", "position", c.pos(n).String())
			return nil
		}
		assign := c.node(syntax.KindExportAssignment, n)
		assign.Expression = expr
		assign.IsExportEquals = hasToken(n, "=")
		return assign
	}

	if hasToken(n, "as") && hasToken(n, "namespace") {
		return c.node(syntax.KindNamespaceExportDeclaration, n)
	}
	// export { a, b } and export * from '...' carry no declarations.
	return nil
}

// expression maps identifiers and member access chains; anything else
// yields nil.
func (c *converter) expression(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "type_identifier":
		return c.ident(n)
	case "member_expression", "nested_identifier":
		pa := c.node(syntax.KindPropertyAccessExpression, n)
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil {
			parts := named(n)
			if len(parts) < 2 {
				return nil
			}
			obj, prop = parts[0], parts[len(parts)-1]
		}
		pa.Expression = c.expression(obj)
		pa.Name = c.ident(prop)
		if pa.Expression == nil {
			return nil
		}
		return pa
	case "parenthesized_expression":
		return c.expression(firstNamed(n))
	}
	return nil
}

func (c *converter) module(n *sitter.Node, mods []syntax.Kind, namespace bool) *syntax.Node {
	nameNode := n.ChildByFieldName("name")
	body := c.block(n.ChildByFieldName("body"))

	if nameNode != nil && nameNode.Kind() == "string" {
		m := c.node(syntax.KindModuleDeclaration, n)
		m.Name = &syntax.Node{Kind: syntax.KindStringLiteral, Text: unquote(c.text(nameNode)), Pos: c.pos(nameNode)}
		m.Modifiers = mods
		m.Body = body
		return m
	}

	// `namespace A.B.C {}` nests one declaration per segment.
	parts := strings.Split(strings.Join(strings.Fields(c.text(nameNode)), ""), ".")
	var flags syntax.NodeFlags
	if namespace {
		flags = syntax.FlagNamespace
	}

	var inner *syntax.Node
	for i := len(parts) - 1; i >= 0; i-- {
		m := c.node(syntax.KindModuleDeclaration, n)
		m.Name = &syntax.Node{Kind: syntax.KindIdentifier, Text: parts[i], Pos: m.Pos}
		m.Flags = flags
		if i > 0 {
			m.Flags |= syntax.FlagNestedNamespace
		}
		if inner == nil {
			m.Body = body
		} else {
			m.Body = inner
		}
		inner = m
	}
	inner.Modifiers = mods
	return inner
}

func (c *converter) interfaceDecl(n *sitter.Node, mods []syntax.Kind) *syntax.Node {
	iface := c.node(syntax.KindInterfaceDeclaration, n)
	iface.Name = c.ident(n.ChildByFieldName("name"))
	iface.Modifiers = mods
	iface.TypeParameters = c.typeParameters(n.ChildByFieldName("type_parameters"))

	if ext := childOfKind(n, "extends_type_clause"); ext != nil {
		clause := c.node(syntax.KindHeritageClause, ext)
		clause.Token = syntax.KindExtendsKeyword
		for _, t := range named(ext) {
			clause.Types = append(clause.Types, c.heritageType(t))
		}
		iface.HeritageClauses = append(iface.HeritageClauses, clause)
	}

	iface.Members = c.members(n.ChildByFieldName("body"), false)
	return iface
}

func (c *converter) class(n *sitter.Node, mods []syntax.Kind) *syntax.Node {
	class := c.node(syntax.KindClassDeclaration, n)
	class.Name = c.ident(n.ChildByFieldName("name"))
	class.Modifiers = mods
	class.TypeParameters = c.typeParameters(n.ChildByFieldName("type_parameters"))

	if heritage := childOfKind(n, "class_heritage"); heritage != nil {
		for _, h := range named(heritage) {
			clause := c.node(syntax.KindHeritageClause, h)
			switch h.Kind() {
			case "extends_clause":
				clause.Token = syntax.KindExtendsKeyword
				ewta := c.node(syntax.KindExpressionWithTypeArguments, h)
				value := h.ChildByFieldName("value")
				if value == nil {
					value = firstNamed(h)
				}
				ewta.Expression = c.expression(value)
				ewta.TypeArguments = c.typeArguments(h.ChildByFieldName("type_arguments"))
				clause.Types = []*syntax.Node{ewta}
			case "implements_clause":
				clause.Token = syntax.KindImplementsKeyword
				for _, t := range named(h) {
					clause.Types = append(clause.Types, c.heritageType(t))
				}
			default:
				continue
			}
			class.HeritageClauses = append(class.HeritageClauses, clause)
		}
	}

	class.Members = c.members(n.ChildByFieldName("body"), true)
	return class
}

// heritageType turns a type in an extends/implements list into the
// expression-with-arguments shape the compiler produces for it.
func (c *converter) heritageType(n *sitter.Node) *syntax.Node {
	ewta := c.node(syntax.KindExpressionWithTypeArguments, n)
	switch n.Kind() {
	case "generic_type":
		ewta.Expression = c.typeNameExpression(n.ChildByFieldName("name"))
		ewta.TypeArguments = c.typeArguments(n.ChildByFieldName("type_arguments"))
	default:
		ewta.Expression = c.typeNameExpression(n)
	}
	return ewta
}

func (c *converter) typeNameExpression(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	text := strings.Join(strings.Fields(c.text(n)), "")
	qualifier, last := syntax.SplitEntity(text)
	if qualifier == "" {
		return c.ident(n)
	}
	pa := c.node(syntax.KindPropertyAccessExpression, n)
	pa.Expression = syntax.EntityName(qualifier)
	pa.Name = &syntax.Node{Kind: syntax.KindIdentifier, Text: last, Pos: pa.Pos}
	return pa
}

func (c *converter) variableStatement(n *sitter.Node, mods []syntax.Kind) *syntax.Node {
	stmt := c.node(syntax.KindVariableStatement, n)
	stmt.Modifiers = mods
	list := c.node(syntax.KindVariableDeclarationList, n)
	switch {
	case hasToken(n, "const"):
		list.Flags = syntax.FlagConst
	case hasToken(n, "let"):
		list.Flags = syntax.FlagLet
	}
	for _, d := range named(n) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		v := c.node(syntax.KindVariableDeclaration, d)
		v.Name = c.ident(d.ChildByFieldName("name"))
		v.Type = c.typ(d.ChildByFieldName("type"))
		list.Declarations = append(list.Declarations, v)
	}
	stmt.DeclarationList = list
	return stmt
}

func (c *converter) importStatement(n *sitter.Node) *syntax.Node {
	imp := c.node(syntax.KindImportDeclaration, n)
	if src := n.ChildByFieldName("source"); src != nil {
		imp.ModuleSpecifier = &syntax.Node{Kind: syntax.KindStringLiteral, Text: unquote(c.text(src)), Pos: c.pos(src)}
	}

	clause := childOfKind(n, "import_clause")
	for _, part := range named(clause) {
		switch part.Kind() {
		case "identifier":
			imp.Name = c.ident(part)
		case "named_imports":
			for _, spec := range named(part) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				s := c.node(syntax.KindImportSpecifier, spec)
				name := c.ident(spec.ChildByFieldName("name"))
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					s.Name = c.ident(alias)
					s.PropertyName = name
				} else {
					s.Name = name
				}
				imp.Elements = append(imp.Elements, s)
			}
		}
	}
	return imp
}
