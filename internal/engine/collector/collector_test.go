package collector

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/ir"
	"flowdef/internal/engine/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceFile(stmts ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindSourceFile, Statements: stmts}
}

func moduleDecl(name string, flags syntax.NodeFlags, stmts ...*syntax.Node) *syntax.Node {
	n := &syntax.Node{
		Kind:  syntax.KindModuleDeclaration,
		Name:  syntax.Ident(name),
		Flags: flags,
		Body:  &syntax.Node{Kind: syntax.KindModuleBlock, Statements: stmts},
	}
	if flags == 0 {
		n.Name = &syntax.Node{Kind: syntax.KindStringLiteral, Text: name}
	}
	return n
}

func varStatement(name string, typ *syntax.Node) *syntax.Node {
	return &syntax.Node{
		Kind: syntax.KindVariableStatement,
		DeclarationList: &syntax.Node{
			Kind: syntax.KindVariableDeclarationList,
			Declarations: []*syntax.Node{
				{Kind: syntax.KindVariableDeclaration, Name: syntax.Ident(name), Type: typ},
			},
		},
	}
}

func interfaceDecl(name string, members ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindInterfaceDeclaration, Name: syntax.Ident(name), Members: members}
}

func functionDecl(name string, ret *syntax.Node, params ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindFunctionDeclaration, Name: syntax.Ident(name), Parameters: params, Type: ret}
}

func param(name string, typ *syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindParameter, Name: syntax.Ident(name), Type: typ}
}

func exportEquals(name string) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindExportAssignment, Expression: syntax.Ident(name), IsExportEquals: true}
}

func TestWalk_NamespaceGoesToNamespaceContext(t *testing.T) {
	tree := ir.NewTree()
	root := sourceFile(
		moduleDecl("NS", syntax.FlagNamespace,
			interfaceDecl("Member"),
		),
	)

	require.NoError(t, New(tree).Walk(root, ir.RootContext))

	ctx, ok := tree.Contexts.Get(ir.NamespaceContext("NS"))
	require.True(t, ok)
	assert.Len(t, ctx.Interfaces, 1)
	assert.True(t, tree.Namespaces.Has("NS"))
}

func TestWalk_PlainModuleUsesItsName(t *testing.T) {
	tree := ir.NewTree()
	root := sourceFile(moduleDecl("foo", 0, functionDecl("f", syntax.Keyword(syntax.KindVoidKeyword))))

	require.NoError(t, New(tree).Walk(root, ir.RootContext))

	ctx, ok := tree.Contexts.Get("foo")
	require.True(t, ok)
	require.Len(t, ctx.Functions, 1)
	node, err := tree.Store.Fetch(ctx.Functions[0])
	require.NoError(t, err)
	fn := node.(*decl.FunctionDeclaration)
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, syntax.KindVoidKeyword, fn.Return.Kind())
	assert.False(t, tree.Namespaces.Has("foo"))
}

func TestWalk_GlobalAugmentationGoesToScratch(t *testing.T) {
	tree := ir.NewTree()
	global := moduleDecl("global", syntax.FlagGlobalAugmentation, interfaceDecl("Window"))

	require.NoError(t, New(tree).Walk(sourceFile(global), ir.RootContext))

	ctx, ok := tree.Contexts.Get(ir.ScratchContext)
	require.True(t, ok)
	assert.Len(t, ctx.Interfaces, 1)
	root, _ := tree.Contexts.Get(ir.RootContext)
	assert.Empty(t, root.Interfaces)
}

func TestWalk_DottedNamespaceNestsBodies(t *testing.T) {
	tree := ir.NewTree()
	inner := &syntax.Node{
		Kind:  syntax.KindModuleDeclaration,
		Name:  syntax.Ident("B"),
		Flags: syntax.FlagNamespace | syntax.FlagNestedNamespace,
		Body:  &syntax.Node{Kind: syntax.KindModuleBlock, Statements: []*syntax.Node{interfaceDecl("I")}},
	}
	outer := &syntax.Node{Kind: syntax.KindModuleDeclaration, Name: syntax.Ident("A"), Flags: syntax.FlagNamespace, Body: inner}

	require.NoError(t, New(tree).Walk(sourceFile(outer), ir.RootContext))

	ctx, ok := tree.Contexts.Get(ir.NamespaceContext("B"))
	require.True(t, ok)
	assert.Len(t, ctx.Interfaces, 1)
	assert.Equal(t, []string{"A", "B"}, tree.Namespaces.Names())
}

func TestWalk_VariablesRecordQualifiedReference(t *testing.T) {
	tree := ir.NewTree()
	root := sourceFile(moduleDecl("foo", 0,
		varStatement("bar", syntax.Ref("NS.Member")),
		varStatement("plain", syntax.Ref("Thing")),
		varStatement("deep", syntax.Ref("A.B.C")),
		varStatement("queried", &syntax.Node{Kind: syntax.KindTypeQuery, ExprName: syntax.EntityName("X.y")}),
		varStatement("primitive", syntax.Keyword(syntax.KindStringKeyword)),
	))

	require.NoError(t, New(tree).Walk(root, ir.RootContext))

	cases := []struct {
		name, value, context string
	}{
		{"bar", "Member", "NS"},
		{"plain", "Thing", ir.RootContext},
		{"deep", "C", "A.B"},
		{"queried", "y", "X"},
	}
	for _, tc := range cases {
		v, ok := tree.LookupVariable("foo", tc.name)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.value, v.Value, tc.name)
		assert.Equal(t, tc.context, v.ValueContext, tc.name)
	}

	_, ok := tree.LookupVariable("foo", "primitive")
	assert.False(t, ok)
}

func TestWalk_ExportAssignmentIsDefault(t *testing.T) {
	tree := ir.NewTree()
	require.NoError(t, New(tree).Walk(sourceFile(moduleDecl("foo", 0, exportEquals("bar"))), ir.RootContext))

	ctx, _ := tree.Contexts.Get("foo")
	require.Len(t, ctx.Exports, 1)
	node, err := tree.Store.Fetch(ctx.Exports[0])
	require.NoError(t, err)
	assert.Equal(t, &decl.Export{Name: "bar", IsDefault: true}, node)
}

func TestWalk_ImportsBecomeRequests(t *testing.T) {
	tree := ir.NewTree()
	imp := &syntax.Node{
		Kind:            syntax.KindImportDeclaration,
		Name:            syntax.Ident("React"),
		ModuleSpecifier: &syntax.Node{Kind: syntax.KindStringLiteral, Text: "react"},
		Elements: []*syntax.Node{
			{Kind: syntax.KindImportSpecifier, Name: syntax.Ident("Component")},
			{Kind: syntax.KindImportSpecifier, Name: syntax.Ident("Alias"), PropertyName: syntax.Ident("Node")},
		},
	}

	require.NoError(t, New(tree).Walk(sourceFile(imp), ir.RootContext))

	records := tree.Imports.Normalize()
	require.Len(t, records, 1)
	assert.Equal(t, ir.ImportRecord{Module: "react", Default: "React", Explicit: []string{"Component", "Node as Alias"}}, records[0])
}

func TestWalk_UnnamedDeclarationIsFatal(t *testing.T) {
	tree := ir.NewTree()
	bad := &syntax.Node{
		Kind: syntax.KindFunctionDeclaration,
		Pos:  syntax.Position{File: "index.d.ts", Line: 3, Column: 1},
	}

	err := New(tree).Walk(sourceFile(bad), ir.RootContext)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "index.d.ts:3:1")
}

func TestWalk_SkipsUnhandledStatements(t *testing.T) {
	tree := ir.NewTree()
	root := sourceFile(
		&syntax.Node{Kind: syntax.KindEnumDeclaration, Name: syntax.Ident("E")},
		nil,
		interfaceDecl("Kept"),
	)

	require.NoError(t, New(tree).Walk(root, ir.RootContext))
	assert.Equal(t, 1, tree.Store.Len())
}

func TestTypeNode_NormalizesShapes(t *testing.T) {
	c := New(ir.NewTree())

	union := &syntax.Node{Kind: syntax.KindUnionType, Types: []*syntax.Node{
		syntax.Keyword(syntax.KindStringKeyword),
		{Kind: syntax.KindLiteralType, Literal: &syntax.Node{Kind: syntax.KindNullKeyword}},
	}}
	got, err := c.typeNode(union, ir.RootContext)
	require.NoError(t, err)
	u, ok := got.(*decl.UnionType)
	require.True(t, ok)
	require.Len(t, u.Types, 2)
	assert.Equal(t, &decl.LiteralType{Token: syntax.KindNullKeyword, Text: "null"}, u.Types[1])

	keyof := &syntax.Node{Kind: syntax.KindTypeOperator, Token: syntax.KindKeyOfKeyword, Type: syntax.Ref("T")}
	got, err = c.typeNode(keyof, ir.RootContext)
	require.NoError(t, err)
	assert.IsType(t, &decl.KeyofType{}, got)

	ro := &syntax.Node{Kind: syntax.KindTypeOperator, Token: syntax.KindReadonlyKeyword,
		Type: &syntax.Node{Kind: syntax.KindArrayType, ElementType: syntax.Keyword(syntax.KindNumberKeyword)}}
	got, err = c.typeNode(ro, ir.RootContext)
	require.NoError(t, err)
	ref, ok := got.(*decl.TypeReference)
	require.True(t, ok)
	assert.Equal(t, &decl.Identifier{Text: "$ReadOnlyArray"}, ref.Name)

	got, err = c.typeNode(&syntax.Node{Kind: syntax.KindMappedType}, ir.RootContext)
	require.NoError(t, err)
	assert.Equal(t, &decl.Unsupported{Source: syntax.KindMappedType}, got)
}

func TestTypeNode_ClassMembersAndHeritage(t *testing.T) {
	tree := ir.NewTree()
	class := &syntax.Node{
		Kind: syntax.KindClassDeclaration,
		Name: syntax.Ident("Widget"),
		HeritageClauses: []*syntax.Node{
			{Kind: syntax.KindHeritageClause, Token: syntax.KindExtendsKeyword, Types: []*syntax.Node{
				{Kind: syntax.KindExpressionWithTypeArguments, Expression: syntax.Ident("Base")},
			}},
			{Kind: syntax.KindHeritageClause, Token: syntax.KindImplementsKeyword, Types: []*syntax.Node{
				{Kind: syntax.KindExpressionWithTypeArguments, Expression: syntax.Ident("Shape")},
			}},
		},
		Members: []*syntax.Node{
			{Kind: syntax.KindPropertyDeclaration, Name: syntax.Ident("secret"), Modifiers: []syntax.Kind{syntax.KindPrivateKeyword}},
			{Kind: syntax.KindPropertyDeclaration, Name: &syntax.Node{Kind: syntax.KindStringLiteral, Text: "data-id"}, Type: syntax.Keyword(syntax.KindStringKeyword)},
			{Kind: syntax.KindMethodDeclaration, Name: syntax.Ident("render"), Modifiers: []syntax.Kind{syntax.KindStaticKeyword}, Type: syntax.Keyword(syntax.KindVoidKeyword)},
			{Kind: syntax.KindConstructor, Parameters: []*syntax.Node{param("x", syntax.Keyword(syntax.KindNumberKeyword))}},
		},
	}

	require.NoError(t, New(tree).Walk(sourceFile(class), ir.RootContext))

	modules, err := tree.Materialize()
	require.NoError(t, err)
	require.Len(t, modules[0].Classes, 1)
	got := modules[0].Classes[0]
	assert.Len(t, got.Extends, 1)
	assert.Len(t, got.Implements, 1)
	require.Len(t, got.Members, 4)

	secret := got.Members[0].(*decl.PropertyDeclaration)
	assert.True(t, secret.Modifiers.Has(decl.ModPrivate))
	assert.Nil(t, secret.Type)
	assert.Equal(t, `"data-id"`, got.Members[1].(*decl.PropertyDeclaration).Name)
	assert.True(t, got.Members[2].(*decl.MethodDeclaration).Modifiers.Has(decl.ModStatic))
	assert.Len(t, got.Members[3].(*decl.Constructor).Parameters, 1)
}

func TestParameters_BindingPatternAndRest(t *testing.T) {
	c := New(ir.NewTree())
	params := []*syntax.Node{
		{Kind: syntax.KindParameter, Name: &syntax.Node{Kind: syntax.KindObjectBindingPattern, Elements: []*syntax.Node{
			{Kind: syntax.KindBindingElement, Name: syntax.Ident("a")},
			{Kind: syntax.KindBindingElement, Name: syntax.Ident("b")},
		}}, Type: syntax.Ref("Opts")},
		{Kind: syntax.KindParameter, Name: syntax.Ident("rest"), DotDotDotToken: true, QuestionToken: false},
		{Kind: syntax.KindParameter, Name: syntax.Ident("maybe"), QuestionToken: true},
	}

	got, err := c.parameters(params, ir.RootContext)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []*decl.BindingElement{{Name: "a"}, {Name: "b"}}, got[0].Binding)
	assert.True(t, got[1].Rest)
	assert.True(t, got[2].Optional)
}
