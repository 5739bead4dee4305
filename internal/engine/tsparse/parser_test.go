package tsparse

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/syntax"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	file, err := NewParser(0).Parse("index.d.ts", []byte(src))
	require.NoError(t, err)
	require.Equal(t, syntax.KindSourceFile, file.Kind)
	return file
}

// alias parses `type T = <src>;` and returns the aliased type.
func alias(t *testing.T, src string) *syntax.Node {
	t.Helper()
	file := parse(t, "type T = "+src+";\n")
	require.Len(t, file.Statements, 1)
	require.Equal(t, syntax.KindTypeAliasDeclaration, file.Statements[0].Kind)
	require.NotNil(t, file.Statements[0].Type)
	return file.Statements[0].Type
}

func TestIsSupportedPath(t *testing.T) {
	assert.True(t, IsSupportedPath("types/index.d.ts"))
	assert.True(t, IsSupportedPath("lib.D.TS"))
	assert.True(t, IsSupportedPath("mod.d.mts"))
	assert.False(t, IsSupportedPath("index.js"))
	assert.False(t, IsSupportedPath("README.md"))
}

func TestParse_AmbientModule(t *testing.T) {
	file := parse(t, `declare module 'foo' {
	export interface Foo {
		bar: string;
	}
	export function baz(x: number): void;
}
`)
	require.Len(t, file.Statements, 1)
	mod := file.Statements[0]
	assert.Equal(t, syntax.KindModuleDeclaration, mod.Kind)
	assert.Equal(t, syntax.KindStringLiteral, mod.Name.Kind)
	assert.Equal(t, "foo", mod.Name.Text)
	assert.True(t, mod.HasModifier(syntax.KindDeclareKeyword))

	require.NotNil(t, mod.Body)
	require.Len(t, mod.Body.Statements, 2)

	iface := mod.Body.Statements[0]
	assert.Equal(t, syntax.KindInterfaceDeclaration, iface.Kind)
	assert.Equal(t, "Foo", iface.Name.Text)
	assert.True(t, iface.HasModifier(syntax.KindExportKeyword))
	require.Len(t, iface.Members, 1)
	assert.Equal(t, syntax.KindPropertySignature, iface.Members[0].Kind)
	assert.Equal(t, "bar", iface.Members[0].Name.Text)
	assert.Equal(t, syntax.KindStringKeyword, iface.Members[0].Type.Kind)

	fn := mod.Body.Statements[1]
	assert.Equal(t, syntax.KindFunctionDeclaration, fn.Kind)
	assert.Equal(t, "baz", fn.Name.Text)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "x", fn.Parameters[0].Name.Text)
	assert.Equal(t, syntax.KindNumberKeyword, fn.Parameters[0].Type.Kind)
	assert.Equal(t, syntax.KindVoidKeyword, fn.Type.Kind)
	assert.Equal(t, 5, fn.Pos.Line)
}

func TestParse_DottedNamespaceNests(t *testing.T) {
	file := parse(t, "declare namespace A.B {\n\tconst x: number;\n}\n")
	require.Len(t, file.Statements, 1)

	outer := file.Statements[0]
	assert.Equal(t, "A", outer.Name.Text)
	assert.True(t, outer.Flags.Has(syntax.FlagNamespace))
	assert.True(t, outer.HasModifier(syntax.KindDeclareKeyword))

	inner := outer.Body
	require.NotNil(t, inner)
	assert.Equal(t, syntax.KindModuleDeclaration, inner.Kind)
	assert.Equal(t, "B", inner.Name.Text)
	assert.True(t, inner.Flags.Has(syntax.FlagNestedNamespace))

	require.NotNil(t, inner.Body)
	require.Len(t, inner.Body.Statements, 1)
	assert.Equal(t, syntax.KindVariableStatement, inner.Body.Statements[0].Kind)
}

func TestParse_GlobalAugmentation(t *testing.T) {
	file := parse(t, "declare global {\n\tinterface Window { app: string }\n}\n")
	require.Len(t, file.Statements, 1)
	g := file.Statements[0]
	assert.True(t, g.Flags.Has(syntax.FlagGlobalAugmentation))
	require.NotNil(t, g.Body)
	assert.Len(t, g.Body.Statements, 1)
}

func TestParse_ExportAssignments(t *testing.T) {
	file := parse(t, "declare const lib: Lib.Api;\nexport = lib;\n")
	require.Len(t, file.Statements, 2)

	v := file.Statements[0]
	require.Equal(t, syntax.KindVariableStatement, v.Kind)
	assert.True(t, v.DeclarationList.Flags.Has(syntax.FlagConst))
	require.Len(t, v.DeclarationList.Declarations, 1)
	decl := v.DeclarationList.Declarations[0]
	assert.Equal(t, "lib", decl.Name.Text)
	assert.Equal(t, syntax.KindTypeReference, decl.Type.Kind)
	assert.Equal(t, "Lib.Api", decl.Type.TypeName.EntityText())

	exp := file.Statements[1]
	assert.Equal(t, syntax.KindExportAssignment, exp.Kind)
	assert.True(t, exp.IsExportEquals)
	assert.Equal(t, "lib", exp.Expression.EntityText())
}

func TestParse_Imports(t *testing.T) {
	file := parse(t, "import React, { Component, Node as Alias } from 'react';\n")
	require.Len(t, file.Statements, 1)
	imp := file.Statements[0]
	assert.Equal(t, syntax.KindImportDeclaration, imp.Kind)
	assert.Equal(t, "react", imp.ModuleSpecifier.Text)
	assert.Equal(t, "React", imp.Name.Text)
	require.Len(t, imp.Elements, 2)
	assert.Equal(t, "Component", imp.Elements[0].Name.Text)
	assert.Nil(t, imp.Elements[0].PropertyName)
	assert.Equal(t, "Alias", imp.Elements[1].Name.Text)
	assert.Equal(t, "Node", imp.Elements[1].PropertyName.Text)
}

func TestParse_ClassMembersAndHeritage(t *testing.T) {
	file := parse(t, `declare class Widget<T> extends Base<T> implements Shape, ns.Sized {
	private secret: string;
	static readonly count: number;
	size?: number;
	constructor(x: number);
	render(): void;
	get label(): string;
	set label(v: string);
}
`)
	require.Len(t, file.Statements, 1)
	class := file.Statements[0]
	assert.Equal(t, syntax.KindClassDeclaration, class.Kind)
	require.Len(t, class.TypeParameters, 1)
	assert.Equal(t, "T", class.TypeParameters[0].Name.Text)

	require.Len(t, class.HeritageClauses, 2)
	ext := class.HeritageClauses[0]
	assert.Equal(t, syntax.KindExtendsKeyword, ext.Token)
	require.Len(t, ext.Types, 1)
	assert.Equal(t, "Base", ext.Types[0].Expression.EntityText())
	assert.Len(t, ext.Types[0].TypeArguments, 1)

	impl := class.HeritageClauses[1]
	assert.Equal(t, syntax.KindImplementsKeyword, impl.Token)
	require.Len(t, impl.Types, 2)
	assert.Equal(t, "Shape", impl.Types[0].Expression.EntityText())
	assert.Equal(t, "ns.Sized", impl.Types[1].Expression.EntityText())

	kinds := make([]syntax.Kind, 0, len(class.Members))
	for _, m := range class.Members {
		kinds = append(kinds, m.Kind)
	}
	// The setter is dropped; the getter reads as a readonly property.
	assert.Equal(t, []syntax.Kind{
		syntax.KindPropertyDeclaration,
		syntax.KindPropertyDeclaration,
		syntax.KindPropertyDeclaration,
		syntax.KindConstructor,
		syntax.KindMethodDeclaration,
		syntax.KindPropertyDeclaration,
	}, kinds)

	assert.True(t, class.Members[0].HasModifier(syntax.KindPrivateKeyword))
	assert.True(t, class.Members[1].HasModifier(syntax.KindStaticKeyword))
	assert.True(t, class.Members[1].HasModifier(syntax.KindReadonlyKeyword))
	assert.True(t, class.Members[2].QuestionToken)
	assert.Len(t, class.Members[3].Parameters, 1)
	assert.Equal(t, "label", class.Members[5].Name.Text)
	assert.True(t, class.Members[5].HasModifier(syntax.KindReadonlyKeyword))
}

func TestParse_Parameters(t *testing.T) {
	file := parse(t, "declare function f(this: Window, {a, b}: Opts, opt?: string, ...rest: number[]): void;\n")
	require.Len(t, file.Statements, 1)
	params := file.Statements[0].Parameters
	require.Len(t, params, 3, "the this parameter is not a real argument")

	assert.Equal(t, syntax.KindObjectBindingPattern, params[0].Name.Kind)
	require.Len(t, params[0].Name.Elements, 2)
	assert.Equal(t, "a", params[0].Name.Elements[0].Name.Text)
	assert.Equal(t, "b", params[0].Name.Elements[1].Name.Text)

	assert.Equal(t, "opt", params[1].Name.Text)
	assert.True(t, params[1].QuestionToken)

	assert.Equal(t, "rest", params[2].Name.Text)
	assert.True(t, params[2].DotDotDotToken)
	assert.Equal(t, syntax.KindArrayType, params[2].Type.Kind)
}

func TestParse_TypeShapes(t *testing.T) {
	union := alias(t, "string | number | null")
	require.Equal(t, syntax.KindUnionType, union.Kind)
	require.Len(t, union.Types, 3)
	assert.Equal(t, syntax.KindStringKeyword, union.Types[0].Kind)
	assert.Equal(t, syntax.KindNumberKeyword, union.Types[1].Kind)
	assert.Equal(t, syntax.KindLiteralType, union.Types[2].Kind)
	assert.Equal(t, syntax.KindNullKeyword, union.Types[2].Literal.Kind)

	inter := alias(t, "A & B & C")
	require.Equal(t, syntax.KindIntersectionType, inter.Kind)
	assert.Len(t, inter.Types, 3)

	generic := alias(t, "Promise<Array<string>>")
	require.Equal(t, syntax.KindTypeReference, generic.Kind)
	assert.Equal(t, "Promise", generic.TypeName.EntityText())
	require.Len(t, generic.TypeArguments, 1)
	assert.Equal(t, "Array", generic.TypeArguments[0].TypeName.EntityText())

	keyof := alias(t, "keyof Foo")
	require.Equal(t, syntax.KindTypeOperator, keyof.Kind)
	assert.Equal(t, syntax.KindKeyOfKeyword, keyof.Token)

	ro := alias(t, "readonly string[]")
	require.Equal(t, syntax.KindTypeOperator, ro.Kind)
	assert.Equal(t, syntax.KindReadonlyKeyword, ro.Token)
	assert.Equal(t, syntax.KindArrayType, ro.Type.Kind)

	fn := alias(t, "(x: number) => void")
	require.Equal(t, syntax.KindFunctionType, fn.Kind)
	assert.Len(t, fn.Parameters, 1)
	assert.Equal(t, syntax.KindVoidKeyword, fn.Type.Kind)

	ctor := alias(t, "new (x: string) => Foo")
	assert.Equal(t, syntax.KindConstructorType, ctor.Kind)

	str := alias(t, "'hello'")
	require.Equal(t, syntax.KindLiteralType, str.Kind)
	assert.Equal(t, "hello", str.Literal.Text)

	query := alias(t, "typeof ns.value")
	require.Equal(t, syntax.KindTypeQuery, query.Kind)
	assert.Equal(t, "ns.value", query.ExprName.EntityText())

	lookup := alias(t, "Foo['bar']")
	require.Equal(t, syntax.KindIndexedAccessType, lookup.Kind)
	assert.Equal(t, "Foo", lookup.ObjectType.TypeName.EntityText())

	lit := alias(t, "{ readonly a: string; [key: string]: number; (): void }")
	require.Equal(t, syntax.KindTypeLiteral, lit.Kind)
	require.Len(t, lit.Members, 3)
	assert.True(t, lit.Members[0].HasModifier(syntax.KindReadonlyKeyword))
	assert.Equal(t, syntax.KindIndexSignature, lit.Members[1].Kind)
	assert.Equal(t, syntax.KindCallSignature, lit.Members[2].Kind)

	mapped := alias(t, "{ [K in keyof T]: T[K] }")
	assert.Equal(t, syntax.KindMappedType, mapped.Kind)

	cond := alias(t, "T extends string ? 'a' : 'b'")
	assert.Equal(t, syntax.KindConditionalType, cond.Kind)
}

func TestParse_SyntaxErrorIsValidationError(t *testing.T) {
	_, err := NewParser(0).Parse("broken.d.ts", []byte("declare function (;\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "broken.d.ts")
}

func TestParse_SizeLimit(t *testing.T) {
	_, err := NewParser(8).Parse("big.d.ts", []byte("declare const x: number;\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestParseFile_Errors(t *testing.T) {
	p := NewParser(0)

	_, err := p.ParseFile("notes.txt")
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))

	_, err = p.ParseFile(filepath.Join(t.TempDir(), "missing.d.ts"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	path := filepath.Join(t.TempDir(), "ok.d.ts")
	require.NoError(t, os.WriteFile(path, []byte("declare function f(): void;\n"), 0o644))
	file, err := p.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, file.Statements, 1)
	assert.Equal(t, path, file.Statements[0].Pos.File)
}
