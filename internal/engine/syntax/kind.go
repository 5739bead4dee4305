package syntax

import "fmt"

// Kind names the syntactic shape of a Node. The vocabulary follows the
// TypeScript compiler's SyntaxKind names so any parser front end can be
// adapted onto it.
type Kind int

const (
	KindUnknown Kind = iota

	// Containers and statements.
	KindSourceFile
	KindModuleBlock
	KindModuleDeclaration
	KindFunctionDeclaration
	KindInterfaceDeclaration
	KindTypeAliasDeclaration
	KindClassDeclaration
	KindVariableStatement
	KindVariableDeclarationList
	KindVariableDeclaration
	KindExportAssignment
	KindImportDeclaration
	KindImportSpecifier
	KindEnumDeclaration
	KindNamespaceExportDeclaration
	KindImportEqualsDeclaration
	KindExpressionStatement

	// Names and expressions.
	KindIdentifier
	KindQualifiedName
	KindPropertyAccessExpression
	KindStringLiteral
	KindNumericLiteral
	KindExpressionWithTypeArguments
	KindHeritageClause
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindBindingElement

	// Keyword types.
	KindAnyKeyword
	KindStringKeyword
	KindNumberKeyword
	KindBooleanKeyword
	KindVoidKeyword
	KindUnknownKeyword
	KindNeverKeyword
	KindObjectKeyword
	KindSymbolKeyword
	KindUndefinedKeyword
	KindNullKeyword
	KindBigIntKeyword
	KindTrueKeyword
	KindFalseKeyword
	KindThisType

	// Type nodes.
	KindTypeReference
	KindFunctionType
	KindConstructorType
	KindTypeLiteral
	KindLiteralType
	KindTupleType
	KindUnionType
	KindIntersectionType
	KindArrayType
	KindParenthesizedType
	KindTypeQuery
	KindTypePredicate
	KindTypeOperator
	KindIndexedAccessType
	KindConditionalType
	KindInferType
	KindMappedType
	KindTemplateLiteralType
	KindOptionalType
	KindRestType
	KindNamedTupleMember
	KindTypeParameter
	KindParameter

	// Members.
	KindPropertySignature
	KindPropertyDeclaration
	KindMethodSignature
	KindMethodDeclaration
	KindCallSignature
	KindConstructSignature
	KindConstructor
	KindIndexSignature

	// Modifiers.
	KindExportKeyword
	KindDefaultKeyword
	KindDeclareKeyword
	KindPrivateKeyword
	KindProtectedKeyword
	KindPublicKeyword
	KindStaticKeyword
	KindReadonlyKeyword
	KindAbstractKeyword
	KindKeyOfKeyword
	KindUniqueKeyword

	// Heritage tokens.
	KindExtendsKeyword
	KindImplementsKeyword

	kindCount
)

var kindNames = [...]string{
	KindUnknown:                     "Unknown",
	KindSourceFile:                  "SourceFile",
	KindModuleBlock:                 "ModuleBlock",
	KindModuleDeclaration:           "ModuleDeclaration",
	KindFunctionDeclaration:         "FunctionDeclaration",
	KindInterfaceDeclaration:        "InterfaceDeclaration",
	KindTypeAliasDeclaration:        "TypeAliasDeclaration",
	KindClassDeclaration:            "ClassDeclaration",
	KindVariableStatement:           "VariableStatement",
	KindVariableDeclarationList:     "VariableDeclarationList",
	KindVariableDeclaration:         "VariableDeclaration",
	KindExportAssignment:            "ExportAssignment",
	KindImportDeclaration:           "ImportDeclaration",
	KindImportSpecifier:             "ImportSpecifier",
	KindEnumDeclaration:             "EnumDeclaration",
	KindNamespaceExportDeclaration:  "NamespaceExportDeclaration",
	KindImportEqualsDeclaration:     "ImportEqualsDeclaration",
	KindExpressionStatement:         "ExpressionStatement",
	KindIdentifier:                  "Identifier",
	KindQualifiedName:               "QualifiedName",
	KindPropertyAccessExpression:    "PropertyAccessExpression",
	KindStringLiteral:               "StringLiteral",
	KindNumericLiteral:              "NumericLiteral",
	KindExpressionWithTypeArguments: "ExpressionWithTypeArguments",
	KindHeritageClause:              "HeritageClause",
	KindObjectBindingPattern:        "ObjectBindingPattern",
	KindArrayBindingPattern:         "ArrayBindingPattern",
	KindBindingElement:              "BindingElement",
	KindAnyKeyword:                  "AnyKeyword",
	KindStringKeyword:               "StringKeyword",
	KindNumberKeyword:               "NumberKeyword",
	KindBooleanKeyword:              "BooleanKeyword",
	KindVoidKeyword:                 "VoidKeyword",
	KindUnknownKeyword:              "UnknownKeyword",
	KindNeverKeyword:                "NeverKeyword",
	KindObjectKeyword:               "ObjectKeyword",
	KindSymbolKeyword:               "SymbolKeyword",
	KindUndefinedKeyword:            "UndefinedKeyword",
	KindNullKeyword:                 "NullKeyword",
	KindBigIntKeyword:               "BigIntKeyword",
	KindTrueKeyword:                 "TrueKeyword",
	KindFalseKeyword:                "FalseKeyword",
	KindThisType:                    "ThisType",
	KindTypeReference:               "TypeReference",
	KindFunctionType:                "FunctionType",
	KindConstructorType:             "ConstructorType",
	KindTypeLiteral:                 "TypeLiteral",
	KindLiteralType:                 "LiteralType",
	KindTupleType:                   "TupleType",
	KindUnionType:                   "UnionType",
	KindIntersectionType:            "IntersectionType",
	KindArrayType:                   "ArrayType",
	KindParenthesizedType:           "ParenthesizedType",
	KindTypeQuery:                   "TypeQuery",
	KindTypePredicate:               "TypePredicate",
	KindTypeOperator:                "TypeOperator",
	KindIndexedAccessType:           "IndexedAccessType",
	KindConditionalType:             "ConditionalType",
	KindInferType:                   "InferType",
	KindMappedType:                  "MappedType",
	KindTemplateLiteralType:         "TemplateLiteralType",
	KindOptionalType:                "OptionalType",
	KindRestType:                    "RestType",
	KindNamedTupleMember:            "NamedTupleMember",
	KindTypeParameter:               "TypeParameter",
	KindParameter:                   "Parameter",
	KindPropertySignature:           "PropertySignature",
	KindPropertyDeclaration:         "PropertyDeclaration",
	KindMethodSignature:             "MethodSignature",
	KindMethodDeclaration:           "MethodDeclaration",
	KindCallSignature:               "CallSignature",
	KindConstructSignature:          "ConstructSignature",
	KindConstructor:                 "Constructor",
	KindIndexSignature:              "IndexSignature",
	KindExportKeyword:               "ExportKeyword",
	KindDefaultKeyword:              "DefaultKeyword",
	KindDeclareKeyword:              "DeclareKeyword",
	KindPrivateKeyword:              "PrivateKeyword",
	KindProtectedKeyword:            "ProtectedKeyword",
	KindPublicKeyword:               "PublicKeyword",
	KindStaticKeyword:               "StaticKeyword",
	KindReadonlyKeyword:             "ReadonlyKeyword",
	KindAbstractKeyword:             "AbstractKeyword",
	KindKeyOfKeyword:                "KeyOfKeyword",
	KindUniqueKeyword:               "UniqueKeyword",
	KindExtendsKeyword:              "ExtendsKeyword",
	KindImplementsKeyword:           "ImplementsKeyword",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeywordType reports whether k is one of the primitive keyword types.
func (k Kind) IsKeywordType() bool {
	return k >= KindAnyKeyword && k <= KindThisType
}

// Kinds returns every known kind except KindUnknown, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
