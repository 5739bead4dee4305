// Package decl holds the normalized declaration tree produced by the
// collector. Nodes carry only what printing and resolution need; parser
// positions and bookkeeping are gone by the time a node lands here.
package decl

// Modifiers is a bit set of declaration modifiers.
type Modifiers uint16

const (
	ModExport Modifiers = 1 << iota
	ModDefault
	ModDeclare
	ModPrivate
	ModProtected
	ModPublic
	ModStatic
	ModReadonly
	ModAbstract
)

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

// Declaration is a top-level entry stored in a module context bucket.
type Declaration interface {
	DeclName() string
	declarationNode()
}

type FunctionDeclaration struct {
	Name      string
	Modifiers Modifiers
	Signature
}

type InterfaceDeclaration struct {
	Name           string
	Modifiers      Modifiers
	TypeParameters []*TypeParameter
	Extends        []Type
	Members        []Type
}

type ClassDeclaration struct {
	Name           string
	Modifiers      Modifiers
	TypeParameters []*TypeParameter
	Extends        []Type
	Implements     []Type
	Members        []Type
}

type TypeAliasDeclaration struct {
	Name           string
	Modifiers      Modifiers
	TypeParameters []*TypeParameter
	Type           Type
}

// Variable records what a declared binding points at. ValueContext is the
// qualifier of a dotted reference ("A" for A.B) or "root" for a bare name.
type Variable struct {
	Name         string
	Value        string
	ValueContext string
}

// Export is an `export =` / `export default` target. The resolver may
// replace Name with the value of the variable it names.
type Export struct {
	Name      string
	IsDefault bool
}

func (d *FunctionDeclaration) DeclName() string  { return d.Name }
func (d *InterfaceDeclaration) DeclName() string { return d.Name }
func (d *ClassDeclaration) DeclName() string     { return d.Name }
func (d *TypeAliasDeclaration) DeclName() string { return d.Name }
func (d *Variable) DeclName() string             { return d.Name }
func (d *Export) DeclName() string               { return d.Name }

func (*FunctionDeclaration) declarationNode()  {}
func (*InterfaceDeclaration) declarationNode() {}
func (*ClassDeclaration) declarationNode()     {}
func (*TypeAliasDeclaration) declarationNode() {}
func (*Variable) declarationNode()             {}
func (*Export) declarationNode()               {}
