package ir

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/decl"
	"fmt"
)

// Tree is the whole intermediate representation of one conversion run.
type Tree struct {
	Store      *Store
	Contexts   *Table
	Namespaces *Registry
	Imports    *ImportTable
}

func NewTree() *Tree {
	return &Tree{
		Store:      NewStore(),
		Contexts:   NewTable(),
		Namespaces: NewRegistry(),
		Imports:    &ImportTable{},
	}
}

// Insert stores node and appends its id to the context's bucket, creating
// the context on first use.
func (t *Tree) Insert(context string, bucket Bucket, node decl.Declaration) (ID, error) {
	if node == nil {
		return 0, errors.New(errors.CodeInternal, "trying to insert invalid node")
	}
	c := t.Contexts.Ensure(context)
	id := t.Store.Insert(context, bucket, node)
	c.append(bucket, id)
	if v, ok := node.(*decl.Variable); ok && bucket == BucketVariables {
		c.variables[v.Name] = id
	}
	return id, nil
}

// LookupVariable finds the variable declared under name in context. When a
// context declares the same name twice the later declaration wins.
func (t *Tree) LookupVariable(context, name string) (*decl.Variable, bool) {
	c, ok := t.Contexts.Get(context)
	if !ok {
		return nil, false
	}
	id, ok := c.variables[name]
	if !ok {
		return nil, false
	}
	node, err := t.Store.Fetch(id)
	if err != nil {
		return nil, false
	}
	v, ok := node.(*decl.Variable)
	return v, ok
}

// Module is a context with every id fetched into its declaration.
type Module struct {
	Context    string
	Name       string
	Types      []*decl.TypeAliasDeclaration
	Interfaces []*decl.InterfaceDeclaration
	Functions  []*decl.FunctionDeclaration
	Classes    []*decl.ClassDeclaration
	Exports    []*decl.Export
}

func (m Module) IsRoot() bool {
	return m.Context == RootContext
}

// Empty reports whether the module has nothing to emit.
func (m Module) Empty() bool {
	return len(m.Types) == 0 && len(m.Interfaces) == 0 && len(m.Functions) == 0 &&
		len(m.Classes) == 0 && len(m.Exports) == 0
}

// Materialize fetches every stored id into the declaration it refers to.
// Variables are resolution-only and are not carried over.
func (t *Tree) Materialize() ([]Module, error) {
	contexts := t.Contexts.All()
	modules := make([]Module, 0, len(contexts))
	for _, c := range contexts {
		m := Module{Context: c.Name, Name: ModuleName(c.Name)}
		var err error
		if m.Types, err = fetchAll[*decl.TypeAliasDeclaration](t.Store, c, BucketTypes); err != nil {
			return nil, err
		}
		if m.Interfaces, err = fetchAll[*decl.InterfaceDeclaration](t.Store, c, BucketInterfaces); err != nil {
			return nil, err
		}
		if m.Functions, err = fetchAll[*decl.FunctionDeclaration](t.Store, c, BucketFunctions); err != nil {
			return nil, err
		}
		if m.Classes, err = fetchAll[*decl.ClassDeclaration](t.Store, c, BucketClasses); err != nil {
			return nil, err
		}
		if m.Exports, err = fetchAll[*decl.Export](t.Store, c, BucketExports); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func fetchAll[T decl.Declaration](s *Store, c *Context, bucket Bucket) ([]T, error) {
	ids := c.IDs(bucket)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		node, err := s.Fetch(id)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxContext, c.Name)
		}
		typed, ok := node.(T)
		if !ok {
			return nil, errors.Newf(errors.CodeInternal, "node %s is %T, not a %s entry", s.Key(id), node, bucket)
		}
		out = append(out, typed)
	}
	return out, nil
}

// Stats counts stored declarations per bucket across all contexts.
func (t *Tree) Stats() map[string]int {
	stats := make(map[string]int, len(Buckets()))
	for _, c := range t.Contexts.All() {
		for _, b := range Buckets() {
			stats[b.String()] += len(c.IDs(b))
		}
	}
	return stats
}

func (t *Tree) String() string {
	return fmt.Sprintf("ir.Tree{contexts=%d nodes=%d namespaces=%d imports=%d}",
		t.Contexts.Len(), t.Store.Len(), len(t.Namespaces.Names()), len(t.Imports.Requests()))
}
