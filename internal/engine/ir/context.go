package ir

import (
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

const (
	// RootContext holds file-level declarations.
	RootContext = "root"
	// ScratchContext collects declarations that take part in resolution but
	// are never emitted (global augmentations).
	ScratchContext = "__scratch__"

	namespaceContextPrefix = "namespace-module:"
	namespaceModulePrefix  = "npm$namespace$"
)

// NamespaceContext is the context key a namespace's members are collected under.
func NamespaceContext(name string) string {
	return namespaceContextPrefix + name
}

// NamespaceModule is the pseudo-module name a namespace is imported from and
// emitted as.
func NamespaceModule(name string) string {
	return namespaceModulePrefix + name
}

// ModuleName maps a context key to the module name it is emitted under.
func ModuleName(context string) string {
	if ns, ok := strings.CutPrefix(context, namespaceContextPrefix); ok {
		return NamespaceModule(ns)
	}
	return context
}

// Context is one module or namespace: six ordered id buckets.
type Context struct {
	Name       string
	Functions  []ID
	Classes    []ID
	Types      []ID
	Interfaces []ID
	Variables  []ID
	Exports    []ID

	variables map[string]ID
}

func newContext(name string) *Context {
	return &Context{Name: name, variables: make(map[string]ID)}
}

// IDs returns the ids held in bucket b.
func (c *Context) IDs(b Bucket) []ID {
	switch b {
	case BucketFunctions:
		return c.Functions
	case BucketClasses:
		return c.Classes
	case BucketTypes:
		return c.Types
	case BucketInterfaces:
		return c.Interfaces
	case BucketVariables:
		return c.Variables
	case BucketExports:
		return c.Exports
	}
	return nil
}

func (c *Context) append(b Bucket, id ID) {
	switch b {
	case BucketFunctions:
		c.Functions = append(c.Functions, id)
	case BucketClasses:
		c.Classes = append(c.Classes, id)
	case BucketTypes:
		c.Types = append(c.Types, id)
	case BucketInterfaces:
		c.Interfaces = append(c.Interfaces, id)
	case BucketVariables:
		c.Variables = append(c.Variables, id)
	case BucketExports:
		c.Exports = append(c.Exports, id)
	}
}

// Table maps context names to contexts in first-insertion order.
type Table struct {
	contexts *orderedmap.OrderedMap[string, *Context]
}

func NewTable() *Table {
	t := &Table{contexts: orderedmap.NewOrderedMap[string, *Context]()}
	t.Ensure(RootContext)
	return t
}

func (t *Table) Get(name string) (*Context, bool) {
	return t.contexts.Get(name)
}

// Ensure returns the named context, creating it on first use.
func (t *Table) Ensure(name string) *Context {
	if c, ok := t.contexts.Get(name); ok {
		return c
	}
	c := newContext(name)
	t.contexts.Set(name, c)
	return c
}

// All returns the contexts in insertion order.
func (t *Table) All() []*Context {
	out := make([]*Context, 0, t.contexts.Len())
	for el := t.contexts.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (t *Table) Len() int {
	return t.contexts.Len()
}
