// Package collector walks parsed declaration files and files every
// declaration-shaped statement into the intermediate representation.
package collector

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/ir"
	"flowdef/internal/engine/syntax"
	"flowdef/internal/shared/observability"
	"log/slog"
)

type Collector struct {
	tree *ir.Tree
}

func New(tree *ir.Tree) *Collector {
	return &Collector{tree: tree}
}

// Walk collects the statements of a SourceFile or ModuleBlock into context.
func (c *Collector) Walk(root *syntax.Node, context string) error {
	if root == nil {
		return nil
	}
	for _, stmt := range root.Statements {
		if stmt == nil {
			continue
		}
		if err := c.statement(stmt, context); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) statement(n *syntax.Node, context string) error {
	switch n.Kind {
	case syntax.KindModuleDeclaration:
		return c.module(n, context)

	case syntax.KindFunctionDeclaration:
		fn, err := c.function(n, context)
		if err != nil {
			return err
		}
		return c.insert(context, ir.BucketFunctions, fn)

	case syntax.KindInterfaceDeclaration:
		iface, err := c.interfaceDecl(n, context)
		if err != nil {
			return err
		}
		return c.insert(context, ir.BucketInterfaces, iface)

	case syntax.KindTypeAliasDeclaration:
		alias, err := c.typeAlias(n, context)
		if err != nil {
			return err
		}
		return c.insert(context, ir.BucketTypes, alias)

	case syntax.KindClassDeclaration:
		class, err := c.class(n, context)
		if err != nil {
			return err
		}
		return c.insert(context, ir.BucketClasses, class)

	case syntax.KindVariableStatement:
		return c.variables(n, context)

	case syntax.KindExportAssignment:
		return c.exportAssignment(n, context)

	case syntax.KindImportDeclaration:
		c.importDeclaration(n)
		return nil
	}

	slog.Debug("skipping statement", "kind", n.Kind.String(), "context", context, "position", n.Pos.String())
	return nil
}

func (c *Collector) module(n *syntax.Node, context string) error {
	name := n.Name.EntityText()
	if name == "" {
		return unnamed(n, context)
	}

	switch {
	case n.Flags.Has(syntax.FlagGlobalAugmentation):
		return c.moduleBody(n.Body, ir.ScratchContext)
	case n.Flags.Has(syntax.FlagNamespace):
		c.tree.Namespaces.Add(name)
		return c.moduleBody(n.Body, ir.NamespaceContext(name))
	default:
		return c.moduleBody(n.Body, name)
	}
}

func (c *Collector) moduleBody(body *syntax.Node, context string) error {
	if body == nil {
		return nil
	}
	if body.Kind == syntax.KindModuleDeclaration {
		return c.module(body, context)
	}
	return c.Walk(body, context)
}

func (c *Collector) insert(context string, bucket ir.Bucket, node decl.Declaration) error {
	id, err := c.tree.Insert(context, bucket, node)
	if err != nil {
		return err
	}
	observability.DeclarationsCollected.WithLabelValues(bucket.String()).Inc()
	slog.Debug("collected declaration", "id", c.tree.Store.Key(id))
	return nil
}

// variables turns each declarator that points at a named type into a
// variable record. Declarators typed any other way carry nothing the
// resolver can use and are dropped.
func (c *Collector) variables(n *syntax.Node, context string) error {
	list := n.DeclarationList
	if list == nil {
		return nil
	}
	for _, d := range list.Declarations {
		if d == nil {
			continue
		}
		name := d.Name.EntityText()
		if name == "" {
			return unnamed(d, context)
		}
		ref := referencedTypeName(d.Type)
		if ref == "" {
			slog.Debug("dropping variable without a type name", "name", name, "context", context)
			continue
		}
		qualifier, value := syntax.SplitEntity(ref)
		if qualifier == "" {
			qualifier = ir.RootContext
		}
		v := &decl.Variable{Name: name, Value: value, ValueContext: qualifier}
		if err := c.insert(context, ir.BucketVariables, v); err != nil {
			return err
		}
	}
	return nil
}

func referencedTypeName(t *syntax.Node) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case syntax.KindTypeReference:
		return t.TypeName.EntityText()
	case syntax.KindTypeQuery:
		return t.ExprName.EntityText()
	}
	return ""
}

func (c *Collector) exportAssignment(n *syntax.Node, context string) error {
	name := n.Expression.EntityText()
	if name == "" {
		return unnamed(n, context)
	}
	return c.insert(context, ir.BucketExports, &decl.Export{Name: name, IsDefault: true})
}

func (c *Collector) importDeclaration(n *syntax.Node) {
	from := n.ModuleSpecifier.EntityText()
	if from == "" {
		return
	}
	if n.Name != nil && n.Name.Text != "" {
		c.tree.Imports.AddDefault(n.Name.Text, from)
	}
	for _, spec := range n.Elements {
		if spec == nil || spec.Name == nil {
			continue
		}
		what := spec.Name.Text
		if spec.PropertyName != nil && spec.PropertyName.Text != "" && spec.PropertyName.Text != what {
			what = spec.PropertyName.Text + " as " + what
		}
		c.tree.Imports.AddExplicit(what, from)
	}
}

func unnamed(n *syntax.Node, context string) error {
	err := errors.Newf(errors.CodeValidationError, "%s has no resolvable name", n.Kind)
	err = errors.AddContext(err, errors.CtxContext, context)
	err = errors.AddContext(err, errors.CtxKind, n.Kind.String())
	if n.Pos.File != "" {
		err = errors.AddContext(err, errors.CtxPath, n.Pos.File)
	}
	if n.Pos.Line > 0 {
		err = errors.AddContext(err, errors.CtxPosition, n.Pos.String())
	}
	return err
}
