// Package resolver links collected declarations across module contexts.
//
// It runs once, after collection. Variables that point into a registered
// namespace become type imports from that namespace's pseudo-module, and
// export records that name a variable are rewritten to the variable's value.
package resolver

import (
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/diag"
	"flowdef/internal/engine/ir"
	"flowdef/internal/shared/observability"
	"fmt"
	"log/slog"
	"strings"
)

type Resolver struct {
	tree *ir.Tree
}

func New(tree *ir.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Resolve synthesizes namespace imports and dereferences exports. The
// returned error is only ever an internal one (a dangling id).
func (r *Resolver) Resolve() ([]diag.Diagnostic, error) {
	var diags []diag.Diagnostic

	importDiags, err := r.synthesizeImports()
	if err != nil {
		return nil, err
	}
	diags = append(diags, importDiags...)

	exportDiags, err := r.dereferenceExports()
	if err != nil {
		return nil, err
	}
	diags = append(diags, exportDiags...)
	return diags, nil
}

func (r *Resolver) synthesizeImports() ([]diag.Diagnostic, error) {
	var diags []diag.Diagnostic
	ns := r.tree.Namespaces

	for _, c := range r.tree.Contexts.All() {
		for _, id := range c.Variables {
			node, err := r.tree.Store.Fetch(id)
			if err != nil {
				return nil, err
			}
			v, ok := node.(*decl.Variable)
			if !ok {
				continue
			}

			switch {
			case ns.Has(v.ValueContext):
				r.tree.Imports.AddExplicit(v.Value, ir.NamespaceModule(v.ValueContext))
				observability.ImportsSynthesized.WithLabelValues("explicit").Inc()
			case ns.Has(v.Value):
				r.tree.Imports.AddDefault(v.Name, ir.NamespaceModule(v.Value))
				observability.ImportsSynthesized.WithLabelValues("default").Inc()
			case strings.Contains(v.ValueContext, "."):
				diags = append(diags, diag.Diagnostic{
					Severity: diag.SeverityWarning,
					Code:     diag.CodeDeepQualification,
					Context:  c.Name,
					Symbol:   v.Name,
					Message:  fmt.Sprintf("%s.%s is qualified more than one level deep; only one namespace level is resolved", v.ValueContext, v.Value),
				})
			}
		}
	}
	return diags, nil
}

func (r *Resolver) dereferenceExports() ([]diag.Diagnostic, error) {
	var diags []diag.Diagnostic

	for _, c := range r.tree.Contexts.All() {
		for _, id := range c.Exports {
			node, err := r.tree.Store.Fetch(id)
			if err != nil {
				return nil, err
			}
			exp, ok := node.(*decl.Export)
			if !ok {
				continue
			}

			v, found := r.lookup(c.Name, exp.Name)
			if !found {
				diags = append(diags, diag.Diagnostic{
					Severity: diag.SeverityInfo,
					Code:     diag.CodeUnresolvedExport,
					Context:  c.Name,
					Symbol:   exp.Name,
					Message:  fmt.Sprintf("export %s does not name a variable; kept as written", exp.Name),
				})
				continue
			}
			slog.Debug("dereferenced export", "context", c.Name, "from", exp.Name, "to", v.Value)
			exp.Name = v.Value
		}
	}
	return diags, nil
}

// lookup tries the export's own context first and falls back to root.
func (r *Resolver) lookup(context, name string) (*decl.Variable, bool) {
	if v, ok := r.tree.LookupVariable(context, name); ok {
		return v, true
	}
	return r.tree.LookupVariable(ir.RootContext, name)
}
