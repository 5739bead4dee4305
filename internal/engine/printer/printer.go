// Package printer renders materialized modules as Flow library definitions.
package printer

import (
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/diag"
	"flowdef/internal/engine/ir"
	"flowdef/internal/engine/syntax"
	"strings"
	"unicode/utf8"
)

const (
	DefaultIndent   = "\t"
	DefaultMaxWidth = 80
)

type Options struct {
	// Indent is one level of indentation.
	Indent string
	// MaxWidth is the longest single-line signature before parameters wrap.
	MaxWidth int
	// RootModule, when set, wraps root-context declarations in a
	// `declare module` block of that name instead of emitting them top level.
	RootModule string
}

type Printer struct {
	opts  Options
	level int
	scope string
	diags []diag.Diagnostic
}

func New(opts Options) *Printer {
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	return &Printer{opts: opts}
}

// Render produces the whole output text. Unmapped shapes never fail the
// render; they print a placeholder and come back as warnings.
func (p *Printer) Render(imports []ir.ImportRecord, modules []ir.Module) (string, []diag.Diagnostic) {
	p.diags = nil

	var sections []string
	if lines := p.imports(imports); lines != "" {
		sections = append(sections, lines)
	}

	for _, m := range modules {
		if m.Context == ir.ScratchContext || m.Empty() {
			continue
		}
		p.scope = m.Context

		if m.IsRoot() && p.opts.RootModule == "" {
			p.level = 0
			sections = append(sections, p.moduleBody(m))
			continue
		}

		name := m.Name
		if m.IsRoot() {
			name = p.opts.RootModule
		}
		p.level = 1
		sections = append(sections, "declare module "+syntax.QuoteSingle(name)+" {\n"+p.moduleBody(m)+"\n}")
	}
	p.level = 0
	p.scope = ""

	if len(sections) == 0 {
		return "", p.diags
	}
	return strings.Join(sections, "\n\n") + "\n", p.diags
}

func (p *Printer) imports(records []ir.ImportRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		if r.Default == "" && len(r.Explicit) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString("import type ")
		if r.Default != "" {
			b.WriteString(r.Default)
			if len(r.Explicit) > 0 {
				b.WriteString(", ")
			}
		}
		if len(r.Explicit) > 0 {
			b.WriteString("{ ")
			b.WriteString(strings.Join(r.Explicit, ", "))
			b.WriteString(" }")
		}
		b.WriteString(" from ")
		b.WriteString(syntax.QuoteSingle(r.Module))
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// moduleBody prints the declaration groups of m at the current level:
// type aliases, interfaces, functions, classes, exports.
func (p *Printer) moduleBody(m ir.Module) string {
	var groups [][]string

	groups = append(groups, printAll(m.Types, p.TypeAlias))
	groups = append(groups, printAll(m.Interfaces, p.Interface))
	groups = append(groups, printAll(m.Functions, p.Function))
	groups = append(groups, printAll(m.Classes, p.Class))
	groups = append(groups, printAll(m.Exports, p.Export))

	ind := p.indent(p.level)
	var out []string
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		out = append(out, ind+strings.Join(g, "\n\n"+ind))
	}
	return strings.Join(out, "\n\n")
}

func printAll[T any](items []T, print func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, print(it))
	}
	return out
}

func (p *Printer) Function(fn *decl.FunctionDeclaration) string {
	return "declare function " + fn.Name + p.signature(fn.Signature, ":")
}

func (p *Printer) Interface(iface *decl.InterfaceDeclaration) string {
	var b strings.Builder
	b.WriteString("declare ")
	b.WriteString(exportPrefix(iface.Modifiers))
	b.WriteString("interface ")
	b.WriteString(iface.Name)
	b.WriteString(p.typeParameters(iface.TypeParameters))
	if len(iface.Extends) > 0 {
		b.WriteString(" extends ")
		b.WriteString(p.joinTypes(iface.Extends, ", "))
	}
	b.WriteString(" ")
	b.WriteString(p.body(iface.Members, ","))
	return b.String()
}

func (p *Printer) Class(class *decl.ClassDeclaration) string {
	var b strings.Builder
	b.WriteString("declare ")
	b.WriteString(exportPrefix(class.Modifiers))
	b.WriteString("class ")
	b.WriteString(class.Name)
	b.WriteString(p.typeParameters(class.TypeParameters))
	if len(class.Extends) > 0 {
		b.WriteString(" extends ")
		b.WriteString(p.joinTypes(class.Extends, ", "))
	}
	if len(class.Implements) > 0 {
		b.WriteString(" implements ")
		b.WriteString(p.joinTypes(class.Implements, ", "))
	}
	b.WriteString(" ")
	b.WriteString(p.body(class.Members, ";"))
	return b.String()
}

func (p *Printer) TypeAlias(alias *decl.TypeAliasDeclaration) string {
	return "declare " + exportPrefix(alias.Modifiers) + "type " + alias.Name +
		p.typeParameters(alias.TypeParameters) + " = " + p.Type(alias.Type) + ";"
}

func (p *Printer) Export(exp *decl.Export) string {
	if exp.IsDefault {
		return "export default " + exp.Name
	}
	return "export " + exp.Name
}

func exportPrefix(m decl.Modifiers) string {
	s := ""
	if m.Has(decl.ModExport) {
		s += "export "
	}
	if m.Has(decl.ModDefault) {
		s += "default "
	}
	return s
}

// body prints a braced member list one level deeper than the current one.
// Members that print empty (private ones) are dropped.
func (p *Printer) body(members []decl.Type, sep string) string {
	p.level++
	inner := p.indent(p.level)
	printed := make([]string, 0, len(members))
	for _, m := range members {
		if s := p.Type(m); s != "" {
			printed = append(printed, s)
		}
	}
	p.level--

	if len(printed) == 0 {
		return "{}"
	}
	return "{\n" + inner + strings.Join(printed, sep+"\n"+inner) + "\n" + p.indent(p.level) + "}"
}

// signature prints `<G>(params)<sep> R`, moving the parameters onto their
// own line when the single-line form is wider than MaxWidth characters.
func (p *Printer) signature(sig decl.Signature, sep string) string {
	generics := p.typeParameters(sig.TypeParameters)
	params := p.parameters(sig.Parameters)
	ret := p.Type(sig.Return)

	line := generics + "(" + params + ")" + sep + " " + ret
	if utf8.RuneCountInString(line) <= p.opts.MaxWidth || params == "" {
		return line
	}
	return generics + "(\n" + p.indent(p.level+1) + params + "\n" + p.indent(p.level) + ")" + sep + " " + ret
}

func (p *Printer) parameters(params []*decl.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		parts = append(parts, p.parameter(param))
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) parameter(param *decl.Parameter) string {
	left := param.Name
	if len(param.Binding) > 0 {
		names := make([]string, 0, len(param.Binding))
		for _, b := range param.Binding {
			names = append(names, b.Name)
		}
		left = "{" + strings.Join(names, ", ") + "}"
	}
	if param.Optional {
		left += "?"
	}
	if param.Rest {
		left = "..." + left
	}
	return left + ": " + p.Type(param.Type)
}

func (p *Printer) typeParameters(tps []*decl.TypeParameter) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tps))
	for _, tp := range tps {
		parts = append(parts, p.Type(tp))
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (p *Printer) typeArguments(args []decl.Type) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + p.joinTypes(args, ", ") + ">"
}

func (p *Printer) joinTypes(types []decl.Type, sep string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, p.Type(t))
	}
	return strings.Join(parts, sep)
}

func (p *Printer) indent(level int) string {
	return strings.Repeat(p.opts.Indent, level)
}
