package resolver

import (
	"flowdef/internal/engine/decl"
	"flowdef/internal/engine/diag"
	"flowdef/internal/engine/ir"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInsert(t *testing.T, tree *ir.Tree, context string, bucket ir.Bucket, node decl.Declaration) ir.ID {
	t.Helper()
	id, err := tree.Insert(context, bucket, node)
	require.NoError(t, err)
	return id
}

func exportName(t *testing.T, tree *ir.Tree, id ir.ID) string {
	t.Helper()
	node, err := tree.Store.Fetch(id)
	require.NoError(t, err)
	return node.(*decl.Export).Name
}

func TestResolve_NamespaceReexportSynthesis(t *testing.T) {
	tree := ir.NewTree()
	tree.Namespaces.Add("NS")
	mustInsert(t, tree, "foo", ir.BucketVariables, &decl.Variable{Name: "v", Value: "Member", ValueContext: "NS"})
	mustInsert(t, tree, "foo", ir.BucketVariables, &decl.Variable{Name: "w", Value: "NS", ValueContext: ir.RootContext})
	mustInsert(t, tree, "foo", ir.BucketVariables, &decl.Variable{Name: "x", Value: "Other", ValueContext: ir.RootContext})

	_, err := New(tree).Resolve()
	require.NoError(t, err)

	assert.Equal(t, []ir.ImportRequest{
		{Kind: ir.ImportExplicit, What: "Member", From: "npm$namespace$NS"},
		{Kind: ir.ImportDefault, What: "w", From: "npm$namespace$NS"},
	}, tree.Imports.Requests())
}

func TestResolve_ExplicitWinsOverDefault(t *testing.T) {
	tree := ir.NewTree()
	tree.Namespaces.Add("A")
	tree.Namespaces.Add("B")
	mustInsert(t, tree, ir.RootContext, ir.BucketVariables, &decl.Variable{Name: "v", Value: "B", ValueContext: "A"})

	_, err := New(tree).Resolve()
	require.NoError(t, err)

	reqs := tree.Imports.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, ir.ImportExplicit, reqs[0].Kind)
}

func TestResolve_ExportDereference(t *testing.T) {
	tree := ir.NewTree()
	mustInsert(t, tree, "foo", ir.BucketVariables, &decl.Variable{Name: "baz", Value: "Foo", ValueContext: ir.RootContext})
	id := mustInsert(t, tree, "foo", ir.BucketExports, &decl.Export{Name: "baz", IsDefault: true})

	diags, err := New(tree).Resolve()
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "Foo", exportName(t, tree, id))
}

func TestResolve_ExportFallsBackToRoot(t *testing.T) {
	tree := ir.NewTree()
	mustInsert(t, tree, ir.RootContext, ir.BucketVariables, &decl.Variable{Name: "x", Value: "Y", ValueContext: ir.RootContext})
	id := mustInsert(t, tree, "m", ir.BucketExports, &decl.Export{Name: "x", IsDefault: true})

	_, err := New(tree).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Y", exportName(t, tree, id))
}

func TestResolve_OwnContextBeatsRoot(t *testing.T) {
	tree := ir.NewTree()
	mustInsert(t, tree, ir.RootContext, ir.BucketVariables, &decl.Variable{Name: "x", Value: "FromRoot"})
	mustInsert(t, tree, "m", ir.BucketVariables, &decl.Variable{Name: "x", Value: "FromModule"})
	id := mustInsert(t, tree, "m", ir.BucketExports, &decl.Export{Name: "x", IsDefault: true})

	_, err := New(tree).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "FromModule", exportName(t, tree, id))
}

func TestResolve_UnresolvedExportKeepsName(t *testing.T) {
	tree := ir.NewTree()
	id := mustInsert(t, tree, "m", ir.BucketExports, &decl.Export{Name: "Direct", IsDefault: true})

	diags, err := New(tree).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Direct", exportName(t, tree, id))
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnresolvedExport, diags[0].Code)
	assert.Equal(t, diag.SeverityInfo, diags[0].Severity)
	assert.Zero(t, diag.Warnings(diags))
}

func TestResolve_DeepQualificationIsReportedNotResolved(t *testing.T) {
	tree := ir.NewTree()
	tree.Namespaces.Add("A")
	tree.Namespaces.Add("B")
	mustInsert(t, tree, ir.RootContext, ir.BucketVariables, &decl.Variable{Name: "v", Value: "C", ValueContext: "A.B"})

	diags, err := New(tree).Resolve()
	require.NoError(t, err)
	assert.Empty(t, tree.Imports.Requests())
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeDeepQualification, diags[0].Code)
	assert.Equal(t, "v", diags[0].Symbol)
}

func TestResolve_ImportsAreOrderIndependent(t *testing.T) {
	vars := []*decl.Variable{
		{Name: "a", Value: "X", ValueContext: "NS"},
		{Name: "b", Value: "Y", ValueContext: "NS"},
		{Name: "c", Value: "X", ValueContext: "NS"},
		{Name: "d", Value: "NS", ValueContext: ir.RootContext},
	}

	build := func(order []int) []ir.ImportRecord {
		tree := ir.NewTree()
		tree.Namespaces.Add("NS")
		for _, i := range order {
			v := *vars[i]
			mustInsert(t, tree, "m", ir.BucketVariables, &v)
		}
		_, err := New(tree).Resolve()
		require.NoError(t, err)
		return tree.Imports.Normalize()
	}

	forward := build([]int{0, 1, 2, 3})
	backward := build([]int{3, 2, 1, 0})
	assert.Equal(t, forward, backward)
	require.Len(t, forward, 1)
	assert.Equal(t, ir.ImportRecord{Module: "npm$namespace$NS", Default: "d", Explicit: []string{"X", "Y"}}, forward[0])
}
