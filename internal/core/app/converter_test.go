package app

import (
	"context"
	"flowdef/internal/core/config"
	"flowdef/internal/core/errors"
	"flowdef/internal/data/history"
	"flowdef/internal/engine/diag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRuns struct {
	mu   sync.Mutex
	runs []history.Run
}

func (m *memoryRuns) SaveRun(_ context.Context, run history.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Path = filepath.Join(t.TempDir(), "out", "export.flow.js")
	cfg.Parse.Workers = 2
	return cfg
}

func TestConvert_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "foo.d.ts", `declare module 'foo' {
	export interface Foo {
		bar: string;
	}
	export function baz(x: number): void;
}
`)
	runs := &memoryRuns{}
	c := New(testConfig(t), runs)

	res, err := c.Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "declare module 'foo' {\n"+
		"\tdeclare export interface Foo {\n"+
		"\t\tbar: string\n"+
		"\t}\n"+
		"\n"+
		"\tdeclare function baz(x: number): void\n"+
		"}\n", res.Output)
	assert.Equal(t, 1, strings.Count(res.Output, "declare module"))
	assert.Empty(t, res.Diagnostics)

	assert.Equal(t, 1, res.Stats.Inputs)
	assert.Equal(t, 1, res.Stats.Modules)
	assert.Equal(t, 2, res.Stats.TotalDeclarations())

	require.Len(t, runs.runs, 1)
	assert.Equal(t, res.RunID.String(), runs.runs[0].RunID)
	assert.Equal(t, history.OutcomeOK, runs.runs[0].Outcome)
	assert.Equal(t, 2, runs.runs[0].Declarations)
}

func TestConvert_NamespaceReexport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.d.ts", `declare namespace NS {
	interface Member {
		a: string;
	}
}
declare const v: NS.Member;
export = v;
`)
	res, err := New(testConfig(t), nil).Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "import type { Member } from 'npm$namespace$NS'\n"+
		"\n"+
		"export default Member\n"+
		"\n"+
		"declare module 'npm$namespace$NS' {\n"+
		"\tdeclare interface Member {\n"+
		"\t\ta: string\n"+
		"\t}\n"+
		"}\n", res.Output)
	assert.Equal(t, 1, res.Stats.Imports)
	assert.Equal(t, 2, res.Stats.Modules)
}

func TestConvert_StringEscapesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.d.ts", `export type Q = 'it\'s' | "a\"b" | 'tab\there';
interface K { 'a\'b': string }
`)
	res, err := New(testConfig(t), nil).Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, res.Output, `type Q = "it's" | "a\"b" | "tab\there";`)
	assert.Contains(t, res.Output, "declare interface K {\n\t\"a'b\": string\n}")
	assert.NotContains(t, res.Output, `\\`)
}

func TestConvert_CollectsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c", "a", "b"} {
		paths = append(paths, writeFile(t, dir, name+".d.ts", "declare function "+name+"(): void;\n"))
	}

	res, err := New(testConfig(t), nil).Convert(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, "declare function c(): void\n\n"+
		"declare function a(): void\n\n"+
		"declare function b(): void\n", res.Output)
}

func TestConvert_RootModuleOption(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.d.ts", "declare type ID = string | number;\n")

	cfg := testConfig(t)
	cfg.Output.RootModule = "lib"
	res, err := New(cfg, nil).Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "declare module 'lib' {\n\tdeclare type ID = string | number;\n}\n", res.Output)
}

func TestConvert_UnresolvedExportIsInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.d.ts", "declare function make(): void;\nexport default make;\n")

	res, err := New(testConfig(t), nil).Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "export default make")
	assert.Equal(t, 0, res.Stats.Warnings)
	assert.Equal(t, 1, res.Stats.Infos)
	assert.Equal(t, 1, diag.ByCode(res.Diagnostics)[diag.CodeUnresolvedExport])
}

func TestConvert_StrictFailsOnWarnings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.d.ts", "declare type Cond<T> = T extends string ? 'a' : 'b';\n")

	res, err := New(testConfig(t), nil).Convert(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Warnings)
	assert.Contains(t, res.Output, "NO PRINT IMPLEMENTED")

	cfg := testConfig(t)
	cfg.Output.Strict = true
	runs := &memoryRuns{}
	_, err = New(cfg, runs).Convert(context.Background(), []string{path})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	require.Len(t, runs.runs, 1)
	assert.Equal(t, history.OutcomeFailed, runs.runs[0].Outcome)
}

func TestConvert_FatalErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.d.ts", "declare function (;\n")
	good := writeFile(t, dir, "good.d.ts", "declare function ok(): void;\n")

	c := New(testConfig(t), nil)

	_, err := c.Convert(context.Background(), []string{good, broken})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "broken.d.ts")

	_, err = c.Convert(context.Background(), []string{filepath.Join(dir, "missing.d.ts")})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = c.Convert(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestConvert_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.d.ts", "declare function a(): void;\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig(t), nil).Convert(ctx, []string{path})
	require.Error(t, err)
}

func TestRun_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "types/a.d.ts", "declare function a(): void;\n")
	writeFile(t, dir, "types/node_modules/dep/index.d.ts", "declare function dep(): void;\n")
	writeFile(t, dir, "types/readme.md", "not a declaration\n")

	cfg := testConfig(t)
	res, err := New(cfg, nil).Run(context.Background(), []string{filepath.Join(dir, "types")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Inputs)

	written, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, "declare function a(): void\n", string(written))
}
