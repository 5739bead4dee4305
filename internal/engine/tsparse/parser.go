// Package tsparse adapts tree-sitter-typescript parse trees onto the
// syntax.Node shape the collector consumes.
package tsparse

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/syntax"
	"flowdef/internal/shared/observability"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	languageOnce sync.Once
	language     *sitter.Language
)

// Language returns the shared TypeScript grammar.
func Language() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	})
	return language
}

var supportedSuffixes = []string{".d.ts", ".d.mts", ".d.cts", ".ts", ".mts", ".cts"}

// IsSupportedPath reports whether path looks like TypeScript source.
func IsSupportedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range supportedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

type Parser struct {
	pool         *ParserPool
	maxFileBytes int64
}

// NewParser builds a parser. maxFileBytes <= 0 disables the size limit.
func NewParser(maxFileBytes int64) *Parser {
	return &Parser{pool: NewParserPool(Language()), maxFileBytes: maxFileBytes}
}

// ParseFile reads and parses path.
func (p *Parser) ParseFile(path string) (*syntax.Node, error) {
	if !IsSupportedPath(path) {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "not a TypeScript declaration file"), errors.CtxPath, path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read input file"), errors.CtxPath, path)
	}
	return p.Parse(path, source)
}

// Parse converts source into a SourceFile node. Syntax errors are fatal:
// a partially recovered tree would silently drop declarations.
func (p *Parser) Parse(path string, source []byte) (*syntax.Node, error) {
	if p.maxFileBytes > 0 && int64(len(source)) > p.maxFileBytes {
		err := errors.Newf(errors.CodeValidationError, "file is %d bytes, limit is %d", len(source), p.maxFileBytes)
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues("typescript").Observe(time.Since(start).Seconds())
	}()

	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parser returned no tree"), errors.CtxPath, path)
	}
	defer tree.Close()

	c := &converter{src: source, path: path}
	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		err := errors.New(errors.CodeValidationError, "syntax error")
		err = errors.AddContext(err, errors.CtxPath, path)
		if bad != nil {
			err = errors.AddContext(err, errors.CtxPosition, c.pos(bad).String())
		}
		return nil, err
	}

	file := c.program(root)
	slog.Debug("parsed declaration file", "path", path, "statements", len(file.Statements))
	return file, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
