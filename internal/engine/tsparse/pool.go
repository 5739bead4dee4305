package tsparse

import (
	"flowdef/internal/shared/observability"
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers for one grammar so concurrent
// file parses do not pay for NewParser/Close each time.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Safe for concurrent use.
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool

	leases   map[*sitter.Parser]time.Time
	leasesMu sync.Mutex
}

func NewParserPool(lang *sitter.Language) *ParserPool {
	p := &ParserPool{
		lang:   lang,
		leases: make(map[*sitter.Parser]time.Time),
	}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get leases a parser configured for the pool's grammar.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(p.lang)

	p.leasesMu.Lock()
	p.leases[sp] = time.Now()
	observability.ParserLeases.Set(float64(len(p.leases)))
	p.leasesMu.Unlock()

	return sp
}

// Put resets sp and returns it to the pool. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}

	p.leasesMu.Lock()
	delete(p.leases, sp)
	observability.ParserLeases.Set(float64(len(p.leases)))
	p.leasesMu.Unlock()

	sp.Reset()
	p.pool.Put(sp)
}

// Leased returns the number of parsers currently checked out.
func (p *ParserPool) Leased() int {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	return len(p.leases)
}
