package ir

import "flowdef/internal/shared/util"

type ImportKind int

const (
	// ImportExplicit is `import type { What } from 'From'`.
	ImportExplicit ImportKind = iota
	// ImportDefault is `import type What from 'From'`.
	ImportDefault
)

type ImportRequest struct {
	Kind ImportKind
	What string
	From string
}

// ImportRecord is the normalized import of one source module.
type ImportRecord struct {
	Module   string
	Default  string
	Explicit []string
}

// ImportTable accumulates import requests and deduplicates them per module.
type ImportTable struct {
	requests []ImportRequest
}

func (t *ImportTable) Add(req ImportRequest) {
	t.requests = append(t.requests, req)
}

func (t *ImportTable) AddExplicit(what, from string) {
	t.Add(ImportRequest{Kind: ImportExplicit, What: what, From: from})
}

func (t *ImportTable) AddDefault(what, from string) {
	t.Add(ImportRequest{Kind: ImportDefault, What: what, From: from})
}

// Requests returns the raw requests in arrival order.
func (t *ImportTable) Requests() []ImportRequest {
	out := make([]ImportRequest, len(t.requests))
	copy(out, t.requests)
	return out
}

// Normalize folds the requests into one record per module. Explicit names
// are deduplicated and sorted; the last default request for a module wins.
// Records are ordered by module name.
func (t *ImportTable) Normalize() []ImportRecord {
	type acc struct {
		def      string
		explicit map[string]bool
	}
	byModule := make(map[string]*acc)
	for _, req := range t.requests {
		a, ok := byModule[req.From]
		if !ok {
			a = &acc{explicit: make(map[string]bool)}
			byModule[req.From] = a
		}
		switch req.Kind {
		case ImportDefault:
			a.def = req.What
		default:
			a.explicit[req.What] = true
		}
	}

	records := make([]ImportRecord, 0, len(byModule))
	for _, module := range util.SortedStringKeys(byModule) {
		a := byModule[module]
		records = append(records, ImportRecord{
			Module:   module,
			Default:  a.def,
			Explicit: util.SortedStringKeys(a.explicit),
		})
	}
	return records
}

// Registry is the ordered set of namespace names seen during collection.
type Registry struct {
	names []string
	seen  map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Add registers name and reports whether it was new.
func (r *Registry) Add(name string) bool {
	if r.seen[name] {
		return false
	}
	r.seen[name] = true
	r.names = append(r.names, name)
	return true
}

func (r *Registry) Has(name string) bool {
	return r.seen[name]
}

func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
