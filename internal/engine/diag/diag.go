// Package diag collects non-fatal conversion findings.
package diag

import "fmt"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

type Code string

const (
	// CodeUnmappedKind: the printer met a shape it has no rendering for and
	// emitted a placeholder.
	CodeUnmappedKind Code = "UNMAPPED_KIND"
	// CodeUnresolvedExport: an export names no known variable and keeps its
	// declared name.
	CodeUnresolvedExport Code = "UNRESOLVED_EXPORT"
	// CodeDeepQualification: a variable points through more than one level of
	// namespace qualification and is left unresolved.
	CodeDeepQualification Code = "DEEP_QUALIFICATION"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Context  string
	Symbol   string
	Message  string
}

func (d Diagnostic) String() string {
	where := d.Context
	if d.Symbol != "" {
		if where != "" {
			where += "/"
		}
		where += d.Symbol
	}
	if where == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, where, d.Message)
}

// Warnings counts warning-level diagnostics.
func Warnings(ds []Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// ByCode groups diagnostic counts by code.
func ByCode(ds []Diagnostic) map[Code]int {
	out := make(map[Code]int)
	for _, d := range ds {
		out[d.Code]++
	}
	return out
}
