package history

import "time"

// Summarize aggregates runs, which must be ordered oldest first. Deltas
// compare the last successful run against the one before it.
func Summarize(runs []Run) Summary {
	var s Summary
	s.Runs = len(runs)
	if len(runs) == 0 {
		return s
	}

	var total time.Duration
	var ok []Run
	for _, r := range runs {
		total += r.Duration
		if r.Outcome == OutcomeFailed {
			s.Failures++
			continue
		}
		ok = append(ok, r)
	}
	s.AvgDuration = total / time.Duration(len(runs))

	if n := len(ok); n > 0 {
		s.LastDeclarations = ok[n-1].Declarations
		if n > 1 {
			s.DeltaDecls = ok[n-1].Declarations - ok[n-2].Declarations
			s.DeltaWarnings = ok[n-1].Warnings - ok[n-2].Warnings
		}
	}
	return s
}
