package history

import "time"

const SchemaVersion = 1

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Run is one recorded conversion.
type Run struct {
	RunID        string        `json:"run_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Outcome      string        `json:"outcome"`
	Inputs       int           `json:"inputs"`
	Modules      int           `json:"modules"`
	Declarations int           `json:"declarations"`
	Imports      int           `json:"imports"`
	Warnings     int           `json:"warnings"`
	Infos        int           `json:"infos"`
	OutputPath   string        `json:"output_path,omitempty"`
	Duration     time.Duration `json:"duration"`
	Error        string        `json:"error,omitempty"`
}

// Summary aggregates a window of runs, oldest first.
type Summary struct {
	Runs             int           `json:"runs"`
	Failures         int           `json:"failures"`
	AvgDuration      time.Duration `json:"avg_duration"`
	LastDeclarations int           `json:"last_declarations"`
	DeltaDecls       int           `json:"delta_declarations"`
	DeltaWarnings    int           `json:"delta_warnings"`
}
