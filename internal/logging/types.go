package logging

import "time"

// #region run-entry
// RunEntry is a single row in the inference_log table.
type RunEntry struct {
	RunID          string
	SystemName     string
	VersionID      string // empty when the system was loaded from a file
	Inputs         []float64
	Outputs        []float64
	Strengths      []float64
	Error          string
	DurationMicros int64
	CreatedAt      time.Time
}

// #endregion run-entry
