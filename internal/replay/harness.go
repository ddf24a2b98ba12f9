package replay

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/fuzzy-controller/internal/eval"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

// #region types
// ReplayConfig bundles the comparison tolerance and eval thresholds for a run.
type ReplayConfig struct {
	Tolerance  float64 // max absolute difference per output
	EvalConfig eval.EvalConfig
}

// DefaultReplayConfig returns the settings used when a fixture sets none.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Tolerance:  0.01,
		EvalConfig: eval.DefaultEvalConfig(),
	}
}

// CaseResult captures the outcome of replaying one case.
type CaseResult struct {
	ID      string
	Action  string // "pass" | "mismatch" | "error"
	Reason  string
	Outputs []float64
	MaxDiff float64

	// nil when inference failed
	EvalResult *eval.EvalResult
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalCases int
	Passed     int
	Mismatches int
	Errors     int
}

// #endregion types

// #region replay
// Replay runs every case through e and compares against the expectation.
// Runs entirely in memory; e is not modified.
func Replay(e *fuzzy.Engine, cases []Case, config ReplayConfig) []CaseResult {
	results := make([]CaseResult, 0, len(cases))
	evalInst := eval.NewEvalHarness(config.EvalConfig)

	for _, c := range cases {
		res, err := e.InferDetailed(c.Inputs)

		// 1. Expected or unexpected failure
		if err != nil {
			code := fuzzy.Code(err)
			if c.ExpectError != "" && c.ExpectError == code {
				results = append(results, CaseResult{
					ID:     c.ID,
					Action: "pass",
					Reason: fmt.Sprintf("failed as expected: %s", code),
				})
				continue
			}
			results = append(results, CaseResult{
				ID:     c.ID,
				Action: "error",
				Reason: err.Error(),
			})
			continue
		}
		if c.ExpectError != "" {
			results = append(results, CaseResult{
				ID:      c.ID,
				Action:  "mismatch",
				Reason:  fmt.Sprintf("expected %s, got outputs %v", c.ExpectError, res.Outputs),
				Outputs: res.Outputs,
			})
			continue
		}

		// 2. Eval
		evalResult := evalInst.Run(e, res)

		// 3. Compare
		r := CaseResult{ID: c.ID, Outputs: res.Outputs, EvalResult: &evalResult}
		if len(c.Expected) != len(res.Outputs) {
			r.Action = "mismatch"
			r.Reason = fmt.Sprintf("expected %d outputs, got %d", len(c.Expected), len(res.Outputs))
			results = append(results, r)
			continue
		}
		worst := -1
		for j := range c.Expected {
			d := math.Abs(res.Outputs[j] - c.Expected[j])
			if d > r.MaxDiff || math.IsNaN(d) {
				r.MaxDiff = d
				worst = j
			}
		}
		if worst >= 0 && !(r.MaxDiff <= config.Tolerance) {
			r.Action = "mismatch"
			r.Reason = fmt.Sprintf("output %d = %.6f, expected %.6f (tolerance %g)",
				worst, res.Outputs[worst], c.Expected[worst], config.Tolerance)
		} else {
			r.Action = "pass"
			r.Reason = evalResult.Reason
		}
		results = append(results, r)
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) ReplaySummary {
	s := ReplaySummary{TotalCases: len(results)}
	for _, r := range results {
		switch r.Action {
		case "pass":
			s.Passed++
		case "mismatch":
			s.Mismatches++
		case "error":
			s.Errors++
		}
	}
	return s
}

// #endregion replay
