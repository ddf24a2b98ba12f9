package eval

import (
	"fmt"

	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

// #region eval-harness
// EvalHarness checks an inference result for degenerate outputs.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run evaluates res, produced by e.InferDetailed.
func (h *EvalHarness) Run(e *fuzzy.Engine, res fuzzy.Result) EvalResult {
	var metrics []EvalMetric
	passed := true
	var failReasons []string

	for j, out := range e.Outputs {
		if j >= len(res.Outputs) {
			break
		}
		x := res.Outputs[j]

		// 1. Crisp value inside the range; the walk may end one step past High
		step := out.Range.Width() / float64(e.Config().Partitions)
		inRange := fuzzy.Range{Low: out.Range.Low, High: out.Range.High + step}.Contains(x)
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("output_%s_in_range", out.Name),
			Value: boolValue(inRange),
			Pass:  inRange,
		})
		if !inRange {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("output %s = %.4f outside [%g, %g]", out.Name, x, out.Range.Low, out.Range.High))
		}

		// 2. Aggregate mass; zero means nothing fired and x is just Low
		mass := 0.0
		if j < len(res.Mass) {
			mass = res.Mass[j]
		}
		massPass := mass > h.config.MinMass
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("output_%s_mass", out.Name),
			Value: mass,
			Pass:  massPass,
		})
		if !massPass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("output %s mass %.4f at or below %.4f", out.Name, mass, h.config.MinMass))
		}
	}

	// 3. Rules fired: informational only, does not fail
	fired := 0
	for _, s := range res.Strengths {
		if s > 0 {
			fired++
		}
	}
	metrics = append(metrics, EvalMetric{
		Name:  "rules_fired",
		Value: float64(fired),
		Pass:  fired >= h.config.MinRulesFired,
	})

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
