package eval

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

func tipEngine(t *testing.T) *fuzzy.Engine {
	t.Helper()
	sf, err := config.LoadSystem("testdata/tip.yaml")
	if err != nil {
		t.Fatalf("LoadSystem: %v", err)
	}
	e, err := sf.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return e
}

func metric(t *testing.T, r EvalResult, name string) EvalMetric {
	t.Helper()
	for _, m := range r.Metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("metric %s not found in %+v", name, r.Metrics)
	return EvalMetric{}
}

func TestEvalPassesOnTip(t *testing.T) {
	e := tipEngine(t)
	res, err := e.InferDetailed([]float64{7.892, 7.41})
	if err != nil {
		t.Fatal(err)
	}

	result := NewEvalHarness(DefaultEvalConfig()).Run(e, res)
	if !result.Passed {
		t.Fatalf("expected pass, got fail: %s", result.Reason)
	}
	if result.Reason != "all checks passed" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
	if m := metric(t, result, "output_tip_mass"); m.Value <= 0 || !m.Pass {
		t.Fatalf("unexpected mass metric %+v", m)
	}
	if m := metric(t, result, "rules_fired"); m.Value < 1 {
		t.Fatalf("expected at least one rule fired, got %+v", m)
	}
}

func TestEvalFailsOnZeroMass(t *testing.T) {
	e := tipEngine(t)
	res := fuzzy.Result{
		Outputs:   []float64{0},
		Strengths: []float64{0, 0, 0},
		Mass:      []float64{0},
	}

	result := NewEvalHarness(DefaultEvalConfig()).Run(e, res)
	if result.Passed {
		t.Fatal("expected fail on zero mass")
	}
	if !strings.Contains(result.Reason, "mass") {
		t.Fatalf("expected mass in reason, got %q", result.Reason)
	}
	if m := metric(t, result, "rules_fired"); m.Pass {
		t.Fatal("rules_fired should not pass with no rule fired")
	}
}

func TestEvalFailsOutsideRange(t *testing.T) {
	e := tipEngine(t)
	res := fuzzy.Result{Outputs: []float64{31}, Strengths: []float64{1}, Mass: []float64{0}}

	result := NewEvalHarness(DefaultEvalConfig()).Run(e, res)
	if result.Passed {
		t.Fatal("expected fail")
	}
	if !strings.HasPrefix(result.Reason, "eval failed: 2 checks") {
		t.Fatalf("expected two failures, got %q", result.Reason)
	}
	if metric(t, result, "output_tip_in_range").Pass {
		t.Fatal("31 is more than one step past the range")
	}
}

func TestEvalAllowsOneStepOvershoot(t *testing.T) {
	e := tipEngine(t)
	res := fuzzy.Result{Outputs: []float64{30.2}, Strengths: []float64{1}, Mass: []float64{0.1}}

	result := NewEvalHarness(DefaultEvalConfig()).Run(e, res)
	if !result.Passed {
		t.Fatalf("expected pass within one step, got %s", result.Reason)
	}
}

func TestEvalRulesFiredInformational(t *testing.T) {
	cfg := DefaultEvalConfig()
	cfg.MinRulesFired = 3
	e := tipEngine(t)
	res, _ := e.InferDetailed([]float64{7.018, 2.59})

	result := NewEvalHarness(cfg).Run(e, res)
	if !result.Passed {
		t.Fatalf("rules_fired must not fail the result: %s", result.Reason)
	}
	if metric(t, result, "rules_fired").Pass {
		t.Fatal("expected rules_fired below threshold")
	}
}
