package replay

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

func tipEngine(t *testing.T) *fuzzy.Engine {
	t.Helper()
	f := &Fixture{System: "tip.yaml", dir: "testdata"}
	e, err := f.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	return e
}

// 1. Matching outputs pass and carry the eval result.
func TestReplay_Pass(t *testing.T) {
	e := tipEngine(t)
	results := Replay(e, []Case{{ID: "c1", Inputs: []float64{7.892, 7.41}, Expected: []float64{17.4}}}, DefaultReplayConfig())

	r := results[0]
	if r.Action != "pass" {
		t.Fatalf("expected pass, got %s: %s", r.Action, r.Reason)
	}
	if r.EvalResult == nil || !r.EvalResult.Passed {
		t.Fatal("expected a passing EvalResult")
	}
	if r.MaxDiff > 0.01 {
		t.Fatalf("unexpected diff %v", r.MaxDiff)
	}
}

// 2. Outputs outside tolerance are mismatches.
func TestReplay_Mismatch(t *testing.T) {
	e := tipEngine(t)
	results := Replay(e, []Case{{ID: "c1", Inputs: []float64{7.892, 7.41}, Expected: []float64{20}}}, DefaultReplayConfig())
	if results[0].Action != "mismatch" {
		t.Fatalf("expected mismatch, got %s", results[0].Action)
	}
}

// 3. Output count differs from the expectation.
func TestReplay_WidthMismatch(t *testing.T) {
	e := tipEngine(t)
	results := Replay(e, []Case{{ID: "c1", Inputs: []float64{7.892, 7.41}, Expected: []float64{17.4, 1}}}, DefaultReplayConfig())
	if results[0].Action != "mismatch" {
		t.Fatalf("expected mismatch, got %s", results[0].Action)
	}
}

// 4. Errors: expected ones pass, others are reported, missing ones mismatch.
func TestReplay_Errors(t *testing.T) {
	e := tipEngine(t)
	cases := []Case{
		{ID: "expected", Inputs: []float64{5}, ExpectError: "index_out_of_range"},
		{ID: "unexpected", Inputs: []float64{5}, Expected: []float64{1}},
		{ID: "missing", Inputs: []float64{5, 5}, ExpectError: "term_not_found"},
	}
	results := Replay(e, cases, DefaultReplayConfig())

	want := []string{"pass", "error", "mismatch"}
	for i, r := range results {
		if r.Action != want[i] {
			t.Errorf("case %s: expected %s, got %s (%s)", r.ID, want[i], r.Action, r.Reason)
		}
	}

	s := Summarize(results)
	if s.TotalCases != 3 || s.Passed != 1 || s.Errors != 1 || s.Mismatches != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

// 5. Replaying twice gives identical results.
func TestReplay_Deterministic(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "tip.json"))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := f.Engine()
	a := Replay(e, f.Cases, f.ToReplayConfig())
	b := Replay(e, f.Cases, f.ToReplayConfig())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("replay is not deterministic")
	}
}
