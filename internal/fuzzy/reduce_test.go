package fuzzy

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func degrees(vals ...float64) []Degree {
	ds := make([]Degree, len(vals))
	for i, v := range vals {
		ds[i] = Known(v)
	}
	return ds
}

func TestMinMax_SortedAndReversed(t *testing.T) {
	for _, vals := range [][]float64{
		{-4, -3, 0, 1, 7, 12},
		{234, 123, 123, 10, 0, -10, -10, -15},
		{0},
		{0.06245030734144032, 0.06245030734144032, 0.06245030734144032},
	} {
		lo, hi := MinOf(degrees(vals...)), MaxOf(degrees(vals...))
		if !lo.Valid || lo.Value != floats.Min(vals) {
			t.Errorf("MinOf(%v) = %+v, want %v", vals, lo, floats.Min(vals))
		}
		if !hi.Valid || hi.Value != floats.Max(vals) {
			t.Errorf("MaxOf(%v) = %+v, want %v", vals, hi, floats.Max(vals))
		}
	}
}

func TestMinMax_Empty(t *testing.T) {
	if d := MinOf(nil); d.Valid {
		t.Errorf("MinOf(nil) should be absent, got %+v", d)
	}
	if d := MaxOf([]Degree{}); d.Valid {
		t.Errorf("MaxOf(empty) should be absent, got %+v", d)
	}
}

func TestMinMax_SkipsAbsent(t *testing.T) {
	ds := []Degree{{}, Known(0), Known(-8), {}, Known(-7)}
	if d := MinOf(ds); d.Value != -8 {
		t.Errorf("MinOf = %v, want -8", d.Value)
	}
	if d := MaxOf(ds); d.Value != 0 {
		t.Errorf("MaxOf = %v, want 0", d.Value)
	}

	one := []Degree{{}, Known(0.06245030734144032)}
	if d := MinOf(one); d.Value != 0.06245030734144032 {
		t.Errorf("MinOf = %v", d.Value)
	}
	if d := MaxOf(one[1:]); d.Value != 0.06245030734144032 {
		t.Errorf("MaxOf = %v", d.Value)
	}
}

func TestMinMax_AllAbsent(t *testing.T) {
	ds := []Degree{{}, {}, {}}
	if MinOf(ds).Valid || MaxOf(ds).Valid {
		t.Fatal("all-absent reduction should be absent")
	}
}

func TestWeightedTerm_Clips(t *testing.T) {
	term := mustTerm(t, "average", Triangle, 10, 15, 20)
	w := WeightedTerm{Term: term, Cap: 0.4}
	if v := w.ValueAt(15); v != 0.4 {
		t.Errorf("expected clip at 0.4, got %v", v)
	}
	if v := w.ValueAt(11); v != 0.2 {
		t.Errorf("expected curve value 0.2 below the cap, got %v", v)
	}
	if v := (WeightedTerm{Term: term}).ValueAt(15); v != 0 {
		t.Errorf("zero cap should give 0, got %v", v)
	}
	if v := (WeightedTerm{Cap: 1}).ValueAt(15); v != 0 {
		t.Errorf("nil term should give 0, got %v", v)
	}
}

func TestTermUnion_PointwiseMax(t *testing.T) {
	u := &TermUnion{}
	u.Add(WeightedTerm{Term: mustTerm(t, "cheap", Triangle, 0, 5, 10), Cap: 0.3})
	u.Add(WeightedTerm{Term: mustTerm(t, "average", Triangle, 5, 10, 15), Cap: 0.9})
	v, err := u.ValueAt(7.5)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.5 {
		t.Errorf("expected 0.5, got %v", v)
	}
}

func TestCode(t *testing.T) {
	cases := map[string]error{
		"":                     nil,
		"term_not_found":       fmt.Errorf("rule 2: %w", ErrTermNotFound),
		"index_out_of_range":   ErrIndexOutOfRange,
		"empty_aggregation":    fmt.Errorf("output %q: %w", "tip", ErrEmptyAggregation),
		"invalid_construction": ErrInvalidConstruction,
		"internal":             errors.New("disk on fire"),
	}
	for want, err := range cases {
		if got := Code(err); got != want {
			t.Errorf("Code(%v) = %q, want %q", err, got, want)
		}
	}
}
