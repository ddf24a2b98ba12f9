package fuzzy

import (
	"fmt"
	"math"
)

// #region range
// Range is the closed numeric domain [Low, High] of a variable.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low.
func (r Range) Width() float64 {
	return r.High - r.Low
}

// Contains reports whether x lies in [Low, High].
func (r Range) Contains(x float64) bool {
	return x >= r.Low && x <= r.High
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// #endregion range

// #region variable
// Variable is a linguistic variable: a named range described by ordered terms.
type Variable struct {
	Name  string
	Range Range
	Terms []*Term
}

// NewVariable creates a variable and adds the given terms in order.
func NewVariable(name string, rng Range, terms ...*Term) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: variable must be named", ErrInvalidConstruction)
	}
	if !finite(rng.Low) || !finite(rng.High) || rng.Low > rng.High {
		return nil, fmt.Errorf("%w: variable %q has invalid range [%g, %g]",
			ErrInvalidConstruction, name, rng.Low, rng.High)
	}
	v := &Variable{Name: name, Range: rng}
	for _, t := range terms {
		if err := v.AddTerm(t); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// AddTerm appends t. Term names are unique per variable.
func (v *Variable) AddTerm(t *Term) error {
	if t == nil {
		return fmt.Errorf("%w: nil term on variable %q", ErrInvalidConstruction, v.Name)
	}
	if _, ok := v.FindTerm(t.Name); ok {
		return fmt.Errorf("%w: variable %q already has term %q", ErrInvalidConstruction, v.Name, t.Name)
	}
	v.Terms = append(v.Terms, t)
	return nil
}

// NewDefaultTerm adds a term whose parameters are derived from the variable range.
func (v *Variable) NewDefaultTerm(name string, kind Kind) (*Term, error) {
	params, err := DefaultParams(kind, v.Range)
	if err != nil {
		return nil, fmt.Errorf("variable %q term %q: %w", v.Name, name, err)
	}
	t, err := NewTerm(name, kind, params...)
	if err != nil {
		return nil, err
	}
	if err := v.AddTerm(t); err != nil {
		return nil, err
	}
	return t, nil
}

// FindTerm looks up a term by name.
func (v *Variable) FindTerm(name string) (*Term, bool) {
	for _, t := range v.Terms {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// RemoveTerm deletes the named term and reports whether it existed.
func (v *Variable) RemoveTerm(name string) bool {
	for i, t := range v.Terms {
		if t.Name == name {
			v.Terms = append(v.Terms[:i], v.Terms[i+1:]...)
			return true
		}
	}
	return false
}

// TermNames returns term names in declaration order.
func (v *Variable) TermNames() []string {
	names := make([]string, len(v.Terms))
	for i, t := range v.Terms {
		names[i] = t.Name
	}
	return names
}

// #endregion variable
