package fuzzy

import "fmt"

// #region term
// Term is a named membership function with bound parameters,
// one qualitative category ("poor", "good") of a variable.
type Term struct {
	Name   string
	Kind   Kind
	Params []float64
}

// NewTerm validates kind and parameter arity. params are copied.
func NewTerm(name string, kind Kind, params ...float64) (*Term, error) {
	if name == "" || name == nullName {
		return nil, fmt.Errorf("%w: term name %q", ErrInvalidConstruction, name)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: term %q has unknown membership function %s", ErrInvalidConstruction, name, kind)
	}
	if len(params) != kind.Arity() {
		return nil, fmt.Errorf("%w: term %q: %s takes %d params, got %d",
			ErrInvalidConstruction, name, kind, kind.Arity(), len(params))
	}
	p := make([]float64, len(params))
	copy(p, params)
	return &Term{Name: name, Kind: kind, Params: p}, nil
}

// ValueAt returns the membership degree of x.
func (t *Term) ValueAt(x float64) float64 {
	return t.Kind.Eval(x, t.Params)
}

// #endregion term
