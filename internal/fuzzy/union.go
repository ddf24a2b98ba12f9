package fuzzy

import "math"

// #region weighted-term
// WeightedTerm clips a conclusion term at its rule's firing strength (implication).
type WeightedTerm struct {
	Term *Term
	Cap  float64
}

// ValueAt returns min(Cap, Term(x)), or 0 when there is no term or the cap is 0.
func (w WeightedTerm) ValueAt(x float64) float64 {
	if w.Term == nil || w.Cap == 0 {
		return 0
	}
	return math.Min(w.Cap, w.Term.ValueAt(x))
}

// #endregion weighted-term

// #region term-union
// TermUnion is the aggregated fuzzy set of one output: the pointwise maximum of its members.
type TermUnion struct {
	Members []WeightedTerm
}

// Add appends a member.
func (u *TermUnion) Add(w WeightedTerm) {
	u.Members = append(u.Members, w)
}

// ValueAt returns the largest member value at x.
func (u *TermUnion) ValueAt(x float64) (float64, error) {
	if len(u.Members) == 0 {
		return 0, ErrEmptyAggregation
	}
	best := u.Members[0].ValueAt(x)
	for _, m := range u.Members[1:] {
		if v := m.ValueAt(x); v > best {
			best = v
		}
	}
	return best, nil
}

// #endregion term-union
