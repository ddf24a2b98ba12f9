package fuzzy

// #region degree
// Degree is a membership degree that may be absent, e.g. for a variable
// that does not take part in a rule.
type Degree struct {
	Value float64
	Valid bool
}

// Known wraps a present degree.
func Known(v float64) Degree {
	return Degree{Value: v, Valid: true}
}

// #endregion degree

// #region reduce
// MinOf returns the smallest present degree. Absent degrees are skipped;
// an empty or all-absent slice yields an absent degree.
func MinOf(ds []Degree) Degree {
	var out Degree
	for _, d := range ds {
		if d.Valid && (!out.Valid || d.Value < out.Value) {
			out = d
		}
	}
	return out
}

// MaxOf returns the largest present degree, with the same absence rules as MinOf.
func MaxOf(ds []Degree) Degree {
	var out Degree
	for _, d := range ds {
		if d.Valid && (!out.Valid || d.Value > out.Value) {
			out = d
		}
	}
	return out
}

// reduce applies the connective to a rule's condition degrees.
func reduce(c Connective, ds []Degree) Degree {
	if c == Or {
		return MaxOf(ds)
	}
	return MinOf(ds)
}

// #endregion reduce
