package fuzzy

import "errors"

// #region errors
// Sentinel errors returned (wrapped) by construction and inference.
// Match them with errors.Is.
var (
	// ErrInvalidConstruction reports a variable, term or rule that cannot be built.
	ErrInvalidConstruction = errors.New("invalid construction")

	// ErrTermNotFound reports a rule referencing a term its variable does not have.
	ErrTermNotFound = errors.New("term not found")

	// ErrEmptyAggregation reports an output union evaluated with no members.
	ErrEmptyAggregation = errors.New("empty aggregation")

	// ErrIndexOutOfRange reports a positional mismatch between values, rules and variables.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Code returns a stable snake_case name for the sentinel wrapped by err,
// "" for nil and "internal" for anything else.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidConstruction):
		return "invalid_construction"
	case errors.Is(err, ErrTermNotFound):
		return "term_not_found"
	case errors.Is(err, ErrEmptyAggregation):
		return "empty_aggregation"
	case errors.Is(err, ErrIndexOutOfRange):
		return "index_out_of_range"
	}
	return "internal"
}

// #endregion errors
