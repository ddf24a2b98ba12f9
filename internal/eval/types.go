package eval

// #region eval-config
// EvalConfig holds thresholds for post-inference checks.
type EvalConfig struct {
	MinMass       float64 // fail an output whose aggregate mass is at or below this
	MinRulesFired int     // warn when fewer rules fire than this
}

// DefaultEvalConfig returns the settings used by the commands.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinMass:       0,
		MinRulesFired: 1,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of post-inference evaluation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
