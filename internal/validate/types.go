package validate

// #region issue-type
// IssueType enumerates validation findings.
type IssueType string

const (
	// hard: the system cannot infer for some inputs
	IssueRuleWidth   IssueType = "rule_width"
	IssueUnknownTerm IssueType = "unknown_term"
	IssueEmptyRange  IssueType = "empty_range"
	IssueUnconcluded IssueType = "unconcluded_output"

	// soft: the system infers but is probably not what the author meant
	IssueDegenerateRamp IssueType = "degenerate_ramp"
	IssueZeroWeight     IssueType = "zero_weight"
	IssuePeakOutside    IssueType = "peak_outside_range"
	IssueUnusedTerm     IssueType = "unused_term"
)

// #endregion issue-type

// #region issue
// Issue is one finding about a system.
type Issue struct {
	Type   IssueType
	Reason string
}

// #endregion issue

// #region config
// Config controls which findings are reported and how they are weighed.
type Config struct {
	MinRangeWidth   float64 // variables at or below this width are hard issues
	WarnUnusedTerms bool    // report terms no rule mentions
	Strict          bool    // soft issues also fail the report
}

// DefaultConfig returns the settings used by the commands.
func DefaultConfig() Config {
	return Config{
		MinRangeWidth:   0,
		WarnUnusedTerms: true,
		Strict:          false,
	}
}

// #endregion config

// #region report
// Report is the result of checking one system.
type Report struct {
	Passed bool
	Reason string
	Hard   []Issue // non-empty means Passed is false
	Soft   []Issue
}

// #endregion report
