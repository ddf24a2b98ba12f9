package validate

import (
	"fmt"

	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

// #region validator
// Validator inspects a fuzzy system for structural problems before it is used.
type Validator struct {
	config Config
}

// NewValidator creates a validator with the given configuration.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// Check runs the hard checks, then the soft ones, and summarizes them.
func (v *Validator) Check(e *fuzzy.Engine) Report {
	var hard, soft []Issue

	// --- Hard pass ---

	// 1. Ranges must have positive width
	for _, vr := range variables(e) {
		if vr.Range.Width() <= v.config.MinRangeWidth {
			hard = append(hard, Issue{
				Type:   IssueEmptyRange,
				Reason: fmt.Sprintf("variable %q range [%g, %g] is empty", vr.Name, vr.Range.Low, vr.Range.High),
			})
		}
	}

	// 2. Rules must line up with the variables and name existing terms
	for i, r := range e.Rules {
		hard = append(hard, checkRuleSide(i, "condition", r.Conditions, e.Inputs)...)
		hard = append(hard, checkRuleSide(i, "conclusion", r.Conclusions, e.Outputs)...)
	}

	// 3. Every output needs at least one rule concluding on it
	for j, out := range e.Outputs {
		if !concluded(e.Rules, j) {
			hard = append(hard, Issue{
				Type:   IssueUnconcluded,
				Reason: fmt.Sprintf("no rule concludes on output %q", out.Name),
			})
		}
	}

	// --- Soft pass ---
	for _, vr := range variables(e) {
		for _, t := range vr.Terms {
			soft = append(soft, checkTerm(vr, t)...)
		}
	}
	for i, r := range e.Rules {
		if r.Weight == 0 {
			soft = append(soft, Issue{
				Type:   IssueZeroWeight,
				Reason: fmt.Sprintf("rule %d has weight 0 and never fires", i),
			})
		}
	}
	if v.config.WarnUnusedTerms {
		soft = append(soft, unusedTerms(e)...)
	}

	return summarize(hard, soft, v.config.Strict)
}

// #endregion validator

// #region helpers
func summarize(hard, soft []Issue, strict bool) Report {
	rep := Report{Hard: hard, Soft: soft}
	switch {
	case len(hard) > 0:
		rep.Reason = fmt.Sprintf("hard issue: %s", hard[0].Reason)
	case strict && len(soft) > 0:
		rep.Reason = fmt.Sprintf("soft issue (strict): %s", soft[0].Reason)
	default:
		rep.Passed = true
		rep.Reason = fmt.Sprintf("passed validation: %d soft issue(s)", len(soft))
	}
	return rep
}

func variables(e *fuzzy.Engine) []*fuzzy.Variable {
	out := make([]*fuzzy.Variable, 0, len(e.Inputs)+len(e.Outputs))
	out = append(out, e.Inputs...)
	return append(out, e.Outputs...)
}

func checkRuleSide(rule int, role string, names []string, vars []*fuzzy.Variable) []Issue {
	if len(names) != len(vars) {
		return []Issue{{
			Type:   IssueRuleWidth,
			Reason: fmt.Sprintf("rule %d has %d %ss for %d variables", rule, len(names), role, len(vars)),
		}}
	}
	var issues []Issue
	for j, name := range names {
		if name == fuzzy.DontCare {
			continue
		}
		if _, ok := vars[j].FindTerm(name); !ok {
			issues = append(issues, Issue{
				Type:   IssueUnknownTerm,
				Reason: fmt.Sprintf("rule %d %s %q is not a term of %q", rule, role, name, vars[j].Name),
			})
		}
	}
	return issues
}

func concluded(rules []*fuzzy.Rule, output int) bool {
	for _, r := range rules {
		if output < len(r.Conclusions) && r.Conclusions[output] != fuzzy.DontCare {
			return true
		}
	}
	return false
}

// checkTerm flags zero-width ramps, unordered parameters and peaks outside the range.
func checkTerm(v *fuzzy.Variable, t *fuzzy.Term) []Issue {
	var issues []Issue
	p := t.Params
	ramp := func(detail string) {
		issues = append(issues, Issue{
			Type:   IssueDegenerateRamp,
			Reason: fmt.Sprintf("term %q of %q: %s", t.Name, v.Name, detail),
		})
	}
	outside := func(lo, hi float64) {
		if hi < v.Range.Low || lo > v.Range.High {
			issues = append(issues, Issue{
				Type:   IssuePeakOutside,
				Reason: fmt.Sprintf("term %q of %q peaks outside [%g, %g]", t.Name, v.Name, v.Range.Low, v.Range.High),
			})
		}
	}

	switch t.Kind {
	case fuzzy.Triangle:
		if !(p[0] <= p[1] && p[1] <= p[2]) {
			ramp("parameters are not ordered")
		} else if p[0] == p[1] || p[1] == p[2] {
			ramp("zero-width ramp")
		}
		outside(p[1], p[1])
	case fuzzy.Trapeze:
		if !(p[0] <= p[1] && p[1] <= p[2] && p[2] <= p[3]) {
			ramp("parameters are not ordered")
		} else if (p[0] == p[1] && p[0] > v.Range.Low) || (p[2] == p[3] && p[3] < v.Range.High) {
			ramp("zero-width ramp inside the range")
		}
		outside(p[1], p[2])
	case fuzzy.Gauss:
		if p[0] == 0 {
			ramp("zero concentration")
		}
		outside(p[1], p[1])
	case fuzzy.Sigma:
		outside(p[1], p[1])
	case fuzzy.Singleton:
		outside(p[0], p[0])
	}
	return issues
}

func unusedTerms(e *fuzzy.Engine) []Issue {
	var issues []Issue
	scan := func(vars []*fuzzy.Variable, side func(*fuzzy.Rule) []string) {
		for j, vr := range vars {
			used := map[string]bool{}
			for _, r := range e.Rules {
				names := side(r)
				if j < len(names) {
					used[names[j]] = true
				}
			}
			for _, t := range vr.Terms {
				if !used[t.Name] {
					issues = append(issues, Issue{
						Type:   IssueUnusedTerm,
						Reason: fmt.Sprintf("term %q of %q is not used by any rule", t.Name, vr.Name),
					})
				}
			}
		}
	}
	scan(e.Inputs, func(r *fuzzy.Rule) []string { return r.Conditions })
	scan(e.Outputs, func(r *fuzzy.Rule) []string { return r.Conclusions })
	return issues
}

// #endregion helpers
