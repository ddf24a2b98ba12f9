package validate

import (
	"testing"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

func tipEngine(t *testing.T) *fuzzy.Engine {
	t.Helper()
	sf, err := config.LoadSystem("testdata/tip.yaml")
	if err != nil {
		t.Fatalf("LoadSystem: %v", err)
	}
	e, err := sf.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return e
}

func hasIssue(issues []Issue, typ IssueType) bool {
	for _, is := range issues {
		if is.Type == typ {
			return true
		}
	}
	return false
}

func TestCheck_TipPassesClean(t *testing.T) {
	rep := NewValidator(DefaultConfig()).Check(tipEngine(t))
	if !rep.Passed {
		t.Fatalf("expected pass, got %s", rep.Reason)
	}
	if len(rep.Soft) != 0 {
		t.Fatalf("expected no soft issues, got %+v", rep.Soft)
	}
}

func TestCheck_RuleWidthAndUnknownTerm(t *testing.T) {
	e := tipEngine(t)
	narrow, _ := fuzzy.NewRule([]string{"poor"}, []string{"cheap"}, fuzzy.DefaultRuleConfig())
	typo, _ := fuzzy.NewRule([]string{"poor", "bad"}, []string{"cheep"}, fuzzy.DefaultRuleConfig())
	e.AddRule(narrow)
	e.AddRule(typo)

	rep := NewValidator(DefaultConfig()).Check(e)
	if rep.Passed {
		t.Fatal("expected failure")
	}
	if !hasIssue(rep.Hard, IssueRuleWidth) {
		t.Errorf("expected rule width issue in %+v", rep.Hard)
	}
	if !hasIssue(rep.Hard, IssueUnknownTerm) {
		t.Errorf("expected unknown term issue in %+v", rep.Hard)
	}
}

func TestCheck_UnconcludedOutput(t *testing.T) {
	e := tipEngine(t)
	wait, _ := fuzzy.NewVariable("wait", fuzzy.Range{Low: 0, High: 60})
	wait.NewDefaultTerm("short", fuzzy.Triangle)
	e.AddOutput(wait)
	for _, r := range e.Rules {
		r.Conclusions = append(r.Conclusions, fuzzy.DontCare)
	}

	rep := NewValidator(DefaultConfig()).Check(e)
	if rep.Passed || !hasIssue(rep.Hard, IssueUnconcluded) {
		t.Fatalf("expected unconcluded output, got %+v", rep)
	}
}

func TestCheck_EmptyRange(t *testing.T) {
	e := tipEngine(t)
	e.Inputs[0].Range = fuzzy.Range{Low: 5, High: 5}
	rep := NewValidator(DefaultConfig()).Check(e)
	if !hasIssue(rep.Hard, IssueEmptyRange) {
		t.Fatalf("expected empty range issue, got %+v", rep.Hard)
	}
}

func TestCheck_SoftIssues(t *testing.T) {
	e := tipEngine(t)
	flat, _ := fuzzy.NewTerm("flat", fuzzy.Triangle, 10, 10, 20)
	far, _ := fuzzy.NewTerm("far", fuzzy.Gauss, 1, 50)
	e.Outputs[0].AddTerm(flat)
	e.Outputs[0].AddTerm(far)
	muted, _ := fuzzy.NewRule([]string{"poor", fuzzy.DontCare}, []string{"flat"}, fuzzy.RuleConfig{Weight: 0})
	e.AddRule(muted)

	rep := NewValidator(DefaultConfig()).Check(e)
	if !rep.Passed {
		t.Fatalf("soft issues should not fail by default: %s", rep.Reason)
	}
	for _, typ := range []IssueType{IssueDegenerateRamp, IssuePeakOutside, IssueZeroWeight, IssueUnusedTerm} {
		if !hasIssue(rep.Soft, typ) {
			t.Errorf("expected %s in %+v", typ, rep.Soft)
		}
	}

	strict := DefaultConfig()
	strict.Strict = true
	if NewValidator(strict).Check(e).Passed {
		t.Error("strict validation should fail on soft issues")
	}
}

func TestCheck_UnusedTermsCanBeSilenced(t *testing.T) {
	e := tipEngine(t)
	e.Inputs[1].NewDefaultTerm("average", fuzzy.Triangle)

	cfg := DefaultConfig()
	if !hasIssue(NewValidator(cfg).Check(e).Soft, IssueUnusedTerm) {
		t.Fatal("expected unused term")
	}
	cfg.WarnUnusedTerms = false
	if hasIssue(NewValidator(cfg).Check(e).Soft, IssueUnusedTerm) {
		t.Fatal("unused terms should be silenced")
	}
}
