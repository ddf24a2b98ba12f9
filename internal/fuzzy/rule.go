package fuzzy

import (
	"fmt"
	"math"
	"strings"
)

// #region connective
// Connective combines the condition degrees of a rule.
type Connective int

const (
	And Connective = iota // minimum of participating degrees
	Or                    // maximum of participating degrees
)

// ParseConnective maps "or" (any case) to Or; everything else, including "", is And.
func ParseConnective(s string) Connective {
	if strings.EqualFold(strings.TrimSpace(s), "or") {
		return Or
	}
	return And
}

func (c Connective) String() string {
	if c == Or {
		return "or"
	}
	return "and"
}

// #endregion connective

// #region rule
// DontCare marks a variable that does not take part in a rule.
const DontCare = ""

// nullName is accepted as an authored spelling of DontCare.
const nullName = "null"

// DefaultWeight is the weight of a rule that does not set one.
const DefaultWeight = 1.0

// RuleConfig holds the optional parts of a rule.
type RuleConfig struct {
	Connective Connective
	Weight     float64 // >= 0
}

// DefaultRuleConfig returns an AND rule of weight 1.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{Connective: And, Weight: DefaultWeight}
}

// Rule maps input terms to output terms positionally: Conditions[i] names a
// term of input i and Conclusions[j] a term of output j.
type Rule struct {
	Conditions  []string
	Conclusions []string
	Connective  Connective
	Weight      float64
}

// NewRule copies conditions and conclusions, normalising "null" to DontCare.
func NewRule(conditions, conclusions []string, config RuleConfig) (*Rule, error) {
	if len(conditions) == 0 || len(conclusions) == 0 {
		return nil, fmt.Errorf("%w: rule needs conditions and conclusions", ErrInvalidConstruction)
	}
	if config.Weight < 0 || math.IsNaN(config.Weight) {
		return nil, fmt.Errorf("%w: rule weight %g", ErrInvalidConstruction, config.Weight)
	}
	if config.Connective != And && config.Connective != Or {
		return nil, fmt.Errorf("%w: unrecognized connective %d", ErrInvalidConstruction, int(config.Connective))
	}
	return &Rule{
		Conditions:  normalizeNames(conditions),
		Conclusions: normalizeNames(conclusions),
		Connective:  config.Connective,
		Weight:      config.Weight,
	}, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if n != nullName {
			out[i] = n
		}
	}
	return out
}

// #endregion rule

// #region keyed-rule
// KeyedRule names its variables explicitly instead of relying on declaration order.
// Variables missing from If or Then do not take part.
type KeyedRule struct {
	If   map[string]string
	Then map[string]string
	RuleConfig
}

// #endregion keyed-rule
