package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

// #region types
// SystemFile is the YAML form of a fuzzy system.
type SystemFile struct {
	Name       string         `yaml:"name"`
	Partitions int            `yaml:"partitions,omitempty"`
	Inputs     []VariableSpec `yaml:"inputs"`
	Outputs    []VariableSpec `yaml:"outputs"`
	Rules      []RuleSpec     `yaml:"rules"`
}

// VariableSpec describes one linguistic variable.
type VariableSpec struct {
	Name  string     `yaml:"name"`
	Range []float64  `yaml:"range,flow"`
	Terms []TermSpec `yaml:"terms"`
}

// TermSpec describes one term. Empty Params selects range-derived defaults.
type TermSpec struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Params []float64 `yaml:"params,flow,omitempty"`
}

// RuleSpec is either positional (Conditions/Conclusions, nil for don't-care)
// or keyed (If/Then by variable name). Mixing both forms is rejected.
type RuleSpec struct {
	Conditions  []*string         `yaml:"conditions,flow,omitempty"`
	Conclusions []*string         `yaml:"conclusions,flow,omitempty"`
	If          map[string]string `yaml:"if,omitempty"`
	Then        map[string]string `yaml:"then,omitempty"`
	Connective  string            `yaml:"connective,omitempty"`
	Weight      *float64          `yaml:"weight,omitempty"`
}

// #endregion types

// #region load
// LoadSystem reads and decodes a YAML system file.
func LoadSystem(path string) (*SystemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system %s: %w", path, err)
	}
	sf, err := ParseSystem(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

// ParseSystem decodes a YAML system document.
func ParseSystem(data []byte) (*SystemFile, error) {
	var sf SystemFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse system: %w", err)
	}
	if len(sf.Inputs) == 0 || len(sf.Outputs) == 0 {
		return nil, fmt.Errorf("parse system: %w: needs at least one input and one output",
			fuzzy.ErrInvalidConstruction)
	}
	return &sf, nil
}

// MarshalSystem encodes sf as YAML.
func MarshalSystem(sf *SystemFile) ([]byte, error) {
	data, err := yaml.Marshal(sf)
	if err != nil {
		return nil, fmt.Errorf("marshal system: %w", err)
	}
	return data, nil
}

// #endregion load

// #region build
// Build constructs and validates the engine described by sf.
func (sf *SystemFile) Build() (*fuzzy.Engine, error) {
	e := fuzzy.NewEngine(sf.Name, fuzzy.EngineConfig{Partitions: sf.Partitions})

	for _, vs := range sf.Inputs {
		v, err := vs.build()
		if err != nil {
			return nil, err
		}
		if err := e.AddInput(v); err != nil {
			return nil, err
		}
	}
	for _, vs := range sf.Outputs {
		v, err := vs.build()
		if err != nil {
			return nil, err
		}
		if err := e.AddOutput(v); err != nil {
			return nil, err
		}
	}

	for i, rs := range sf.Rules {
		if err := rs.addTo(e); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (vs VariableSpec) build() (*fuzzy.Variable, error) {
	if len(vs.Range) != 2 {
		return nil, fmt.Errorf("%w: variable %q range needs two bounds, got %d",
			fuzzy.ErrInvalidConstruction, vs.Name, len(vs.Range))
	}
	v, err := fuzzy.NewVariable(vs.Name, fuzzy.Range{Low: vs.Range[0], High: vs.Range[1]})
	if err != nil {
		return nil, err
	}
	for _, ts := range vs.Terms {
		kind, err := fuzzy.ParseKind(ts.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %q term %q: %w", vs.Name, ts.Name, err)
		}
		if len(ts.Params) == 0 {
			if _, err := v.NewDefaultTerm(ts.Name, kind); err != nil {
				return nil, err
			}
			continue
		}
		t, err := fuzzy.NewTerm(ts.Name, kind, ts.Params...)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vs.Name, err)
		}
		if err := v.AddTerm(t); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (rs RuleSpec) addTo(e *fuzzy.Engine) error {
	cfg := rs.ruleConfig()
	positional := len(rs.Conditions) > 0 || len(rs.Conclusions) > 0
	keyed := len(rs.If) > 0 || len(rs.Then) > 0
	switch {
	case positional && keyed:
		return fmt.Errorf("%w: rule mixes positional and keyed forms", fuzzy.ErrInvalidConstruction)
	case keyed:
		_, err := e.AddKeyedRule(fuzzy.KeyedRule{If: rs.If, Then: rs.Then, RuleConfig: cfg})
		return err
	case positional:
		r, err := fuzzy.NewRule(derefNames(rs.Conditions), derefNames(rs.Conclusions), cfg)
		if err != nil {
			return err
		}
		return e.AddRule(r)
	}
	return fmt.Errorf("%w: empty rule", fuzzy.ErrInvalidConstruction)
}

// ruleConfig applies the optional connective and weight. Unrecognized
// connectives fall back to AND.
func (rs RuleSpec) ruleConfig() fuzzy.RuleConfig {
	cfg := fuzzy.DefaultRuleConfig()
	cfg.Connective = fuzzy.ParseConnective(rs.Connective)
	if rs.Weight != nil {
		cfg.Weight = *rs.Weight
	}
	return cfg
}

// #endregion build

// #region export
// FromEngine converts e back to its YAML form. Rules are written positionally.
func FromEngine(e *fuzzy.Engine) *SystemFile {
	sf := &SystemFile{Name: e.Name}
	if p := e.Config().Partitions; p != fuzzy.DefaultPartitions {
		sf.Partitions = p
	}
	for _, v := range e.Inputs {
		sf.Inputs = append(sf.Inputs, variableSpec(v))
	}
	for _, v := range e.Outputs {
		sf.Outputs = append(sf.Outputs, variableSpec(v))
	}
	for _, r := range e.Rules {
		rs := RuleSpec{
			Conditions:  refNames(r.Conditions),
			Conclusions: refNames(r.Conclusions),
		}
		if r.Connective == fuzzy.Or {
			rs.Connective = r.Connective.String()
		}
		if r.Weight != fuzzy.DefaultWeight {
			w := r.Weight
			rs.Weight = &w
		}
		sf.Rules = append(sf.Rules, rs)
	}
	return sf
}

func variableSpec(v *fuzzy.Variable) VariableSpec {
	vs := VariableSpec{Name: v.Name, Range: []float64{v.Range.Low, v.Range.High}}
	for _, t := range v.Terms {
		vs.Terms = append(vs.Terms, TermSpec{
			Name:   t.Name,
			Type:   t.Kind.String(),
			Params: append([]float64(nil), t.Params...),
		})
	}
	return vs
}

// #endregion export

// #region helpers
func derefNames(names []*string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if n != nil {
			out[i] = *n
		}
	}
	return out
}

func refNames(names []string) []*string {
	out := make([]*string, len(names))
	for i, n := range names {
		if n != fuzzy.DontCare {
			s := n
			out[i] = &s
		}
	}
	return out
}

// #endregion helpers
