package fuzzy

import (
	"errors"
	"fmt"
)

// #region engine-config
// EngineConfig holds numeric settings for inference.
type EngineConfig struct {
	Partitions int // integration steps per output range (default 100)
}

// DefaultEngineConfig returns the reference settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Partitions: DefaultPartitions}
}

// #endregion engine-config

// #region engine
// Engine is a Mamdani fuzzy inference system: ordered inputs, outputs and rules.
//
// Infer does not modify the engine, so concurrent Infer calls are safe as
// long as nothing adds variables or rules at the same time.
type Engine struct {
	Name    string
	Inputs  []*Variable
	Outputs []*Variable
	Rules   []*Rule

	config EngineConfig
}

// Result carries the intermediate values of one inference call.
type Result struct {
	Outputs   []float64 // crisp value per output, in output order
	Strengths []float64 // firing strength per rule, weight applied
	Mass      []float64 // integrated aggregate mass per output
}

// NewEngine creates an empty system.
func NewEngine(name string, config EngineConfig) *Engine {
	if name == "" {
		name = "Unnamed system"
	}
	if config.Partitions <= 0 {
		config.Partitions = DefaultPartitions
	}
	return &Engine{Name: name, config: config}
}

// Config returns the engine settings.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// #endregion engine

// #region construction
// AddInput appends an input variable. Rule conditions refer to inputs by position.
func (e *Engine) AddInput(v *Variable) error {
	if err := checkNewVariable(v, e.Inputs); err != nil {
		return fmt.Errorf("add input: %w", err)
	}
	e.Inputs = append(e.Inputs, v)
	return nil
}

// AddOutput appends an output variable. Rule conclusions refer to outputs by position.
func (e *Engine) AddOutput(v *Variable) error {
	if err := checkNewVariable(v, e.Outputs); err != nil {
		return fmt.Errorf("add output: %w", err)
	}
	e.Outputs = append(e.Outputs, v)
	return nil
}

// AddRule appends a positional rule. Correspondence with the variables is
// checked by Validate and at inference time, not here.
func (e *Engine) AddRule(r *Rule) error {
	if r == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidConstruction)
	}
	e.Rules = append(e.Rules, r)
	return nil
}

// AddKeyedRule resolves variable names to positions and appends the resulting rule.
func (e *Engine) AddKeyedRule(kr KeyedRule) (*Rule, error) {
	conditions, err := resolveKeyed(kr.If, e.Inputs, "input")
	if err != nil {
		return nil, err
	}
	conclusions, err := resolveKeyed(kr.Then, e.Outputs, "output")
	if err != nil {
		return nil, err
	}
	r, err := NewRule(conditions, conclusions, kr.RuleConfig)
	if err != nil {
		return nil, err
	}
	e.Rules = append(e.Rules, r)
	return r, nil
}

// Validate checks that every rule has one entry per variable and that every
// named term exists on its variable. All problems are joined into one error.
func (e *Engine) Validate() error {
	var errs []error
	for i, r := range e.Rules {
		if err := checkNames(r.Conditions, e.Inputs, "condition"); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
		if err := checkNames(r.Conclusions, e.Outputs, "conclusion"); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// #endregion construction

// #region infer
// Infer maps crisp input values (one per input, in order) to crisp outputs.
func (e *Engine) Infer(values []float64) ([]float64, error) {
	res, err := e.InferDetailed(values)
	if err != nil {
		return nil, err
	}
	return res.Outputs, nil
}

// InferDetailed runs fuzzification, implication, aggregation and
// defuzzification and returns the intermediate values with the outputs.
func (e *Engine) InferDetailed(values []float64) (Result, error) {
	if len(values) < len(e.Inputs) {
		return Result{}, fmt.Errorf("%w: %d values for %d inputs", ErrIndexOutOfRange, len(values), len(e.Inputs))
	}

	strengths := make([]float64, len(e.Rules))
	for i, r := range e.Rules {
		s, err := e.firingStrength(r, values)
		if err != nil {
			return Result{}, fmt.Errorf("rule %d: %w", i, err)
		}
		strengths[i] = s
	}

	unions, err := e.aggregate(strengths)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Outputs:   make([]float64, len(e.Outputs)),
		Strengths: strengths,
		Mass:      make([]float64, len(e.Outputs)),
	}
	for j, out := range e.Outputs {
		x, mass, err := centerOfMass(&unions[j], out.Range, e.config.Partitions)
		if err != nil {
			return Result{}, fmt.Errorf("output %q: %w", out.Name, err)
		}
		res.Outputs[j] = x
		res.Mass[j] = mass
	}
	return res, nil
}

// firingStrength reduces the rule's condition degrees with its connective and
// applies the weight. A rule with no participating input fires at 0.
func (e *Engine) firingStrength(r *Rule, values []float64) (float64, error) {
	if len(r.Conditions) != len(e.Inputs) {
		return 0, fmt.Errorf("%w: %d conditions for %d inputs", ErrIndexOutOfRange, len(r.Conditions), len(e.Inputs))
	}
	degrees := make([]Degree, len(r.Conditions))
	for j, name := range r.Conditions {
		if name == DontCare {
			continue
		}
		t, ok := e.Inputs[j].FindTerm(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q on input %q", ErrTermNotFound, name, e.Inputs[j].Name)
		}
		degrees[j] = Known(t.ValueAt(values[j]))
	}
	d := reduce(r.Connective, degrees)
	if !d.Valid {
		return 0, nil
	}
	return d.Value * r.Weight, nil
}

// aggregate builds one union per output from the clipped conclusion terms of every rule.
func (e *Engine) aggregate(strengths []float64) ([]TermUnion, error) {
	unions := make([]TermUnion, len(e.Outputs))
	for i, r := range e.Rules {
		if len(r.Conclusions) != len(e.Outputs) {
			return nil, fmt.Errorf("rule %d: %w: %d conclusions for %d outputs",
				i, ErrIndexOutOfRange, len(r.Conclusions), len(e.Outputs))
		}
		for j, name := range r.Conclusions {
			if name == DontCare {
				continue
			}
			t, ok := e.Outputs[j].FindTerm(name)
			if !ok {
				return nil, fmt.Errorf("rule %d: %w: %q on output %q", i, ErrTermNotFound, name, e.Outputs[j].Name)
			}
			unions[j].Add(WeightedTerm{Term: t, Cap: strengths[i]})
		}
	}
	return unions, nil
}

// #endregion infer

// #region helpers
func checkNewVariable(v *Variable, existing []*Variable) error {
	if v == nil {
		return fmt.Errorf("%w: nil variable", ErrInvalidConstruction)
	}
	if _, ok := findVariable(existing, v.Name); ok {
		return fmt.Errorf("%w: duplicate variable %q", ErrInvalidConstruction, v.Name)
	}
	return nil
}

func findVariable(vars []*Variable, name string) (*Variable, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

func resolveKeyed(terms map[string]string, vars []*Variable, role string) ([]string, error) {
	names := make([]string, len(vars))
	for varName, term := range terms {
		idx := -1
		for i, v := range vars {
			if v.Name == varName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown %s variable %q", ErrInvalidConstruction, role, varName)
		}
		if term == DontCare || term == nullName {
			continue
		}
		if _, ok := vars[idx].FindTerm(term); !ok {
			return nil, fmt.Errorf("%w: %q on %s %q", ErrTermNotFound, term, role, varName)
		}
		names[idx] = term
	}
	return names, nil
}

func checkNames(names []string, vars []*Variable, role string) error {
	if len(names) != len(vars) {
		return fmt.Errorf("%w: %d %ss for %d variables", ErrIndexOutOfRange, len(names), role, len(vars))
	}
	for j, name := range names {
		if name == DontCare {
			continue
		}
		if _, ok := vars[j].FindTerm(name); !ok {
			return fmt.Errorf("%w: %s %q on %q", ErrTermNotFound, role, name, vars[j].Name)
		}
	}
	return nil
}

// #endregion helpers
