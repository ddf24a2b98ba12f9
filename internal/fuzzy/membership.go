package fuzzy

import (
	"fmt"
	"math"
	"strings"
)

// #region kind
// Kind enumerates the supported membership function shapes.
type Kind int

const (
	Triangle Kind = iota + 1
	Trapeze
	Gauss
	Sigma
	Singleton
)

var kindNames = map[Kind]string{
	Triangle:  "triangle",
	Trapeze:   "trapeze",
	Gauss:     "gauss",
	Sigma:     "sigma",
	Singleton: "singleton",
}

var kindAliases = map[string]Kind{
	"triangle":  Triangle,
	"trapeze":   Trapeze,
	"trapezoid": Trapeze,
	"gauss":     Gauss,
	"gaussian":  Gauss,
	"sigma":     Sigma,
	"sigmoid":   Sigma,
	"singleton": Singleton,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a membership function name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: unrecognized membership function %q", ErrInvalidConstruction, s)
}

// Arity returns the number of parameters the shape takes, or 0 for an unknown kind.
func (k Kind) Arity() int {
	switch k {
	case Triangle:
		return 3
	case Trapeze:
		return 4
	case Gauss, Sigma:
		return 2
	case Singleton:
		return 1
	}
	return 0
}

// Valid reports whether k is one of the five supported shapes.
func (k Kind) Valid() bool {
	return k.Arity() > 0
}

// Eval computes the membership degree of x. params must match Arity;
// an unknown kind evaluates to 0.
func (k Kind) Eval(x float64, params []float64) float64 {
	switch k {
	case Triangle:
		return triangle(x, params[0], params[1], params[2])
	case Trapeze:
		return trapeze(x, params[0], params[1], params[2], params[3])
	case Gauss:
		return gauss(x, params[0], params[1])
	case Sigma:
		return sigma(x, params[0], params[1])
	case Singleton:
		return singleton(x, params[0])
	}
	return 0
}

// #endregion kind

// #region shapes
// triangle is 0 outside [left, right] and peaks at 1 on peak.
// left == peak or peak == right divides by zero on the degenerate ramp.
func triangle(x, left, peak, right float64) float64 {
	if x < left || x > right {
		return 0
	}
	if x == peak {
		return 1
	}
	if x < peak {
		return (x - left) / (peak - left)
	}
	return (right - x) / (right - peak)
}

// trapeze is 1 on the plateau [maxLeft, maxRight] with linear ramps on both sides.
func trapeze(x, left, maxLeft, maxRight, right float64) float64 {
	if x < left || x > right {
		return 0
	}
	if maxLeft <= x && x <= maxRight {
		return 1
	}
	if x < maxLeft {
		return (x - left) / (maxLeft - left)
	}
	return (right - x) / (right - maxRight)
}

func gauss(x, concentration, peak float64) float64 {
	if x == peak {
		return 1
	}
	d := x - peak
	return math.Exp(-(d * d) / (2 * concentration * concentration))
}

func sigma(x, steepness, transition float64) float64 {
	if x == transition {
		return 0.5
	}
	return 1 / (1 + math.Exp(-steepness*(x-transition)))
}

// singleton uses exact equality, no tolerance.
func singleton(x, value float64) float64 {
	if x == value {
		return 1
	}
	return 0
}

// #endregion shapes

// #region defaults
// DefaultParams derives parameters for kind from fixed fractions of the range width.
func DefaultParams(kind Kind, rng Range) ([]float64, error) {
	w := rng.Width()
	switch kind {
	case Triangle:
		return []float64{round4(0.1 * w), round4(0.5 * w), round4(0.9 * w)}, nil
	case Trapeze:
		return []float64{round4(0.1 * w), round4(0.4 * w), round4(0.6 * w), round4(0.9 * w)}, nil
	case Gauss:
		return []float64{round4(0.17 * w), round4(0.5 * w)}, nil
	case Sigma:
		return []float64{round4(18 / w), round4(0.5 * w)}, nil
	case Singleton:
		return []float64{round4(0.5 * w)}, nil
	}
	return nil, fmt.Errorf("%w: no default parameters for %s", ErrInvalidConstruction, kind)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// #endregion defaults
