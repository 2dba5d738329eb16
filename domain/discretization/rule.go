// Package discretization parses and re-serializes the discretized feature names a
// LIME explainer attaches to each sequence cell, such as "0.12 < HR_t-3 <= 0.48" or
// "SPO2_t-0 > 1.05".
package discretization

import (
	"regexp"
	"strconv"
	"strings"

	"golime/domain/core"
	"golime/domain/explanation"
)

// Form tells which textual shape a rule was written in
type Form string

const (
	FormOneSided Form = "one_sided"
	FormTwoSided Form = "two_sided"
)

var (
	// Boundaries always carry a decimal point; integers such as the "0" in "_t-0" never match.
	numberPattern = regexp.MustCompile(`[+-]?\d*\.\d+`)
	// " < HR_t-3 <= " : operator, feature identifier, operator between the two bounds
	twoSidedPattern = regexp.MustCompile(`\s\D+\s.*\s\D+\s`)
	// "HR_t-3 > " : feature identifier and operator ahead of a single bound
	oneSidedPattern = regexp.MustCompile(`[a-zA-Z].*\s\D+\s`)
)

// Rule is a parsed discretization rule. Bounds always yields a pair; a one-sided
// rule reports its single bound on both sides.
type Rule interface {
	Form() Form
	Feature() string
	Operators() []string
	Bounds() (lower, upper float64)
	WithBounds(lower, upper float64) Rule
	String() string
}

// OneSided is a rule like "HR_t-3 > 1.05"
type OneSided struct {
	Prefix   string // verbatim text ahead of the bound, e.g. "HR_t-3 > "
	Operator string
	Bound    float64
	feature  string
}

func (r OneSided) Form() Form                 { return FormOneSided }
func (r OneSided) Feature() string            { return r.feature }
func (r OneSided) Operators() []string        { return []string{r.Operator} }
func (r OneSided) Bounds() (float64, float64) { return r.Bound, r.Bound }

// WithBounds keeps the lower value; the upper side only exists as a placeholder.
func (r OneSided) WithBounds(lower, _ float64) Rule {
	r.Bound = lower
	return r
}

func (r OneSided) String() string {
	return r.Prefix + explanation.FormatValue(r.Bound)
}

// TwoSided is a rule like "0.12 < HR_t-3 <= 0.48"
type TwoSided struct {
	Lower   float64
	Middle  string // verbatim text between the bounds, e.g. " < HR_t-3 <= "
	LowerOp string
	UpperOp string
	Upper   float64
	feature string
}

func (r TwoSided) Form() Form                 { return FormTwoSided }
func (r TwoSided) Feature() string            { return r.feature }
func (r TwoSided) Operators() []string        { return []string{r.LowerOp, r.UpperOp} }
func (r TwoSided) Bounds() (float64, float64) { return r.Lower, r.Upper }

func (r TwoSided) WithBounds(lower, upper float64) Rule {
	r.Lower = lower
	r.Upper = upper
	return r
}

func (r TwoSided) String() string {
	return explanation.FormatValue(r.Lower) + r.Middle + explanation.FormatValue(r.Upper)
}

// Parse reads a discretized feature name. The two-sided shape is tried first and the
// one-sided shape only when it does not match.
func Parse(name string) (Rule, error) {
	bounds, err := extractBounds(name)
	if err != nil {
		return nil, err
	}
	lower, upper := bounds[0], bounds[0]
	if len(bounds) == 2 {
		upper = bounds[1]
	}

	if middle := twoSidedPattern.FindString(name); middle != "" {
		fields := strings.Fields(middle)
		rule := TwoSided{Lower: lower, Middle: middle, Upper: upper}
		if len(fields) >= 3 {
			rule.LowerOp = fields[0]
			rule.UpperOp = fields[len(fields)-1]
			rule.feature = strings.Join(fields[1:len(fields)-1], " ")
		}
		return rule, nil
	}

	prefix := oneSidedPattern.FindString(name)
	if prefix == "" {
		return nil, core.NewMalformedRuleError(name, "matches neither one-sided nor two-sided form")
	}
	rule := OneSided{Prefix: prefix, Bound: lower}
	if fields := strings.Fields(prefix); len(fields) >= 2 {
		rule.Operator = fields[len(fields)-1]
		rule.feature = strings.Join(fields[:len(fields)-1], " ")
	}
	return rule, nil
}

// MustParse is Parse for fixtures known to be well formed
func MustParse(name string) Rule {
	r, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return r
}

func extractBounds(name string) ([]float64, error) {
	matches := numberPattern.FindAllString(name, -1)
	switch {
	case len(matches) == 0:
		return nil, core.NewMalformedRuleError(name, "no boundary value")
	case len(matches) > 2:
		return nil, core.NewMalformedRuleError(name, "more than two boundary values")
	}
	bounds := make([]float64, len(matches))
	for i, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil, core.NewMalformedRuleError(name, err.Error())
		}
		bounds[i] = v
	}
	return bounds, nil
}

// SplitBounds separates a row of rules into a lower row and an upper row, one entry per rule
func SplitBounds(rules []Rule) (lower, upper []float64) {
	lower = make([]float64, len(rules))
	upper = make([]float64, len(rules))
	for i, r := range rules {
		lower[i], upper[i] = r.Bounds()
	}
	return lower, upper
}
