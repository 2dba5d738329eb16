package discretization

import (
	"testing"

	"golime/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TwoSided(t *testing.T) {
	rule, err := Parse("1.23 < FEATURE_t-0 <= 4.56")
	require.NoError(t, err)

	two, ok := rule.(TwoSided)
	require.True(t, ok, "expected TwoSided, got %T", rule)
	assert.Equal(t, FormTwoSided, rule.Form())
	assert.Equal(t, " < FEATURE_t-0 <= ", two.Middle)
	assert.Equal(t, "<", two.LowerOp)
	assert.Equal(t, "<=", two.UpperOp)
	assert.Equal(t, []string{"<", "<="}, rule.Operators())
	assert.Equal(t, "FEATURE_t-0", rule.Feature())

	lower, upper := rule.Bounds()
	assert.Equal(t, 1.23, lower)
	assert.Equal(t, 4.56, upper)
}

func TestParse_OneSided(t *testing.T) {
	rule, err := Parse("FEATURE_t-0 > 2.50")
	require.NoError(t, err)

	one, ok := rule.(OneSided)
	require.True(t, ok, "expected OneSided, got %T", rule)
	assert.Equal(t, "FEATURE_t-0 > ", one.Prefix)
	assert.Equal(t, ">", one.Operator)
	assert.Equal(t, []string{">"}, rule.Operators())
	assert.Equal(t, "FEATURE_t-0", rule.Feature())

	lower, upper := rule.Bounds()
	assert.Equal(t, 2.5, lower)
	assert.Equal(t, lower, upper, "single bound is duplicated into the pair")
}

func TestParse_NegativeBounds(t *testing.T) {
	tests := []struct {
		name  string
		form  Form
		lower float64
		upper float64
	}{
		{"ESS1_t-2 <= -0.75", FormOneSided, -0.75, -0.75},
		{"-1.50 < SEX_t-0 <= -0.25", FormTwoSided, -1.5, -0.25},
		{"-.50 < HR_t-11 <= +.50", FormTwoSided, -0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.form, rule.Form())
			lower, upper := rule.Bounds()
			assert.Equal(t, tt.lower, lower)
			assert.Equal(t, tt.upper, upper)
		})
	}
}

func TestParse_IntegersAreNotBounds(t *testing.T) {
	rule, err := Parse("HR_t-10 > 3.00")
	require.NoError(t, err)
	lower, _ := rule.Bounds()
	assert.Equal(t, 3.0, lower)
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"HR_t-0 > 3",
		"no numbers here",
		"0.1 < 0.2 < HR_t-0 <= 0.3",
		"",
		"1.5",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedRule)
		})
	}
}

func TestWithBounds_String(t *testing.T) {
	two := MustParse("1.23 < FEATURE_t-0 <= 4.56").WithBounds(10, 45.5)
	assert.Equal(t, "10.0 < FEATURE_t-0 <= 45.5", two.String())

	one := MustParse("FEATURE_t-0 > 2.50").WithBounds(25, 99)
	assert.Equal(t, "FEATURE_t-0 > 25.0", one.String(), "upper placeholder must not surface")

	neg := MustParse("ESS1_t-2 <= -0.75").WithBounds(-7.5, -7.5)
	assert.Equal(t, "ESS1_t-2 <= -7.5", neg.String())
}

func TestWithBounds_DoesNotMutateOriginal(t *testing.T) {
	original := MustParse("1.00 < HR_t-1 <= 2.00")
	_ = original.WithBounds(5, 6)
	lower, upper := original.Bounds()
	assert.Equal(t, 1.0, lower)
	assert.Equal(t, 2.0, upper)
}

func TestSplitBounds(t *testing.T) {
	rules := []Rule{
		MustParse("0.10 < A_t-0 <= 0.20"),
		MustParse("B_t-0 <= 0.30"),
		MustParse("C_t-0 > 0.40"),
	}

	lower, upper := SplitBounds(rules)
	assert.Equal(t, []float64{0.1, 0.3, 0.4}, lower)
	assert.Equal(t, []float64{0.2, 0.3, 0.4}, upper)
}
