package explanation

import (
	"testing"

	"golime/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExplanation() *Explanation {
	return &Explanation{
		ID:         core.NewExplanationID(),
		Mode:       "classification",
		ClassNames: []string{"normal", "suspect"},
		DomainMapper: DomainMapper{
			FeatureValues:           []string{"0.1", "0.2"},
			DiscretizedFeatureNames: []string{"HR_t-0 <= 0.15", "0.15 < SPO2_t-0 <= 0.30"},
		},
		LocalExp: map[string][]FeatureWeight{
			"1": {{Feature: 1, Weight: 0.42}, {Feature: 0, Weight: -0.1}},
		},
		Intercept: map[string]float64{"1": 0.3},
		Score:     0.87,
	}
}

func TestClone_IsDeep(t *testing.T) {
	original := sampleExplanation()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.DomainMapper.FeatureValues[0] = "changed"
	clone.DomainMapper.DiscretizedFeatureNames[1] = "changed"
	clone.LocalExp["1"][0].Weight = 9
	clone.Intercept["1"] = 9
	clone.ClassNames[0] = "changed"

	assert.Equal(t, "0.1", original.DomainMapper.FeatureValues[0])
	assert.Equal(t, "0.15 < SPO2_t-0 <= 0.30", original.DomainMapper.DiscretizedFeatureNames[1])
	assert.Equal(t, 0.42, original.LocalExp["1"][0].Weight)
	assert.Equal(t, 0.3, original.Intercept["1"])
	assert.Equal(t, "normal", original.ClassNames[0])
}

func TestClone_Nil(t *testing.T) {
	var e *Explanation
	assert.Nil(t, e.Clone())
}

func TestAsList(t *testing.T) {
	exp := sampleExplanation()

	list, err := exp.AsList("1")
	require.NoError(t, err)
	assert.Equal(t, []NamedWeight{
		{Name: "0.15 < SPO2_t-0 <= 0.30", Weight: 0.42},
		{Name: "HR_t-0 <= 0.15", Weight: -0.1},
	}, list)

	_, err = exp.AsList("0")
	assert.ErrorIs(t, err, core.ErrNotFound)

	exp.LocalExp["1"] = append(exp.LocalExp["1"], FeatureWeight{Feature: 5})
	_, err = exp.AsList("1")
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}
