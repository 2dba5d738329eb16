package testkit

import (
	"testing"

	"golime/adapters/scaling"
	"golime/domain/discretization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator_Shape(t *testing.T) {
	config := DefaultSequenceConfig()
	fixture, err := NewSequenceGenerator(config).Generate()
	require.NoError(t, err)

	layout := fixture.Layout()
	assert.Equal(t, 5, layout.Timepoints())
	assert.Len(t, fixture.Explanation.DomainMapper.FeatureValues, layout.Len())
	assert.Len(t, fixture.Explanation.DomainMapper.DiscretizedFeatureNames, layout.Len())
	assert.Len(t, fixture.ExpectedValues(), layout.Len())

	rows, cols := fixture.Original.Dims()
	assert.Equal(t, layout.Timepoints(), rows)
	assert.Equal(t, len(config.Columns), cols)
}

func TestSequenceGenerator_Deterministic(t *testing.T) {
	a, err := NewSequenceGenerator(DefaultSequenceConfig()).Generate()
	require.NoError(t, err)
	b, err := NewSequenceGenerator(DefaultSequenceConfig()).Generate()
	require.NoError(t, err)

	assert.Equal(t, a.Explanation.DomainMapper, b.Explanation.DomainMapper)
	assert.Equal(t, a.Scaler.Fingerprint(), b.Scaler.Fingerprint())
}

func TestSequenceGenerator_NamesParse(t *testing.T) {
	config := DefaultSequenceConfig()
	config.ScalerKind = scaling.KindMinMax
	fixture, err := NewSequenceGenerator(config).Generate()
	require.NoError(t, err)

	layout := fixture.Layout()
	for c := range fixture.Columns {
		for tp := 0; tp < layout.Timepoints(); tp++ {
			name := fixture.Explanation.DomainMapper.DiscretizedFeatureNames[layout.Index(c, tp)]
			rule, err := discretization.Parse(name)
			require.NoError(t, err, name)
			assert.Equal(t, layout.FeatureName(c, tp), rule.Feature())
		}
	}
}

func TestSequenceGenerator_InvalidConfig(t *testing.T) {
	config := DefaultSequenceConfig()
	config.SequenceSteps = 1
	_, err := NewSequenceGenerator(config).Generate()
	assert.Error(t, err)

	config = DefaultSequenceConfig()
	config.Spreads = config.Spreads[:1]
	_, err = NewSequenceGenerator(config).Generate()
	assert.Error(t, err)
}

func TestDiscretizedName(t *testing.T) {
	cuts := []float64{-0.5, 0, 0.75}
	assert.Equal(t, "HR_t-0 <= -0.50", DiscretizedName("HR_t-0", cuts, -1))
	assert.Equal(t, "-0.50 < HR_t-0 <= 0.00", DiscretizedName("HR_t-0", cuts, -0.2))
	assert.Equal(t, "0.00 < HR_t-0 <= 0.75", DiscretizedName("HR_t-0", cuts, 0.75))
	assert.Equal(t, "HR_t-0 > 0.75", DiscretizedName("HR_t-0", cuts, 2))
}
