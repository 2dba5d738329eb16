package scaling

import (
	"bytes"
	"strings"
	"testing"

	"golime/domain/core"
	"golime/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func trainingData() *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		120, 97, 36.6,
		140, 95, 36.8,
		160, 93, 37.0,
		180, 91, 37.2,
	})
}

func TestFitStandardScaler(t *testing.T) {
	s, err := FitStandardScaler(trainingData(), []string{"HR", "SPO2", "TEMP"})
	require.NoError(t, err)

	assert.Equal(t, 3, s.NFeatures())
	assert.InDelta(t, 150, s.Mean[0], 1e-9)
	assert.InDelta(t, 94, s.Mean[1], 1e-9)
	assert.InDelta(t, 36.9, s.Mean[2], 1e-9)
	// population standard deviation of 120,140,160,180
	assert.InDelta(t, 22.360679775, s.Scale[0], 1e-9)
	assert.Equal(t, []string{"HR", "SPO2", "TEMP"}, s.FeatureNames())
}

func TestFitStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})
	s, err := FitStandardScaler(X, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Scale[0])

	out, err := s.Transform(X)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.At(0, 0))
}

func TestFitStandardScaler_ColumnCountMismatch(t *testing.T) {
	_, err := FitStandardScaler(trainingData(), []string{"HR"})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestScalers_RoundTrip(t *testing.T) {
	X := trainingData()
	standard, err := FitStandardScaler(X, nil)
	require.NoError(t, err)
	minmax, err := FitMinMaxScaler(X, DefaultFeatureRange, nil)
	require.NoError(t, err)

	for _, s := range []interface {
		Transform(mat.Matrix) (*mat.Dense, error)
		InverseTransform(mat.Matrix) (*mat.Dense, error)
	}{standard, minmax} {
		normalized, err := s.Transform(X)
		require.NoError(t, err)
		restored, err := s.InverseTransform(normalized)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(X, restored, 1e-9), "round trip drifted: %v", mat.Formatted(restored))
	}
}

func TestMinMaxScaler_Transform(t *testing.T) {
	m, err := FitMinMaxScaler(trainingData(), DefaultFeatureRange, nil)
	require.NoError(t, err)

	out, err := m.Transform(trainingData())
	require.NoError(t, err)

	assert.InDelta(t, 0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 1, out.At(3, 0), 1e-12)
	assert.InDelta(t, 1, out.At(0, 1), 1e-12, "SPO2 decreases so its max is the first row")
	assert.InDelta(t, 1.0/3, out.At(1, 2), 1e-9)
}

func TestMinMaxScaler_CustomRange(t *testing.T) {
	m, err := NewMinMaxScaler([]float64{0}, []float64{10}, [2]float64{-1, 1}, nil)
	require.NoError(t, err)

	out, err := m.Transform(mat.NewDense(1, 1, []float64{5}))
	require.NoError(t, err)
	assert.InDelta(t, 0, out.At(0, 0), 1e-12)

	_, err = NewMinMaxScaler([]float64{0}, []float64{10}, [2]float64{1, 1}, nil)
	assert.Error(t, err)
}

func TestInverseTransform_WidthMismatch(t *testing.T) {
	s, err := NewStandardScaler([]float64{0, 0}, []float64{1, 1}, nil)
	require.NoError(t, err)

	_, err = s.InverseTransform(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestSaveLoad(t *testing.T) {
	standard, err := FitStandardScaler(trainingData(), []string{"HR", "SPO2", "TEMP"})
	require.NoError(t, err)
	minmax, err := FitMinMaxScaler(trainingData(), [2]float64{-1, 1}, nil)
	require.NoError(t, err)

	for _, original := range []ports.Scaler{standard, minmax} {
		var buf bytes.Buffer
		require.NoError(t, Save(&buf, original))
		assert.Contains(t, buf.String(), `"kind": "`+original.Kind()+`"`)

		loaded, err := Load(&buf)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	}
}

func TestLoad_MinMaxFromRangeOnly(t *testing.T) {
	loaded, err := Load(strings.NewReader(`{"kind":"minmax","data_min":[0,10],"data_max":[100,20]}`))
	require.NoError(t, err)

	m := loaded.(*MinMaxScaler)
	assert.Equal(t, DefaultFeatureRange, m.FeatureRange)
	assert.InDelta(t, 0.01, m.Scale[0], 1e-12)
	assert.InDelta(t, -1, m.Min[1], 1e-12)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader(`{"kind":"robust"}`))
	assert.ErrorIs(t, err, core.ErrUnknownScaler)

	_, err = Load(strings.NewReader(`{"kind":"standard","mean":[1,2],"scale":[1]}`))
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = Load(strings.NewReader(`{"kind":"standard"}`))
	assert.ErrorIs(t, err, core.ErrNotFitted)

	_, err = Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestFit_Kinds(t *testing.T) {
	s, err := Fit(KindMinMax, trainingData(), nil)
	require.NoError(t, err)
	assert.Equal(t, KindMinMax, s.Kind())

	_, err = Fit("quantile", trainingData(), nil)
	assert.ErrorIs(t, err, core.ErrUnknownScaler)
}

func TestFingerprint_ChangesWithParameters(t *testing.T) {
	a, _ := NewStandardScaler([]float64{0, 1}, []float64{1, 2}, nil)
	b, _ := NewStandardScaler([]float64{0, 1}, []float64{1, 2}, []string{"x", "y"})
	c, _ := NewStandardScaler([]float64{0, 1}, []float64{1, 3}, nil)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "column names do not change the math")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
