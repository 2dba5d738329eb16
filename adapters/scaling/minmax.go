package scaling

import (
	"fmt"

	"golime/domain/core"
	"golime/ports"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// KindMinMax is the persisted kind of MinMaxScaler
const KindMinMax = "minmax"

// MinMaxScaler maps each feature linearly onto FeatureRange:
// x' = x*Scale + Min, with Scale = (hi-lo)/(max-min) and Min = lo - min*Scale.
type MinMaxScaler struct {
	Columns      []string   `json:"feature_names,omitempty"`
	FeatureRange [2]float64 `json:"feature_range"`
	DataMin      []float64  `json:"data_min"`
	DataMax      []float64  `json:"data_max"`
	Min          []float64  `json:"min"`
	Scale        []float64  `json:"scale"`
}

var _ ports.Scaler = (*MinMaxScaler)(nil)

// DefaultFeatureRange is the [0, 1] target range
var DefaultFeatureRange = [2]float64{0, 1}

// NewMinMaxScaler creates a scaler from the observed data range of each feature
func NewMinMaxScaler(dataMin, dataMax []float64, featureRange [2]float64, columns []string) (*MinMaxScaler, error) {
	if len(dataMin) == 0 {
		return nil, fmt.Errorf("%w: minmax scaler has no data range", core.ErrNotFitted)
	}
	if len(dataMax) != len(dataMin) {
		return nil, core.NewDimensionError(len(dataMin), len(dataMax))
	}
	if columns != nil && len(columns) != len(dataMin) {
		return nil, core.NewDimensionError(len(dataMin), len(columns))
	}
	if featureRange[0] >= featureRange[1] {
		return nil, fmt.Errorf("minimum of feature range must be smaller than maximum, got %v", featureRange)
	}

	m := &MinMaxScaler{
		Columns:      columns,
		FeatureRange: featureRange,
		DataMin:      dataMin,
		DataMax:      dataMax,
		Min:          make([]float64, len(dataMin)),
		Scale:        make([]float64, len(dataMin)),
	}
	for j := range dataMin {
		m.Scale[j] = (featureRange[1] - featureRange[0]) / nonZeroScale(dataMax[j]-dataMin[j])
		m.Min[j] = featureRange[0] - dataMin[j]*m.Scale[j]
	}
	return m, nil
}

// FitMinMaxScaler learns per-column minimum and maximum from X
func FitMinMaxScaler(X mat.Matrix, featureRange [2]float64, columns []string) (*MinMaxScaler, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: cannot fit on empty data", core.ErrNotFitted)
	}

	dataMin := make([]float64, c)
	dataMax := make([]float64, c)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		lo, err := stats.Min(col)
		if err != nil {
			return nil, fmt.Errorf("column %d min: %w", j, err)
		}
		hi, err := stats.Max(col)
		if err != nil {
			return nil, fmt.Errorf("column %d max: %w", j, err)
		}
		dataMin[j], dataMax[j] = lo, hi
	}
	return NewMinMaxScaler(dataMin, dataMax, featureRange, columns)
}

func (m *MinMaxScaler) Kind() string           { return KindMinMax }
func (m *MinMaxScaler) NFeatures() int         { return len(m.Scale) }
func (m *MinMaxScaler) FeatureNames() []string { return m.Columns }

func (m *MinMaxScaler) Fingerprint() core.ScalerFingerprint {
	return core.ComputeScalerFingerprint(KindMinMax, m.FeatureRange[:], m.DataMin, m.DataMax)
}

// Transform computes x * scale + min per column
func (m *MinMaxScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := checkWidth(m, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return v*m.Scale[j] + m.Min[j]
	}), nil
}

// InverseTransform computes (x - min) / scale per column
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := checkWidth(m, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return (v - m.Min[j]) / m.Scale[j]
	}), nil
}

func (m *MinMaxScaler) validate() error {
	if len(m.Scale) == 0 {
		return fmt.Errorf("%w: minmax scaler has no scale", core.ErrNotFitted)
	}
	if len(m.Min) != len(m.Scale) {
		return core.NewDimensionError(len(m.Scale), len(m.Min))
	}
	if m.Columns != nil && len(m.Columns) != len(m.Scale) {
		return core.NewDimensionError(len(m.Scale), len(m.Columns))
	}
	for j, v := range m.Scale {
		if v == 0 {
			return fmt.Errorf("minmax scaler scale[%d] is zero", j)
		}
	}
	return nil
}
