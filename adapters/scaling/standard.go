package scaling

import (
	"fmt"

	"golime/domain/core"
	"golime/ports"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// KindStandard is the persisted kind of StandardScaler
const KindStandard = "standard"

// StandardScaler standardizes features to zero mean and unit variance.
// It uses the population standard deviation and treats a constant feature as scale 1.
type StandardScaler struct {
	Columns []string  `json:"feature_names,omitempty"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

var _ ports.Scaler = (*StandardScaler)(nil)

// NewStandardScaler creates a scaler from known parameters
func NewStandardScaler(mean, scale []float64, columns []string) (*StandardScaler, error) {
	s := &StandardScaler{Columns: columns, Mean: mean, Scale: scale}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FitStandardScaler learns per-column mean and standard deviation from X
func FitStandardScaler(X mat.Matrix, columns []string) (*StandardScaler, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: cannot fit on empty data", core.ErrNotFitted)
	}
	if columns != nil && len(columns) != c {
		return nil, core.NewDimensionError(len(columns), c)
	}

	s := &StandardScaler{
		Columns: columns,
		Mean:    make([]float64, c),
		Scale:   make([]float64, c),
	}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, fmt.Errorf("column %d mean: %w", j, err)
		}
		std, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, fmt.Errorf("column %d standard deviation: %w", j, err)
		}
		s.Mean[j] = mean
		s.Scale[j] = nonZeroScale(std)
	}
	return s, nil
}

func (s *StandardScaler) Kind() string           { return KindStandard }
func (s *StandardScaler) NFeatures() int         { return len(s.Mean) }
func (s *StandardScaler) FeatureNames() []string { return s.Columns }

func (s *StandardScaler) Fingerprint() core.ScalerFingerprint {
	return core.ComputeScalerFingerprint(KindStandard, s.Mean, s.Scale)
}

// Transform computes (x - mean) / scale per column
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := checkWidth(s, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}), nil
}

// InverseTransform computes x * scale + mean per column
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := checkWidth(s, X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}), nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("%w: standard scaler has no mean", core.ErrNotFitted)
	}
	if len(s.Scale) != len(s.Mean) {
		return core.NewDimensionError(len(s.Mean), len(s.Scale))
	}
	if s.Columns != nil && len(s.Columns) != len(s.Mean) {
		return core.NewDimensionError(len(s.Mean), len(s.Columns))
	}
	for j, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("standard scaler scale[%d] is zero", j)
		}
	}
	return nil
}
