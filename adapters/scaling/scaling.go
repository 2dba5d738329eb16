// Package scaling implements the fitted feature scalers explanations are
// normalized with, and their JSON persistence.
package scaling

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golime/domain/core"
	"golime/ports"

	"gonum.org/v1/gonum/mat"
)

// nonZeroScale replaces a zero spread with 1 so constant features pass through unchanged
func nonZeroScale(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func checkWidth(s ports.Scaler, X mat.Matrix) error {
	_, c := X.Dims()
	if c != s.NFeatures() {
		return core.NewDimensionError(s.NFeatures(), c)
	}
	return nil
}

func apply(X mat.Matrix, fn func(col int, v float64) float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return fn(j, X.At(i, j))
	}, out)
	return out
}

type envelope struct {
	Kind string `json:"kind"`
}

// Save writes the scaler parameters as JSON tagged with their kind
func Save(w io.Writer, s ports.Scaler) error {
	var payload interface{}
	switch v := s.(type) {
	case *StandardScaler:
		payload = struct {
			Kind string `json:"kind"`
			*StandardScaler
		}{KindStandard, v}
	case *MinMaxScaler:
		payload = struct {
			Kind string `json:"kind"`
			*MinMaxScaler
		}{KindMinMax, v}
	default:
		return fmt.Errorf("%w: %s", core.ErrUnknownScaler, s.Kind())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// Load reads scaler parameters written by Save
func Load(r io.Reader) (ports.Scaler, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode scaler: %w", err)
	}

	switch env.Kind {
	case KindStandard:
		var s StandardScaler
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode standard scaler: %w", err)
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
		return &s, nil
	case KindMinMax:
		var m MinMaxScaler
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode minmax scaler: %w", err)
		}
		if len(m.DataMin) > 0 {
			fr := m.FeatureRange
			if fr == [2]float64{} {
				fr = DefaultFeatureRange
			}
			return NewMinMaxScaler(m.DataMin, m.DataMax, fr, m.Columns)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownScaler, env.Kind)
	}
}

// LoadFile reads a scaler from a JSON file
func LoadFile(path string) (ports.Scaler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scaler file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile writes a scaler to a JSON file
func SaveFile(path string, s ports.Scaler) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scaler file: %w", err)
	}
	if err := Save(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Fit learns a scaler of the given kind from training data
func Fit(kind string, X mat.Matrix, columns []string) (ports.Scaler, error) {
	switch kind {
	case KindStandard:
		return FitStandardScaler(X, columns)
	case KindMinMax:
		return FitMinMaxScaler(X, DefaultFeatureRange, columns)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownScaler, kind)
	}
}
