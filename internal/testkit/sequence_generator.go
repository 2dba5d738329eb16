package testkit

import (
	"fmt"
	"math/rand"
	"strconv"

	"golime/adapters/scaling"
	"golime/domain/core"
	"golime/domain/explanation"
	"golime/ports"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// SequenceGeneratorConfig configures synthetic sequence explanations
type SequenceGeneratorConfig struct {
	Columns       []string  `json:"columns"`
	SequenceSteps int       `json:"sequence_steps"`
	TrainingRows  int       `json:"training_rows"`
	ScalerKind    string    `json:"scaler_kind"`
	Locations     []float64 `json:"locations"` // per-column centre of the original values
	Spreads       []float64 `json:"spreads"`   // per-column standard deviation
	Seed          int64     `json:"seed"`
}

// DefaultSequenceConfig returns a vital-signs-like configuration
func DefaultSequenceConfig() SequenceGeneratorConfig {
	return SequenceGeneratorConfig{
		Columns:       []string{"HR", "SPO2", "TEMP", "RESP"},
		SequenceSteps: 6,
		TrainingRows:  400,
		ScalerKind:    scaling.KindStandard,
		Locations:     []float64{80, 96, 36.9, 16},
		Spreads:       []float64{12, 2, 0.4, 3},
		Seed:          42,
	}
}

// SequenceFixture is a synthetic explanation together with the ground truth it was built from
type SequenceFixture struct {
	Columns       []string
	SequenceSteps int
	Scaler        ports.Scaler
	// Original holds the instance in original units, rows = timepoints, columns = features
	Original *mat.Dense
	// Quartiles holds the normalized quartile cut points per column
	Quartiles   [][]float64
	Explanation *explanation.Explanation
}

// Layout returns the fixture's sequence layout
func (f *SequenceFixture) Layout() explanation.Layout {
	return explanation.NewLayout(f.Columns, f.SequenceSteps)
}

// ExpectedValues returns the original instance rounded and formatted in flat layout
func (f *SequenceFixture) ExpectedValues() []string {
	flat := f.Layout().Scatter(f.Original)
	out := make([]string, len(flat))
	for i, v := range flat {
		out[i] = explanation.FormatValue(explanation.Round(v, explanation.DisplayDecimals))
	}
	return out
}

// SequenceGenerator builds normalized LIME-style explanations for sequence data
type SequenceGenerator struct {
	config SequenceGeneratorConfig
	rng    *rand.Rand
}

// NewSequenceGenerator creates a new generator
func NewSequenceGenerator(config SequenceGeneratorConfig) *SequenceGenerator {
	return &SequenceGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate fits a scaler on synthetic training data and explains one synthetic instance
func (g *SequenceGenerator) Generate() (*SequenceFixture, error) {
	cfg := g.config
	features := len(cfg.Columns)
	if features == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	if cfg.SequenceSteps < 2 {
		return nil, fmt.Errorf("sequence steps must be at least 2, got %d", cfg.SequenceSteps)
	}
	if len(cfg.Locations) != features || len(cfg.Spreads) != features {
		return nil, core.NewDimensionError(features, len(cfg.Locations))
	}

	training := g.sample(cfg.TrainingRows)
	scaler, err := scaling.Fit(cfg.ScalerKind, training, cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}

	normalizedTraining, err := scaler.Transform(training)
	if err != nil {
		return nil, err
	}
	quartiles := make([][]float64, features)
	for c := 0; c < features; c++ {
		quartiles[c], err = quartileCuts(mat.Col(nil, c, normalizedTraining))
		if err != nil {
			return nil, fmt.Errorf("column %s quartiles: %w", cfg.Columns[c], err)
		}
	}

	layout := explanation.NewLayout(cfg.Columns, cfg.SequenceSteps)
	original := g.sample(layout.Timepoints())
	normalized, err := scaler.Transform(original)
	if err != nil {
		return nil, err
	}

	flat := layout.Scatter(normalized)
	values := make([]string, len(flat))
	names := make([]string, len(flat))
	for c := 0; c < features; c++ {
		for t := 0; t < layout.Timepoints(); t++ {
			i := layout.Index(c, t)
			values[i] = strconv.FormatFloat(flat[i], 'g', -1, 64)
			names[i] = DiscretizedName(layout.FeatureName(c, t), quartiles[c], flat[i])
		}
	}

	exp := &explanation.Explanation{
		ID:         core.NewExplanationID(),
		Mode:       "classification",
		ClassNames: []string{"normal", "abnormal"},
		DomainMapper: explanation.DomainMapper{
			FeatureValues:           values,
			DiscretizedFeatureNames: names,
		},
		LocalExp:  map[string][]explanation.FeatureWeight{"1": g.weights(len(flat))},
		Intercept: map[string]float64{"1": g.rng.Float64()},
		Score:     g.rng.Float64(),
	}

	return &SequenceFixture{
		Columns:       cfg.Columns,
		SequenceSteps: cfg.SequenceSteps,
		Scaler:        scaler,
		Original:      original,
		Quartiles:     quartiles,
		Explanation:   exp,
	}, nil
}

// sample draws rows of original values on a 0.1 grid so rounding them back is exact
func (g *SequenceGenerator) sample(rows int) *mat.Dense {
	cfg := g.config
	out := mat.NewDense(rows, len(cfg.Columns), nil)
	for i := 0; i < rows; i++ {
		for c := range cfg.Columns {
			v := cfg.Locations[c] + cfg.Spreads[c]*g.rng.NormFloat64()
			out.Set(i, c, explanation.Round(v, 1))
		}
	}
	return out
}

// weights ranks up to ten features with random signed weights
func (g *SequenceGenerator) weights(n int) []explanation.FeatureWeight {
	k := n
	if k > 10 {
		k = 10
	}
	out := make([]explanation.FeatureWeight, 0, k)
	for _, idx := range g.rng.Perm(n)[:k] {
		out = append(out, explanation.FeatureWeight{Feature: idx, Weight: g.rng.Float64()*2 - 1})
	}
	return out
}

func quartileCuts(col []float64) ([]float64, error) {
	cuts := make([]float64, 0, 3)
	for _, p := range []float64{25, 50, 75} {
		q, err := stats.Percentile(col, p)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, q)
	}
	return cuts, nil
}

// DiscretizedName renders the quartile bin of v the way LIME's quartile discretizer names it
func DiscretizedName(feature string, cuts []float64, v float64) string {
	last := len(cuts) - 1
	switch {
	case v <= cuts[0]:
		return fmt.Sprintf("%s <= %.2f", feature, cuts[0])
	case v > cuts[last]:
		return fmt.Sprintf("%s > %.2f", feature, cuts[last])
	}
	for i := 0; i < last; i++ {
		if v <= cuts[i+1] {
			return fmt.Sprintf("%.2f < %s <= %.2f", cuts[i], feature, cuts[i+1])
		}
	}
	return fmt.Sprintf("%s > %.2f", feature, cuts[last])
}
