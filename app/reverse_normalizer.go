package app

import (
	"fmt"

	"golime/domain/discretization"
	"golime/domain/explanation"
	"golime/internal"
	"golime/internal/errors"
	"golime/ports"

	"gonum.org/v1/gonum/mat"
)

// ReverseNormalizer maps an explanation computed on normalized sequence data back
// into original units: the feature values first, then the boundaries embedded in the
// discretized feature names. Every method returns a new explanation and leaves its
// input untouched, also when it fails.
type ReverseNormalizer struct {
	logger   *internal.Logger
	decimals int
}

// NewReverseNormalizer creates a reverse normalizer that rounds to one decimal
func NewReverseNormalizer(logger *internal.Logger) *ReverseNormalizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReverseNormalizer{
		logger:   logger.With("ReverseNormalizer"),
		decimals: explanation.DisplayDecimals,
	}
}

// ReverseNormalize de-normalizes both the feature values and the discretized names.
// columns must be in the scaler's feature order; sequenceSteps is the sequence length
// the explainer was run with.
func (r *ReverseNormalizer) ReverseNormalize(exp *explanation.Explanation, columns []string, sequenceSteps int, scaler ports.Scaler) (*explanation.Explanation, error) {
	layout, err := newLayout(exp, columns, sequenceSteps)
	if err != nil {
		return nil, err
	}
	out := exp.Clone()

	if err := r.denormalizeValues(out, layout, scaler); err != nil {
		return nil, err
	}
	if err := r.denormalizeDiscretization(out, layout, scaler); err != nil {
		return nil, err
	}
	return out, nil
}

// DenormalizeValues rewrites only the feature values
func (r *ReverseNormalizer) DenormalizeValues(exp *explanation.Explanation, columns []string, sequenceSteps int, scaler ports.Scaler) (*explanation.Explanation, error) {
	layout, err := newLayout(exp, columns, sequenceSteps)
	if err != nil {
		return nil, err
	}
	out := exp.Clone()
	if err := r.denormalizeValues(out, layout, scaler); err != nil {
		return nil, err
	}
	return out, nil
}

// DenormalizeDiscretization rewrites only the discretized feature names
func (r *ReverseNormalizer) DenormalizeDiscretization(exp *explanation.Explanation, columns []string, sequenceSteps int, scaler ports.Scaler) (*explanation.Explanation, error) {
	layout, err := newLayout(exp, columns, sequenceSteps)
	if err != nil {
		return nil, err
	}
	out := exp.Clone()
	if err := r.denormalizeDiscretization(out, layout, scaler); err != nil {
		return nil, err
	}
	return out, nil
}

func newLayout(exp *explanation.Explanation, columns []string, sequenceSteps int) (explanation.Layout, error) {
	if exp == nil {
		return explanation.Layout{}, errors.InvalidInput("explanation is required")
	}
	if len(columns) == 0 {
		return explanation.Layout{}, errors.InvalidInput("at least one column is required")
	}
	return explanation.NewLayout(columns, sequenceSteps), nil
}

func (r *ReverseNormalizer) denormalizeValues(exp *explanation.Explanation, layout explanation.Layout, scaler ports.Scaler) error {
	if layout.IsEmpty() {
		r.logger.Warn("no timepoints for %d columns at sequence steps %d, feature values cleared", layout.Features(), layout.SequenceSteps)
		exp.DomainMapper.FeatureValues = []string{}
		return nil
	}

	flat, err := explanation.ParseValues(exp.DomainMapper.FeatureValues)
	if err != nil {
		return errors.ParseError("failed to parse feature values", err)
	}
	grid, err := layout.Gather(flat)
	if err != nil {
		return errors.ShapeMismatch("feature values do not fit the sequence layout", err)
	}
	r.logger.Debug("inverting %dx%d value grid", layout.Timepoints(), layout.Features())

	restored, err := scaler.InverseTransform(grid)
	if err != nil {
		return errors.ScalerError("inverse transform of feature values failed", err)
	}

	values := layout.Scatter(restored)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = explanation.FormatValue(explanation.Round(v, r.decimals))
	}
	exp.DomainMapper.FeatureValues = out
	return nil
}

func (r *ReverseNormalizer) denormalizeDiscretization(exp *explanation.Explanation, layout explanation.Layout, scaler ports.Scaler) error {
	if layout.IsEmpty() {
		r.logger.Warn("no timepoints for %d columns at sequence steps %d, discretized names cleared", layout.Features(), layout.SequenceSteps)
		exp.DomainMapper.DiscretizedFeatureNames = []string{}
		return nil
	}

	names := exp.DomainMapper.DiscretizedFeatureNames
	if err := layout.CheckLen(len(names), "discretized_feature_names"); err != nil {
		return errors.ShapeMismatch("discretized names do not fit the sequence layout", err)
	}

	out := make([]string, layout.Len())
	rules := make([]discretization.Rule, layout.Features())
	for t := 0; t < layout.Timepoints(); t++ {
		for c := range rules {
			rule, err := discretization.Parse(names[layout.Index(c, t)])
			if err != nil {
				return errors.ParseError(fmt.Sprintf("column %s at timepoint %d", layout.Columns[c], t), err)
			}
			rules[c] = rule
		}

		// row 0 holds every lower bound, row 1 every upper bound
		lower, upper := discretization.SplitBounds(rules)
		bounds := mat.NewDense(2, layout.Features(), append(lower, upper...))
		restored, err := scaler.InverseTransform(bounds)
		if err != nil {
			return errors.ScalerError(fmt.Sprintf("inverse transform of boundaries at timepoint %d failed", t), err)
		}

		for c, rule := range rules {
			rebuilt := rule.WithBounds(
				explanation.Round(restored.At(0, c), r.decimals),
				explanation.Round(restored.At(1, c), r.decimals),
			)
			out[layout.Index(c, t)] = rebuilt.String()
		}
	}

	r.logger.Debug("rewrote %d discretized names", len(out))
	exp.DomainMapper.DiscretizedFeatureNames = out
	return nil
}
