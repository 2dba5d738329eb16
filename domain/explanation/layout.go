package explanation

import (
	"fmt"
	"strconv"
	"strings"

	"golime/domain/core"

	"gonum.org/v1/gonum/mat"
)

// Layout describes how a sequence explanation flattens its timepoint x feature grid.
// The explainer drops one step, so a sequence of SequenceSteps carries SequenceSteps-1
// timepoints per column.
type Layout struct {
	Columns       []string
	SequenceSteps int
}

// NewLayout creates a layout for the given ordered columns
func NewLayout(columns []string, sequenceSteps int) Layout {
	return Layout{Columns: columns, SequenceSteps: sequenceSteps}
}

// Timepoints returns T, the number of timepoints carrying values
func (l Layout) Timepoints() int {
	if l.SequenceSteps < 2 {
		return 0
	}
	return l.SequenceSteps - 1
}

// Features returns F, the number of feature columns
func (l Layout) Features() int {
	return len(l.Columns)
}

// Len is the number of entries in each flat sequence (F*T)
func (l Layout) Len() int {
	return l.Features() * l.Timepoints()
}

// IsEmpty reports a degenerate layout with no cells
func (l Layout) IsEmpty() bool {
	return l.Len() == 0
}

// Index maps (column, timepoint) to the flat column-major position
func (l Layout) Index(column, timepoint int) int {
	return timepoint + column*l.Timepoints()
}

// FeatureName returns the explainer's name for a cell, e.g. "HR_t-0" for the newest timepoint
func (l Layout) FeatureName(column, timepoint int) string {
	return fmt.Sprintf("%s_t-%d", l.Columns[column], l.Timepoints()-1-timepoint)
}

// CheckLen verifies a flat sequence matches the layout
func (l Layout) CheckLen(n int, field string) error {
	if n != l.Len() {
		return core.NewShapeError(l.Len(), n, field)
	}
	return nil
}

// Gather builds the T x F grid (rows = timepoints, columns = features) from a flat sequence
func (l Layout) Gather(flat []float64) (*mat.Dense, error) {
	if err := l.CheckLen(len(flat), "feature_values"); err != nil {
		return nil, err
	}
	if l.IsEmpty() {
		return nil, core.NewShapeError(1, 0, "layout")
	}
	grid := mat.NewDense(l.Timepoints(), l.Features(), nil)
	for t := 0; t < l.Timepoints(); t++ {
		for c := 0; c < l.Features(); c++ {
			grid.Set(t, c, flat[l.Index(c, t)])
		}
	}
	return grid, nil
}

// Scatter flattens a T x F grid back into the column-major layout
func (l Layout) Scatter(grid mat.Matrix) []float64 {
	out := make([]float64, l.Len())
	for c := 0; c < l.Features(); c++ {
		for t := 0; t < l.Timepoints(); t++ {
			out[l.Index(c, t)] = grid.At(t, c)
		}
	}
	return out
}

// ParseValues converts stringified feature values into floats
func ParseValues(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, s := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("feature value %d (%q): %w", i, s, err)
		}
		out[i] = v
	}
	return out, nil
}
