package explanation

import (
	"fmt"

	"golime/domain/core"
)

// DomainMapper holds the two parallel flat sequences a recurrent tabular
// explanation carries. Both are laid out column-major: index = timepoint + column*T.
type DomainMapper struct {
	FeatureValues           []string `json:"feature_values"`
	DiscretizedFeatureNames []string `json:"discretized_feature_names"`
}

// FeatureWeight is one (feature index, weight) entry of a local explanation
type FeatureWeight struct {
	Feature int     `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Explanation is the subset of a LIME explanation this service reads and rewrites
type Explanation struct {
	ID           core.ExplanationID         `json:"id,omitempty"`
	Mode         string                     `json:"mode,omitempty"`
	ClassNames   []string                   `json:"class_names,omitempty"`
	DomainMapper DomainMapper               `json:"domain_mapper"`
	LocalExp     map[string][]FeatureWeight `json:"local_exp,omitempty"`
	Intercept    map[string]float64         `json:"intercept,omitempty"`
	Score        float64                    `json:"score,omitempty"`
}

// Clone returns a deep copy so transformations never alias the caller's slices
func (e *Explanation) Clone() *Explanation {
	if e == nil {
		return nil
	}
	out := &Explanation{
		ID:    e.ID,
		Mode:  e.Mode,
		Score: e.Score,
		DomainMapper: DomainMapper{
			FeatureValues:           append([]string(nil), e.DomainMapper.FeatureValues...),
			DiscretizedFeatureNames: append([]string(nil), e.DomainMapper.DiscretizedFeatureNames...),
		},
	}
	if e.ClassNames != nil {
		out.ClassNames = append([]string(nil), e.ClassNames...)
	}
	if e.LocalExp != nil {
		out.LocalExp = make(map[string][]FeatureWeight, len(e.LocalExp))
		for label, weights := range e.LocalExp {
			out.LocalExp[label] = append([]FeatureWeight(nil), weights...)
		}
	}
	if e.Intercept != nil {
		out.Intercept = make(map[string]float64, len(e.Intercept))
		for label, v := range e.Intercept {
			out.Intercept[label] = v
		}
	}
	return out
}

// NamedWeight pairs a discretized feature name with its weight
type NamedWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// AsList returns the local explanation for label with feature indices resolved
// to discretized names, in the order the explainer ranked them.
func (e *Explanation) AsList(label string) ([]NamedWeight, error) {
	weights, ok := e.LocalExp[label]
	if !ok {
		return nil, fmt.Errorf("%w: label %s", core.ErrNotFound, label)
	}
	names := e.DomainMapper.DiscretizedFeatureNames
	out := make([]NamedWeight, 0, len(weights))
	for _, w := range weights {
		if w.Feature < 0 || w.Feature >= len(names) {
			return nil, fmt.Errorf("%w: feature index %d outside %d names", core.ErrShapeMismatch, w.Feature, len(names))
		}
		out = append(out, NamedWeight{Name: names[w.Feature], Weight: w.Weight})
	}
	return out, nil
}
