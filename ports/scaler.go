package ports

import (
	"golime/domain/core"

	"gonum.org/v1/gonum/mat"
)

// Scaler is a fitted feature scaler. Rows are samples and columns are the
// scaler's features, in the order it was fitted with.
type Scaler interface {
	// Kind names the scaling family, e.g. "standard" or "minmax"
	Kind() string

	// NFeatures is the row width the scaler was fitted on
	NFeatures() int

	// FeatureNames are the column names seen at fit time, nil when unknown
	FeatureNames() []string

	// Transform maps original values into normalized space
	Transform(X mat.Matrix) (*mat.Dense, error)

	// InverseTransform maps normalized values back to original units
	InverseTransform(X mat.Matrix) (*mat.Dense, error)

	// Fingerprint identifies the fitted parameters
	Fingerprint() core.ScalerFingerprint
}
