package ports

import (
	"context"

	"golime/domain/core"
	"golime/domain/explanation"
)

// ExplanationRecord is an archived reverse-normalized explanation
type ExplanationRecord struct {
	ID            core.ExplanationID       `json:"id"`
	Columns       []string                 `json:"columns"`
	SequenceSteps int                      `json:"sequence_steps"`
	Scaler        core.ScalerFingerprint   `json:"scaler_fingerprint"`
	Explanation   *explanation.Explanation `json:"explanation"`
	CreatedAt     core.Timestamp           `json:"created_at"`
}

// ExplanationRepository archives reverse-normalized explanations
type ExplanationRepository interface {
	Save(ctx context.Context, record *ExplanationRecord) error
	Get(ctx context.Context, id core.ExplanationID) (*ExplanationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*ExplanationRecord, error)
}
