package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golime/domain/core"
	"golime/domain/explanation"
	"golime/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ExplanationRepositoryImpl implements ExplanationRepository for PostgreSQL
type ExplanationRepositoryImpl struct {
	db *sqlx.DB
}

// NewExplanationRepository creates a new PostgreSQL explanation repository
func NewExplanationRepository(db *sqlx.DB) ports.ExplanationRepository {
	return &ExplanationRepositoryImpl{db: db}
}

// explanationRow mirrors the explanations table
type explanationRow struct {
	ID                string         `db:"id"`
	Columns           pq.StringArray `db:"columns"`
	SequenceSteps     int            `db:"sequence_steps"`
	ScalerFingerprint string         `db:"scaler_fingerprint"`
	Payload           []byte         `db:"payload"`
	CreatedAt         time.Time      `db:"created_at"`
}

func newExplanationRow(record *ports.ExplanationRecord) (*explanationRow, error) {
	if record.Explanation == nil {
		return nil, fmt.Errorf("explanation record %s has no explanation", record.ID)
	}
	payload, err := json.Marshal(record.Explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal explanation: %w", err)
	}
	createdAt := record.CreatedAt.Time()
	if record.CreatedAt.IsZero() {
		createdAt = core.Now().Time()
	}
	return &explanationRow{
		ID:                record.ID.String(),
		Columns:           pq.StringArray(record.Columns),
		SequenceSteps:     record.SequenceSteps,
		ScalerFingerprint: record.Scaler.String(),
		Payload:           payload,
		CreatedAt:         createdAt,
	}, nil
}

func (row *explanationRow) toRecord() (*ports.ExplanationRecord, error) {
	var exp explanation.Explanation
	if err := json.Unmarshal(row.Payload, &exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explanation %s: %w", row.ID, err)
	}
	return &ports.ExplanationRecord{
		ID:            core.ExplanationID(row.ID),
		Columns:       []string(row.Columns),
		SequenceSteps: row.SequenceSteps,
		Scaler:        core.ScalerFingerprint(row.ScalerFingerprint),
		Explanation:   &exp,
		CreatedAt:     core.NewTimestamp(row.CreatedAt),
	}, nil
}

// Save archives a reverse-normalized explanation, replacing any earlier version with the same ID
func (r *ExplanationRepositoryImpl) Save(ctx context.Context, record *ports.ExplanationRecord) error {
	row, err := newExplanationRow(record)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO explanations (id, columns, sequence_steps, scaler_fingerprint, payload, created_at)
		VALUES (:id, :columns, :sequence_steps, :scaler_fingerprint, :payload, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			columns = EXCLUDED.columns,
			sequence_steps = EXCLUDED.sequence_steps,
			scaler_fingerprint = EXCLUDED.scaler_fingerprint,
			payload = EXCLUDED.payload
	`, row)
	if err != nil {
		return fmt.Errorf("failed to save explanation %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves an archived explanation by ID
func (r *ExplanationRepositoryImpl) Get(ctx context.Context, id core.ExplanationID) (*ports.ExplanationRecord, error) {
	var row explanationRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, columns, sequence_steps, scaler_fingerprint, payload, created_at
		FROM explanations
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewExplanationNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return row.toRecord()
}

// ListRecent returns the newest archived explanations first
func (r *ExplanationRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*ports.ExplanationRecord, error) {
	query := `
		SELECT id, columns, sequence_steps, scaler_fingerprint, payload, created_at
		FROM explanations
		ORDER BY created_at DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []explanationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	records := make([]*ports.ExplanationRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
