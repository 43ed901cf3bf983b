package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/guardian-backend-go/internal/models"
)

// PositionRepository handles database operations for position samples
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Insert appends a sample and sets its ID
func (r *PositionRepository) Insert(ctx context.Context, s *models.PositionSample) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO position_samples (subject_id, ts, lat, lon, acc) VALUES (?, ?, ?, ?, ?)`,
		s.SubjectID, s.Timestamp, s.Latitude, s.Longitude, s.AccuracyMeters,
	)
	if err != nil {
		return fmt.Errorf("failed to insert position sample: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read position sample id: %w", err)
	}
	s.ID = id
	return nil
}

// Recent returns up to n of the subject's newest samples in ascending time order.
// A single statement is used, so the result is a consistent snapshot.
func (r *PositionRepository) Recent(ctx context.Context, subjectID string, n int) ([]models.PositionSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subject_id, ts, lat, lon, acc FROM position_samples
		WHERE subject_id = ? ORDER BY ts DESC, id DESC LIMIT ?`,
		subjectID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query position samples: %w", err)
	}
	defer rows.Close()

	var samples []models.PositionSample
	for rows.Next() {
		var s models.PositionSample
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.Timestamp, &s.Latitude, &s.Longitude, &s.AccuracyMeters); err != nil {
			return nil, fmt.Errorf("failed to scan position sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position samples: %w", err)
	}

	// newest-first from SQL, callers want oldest-first
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}
