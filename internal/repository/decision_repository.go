package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/guardian-backend-go/internal/models"
)

// ExportLimit caps the number of decisions returned for an export
const ExportLimit = 10000

// DecisionRepository persists the risk decision audit trail
type DecisionRepository struct {
	db *sql.DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Create inserts an audit record
func (r *DecisionRepository) Create(ctx context.Context, d *models.DecisionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_decisions (id, subject_id, ts, trigger_source, action, reason, evidence, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SubjectID, d.Timestamp, d.Trigger, d.Action, d.Reason, d.Evidence, d.Latitude, d.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert risk decision: %w", err)
	}
	return nil
}

// GetByID retrieves one decision
func (r *DecisionRepository) GetByID(ctx context.Context, id string) (*models.DecisionRecord, error) {
	var d models.DecisionRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject_id, ts, trigger_source, action, reason, evidence, lat, lon, created_at
		FROM risk_decisions WHERE id = ?`, id,
	).Scan(&d.ID, &d.SubjectID, &d.Timestamp, &d.Trigger, &d.Action, &d.Reason,
		&d.Evidence, &d.Latitude, &d.Longitude, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get risk decision: %w", err)
	}
	return &d, nil
}

func decisionConditions(filter models.DecisionFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "ts >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "ts <= ?")
		args = append(args, filter.EndTime)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List retrieves decisions with filtering and pagination
func (r *DecisionRepository) List(ctx context.Context, filter models.DecisionFilter) ([]models.DecisionRecord, int64, error) {
	where, args := decisionConditions(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM risk_decisions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count risk decisions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	records, err := r.query(ctx, where, append(args, filter.PageSize, offset))
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListForExport returns up to ExportLimit decisions matching filter, newest first
func (r *DecisionRepository) ListForExport(ctx context.Context, filter models.DecisionFilter) ([]models.DecisionRecord, error) {
	where, args := decisionConditions(filter)
	return r.query(ctx, where, append(args, ExportLimit, 0))
}

func (r *DecisionRepository) query(ctx context.Context, where string, args []interface{}) ([]models.DecisionRecord, error) {
	query := `SELECT id, subject_id, ts, trigger_source, action, reason, evidence, lat, lon, created_at
		FROM risk_decisions` + where + ` ORDER BY ts DESC, created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk decisions: %w", err)
	}
	defer rows.Close()

	records := []models.DecisionRecord{}
	for rows.Next() {
		var d models.DecisionRecord
		if err := rows.Scan(&d.ID, &d.SubjectID, &d.Timestamp, &d.Trigger, &d.Action, &d.Reason,
			&d.Evidence, &d.Latitude, &d.Longitude, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan risk decision: %w", err)
		}
		records = append(records, d)
	}

	return records, rows.Err()
}
