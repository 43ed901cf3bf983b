package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/guardian-backend-go/internal/models"
)

// DefaultAlertLimit is the number of alerts returned when no limit is given
const DefaultAlertLimit = 50

// AlertRepository handles database operations for alerts
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert and sets its ID
func (r *AlertRepository) Create(ctx context.Context, a *models.Alert) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (subject_id, ts, type, summary, evidence, lat, lon) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SubjectID, a.Timestamp, a.Type, a.Summary, a.Evidence, a.Latitude, a.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read alert id: %w", err)
	}
	a.ID = id
	return nil
}

// ListRecent returns the newest alerts first
func (r *AlertRepository) ListRecent(ctx context.Context, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	if limit > 1000 {
		limit = 1000
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subject_id, ts, type, summary, evidence, lat, lon FROM alerts ORDER BY ts DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		var a models.Alert
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.SubjectID, &a.Timestamp, &a.Type, &a.Summary, &a.Evidence, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if lat.Valid && lon.Valid {
			a.Latitude, a.Longitude = &lat.Float64, &lon.Float64
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
