// Package history keeps each subject's recent position samples.
package history

import (
	"context"

	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/repository"
)

// Store is an append-only position history. Recent returns a consistent
// snapshot of at most n samples in ascending time order.
type Store interface {
	Append(ctx context.Context, sample *models.PositionSample) error
	Recent(ctx context.Context, subjectID string, n int) ([]models.PositionSample, error)
}

// SQLStore keeps history in the positions table
type SQLStore struct {
	repo *repository.PositionRepository
}

// NewSQLStore creates a SQLite-backed store
func NewSQLStore(repo *repository.PositionRepository) *SQLStore {
	return &SQLStore{repo: repo}
}

// Append implements Store
func (s *SQLStore) Append(ctx context.Context, sample *models.PositionSample) error {
	return s.repo.Insert(ctx, sample)
}

// Recent implements Store
func (s *SQLStore) Recent(ctx context.Context, subjectID string, n int) ([]models.PositionSample, error) {
	return s.repo.Recent(ctx, subjectID, n)
}
