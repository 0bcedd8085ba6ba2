package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// WeakAreaRepository interface for the derived weak-area read model.
type WeakAreaRepository interface {
	// ReplaceForUser deletes the user's existing rows and inserts the
	// given set atomically. Callers recompute the full set from answer
	// history before calling.
	ReplaceForUser(ctx context.Context, userID uint, areas []*models.WeakArea) error

	GetByUser(ctx context.Context, userID uint) ([]*models.WeakArea, error)
	GetByUserAndSubject(ctx context.Context, userID, subjectID uint) ([]*models.WeakArea, error)
}
