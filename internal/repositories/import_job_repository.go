package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// ImportJobRepository interface for content import job tracking.
type ImportJobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	Update(ctx context.Context, job *models.ImportJob) error
	List(ctx context.Context, limit, offset int) ([]*models.ImportJob, error)
}
