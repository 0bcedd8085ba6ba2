package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// QuestionRepository interface for question pool operations.
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	GetByIDsWithOptions(ctx context.Context, ids []uint) ([]*models.Question, error)

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)

	// Sampling support: ID pools are fetched whole and sampled in memory, so
	// the random draw never leans on ORDER BY random().
	IDsBySubject(ctx context.Context, subjectID uint) ([]uint, error)
	IDsBySection(ctx context.Context, sectionID uint) ([]uint, error)
	IDsExcluding(ctx context.Context, excludeIDs []uint) ([]uint, error)
	CountBySubject(ctx context.Context, subjectID uint) (int64, error)

	// Validation
	ExistsByText(ctx context.Context, text string, subjectID uint) (bool, error)
}
