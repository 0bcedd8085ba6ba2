package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// UserRepository interface for users and their exam configuration.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetLatestExamDetail returns the most recent subject selection for
	// the user, or a not-found error when the user never registered one.
	GetLatestExamDetail(ctx context.Context, userID uint) (*models.ExamDetail, error)
	CreateExamDetail(ctx context.Context, detail *models.ExamDetail) error

	GetActiveSubscription(ctx context.Context, userID uint) (*models.Subscription, error)
}
