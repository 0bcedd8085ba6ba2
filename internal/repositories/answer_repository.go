package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// AnswerRepository interface for per-question answer rows.
type AnswerRepository interface {
	// Upsert creates or overwrites the row keyed by (exam, user, question).
	Upsert(ctx context.Context, answer *models.UserExamAnswer) error

	GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.UserExamAnswer, error)
	GetByExam(ctx context.Context, examID uint) ([]*models.UserExamAnswer, error)
	GetByUser(ctx context.Context, userID uint) ([]*models.UserExamAnswer, error)

	// Finalization aggregates
	CountByExam(ctx context.Context, examID uint) (int64, error)
	CountCorrectByExam(ctx context.Context, examID uint) (int64, error)
	TotalTimeByExam(ctx context.Context, examID uint) (int64, error)
}
