package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// ExamRepository interface for mock exam operations.
type ExamRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, exam *models.MockExam) error
	GetByID(ctx context.Context, id uint) (*models.MockExam, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.MockExam, error) // questions + answers + taxonomy
	Update(ctx context.Context, exam *models.MockExam) error

	// Query operations
	List(ctx context.Context, filters ExamFilters) ([]*models.MockExam, int64, error)
	GetByUser(ctx context.Context, userID uint, filters ExamFilters) ([]*models.MockExam, int64, error)
	GetByUserWithDetails(ctx context.Context, userID uint) ([]*models.MockExam, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)

	// Finalization
	UpdateSummary(ctx context.Context, exam *models.MockExam) error

	// Ownership check
	BelongsToUser(ctx context.Context, examID, userID uint) (bool, error)
}

// ExamQuestionRepository interface for the exam-question snapshot rows.
type ExamQuestionRepository interface {
	CreateBatch(ctx context.Context, rows []*models.MockExamQuestion) error

	GetByExam(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error)
	GetByExamWithQuestions(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error) // preloads question, options, topic, subject

	Exists(ctx context.Context, examID, questionID uint) (bool, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)
	SubjectCounts(ctx context.Context, examID uint) (map[uint]int, error)

	// QuestionIDsByUser lists every question already used in the user's past
	// exams, for repeat-avoidance during generation.
	QuestionIDsByUser(ctx context.Context, userID uint) ([]uint, error)
}
