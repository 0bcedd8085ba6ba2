package postgres

import (
	"context"
	"fmt"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

// Create creates a new mock exam
func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.MockExam) error {
	return e.db.WithContext(ctx).Create(exam).Error
}

// GetByID retrieves a mock exam by ID
func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MockExam, error) {
	var exam models.MockExam
	err := e.db.WithContext(ctx).First(&exam, id).Error
	if err != nil {
		return nil, err
	}

	return &exam, nil
}

// GetByIDWithDetails retrieves an exam with its question snapshot and answers
func (e *ExamPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.MockExam, error) {
	var exam models.MockExam
	err := e.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Question.Topic").
		Preload("Questions.Subject").
		Preload("Answers").
		First(&exam, id).Error

	if err != nil {
		return nil, err
	}

	return &exam, nil
}

// Update updates a mock exam
func (e *ExamPostgreSQL) Update(ctx context.Context, exam *models.MockExam) error {
	return e.db.WithContext(ctx).Save(exam).Error
}

// List retrieves exams with filters and pagination
func (e *ExamPostgreSQL) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.MockExam, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.MockExam{})

	query = e.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.applyPaginationAndSort(query, filters)

	var exams []*models.MockExam
	err := query.Find(&exams).Error
	if err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

// GetByUser retrieves a user's exams with filters
func (e *ExamPostgreSQL) GetByUser(ctx context.Context, userID uint, filters repositories.ExamFilters) ([]*models.MockExam, int64, error) {
	filters.UserID = &userID
	return e.List(ctx, filters)
}

// GetByUserWithDetails retrieves a user's finalized exams with answers and
// question taxonomy preloaded. Feeds the analytics recomputation.
func (e *ExamPostgreSQL) GetByUserWithDetails(ctx context.Context, userID uint) ([]*models.MockExam, error) {
	var exams []*models.MockExam
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND status IS NOT NULL", userID).
		Preload("Questions").
		Preload("Questions.Question").
		Preload("Questions.Question.Topic").
		Preload("Answers").
		Order("completed_at DESC").
		Find(&exams).Error

	if err != nil {
		return nil, err
	}

	return exams, nil
}

// CountByUser counts all exams a user has taken
func (e *ExamPostgreSQL) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.MockExam{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}

// UpdateSummary persists the finalization summary fields only
func (e *ExamPostgreSQL) UpdateSummary(ctx context.Context, exam *models.MockExam) error {
	return e.db.WithContext(ctx).
		Model(&models.MockExam{}).
		Where("id = ?", exam.ID).
		Updates(map[string]interface{}{
			"status":                exam.Status,
			"completed_at":          exam.CompletedAt,
			"total_questions":       exam.TotalQuestions,
			"answered_questions":    exam.AnsweredQuestions,
			"correct_answers":       exam.CorrectAnswers,
			"wrong_answers":         exam.WrongAnswers,
			"score":                 exam.Score,
			"average_time_per_exam": exam.AverageTimePerExam,
		}).Error
}

// BelongsToUser checks exam ownership
func (e *ExamPostgreSQL) BelongsToUser(ctx context.Context, examID, userID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.MockExam{}).
		Where("id = ? AND user_id = ?", examID, userID).
		Count(&count).Error

	return count > 0, err
}

// applyFilters applies common filters to a query
func (e *ExamPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Finalized != nil {
		if *filters.Finalized {
			query = query.Where("status IS NOT NULL")
		} else {
			query = query.Where("status IS NULL")
		}
	}
	if filters.DateFrom != nil {
		query = query.Where("start_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_time <= ?", *filters.DateTo)
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting to a query
func (e *ExamPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	sortBy := "created_at"
	if filters.SortBy != "" {
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
