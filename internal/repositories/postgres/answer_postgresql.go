package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

// Upsert creates or overwrites the answer row for (exam, user, question).
// Re-answering a question replaces the previous selection.
func (a *AnswerPostgreSQL) Upsert(ctx context.Context, answer *models.UserExamAnswer) error {
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "mock_exam_id"},
				{Name: "user_id"},
				{Name: "question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"selected_option", "is_correct", "time_spent", "updated_at",
			}),
		}).
		Create(answer).Error
}

// GetByExamAndQuestion retrieves a single answer row
func (a *AnswerPostgreSQL) GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.UserExamAnswer, error) {
	var answer models.UserExamAnswer
	err := a.db.WithContext(ctx).
		Where("mock_exam_id = ? AND question_id = ?", examID, questionID).
		First(&answer).Error

	if err != nil {
		return nil, err
	}

	return &answer, nil
}

// GetByExam retrieves all answer rows for an exam
func (a *AnswerPostgreSQL) GetByExam(ctx context.Context, examID uint) ([]*models.UserExamAnswer, error) {
	var answers []*models.UserExamAnswer
	err := a.db.WithContext(ctx).
		Where("mock_exam_id = ?", examID).
		Find(&answers).Error

	if err != nil {
		return nil, err
	}

	return answers, nil
}

// GetByUser retrieves a user's full answer history across exams
func (a *AnswerPostgreSQL) GetByUser(ctx context.Context, userID uint) ([]*models.UserExamAnswer, error) {
	var answers []*models.UserExamAnswer
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&answers).Error

	if err != nil {
		return nil, err
	}

	return answers, nil
}

// CountByExam counts answered (non-skipped) rows for an exam
func (a *AnswerPostgreSQL) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.UserExamAnswer{}).
		Where("mock_exam_id = ? AND selected_option IS NOT NULL", examID).
		Count(&count).Error

	return count, err
}

// CountCorrectByExam counts correct rows for an exam
func (a *AnswerPostgreSQL) CountCorrectByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.UserExamAnswer{}).
		Where("mock_exam_id = ? AND is_correct = ?", examID, true).
		Count(&count).Error

	return count, err
}

// TotalTimeByExam sums recorded time_spent seconds across an exam's answers
func (a *AnswerPostgreSQL) TotalTimeByExam(ctx context.Context, examID uint) (int64, error) {
	var total int64
	err := a.db.WithContext(ctx).
		Model(&models.UserExamAnswer{}).
		Where("mock_exam_id = ?", examID).
		Select("COALESCE(SUM(time_spent), 0)").
		Scan(&total).Error

	return total, err
}
