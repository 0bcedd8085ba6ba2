package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewExamQuestionPostgreSQL(db *gorm.DB) repositories.ExamQuestionRepository {
	return &ExamQuestionPostgreSQL{db: db}
}

// CreateBatch inserts the exam's full question snapshot in one batch
func (eq *ExamQuestionPostgreSQL) CreateBatch(ctx context.Context, rows []*models.MockExamQuestion) error {
	if len(rows) == 0 {
		return nil
	}
	return eq.db.WithContext(ctx).CreateInBatches(rows, 200).Error
}

// GetByExam retrieves the snapshot rows for an exam in presentation order
func (eq *ExamQuestionPostgreSQL) GetByExam(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error) {
	var rows []*models.MockExamQuestion
	err := eq.db.WithContext(ctx).
		Where("mock_exam_id = ?", examID).
		Order("position ASC").
		Find(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

// GetByExamWithQuestions retrieves snapshot rows with questions, options and
// taxonomy preloaded
func (eq *ExamQuestionPostgreSQL) GetByExamWithQuestions(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error) {
	var rows []*models.MockExamQuestion
	err := eq.db.WithContext(ctx).
		Where("mock_exam_id = ?", examID).
		Preload("Question").
		Preload("Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Question.Topic").
		Preload("Subject").
		Order("position ASC").
		Find(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exists checks membership of a question in an exam
func (eq *ExamQuestionPostgreSQL) Exists(ctx context.Context, examID, questionID uint) (bool, error) {
	var count int64
	err := eq.db.WithContext(ctx).
		Model(&models.MockExamQuestion{}).
		Where("mock_exam_id = ? AND question_id = ?", examID, questionID).
		Count(&count).Error

	return count > 0, err
}

// CountByExam counts snapshot rows for an exam
func (eq *ExamQuestionPostgreSQL) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := eq.db.WithContext(ctx).
		Model(&models.MockExamQuestion{}).
		Where("mock_exam_id = ?", examID).
		Count(&count).Error

	return count, err
}

// SubjectCounts returns per-subject question counts using the denormalized
// subject_id on the snapshot row
func (eq *ExamQuestionPostgreSQL) SubjectCounts(ctx context.Context, examID uint) (map[uint]int, error) {
	type row struct {
		SubjectID uint
		Count     int
	}

	var rows []row
	err := eq.db.WithContext(ctx).
		Model(&models.MockExamQuestion{}).
		Select("subject_id, COUNT(*) as count").
		Where("mock_exam_id = ?", examID).
		Group("subject_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.SubjectID] = r.Count
	}

	return counts, nil
}

// QuestionIDsByUser lists distinct question IDs used across every exam the
// user has ever generated
func (eq *ExamQuestionPostgreSQL) QuestionIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := eq.db.WithContext(ctx).
		Model(&models.MockExamQuestion{}).
		Distinct("mock_exam_questions.question_id").
		Joins("JOIN mock_exams ON mock_exams.id = mock_exam_questions.mock_exam_id").
		Where("mock_exams.user_id = ?", userID).
		Pluck("mock_exam_questions.question_id", &ids).Error

	return ids, err
}
