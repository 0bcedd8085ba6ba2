package postgres

import (
	"context"
	"fmt"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create creates a question together with its options. The uniqueness check
// runs on the same transaction as the insert.
func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := existsByText(tx, question.Text, question.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to check question uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("question with the same text already exists in this subject")
		}

		if err := tx.Create(question).Error; err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a question by ID
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).First(&question, id).Error
	if err != nil {
		return nil, err
	}

	return &question, nil
}

// GetByIDWithOptions retrieves a question with its answer options and taxonomy
func (q *QuestionPostgreSQL) GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Subject").
		Preload("Topic").
		First(&question, id).Error

	if err != nil {
		return nil, err
	}

	return &question, nil
}

// Update updates a question
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

// Delete soft deletes a question
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

// CreateBatch inserts questions (with nested options) in one statement batch.
// Used by the content import pipeline inside its own transaction.
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

// GetByIDs retrieves questions by a list of IDs
func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}

	var questions []*models.Question
	err := q.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return questions, nil
}

// GetByIDsWithOptions retrieves questions with options and taxonomy preloaded
func (q *QuestionPostgreSQL) GetByIDsWithOptions(ctx context.Context, ids []uint) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}

	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Subject").
		Preload("Topic").
		Where("id IN ?", ids).
		Find(&questions).Error

	if err != nil {
		return nil, err
	}

	return questions, nil
}

// List retrieves questions with filters and pagination
func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})

	query = q.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = q.applyPaginationAndSort(query, filters)

	var questions []*models.Question
	err := query.Preload("Subject").Preload("Topic").Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// IDsBySubject returns every question ID in a subject. The generator samples
// from this pool in memory.
func (q *QuestionPostgreSQL) IDsBySubject(ctx context.Context, subjectID uint) ([]uint, error) {
	var ids []uint
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("subject_id = ?", subjectID).
		Pluck("id", &ids).Error

	return ids, err
}

// IDsBySection returns every question ID in a section
func (q *QuestionPostgreSQL) IDsBySection(ctx context.Context, sectionID uint) ([]uint, error) {
	var ids []uint
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("section_id = ?", sectionID).
		Pluck("id", &ids).Error

	return ids, err
}

// IDsExcluding returns question IDs not in the given set, used by the
// generator's backfill step when a subject pool runs short.
func (q *QuestionPostgreSQL) IDsExcluding(ctx context.Context, excludeIDs []uint) ([]uint, error) {
	var ids []uint
	query := q.db.WithContext(ctx).Model(&models.Question{})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Pluck("id", &ids).Error

	return ids, err
}

// CountBySubject counts questions in a subject
func (q *QuestionPostgreSQL) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("subject_id = ?", subjectID).
		Count(&count).Error

	return count, err
}

// ExistsByText checks whether a question with the same text exists in a subject
func (q *QuestionPostgreSQL) ExistsByText(ctx context.Context, text string, subjectID uint) (bool, error) {
	return existsByText(q.db.WithContext(ctx), text, subjectID)
}

func existsByText(db *gorm.DB, text string, subjectID uint) (bool, error) {
	var count int64
	err := db.
		Model(&models.Question{}).
		Where("text = ? AND subject_id = ?", text, subjectID).
		Count(&count).Error

	return count > 0, err
}

// applyFilters applies common filters to a query
func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.SectionID != nil {
		query = query.Where("section_id = ?", *filters.SectionID)
	}
	if filters.TopicID != nil {
		query = query.Where("topic_id = ?", *filters.TopicID)
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting to a query
func (q *QuestionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
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
