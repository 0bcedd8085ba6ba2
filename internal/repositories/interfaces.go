package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository is the aggregate access point for all persistence. Services hold
// one Repository; WithTransaction yields a Repository bound to a transaction
// so multi-row writes (exam generation) commit or roll back as a unit.
type Repository interface {
	Question() QuestionRepository
	Exam() ExamRepository
	ExamQuestion() ExamQuestionRepository
	Answer() AnswerRepository
	Taxonomy() TaxonomyRepository
	User() UserRepository
	WeakArea() WeakAreaRepository
	Notification() NotificationRepository
	ImportJob() ImportJobRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	SubjectID *uint  `json:"subject_id"`
	SectionID *uint  `json:"section_id"`
	TopicID   *uint  `json:"topic_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "id"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type ExamFilters struct {
	UserID    *uint      `json:"user_id"`
	Finalized *bool      `json:"finalized"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// IsNotFoundError reports whether err is the driver's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
