package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusSubmitted    ExamStatus = "submitted"
	ExamStatusTimerExpired ExamStatus = "timer_expired"
)

// MockExam is one generated, time-boxed practice exam for one user. Score
// fields stay nil until finalization; finalization recomputes them from the
// stored answers, so re-finalizing is safe.
type MockExam struct {
	ID             uint  `json:"id" gorm:"primaryKey"`
	UserID         uint  `json:"user_id" gorm:"not null;index"`
	SubscriptionID *uint `json:"subscription_id" gorm:"index"`

	StartTime   time.Time  `json:"start_time" gorm:"not null"`
	EndTime     time.Time  `json:"end_time" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`

	// Summary fields, set on finalization.
	Status             *ExamStatus `json:"status" gorm:"size:20"`
	TotalQuestions     *int        `json:"total_questions"`
	AnsweredQuestions  *int        `json:"answered_questions"`
	CorrectAnswers     *int        `json:"correct_answers"`
	WrongAnswers       *int        `json:"wrong_answers"`
	Score              *float64    `json:"score"` // 0-100
	// Total answer time recorded for this exam, in seconds. The column name
	// comes from the legacy schema; analytics divides it across subjects.
	AverageTimePerExam *float64 `json:"average_time_per_exam"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User      User               `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Questions []MockExamQuestion `json:"questions,omitempty" gorm:"foreignKey:MockExamID"`
	Answers   []UserExamAnswer   `json:"answers,omitempty" gorm:"foreignKey:MockExamID"`
}

// MockExamQuestion snapshots exam membership: one row per (exam, question).
// SubjectID is denormalized from the question at generation time so grouping
// never re-joins through the taxonomy; later subject corrections on the
// question do not retag old exams.
type MockExamQuestion struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	MockExamID uint `json:"mock_exam_id" gorm:"not null;index:idx_exam_question,unique"`
	QuestionID uint `json:"question_id" gorm:"not null;index:idx_exam_question,unique"`
	SubjectID  uint `json:"subject_id" gorm:"not null;index"`
	Position   int  `json:"position" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	MockExam MockExam `json:"-" gorm:"foreignKey:MockExamID"`
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Subject  Subject  `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (MockExam) TableName() string         { return "mock_exams" }
func (MockExamQuestion) TableName() string { return "mock_exam_questions" }

// IsFinalized reports whether Finalize has run at least once.
func (e *MockExam) IsFinalized() bool {
	return e.CompletedAt != nil
}

// Expired reports whether the exam's deadline has passed at t.
func (e *MockExam) Expired(t time.Time) bool {
	return t.After(e.EndTime)
}
