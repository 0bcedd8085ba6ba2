package models

import "time"

// UserExamAnswer records the user's latest selection for one question within
// one exam. The (exam, user, question) unique index makes answer submission an
// upsert: re-answering overwrites the row and recomputes correctness.
type UserExamAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	MockExamID uint `json:"mock_exam_id" gorm:"not null;index:idx_exam_user_question,unique"`
	UserID     uint `json:"user_id" gorm:"not null;index:idx_exam_user_question,unique"`
	QuestionID uint `json:"question_id" gorm:"not null;index:idx_exam_user_question,unique"`

	// Nil means the question was explicitly skipped.
	SelectedOption *string `json:"selected_option" gorm:"size:10"`
	IsCorrect      bool    `json:"is_correct" gorm:"not null;default:false"`
	TimeSpent      int     `json:"time_spent" gorm:"not null;default:0"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	MockExam MockExam `json:"-" gorm:"foreignKey:MockExamID"`
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (UserExamAnswer) TableName() string { return "user_exam_answers" }

// Skipped reports whether the row records a deliberate skip.
func (a *UserExamAnswer) Skipped() bool {
	return a.SelectedOption == nil
}
