package models

import "time"

// WeakArea is a derived read model: a (user, subject, topic) triple whose
// rolling accuracy sits below the configured threshold. The aggregator
// replaces a user's rows wholesale on each recompute, so counters reflect the
// current state of the source exam data rather than accumulating across runs.
type WeakArea struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;index:idx_user_subject_topic,unique"`
	SubjectID uint `json:"subject_id" gorm:"not null;index:idx_user_subject_topic,unique"`
	TopicID   uint `json:"topic_id" gorm:"not null;index:idx_user_subject_topic,unique"`

	TotalQuestions int `json:"total_questions" gorm:"not null;default:0"`
	CorrectAnswers int `json:"correct_answers" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subject Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Topic   Topic   `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
}

func (WeakArea) TableName() string { return "weak_areas" }

// Accuracy returns the percentage of correct answers, 0 when nothing was
// attempted.
func (w *WeakArea) Accuracy() float64 {
	if w.TotalQuestions == 0 {
		return 0
	}
	return float64(w.CorrectAnswers) / float64(w.TotalQuestions) * 100
}
