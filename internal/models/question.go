package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"text" gorm:"not null;type:text" validate:"required"`

	// Taxonomy placement. SubjectID is carried directly (not only via
	// Section) so generation can pool questions per subject with one filter.
	SubjectID   uint  `json:"subject_id" gorm:"not null;index"`
	SectionID   uint  `json:"section_id" gorm:"not null;index"`
	ChapterID   *uint `json:"chapter_id" gorm:"index"`
	TopicID     uint  `json:"topic_id" gorm:"not null;index"`
	ObjectiveID *uint `json:"objective_id" gorm:"index"`

	// Value of the correct option (matches QuestionOption.Value).
	CorrectOption string `json:"-" gorm:"not null;size:10" validate:"required"`

	ImageURL    *string `json:"image_url" gorm:"size:500"`
	Explanation *string `json:"explanation" gorm:"type:text"`
	Solution    *string `json:"solution" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Subject Subject          `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Section Section          `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Topic   Topic            `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// QuestionOption is the normalized option row. Imports from the legacy
// 4-5-column sheet layout produce one row per non-empty option slot.
type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index:idx_question_option,unique"`
	Value      string `json:"value" gorm:"not null;size:10;index:idx_question_option,unique" validate:"required,max=10"` // "A".."E"
	Label      string `json:"label" gorm:"not null;type:text" validate:"required"`
	Position   int    `json:"position" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string       { return "questions" }
func (QuestionOption) TableName() string { return "question_options" }

// HasOption reports whether value names one of the question's options.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
