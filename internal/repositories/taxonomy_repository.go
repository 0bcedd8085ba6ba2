package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// TaxonomyRepository interface for the subject/section/topic hierarchy.
type TaxonomyRepository interface {
	GetSubjectByID(ctx context.Context, id uint) (*models.Subject, error)
	GetSubjectsByIDs(ctx context.Context, ids []uint) ([]*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)

	GetSectionByID(ctx context.Context, id uint) (*models.Section, error)
	ListSectionsBySubject(ctx context.Context, subjectID uint) ([]*models.Section, error)

	GetTopicByID(ctx context.Context, id uint) (*models.Topic, error)
	GetTopicsByIDs(ctx context.Context, ids []uint) ([]*models.Topic, error)
	ListTopicsBySection(ctx context.Context, sectionID uint) ([]*models.Topic, error)

	GetObjectiveByID(ctx context.Context, id uint) (*models.Objective, error)

	// FindOrCreate helpers used by the content import pipeline. Lookups
	// are by name within the parent scope.
	FindOrCreateSubject(ctx context.Context, name string) (*models.Subject, error)
	FindOrCreateSection(ctx context.Context, subjectID uint, name string) (*models.Section, error)
	FindOrCreateChapter(ctx context.Context, subjectID uint, name string) (*models.Chapter, error)
	FindOrCreateTopic(ctx context.Context, sectionID uint, name string) (*models.Topic, error)
	FindOrCreateObjective(ctx context.Context, topicID uint, description string) (*models.Objective, error)
}
