package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type TaxonomyPostgreSQL struct {
	db *gorm.DB
}

func NewTaxonomyPostgreSQL(db *gorm.DB) repositories.TaxonomyRepository {
	return &TaxonomyPostgreSQL{db: db}
}

func (t *TaxonomyPostgreSQL) GetSubjectByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := t.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (t *TaxonomyPostgreSQL) GetSubjectsByIDs(ctx context.Context, ids []uint) ([]*models.Subject, error) {
	if len(ids) == 0 {
		return []*models.Subject{}, nil
	}

	var subjects []*models.Subject
	err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (t *TaxonomyPostgreSQL) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := t.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (t *TaxonomyPostgreSQL) GetSectionByID(ctx context.Context, id uint) (*models.Section, error) {
	var section models.Section
	if err := t.db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (t *TaxonomyPostgreSQL) ListSectionsBySubject(ctx context.Context, subjectID uint) ([]*models.Section, error) {
	var sections []*models.Section
	err := t.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("position ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (t *TaxonomyPostgreSQL) GetTopicByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := t.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (t *TaxonomyPostgreSQL) GetTopicsByIDs(ctx context.Context, ids []uint) ([]*models.Topic, error) {
	if len(ids) == 0 {
		return []*models.Topic{}, nil
	}

	var topics []*models.Topic
	err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (t *TaxonomyPostgreSQL) ListTopicsBySection(ctx context.Context, sectionID uint) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := t.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("name ASC").
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (t *TaxonomyPostgreSQL) GetObjectiveByID(ctx context.Context, id uint) (*models.Objective, error) {
	var objective models.Objective
	if err := t.db.WithContext(ctx).First(&objective, id).Error; err != nil {
		return nil, err
	}
	return &objective, nil
}

// FindOrCreateSubject looks a subject up by name, creating it when missing.
// Import rows reference taxonomy by name, so the pipeline leans on these.
func (t *TaxonomyPostgreSQL) FindOrCreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	var subject models.Subject
	err := t.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&subject, models.Subject{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (t *TaxonomyPostgreSQL) FindOrCreateSection(ctx context.Context, subjectID uint, name string) (*models.Section, error) {
	var section models.Section
	err := t.db.WithContext(ctx).
		Where("subject_id = ? AND name = ?", subjectID, name).
		FirstOrCreate(&section, models.Section{SubjectID: subjectID, Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (t *TaxonomyPostgreSQL) FindOrCreateChapter(ctx context.Context, subjectID uint, name string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := t.db.WithContext(ctx).
		Where("subject_id = ? AND name = ?", subjectID, name).
		FirstOrCreate(&chapter, models.Chapter{SubjectID: subjectID, Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (t *TaxonomyPostgreSQL) FindOrCreateTopic(ctx context.Context, sectionID uint, name string) (*models.Topic, error) {
	var topic models.Topic
	err := t.db.WithContext(ctx).
		Where("section_id = ? AND name = ?", sectionID, name).
		FirstOrCreate(&topic, models.Topic{SectionID: sectionID, Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (t *TaxonomyPostgreSQL) FindOrCreateObjective(ctx context.Context, topicID uint, description string) (*models.Objective, error) {
	var objective models.Objective
	err := t.db.WithContext(ctx).
		Where("topic_id = ? AND description = ?", topicID, description).
		FirstOrCreate(&objective, models.Objective{TopicID: topicID, Description: description}).Error
	if err != nil {
		return nil, err
	}
	return &objective, nil
}
