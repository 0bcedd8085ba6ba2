package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type ImportJobPostgreSQL struct {
	db *gorm.DB
}

func NewImportJobPostgreSQL(db *gorm.DB) repositories.ImportJobRepository {
	return &ImportJobPostgreSQL{db: db}
}

func (i *ImportJobPostgreSQL) Create(ctx context.Context, job *models.ImportJob) error {
	return i.db.WithContext(ctx).Create(job).Error
}

func (i *ImportJobPostgreSQL) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	var job models.ImportJob
	err := i.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (i *ImportJobPostgreSQL) Update(ctx context.Context, job *models.ImportJob) error {
	return i.db.WithContext(ctx).Save(job).Error
}

func (i *ImportJobPostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.ImportJob, error) {
	var jobs []*models.ImportJob
	query := i.db.WithContext(ctx).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}

	return jobs, nil
}
