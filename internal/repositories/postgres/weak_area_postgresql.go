package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type WeakAreaPostgreSQL struct {
	db *gorm.DB
}

func NewWeakAreaPostgreSQL(db *gorm.DB) repositories.WeakAreaRepository {
	return &WeakAreaPostgreSQL{db: db}
}

// ReplaceForUser swaps the user's weak-area rows for the given set in one
// transaction. The aggregator recomputes the full set from answer history, so
// stale rows never survive a recompute.
func (w *WeakAreaPostgreSQL) ReplaceForUser(ctx context.Context, userID uint, areas []*models.WeakArea) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.WeakArea{}).Error; err != nil {
			return err
		}
		if len(areas) == 0 {
			return nil
		}
		return tx.CreateInBatches(areas, 100).Error
	})
}

func (w *WeakAreaPostgreSQL) GetByUser(ctx context.Context, userID uint) ([]*models.WeakArea, error) {
	var areas []*models.WeakArea
	err := w.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Subject").
		Preload("Topic").
		Order("subject_id ASC, topic_id ASC").
		Find(&areas).Error

	if err != nil {
		return nil, err
	}

	return areas, nil
}

func (w *WeakAreaPostgreSQL) GetByUserAndSubject(ctx context.Context, userID, subjectID uint) ([]*models.WeakArea, error) {
	var areas []*models.WeakArea
	err := w.db.WithContext(ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Preload("Topic").
		Order("topic_id ASC").
		Find(&areas).Error

	if err != nil {
		return nil, err
	}

	return areas, nil
}
