package postgres

import (
	"context"
	"time"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetLatestExamDetail returns the user's most recent subject registration
func (u *UserPostgreSQL) GetLatestExamDetail(ctx context.Context, userID uint) (*models.ExamDetail, error) {
	var detail models.ExamDetail
	err := u.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&detail).Error

	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func (u *UserPostgreSQL) CreateExamDetail(ctx context.Context, detail *models.ExamDetail) error {
	return u.db.WithContext(ctx).Create(detail).Error
}

// GetActiveSubscription returns the user's current active subscription, or a
// not-found error when none is in force
func (u *UserPostgreSQL) GetActiveSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := u.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expires_at > ?",
			userID, models.SubscriptionActive, time.Now().UTC()).
		Order("expires_at DESC").
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}
