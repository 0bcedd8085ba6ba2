package repositories

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/models"
)

// NotificationRepository interface for persisted notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	CountUnreadByUser(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}
