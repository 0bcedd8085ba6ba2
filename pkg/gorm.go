package pkg

import (
	"fmt"

	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every model the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ExamDetail{},
		&models.Subscription{},
		&models.Subject{},
		&models.Section{},
		&models.Chapter{},
		&models.Topic{},
		&models.Objective{},
		&models.Question{},
		&models.QuestionOption{},
		&models.MockExam{},
		&models.MockExamQuestion{},
		&models.UserExamAnswer{},
		&models.WeakArea{},
		&models.Notification{},
		&models.ImportJob{},
	)
}
