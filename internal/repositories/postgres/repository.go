package postgres

import (
	"context"

	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/gorm"
)

// GormRepository bundles every entity repository over a single *gorm.DB.
// WithTransaction rebuilds the bundle on the transaction handle so callers
// keep the same Repository surface inside and outside a transaction.
type GormRepository struct {
	db *gorm.DB

	question     repositories.QuestionRepository
	exam         repositories.ExamRepository
	examQuestion repositories.ExamQuestionRepository
	answer       repositories.AnswerRepository
	taxonomy     repositories.TaxonomyRepository
	user         repositories.UserRepository
	weakArea     repositories.WeakAreaRepository
	notification repositories.NotificationRepository
	importJob    repositories.ImportJobRepository
}

func NewGormRepository(db *gorm.DB) repositories.Repository {
	return &GormRepository{
		db:           db,
		question:     NewQuestionPostgreSQL(db),
		exam:         NewExamPostgreSQL(db),
		examQuestion: NewExamQuestionPostgreSQL(db),
		answer:       NewAnswerPostgreSQL(db),
		taxonomy:     NewTaxonomyPostgreSQL(db),
		user:         NewUserPostgreSQL(db),
		weakArea:     NewWeakAreaPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
		importJob:    NewImportJobPostgreSQL(db),
	}
}

func (r *GormRepository) Question() repositories.QuestionRepository         { return r.question }
func (r *GormRepository) Exam() repositories.ExamRepository                 { return r.exam }
func (r *GormRepository) ExamQuestion() repositories.ExamQuestionRepository { return r.examQuestion }
func (r *GormRepository) Answer() repositories.AnswerRepository             { return r.answer }
func (r *GormRepository) Taxonomy() repositories.TaxonomyRepository         { return r.taxonomy }
func (r *GormRepository) User() repositories.UserRepository                 { return r.user }
func (r *GormRepository) WeakArea() repositories.WeakAreaRepository         { return r.weakArea }
func (r *GormRepository) Notification() repositories.NotificationRepository { return r.notification }
func (r *GormRepository) ImportJob() repositories.ImportJobRepository       { return r.importJob }

// WithTransaction executes fn inside a database transaction. The Repository
// passed to fn is bound to the transaction; any error from fn rolls back.
func (r *GormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepository(tx))
	})
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
