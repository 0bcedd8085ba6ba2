package services

import (
	"log/slog"

	"github.com/examprep-ng/examprep-service/internal/cache"
	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/events"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"github.com/examprep-ng/examprep-service/internal/utils"
)

// ServiceManager gives the handler layer one access point for all services
type ServiceManager interface {
	Generator() GeneratorService
	Answer() AnswerService
	Finalizer() FinalizerService
	Analytics() AnalyticsService
	Import() ImportService
	Notification() NotificationService
}

type serviceManager struct {
	generator    GeneratorService
	answer       AnswerService
	finalizer    FinalizerService
	analytics    AnalyticsService
	importSvc    ImportService
	notification NotificationService
}

func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *utils.Validator,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	cfg config.ExamConfig,
) ServiceManager {
	notification := NewNotificationService(repo, logger, publisher)
	analytics := NewAnalyticsService(repo, logger, cacheService, cfg)

	return &serviceManager{
		generator:    NewGeneratorService(repo, logger, validator, notification, cfg),
		answer:       NewAnswerService(repo, logger, validator),
		finalizer:    NewFinalizerService(repo, logger, analytics, notification),
		analytics:    analytics,
		importSvc:    NewImportService(repo, logger, validator, notification),
		notification: notification,
	}
}

func (m *serviceManager) Generator() GeneratorService       { return m.generator }
func (m *serviceManager) Answer() AnswerService             { return m.answer }
func (m *serviceManager) Finalizer() FinalizerService       { return m.finalizer }
func (m *serviceManager) Analytics() AnalyticsService       { return m.analytics }
func (m *serviceManager) Import() ImportService             { return m.importSvc }
func (m *serviceManager) Notification() NotificationService { return m.notification }
