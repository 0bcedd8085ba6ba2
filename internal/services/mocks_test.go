package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/examprep-ng/examprep-service/internal/cache"
	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// Shared test doubles for the service layer. Each sub-repository gets a
// testify mock; MockRepository bundles them behind the aggregate interface
// with a pass-through WithTransaction so transactional flows run against the
// same mocks.

// ===== QUESTION =====

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDWithOptions(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDsWithOptions(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) IDsBySubject(ctx context.Context, subjectID uint) ([]uint, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) IDsBySection(ctx context.Context, sectionID uint) ([]uint, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) IDsExcluding(ctx context.Context, excludeIDs []uint) ([]uint, error) {
	args := m.Called(ctx, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) ExistsByText(ctx context.Context, text string, subjectID uint) (bool, error) {
	args := m.Called(ctx, text, subjectID)
	return args.Bool(0), args.Error(1)
}

// ===== EXAM =====

type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.MockExam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.MockExam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MockExam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.MockExam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MockExam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.MockExam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.MockExam, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.MockExam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepository) GetByUser(ctx context.Context, userID uint, filters repositories.ExamFilters) ([]*models.MockExam, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.MockExam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepository) GetByUserWithDetails(ctx context.Context, userID uint) ([]*models.MockExam, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MockExam), args.Error(1)
}

func (m *MockExamRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamRepository) UpdateSummary(ctx context.Context, exam *models.MockExam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) BelongsToUser(ctx context.Context, examID, userID uint) (bool, error) {
	args := m.Called(ctx, examID, userID)
	return args.Bool(0), args.Error(1)
}

// ===== EXAM QUESTION =====

type MockExamQuestionRepository struct {
	mock.Mock
}

func (m *MockExamQuestionRepository) CreateBatch(ctx context.Context, rows []*models.MockExamQuestion) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockExamQuestionRepository) GetByExam(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MockExamQuestion), args.Error(1)
}

func (m *MockExamQuestionRepository) GetByExamWithQuestions(ctx context.Context, examID uint) ([]*models.MockExamQuestion, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MockExamQuestion), args.Error(1)
}

func (m *MockExamQuestionRepository) Exists(ctx context.Context, examID, questionID uint) (bool, error) {
	args := m.Called(ctx, examID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockExamQuestionRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamQuestionRepository) SubjectCounts(ctx context.Context, examID uint) (map[uint]int, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

func (m *MockExamQuestionRepository) QuestionIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// ===== ANSWER =====

type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(ctx context.Context, answer *models.UserExamAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.UserExamAnswer, error) {
	args := m.Called(ctx, examID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserExamAnswer), args.Error(1)
}

func (m *MockAnswerRepository) GetByExam(ctx context.Context, examID uint) ([]*models.UserExamAnswer, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserExamAnswer), args.Error(1)
}

func (m *MockAnswerRepository) GetByUser(ctx context.Context, userID uint) ([]*models.UserExamAnswer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserExamAnswer), args.Error(1)
}

func (m *MockAnswerRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswerRepository) CountCorrectByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswerRepository) TotalTimeByExam(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

// ===== TAXONOMY =====

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) GetSubjectByID(ctx context.Context, id uint) (*models.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockTaxonomyRepository) GetSubjectsByIDs(ctx context.Context, ids []uint) ([]*models.Subject, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

func (m *MockTaxonomyRepository) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

func (m *MockTaxonomyRepository) GetSectionByID(ctx context.Context, id uint) (*models.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockTaxonomyRepository) ListSectionsBySubject(ctx context.Context, subjectID uint) ([]*models.Section, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Section), args.Error(1)
}

func (m *MockTaxonomyRepository) GetTopicByID(ctx context.Context, id uint) (*models.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTaxonomyRepository) GetTopicsByIDs(ctx context.Context, ids []uint) ([]*models.Topic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTaxonomyRepository) ListTopicsBySection(ctx context.Context, sectionID uint) ([]*models.Topic, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTaxonomyRepository) GetObjectiveByID(ctx context.Context, id uint) (*models.Objective, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Objective), args.Error(1)
}

func (m *MockTaxonomyRepository) FindOrCreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockTaxonomyRepository) FindOrCreateSection(ctx context.Context, subjectID uint, name string) (*models.Section, error) {
	args := m.Called(ctx, subjectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockTaxonomyRepository) FindOrCreateChapter(ctx context.Context, subjectID uint, name string) (*models.Chapter, error) {
	args := m.Called(ctx, subjectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockTaxonomyRepository) FindOrCreateTopic(ctx context.Context, sectionID uint, name string) (*models.Topic, error) {
	args := m.Called(ctx, sectionID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTaxonomyRepository) FindOrCreateObjective(ctx context.Context, topicID uint, description string) (*models.Objective, error) {
	args := m.Called(ctx, topicID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Objective), args.Error(1)
}

// ===== USER =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetLatestExamDetail(ctx context.Context, userID uint) (*models.ExamDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamDetail), args.Error(1)
}

func (m *MockUserRepository) CreateExamDetail(ctx context.Context, detail *models.ExamDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockUserRepository) GetActiveSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

// ===== WEAK AREA =====

type MockWeakAreaRepository struct {
	mock.Mock
}

func (m *MockWeakAreaRepository) ReplaceForUser(ctx context.Context, userID uint, areas []*models.WeakArea) error {
	args := m.Called(ctx, userID, areas)
	return args.Error(0)
}

func (m *MockWeakAreaRepository) GetByUser(ctx context.Context, userID uint) ([]*models.WeakArea, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeakArea), args.Error(1)
}

func (m *MockWeakAreaRepository) GetByUserAndSubject(ctx context.Context, userID, subjectID uint) ([]*models.WeakArea, error) {
	args := m.Called(ctx, userID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeakArea), args.Error(1)
}

// ===== NOTIFICATION =====

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// ===== IMPORT JOB =====

type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) Update(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) List(ctx context.Context, limit, offset int) ([]*models.ImportJob, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ImportJob), args.Error(1)
}

// ===== AGGREGATE =====

// MockRepository bundles the sub-repository mocks. WithTransaction runs the
// closure against the same bundle, so transactional code paths exercise the
// same expectations as direct ones.
type MockRepository struct {
	questions     *MockQuestionRepository
	exams         *MockExamRepository
	examQuestions *MockExamQuestionRepository
	answers       *MockAnswerRepository
	taxonomy      *MockTaxonomyRepository
	users         *MockUserRepository
	weakAreas     *MockWeakAreaRepository
	notifications *MockNotificationRepository
	importJobs    *MockImportJobRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		questions:     &MockQuestionRepository{},
		exams:         &MockExamRepository{},
		examQuestions: &MockExamQuestionRepository{},
		answers:       &MockAnswerRepository{},
		taxonomy:      &MockTaxonomyRepository{},
		users:         &MockUserRepository{},
		weakAreas:     &MockWeakAreaRepository{},
		notifications: &MockNotificationRepository{},
		importJobs:    &MockImportJobRepository{},
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository         { return m.questions }
func (m *MockRepository) Exam() repositories.ExamRepository                 { return m.exams }
func (m *MockRepository) ExamQuestion() repositories.ExamQuestionRepository { return m.examQuestions }
func (m *MockRepository) Answer() repositories.AnswerRepository             { return m.answers }
func (m *MockRepository) Taxonomy() repositories.TaxonomyRepository         { return m.taxonomy }
func (m *MockRepository) User() repositories.UserRepository                 { return m.users }
func (m *MockRepository) WeakArea() repositories.WeakAreaRepository         { return m.weakAreas }
func (m *MockRepository) Notification() repositories.NotificationRepository { return m.notifications }
func (m *MockRepository) ImportJob() repositories.ImportJobRepository       { return m.importJobs }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== SERVICE MOCKS =====

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyExamReady(ctx context.Context, exam *models.MockExam, subjectIDs []uint, questionCount int) error {
	args := m.Called(ctx, exam, subjectIDs, questionCount)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyResultAvailable(ctx context.Context, exam *models.MockExam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyWeakAreas(ctx context.Context, userID uint, areas []*models.WeakArea) error {
	args := m.Called(ctx, userID, areas)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyImportCompleted(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetExamStatistics(ctx context.Context, userID uint) (*ExamStatistics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExamStatistics), args.Error(1)
}

func (m *MockAnalyticsService) GetTopicBreakdown(ctx context.Context, userID, examID uint) ([]TopicBreakdownRow, error) {
	args := m.Called(ctx, userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TopicBreakdownRow), args.Error(1)
}

func (m *MockAnalyticsService) GetMockExamsWithScores(ctx context.Context, userID uint) ([]MockExamWithScores, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MockExamWithScores), args.Error(1)
}

func (m *MockAnalyticsService) GetOverallSubjectAnalysis(ctx context.Context, userID uint) ([]SubjectAnalysis, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SubjectAnalysis), args.Error(1)
}

func (m *MockAnalyticsService) GetSubjectsPerformance(ctx context.Context, userID uint) (*SubjectsPerformance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubjectsPerformance), args.Error(1)
}

func (m *MockAnalyticsService) GetWeakAreas(ctx context.Context, userID uint) ([]WeakAreaView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WeakAreaView), args.Error(1)
}

func (m *MockAnalyticsService) RefreshWeakAreas(ctx context.Context, userID uint) ([]*models.WeakArea, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeakArea), args.Error(1)
}

func (m *MockAnalyticsService) InvalidateUserCache(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// ===== CACHE STUB =====

// stubCache is an in-memory CacheService with real hit/miss semantics so
// analytics tests can assert caching behavior without redis.
type stubCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *stubCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	return nil
}

// ===== HELPERS =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testExamConfig() config.ExamConfig {
	return config.ExamConfig{
		SubjectsPerExam:     4,
		QuestionsPerSubject: 40,
		DurationMinutes:     90,
		WeakAreaThreshold:   40,
		MaxAverageScore:     400,
	}
}

func stringPtr(s string) *string { return &s }
