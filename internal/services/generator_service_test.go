package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGeneratorForTest(repo *MockRepository, notifier *MockNotificationService, cfg config.ExamConfig) GeneratorService {
	return NewGeneratorService(repo, testLogger(), utils.NewValidator(), notifier, cfg)
}

// examDetailWithSubjects builds an ExamDetail carrying the given subject IDs.
func examDetailWithSubjects(t *testing.T, userID uint, subjectIDs []uint) *models.ExamDetail {
	t.Helper()
	detail := &models.ExamDetail{ID: 1, UserID: userID}
	require.NoError(t, detail.SetSubjects(subjectIDs))
	return detail
}

// poolIDs returns n sequential question IDs offset per subject so pools never
// collide across subjects.
func poolIDs(subjectID uint, n int) []uint {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, subjectID*1000+uint(i)+1)
	}
	return ids
}

func questionsForIDs(ids []uint, subjectOf func(uint) uint) []*models.Question {
	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, &models.Question{
			ID:            id,
			Text:          "question",
			SubjectID:     subjectOf(id),
			CorrectOption: "A",
			Options: []models.QuestionOption{
				{Value: "A", Label: "first"},
				{Value: "B", Label: "second"},
			},
		})
	}
	return questions
}

func TestGeneratorService_Generate_FullExam(t *testing.T) {
	cfg := testExamConfig()
	subjectIDs := []uint{1, 2, 3, 4}
	userID := uint(7)

	mockRepo := newMockRepository()
	notifier := &MockNotificationService{}

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, userID).
		Return(examDetailWithSubjects(t, userID, subjectIDs), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, subjectIDs).
		Return([]*models.Subject{
			{ID: 1, Name: "Mathematics"},
			{ID: 2, Name: "English Language"},
			{ID: 3, Name: "Physics"},
			{ID: 4, Name: "Chemistry"},
		}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, userID).Return([]uint{}, nil)

	var allIDs []uint
	for _, subjectID := range subjectIDs {
		ids := poolIDs(subjectID, cfg.QuestionsPerSubject)
		allIDs = append(allIDs, ids...)
		mockRepo.questions.On("IDsBySubject", mock.Anything, subjectID).Return(ids, nil)
	}
	mockRepo.questions.On("GetByIDsWithOptions", mock.Anything, mock.Anything).
		Return(questionsForIDs(allIDs, func(id uint) uint { return id / 1000 }), nil)
	mockRepo.users.On("GetActiveSubscription", mock.Anything, userID).
		Return(nil, gorm.ErrRecordNotFound)

	mockRepo.exams.On("Create", mock.Anything, mock.AnythingOfType("*models.MockExam")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.MockExam).ID = 42
		}).Return(nil)
	mockRepo.examQuestions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []*models.MockExamQuestion) bool {
		return len(rows) == cfg.SubjectsPerExam*cfg.QuestionsPerSubject
	})).Return(nil)
	notifier.On("NotifyExamReady", mock.Anything, mock.Anything, subjectIDs, 160).Return(nil)

	service := newGeneratorForTest(mockRepo, notifier, cfg)
	resp, err := service.Generate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, uint(42), resp.ExamID)
	assert.Equal(t, 160, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 160)
	assert.Empty(t, resp.Shortfalls)
	assert.Zero(t, resp.Backfilled)
	assert.Equal(t, cfg.DurationMinutes, resp.DurationMinutes)
	assert.Equal(t, resp.StartTime.Add(90*time.Minute), resp.EndTime)

	// Exact subject quotas, unique questions, positions in order.
	perSubject := make(map[uint]int)
	seen := make(map[uint]bool)
	for i, q := range resp.Questions {
		perSubject[q.SubjectID]++
		assert.False(t, seen[q.QuestionID], "question %d repeated", q.QuestionID)
		seen[q.QuestionID] = true
		assert.Equal(t, i+1, q.Position)
		assert.NotEmpty(t, q.Options)
	}
	for _, subjectID := range subjectIDs {
		assert.Equal(t, cfg.QuestionsPerSubject, perSubject[subjectID], "subject %d quota", subjectID)
	}

	mockRepo.exams.AssertExpectations(t)
	mockRepo.examQuestions.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestGeneratorService_Generate_Concurrent(t *testing.T) {
	// Generate is called from concurrent HTTP requests; the sampler must not
	// share unsynchronized state across calls. Run with -race.
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 2
	cfg.QuestionsPerSubject = 5
	subjectIDs := []uint{1, 2}

	mockRepo := newMockRepository()
	notifier := &MockNotificationService{}

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, mock.Anything).
		Return(examDetailWithSubjects(t, 7, subjectIDs), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, subjectIDs).
		Return([]*models.Subject{
			{ID: 1, Name: "Mathematics"},
			{ID: 2, Name: "Physics"},
		}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, mock.Anything).Return([]uint{}, nil)

	var allIDs []uint
	for _, subjectID := range subjectIDs {
		ids := poolIDs(subjectID, 20)
		allIDs = append(allIDs, ids...)
		mockRepo.questions.On("IDsBySubject", mock.Anything, subjectID).Return(ids, nil)
	}
	mockRepo.questions.On("GetByIDsWithOptions", mock.Anything, mock.Anything).
		Return(questionsForIDs(allIDs, func(id uint) uint { return id / 1000 }), nil)
	mockRepo.users.On("GetActiveSubscription", mock.Anything, mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)
	mockRepo.exams.On("Create", mock.Anything, mock.AnythingOfType("*models.MockExam")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.MockExam).ID = 42
		}).Return(nil)
	mockRepo.examQuestions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyExamReady", mock.Anything, mock.Anything, subjectIDs, 10).Return(nil)

	service := newGeneratorForTest(mockRepo, notifier, cfg)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Generate(context.Background(), 7)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "generation %d", i)
	}
}

func TestGeneratorService_Generate_ShortfallBackfill(t *testing.T) {
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 2
	cfg.QuestionsPerSubject = 5
	subjectIDs := []uint{1, 2}
	userID := uint(3)

	mockRepo := newMockRepository()
	notifier := &MockNotificationService{}

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, userID).
		Return(examDetailWithSubjects(t, userID, subjectIDs), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, subjectIDs).
		Return([]*models.Subject{{ID: 1, Name: "Mathematics"}, {ID: 2, Name: "Biology"}}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, userID).Return([]uint{}, nil)

	// Subject 2 can only supply 2 of its 5-question quota.
	mockRepo.questions.On("IDsBySubject", mock.Anything, uint(1)).Return(poolIDs(1, 5), nil)
	mockRepo.questions.On("IDsBySubject", mock.Anything, uint(2)).Return(poolIDs(2, 2), nil)

	backfillPool := poolIDs(9, 4)
	mockRepo.questions.On("IDsExcluding", mock.Anything, mock.Anything).Return(backfillPool, nil)

	allIDs := append(append(poolIDs(1, 5), poolIDs(2, 2)...), backfillPool...)
	mockRepo.questions.On("GetByIDsWithOptions", mock.Anything, mock.Anything).
		Return(questionsForIDs(allIDs, func(id uint) uint { return id / 1000 }), nil)
	mockRepo.users.On("GetActiveSubscription", mock.Anything, userID).
		Return(nil, gorm.ErrRecordNotFound)

	mockRepo.exams.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockRepo.examQuestions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyExamReady", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := newGeneratorForTest(mockRepo, notifier, cfg)
	resp, err := service.Generate(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 10, resp.TotalQuestions)
	assert.Equal(t, 3, resp.Backfilled)
	require.Len(t, resp.Shortfalls, 1)
	assert.Equal(t, uint(2), resp.Shortfalls[0].SubjectID)
	assert.Equal(t, "Biology", resp.Shortfalls[0].SubjectName)
	assert.Equal(t, 5, resp.Shortfalls[0].Requested)
	assert.Equal(t, 2, resp.Shortfalls[0].Granted)
	assert.Equal(t, 3, resp.Shortfalls[0].Shortfall)
}

func TestGeneratorService_Generate_WrongSubjectCount(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.users.On("GetLatestExamDetail", mock.Anything, uint(1)).
		Return(examDetailWithSubjects(t, 1, []uint{1, 2, 3}), nil)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, testExamConfig())
	resp, err := service.Generate(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidSubjectCount)
}

func TestGeneratorService_Generate_NoExamDetail(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.users.On("GetLatestExamDetail", mock.Anything, uint(1)).
		Return(nil, gorm.ErrRecordNotFound)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, testExamConfig())
	resp, err := service.Generate(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrExamDetailNotFound)
}

func TestGeneratorService_Generate_EmptyPool(t *testing.T) {
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 1
	mockRepo := newMockRepository()

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, uint(1)).
		Return(examDetailWithSubjects(t, 1, []uint{1}), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, []uint{1}).
		Return([]*models.Subject{{ID: 1, Name: "Mathematics"}}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, uint(1)).Return([]uint{}, nil)
	mockRepo.questions.On("IDsBySubject", mock.Anything, uint(1)).Return([]uint{}, nil)
	mockRepo.questions.On("IDsExcluding", mock.Anything, mock.Anything).Return([]uint{}, nil)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, cfg)
	resp, err := service.Generate(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrQuestionPoolEmpty)
}

func TestGeneratorService_Generate_UnknownSubject(t *testing.T) {
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 2
	mockRepo := newMockRepository()

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, uint(1)).
		Return(examDetailWithSubjects(t, 1, []uint{1, 99}), nil)
	// Only one of the two registered subjects exists.
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, []uint{1, 99}).
		Return([]*models.Subject{{ID: 1, Name: "Mathematics"}}, nil)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, cfg)
	resp, err := service.Generate(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestGeneratorService_Generate_PrefersFreshQuestions(t *testing.T) {
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 1
	cfg.QuestionsPerSubject = 3
	userID := uint(5)

	mockRepo := newMockRepository()
	notifier := &MockNotificationService{}

	pool := poolIDs(1, 6)
	// The first three pool IDs were already served in earlier exams; with
	// exactly three fresh IDs left, the draw must take all of them.
	seen := pool[:3]
	fresh := pool[3:]

	mockRepo.users.On("GetLatestExamDetail", mock.Anything, userID).
		Return(examDetailWithSubjects(t, userID, []uint{1}), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, []uint{1}).
		Return([]*models.Subject{{ID: 1, Name: "Mathematics"}}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, userID).Return(seen, nil)
	mockRepo.questions.On("IDsBySubject", mock.Anything, uint(1)).Return(pool, nil)
	mockRepo.questions.On("GetByIDsWithOptions", mock.Anything, mock.Anything).
		Return(questionsForIDs(pool, func(id uint) uint { return 1 }), nil)
	mockRepo.users.On("GetActiveSubscription", mock.Anything, userID).
		Return(nil, gorm.ErrRecordNotFound)
	mockRepo.exams.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockRepo.examQuestions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyExamReady", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := newGeneratorForTest(mockRepo, notifier, cfg)
	resp, err := service.Generate(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)

	freshSet := make(map[uint]bool, len(fresh))
	for _, id := range fresh {
		freshSet[id] = true
	}
	for _, q := range resp.Questions {
		assert.True(t, freshSet[q.QuestionID], "question %d was already seen", q.QuestionID)
	}
}

func TestGeneratorService_Generate_LinksActiveSubscription(t *testing.T) {
	cfg := testExamConfig()
	cfg.SubjectsPerExam = 1
	cfg.QuestionsPerSubject = 2
	userID := uint(11)

	mockRepo := newMockRepository()
	notifier := &MockNotificationService{}

	pool := poolIDs(1, 2)
	mockRepo.users.On("GetLatestExamDetail", mock.Anything, userID).
		Return(examDetailWithSubjects(t, userID, []uint{1}), nil)
	mockRepo.taxonomy.On("GetSubjectsByIDs", mock.Anything, []uint{1}).
		Return([]*models.Subject{{ID: 1, Name: "Mathematics"}}, nil)
	mockRepo.examQuestions.On("QuestionIDsByUser", mock.Anything, userID).Return([]uint{}, nil)
	mockRepo.questions.On("IDsBySubject", mock.Anything, uint(1)).Return(pool, nil)
	mockRepo.questions.On("GetByIDsWithOptions", mock.Anything, mock.Anything).
		Return(questionsForIDs(pool, func(id uint) uint { return 1 }), nil)
	mockRepo.users.On("GetActiveSubscription", mock.Anything, userID).
		Return(&models.Subscription{ID: 88, UserID: userID, Status: models.SubscriptionActive}, nil)

	mockRepo.exams.On("Create", mock.Anything, mock.MatchedBy(func(exam *models.MockExam) bool {
		return exam.SubscriptionID != nil && *exam.SubscriptionID == 88
	})).Return(nil)
	mockRepo.examQuestions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyExamReady", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := newGeneratorForTest(mockRepo, notifier, cfg)
	_, err := service.Generate(context.Background(), userID)

	require.NoError(t, err)
	mockRepo.exams.AssertExpectations(t)
}

func TestGeneratorService_GetExam(t *testing.T) {
	mockRepo := newMockRepository()

	exam := &models.MockExam{ID: 5, UserID: 2}
	exam.EndTime = exam.StartTime.Add(90 * time.Minute)
	mockRepo.exams.On("GetByID", mock.Anything, uint(5)).Return(exam, nil)
	mockRepo.examQuestions.On("GetByExamWithQuestions", mock.Anything, uint(5)).
		Return([]*models.MockExamQuestion{
			{
				MockExamID: 5,
				QuestionID: 100,
				SubjectID:  1,
				Position:   1,
				Subject:    models.Subject{ID: 1, Name: "Mathematics"},
				Question: models.Question{
					ID:            100,
					Text:          "2 + 2?",
					SubjectID:     1,
					CorrectOption: "B",
					Options: []models.QuestionOption{
						{Value: "A", Label: "3"},
						{Value: "B", Label: "4"},
					},
				},
			},
		}, nil)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, testExamConfig())
	resp, err := service.GetExam(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalQuestions)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Mathematics", resp.Questions[0].SubjectName)
	assert.Len(t, resp.Questions[0].Options, 2)
}

func TestGeneratorService_GetExam_WrongUser(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.exams.On("GetByID", mock.Anything, uint(5)).
		Return(&models.MockExam{ID: 5, UserID: 2}, nil)

	service := newGeneratorForTest(mockRepo, &MockNotificationService{}, testExamConfig())
	resp, err := service.GetExam(context.Background(), 9, 5)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrExamAccessDenied)
}
