package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"github.com/examprep-ng/examprep-service/internal/utils"
)

// GeneratorService builds mock exams from the user's registered subjects
type GeneratorService interface {
	Generate(ctx context.Context, userID uint) (*GeneratedExamResponse, error)
	GetExam(ctx context.Context, userID, examID uint) (*GeneratedExamResponse, error)
}

type generatorService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	notifier  NotificationService
	cfg       config.ExamConfig
}

func NewGeneratorService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *utils.Validator,
	notifier NotificationService,
	cfg config.ExamConfig,
) GeneratorService {
	return &generatorService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// ===== DATA STRUCTURES =====

type GeneratedExamResponse struct {
	ExamID          uint                `json:"exam_id"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	DurationMinutes int                 `json:"duration_minutes"`
	TotalQuestions  int                 `json:"total_questions"`
	Questions       []GeneratedQuestion `json:"questions"`
	Shortfalls      []SubjectShortfall  `json:"shortfalls,omitempty"`
	Backfilled      int                 `json:"backfilled,omitempty"`
}

// GeneratedQuestion is the client-facing question view. The correct option is
// deliberately absent; grading happens server side.
type GeneratedQuestion struct {
	QuestionID  uint              `json:"question_id"`
	Position    int               `json:"position"`
	SubjectID   uint              `json:"subject_id"`
	SubjectName string            `json:"subject_name"`
	Text        string            `json:"text"`
	ImageURL    *string           `json:"image_url,omitempty"`
	Options     []GeneratedOption `json:"options"`
}

type GeneratedOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SubjectShortfall reports a subject whose pool could not fill its quota.
// The deficit is backfilled from the system-wide pool rather than dropped.
type SubjectShortfall struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Requested   int    `json:"requested"`
	Granted     int    `json:"granted"`
	Shortfall   int    `json:"shortfall"`
}

// ===== CORE OPERATIONS =====

// Generate assembles a full mock exam for the user: one quota of questions per
// registered subject, sampled without replacement, persisted atomically with
// the exam window.
func (s *generatorService) Generate(ctx context.Context, userID uint) (*GeneratedExamResponse, error) {
	s.logger.Info("Generating mock exam", "user_id", userID)

	detail, err := s.repo.User().GetLatestExamDetail(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamDetailNotFound
		}
		return nil, fmt.Errorf("failed to load exam detail: %w", err)
	}

	subjectIDs, err := detail.Subjects()
	if err != nil {
		return nil, fmt.Errorf("failed to decode registered subjects: %w", err)
	}
	if len(subjectIDs) != s.cfg.SubjectsPerExam {
		return nil, ErrInvalidSubjectCount
	}

	subjects, err := s.repo.Taxonomy().GetSubjectsByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	if len(subjects) != len(subjectIDs) {
		return nil, ErrSubjectNotFound
	}
	subjectNames := make(map[uint]string, len(subjects))
	for _, sub := range subjects {
		subjectNames[sub.ID] = sub.Name
	}

	// Questions the user has met in past exams; fresh questions are preferred
	// but repeats are allowed once the fresh pool runs out.
	seenIDs, err := s.repo.ExamQuestion().QuestionIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question history: %w", err)
	}
	seen := make(map[uint]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	selected := make([]uint, 0, s.cfg.SubjectsPerExam*s.cfg.QuestionsPerSubject)
	selectedSet := make(map[uint]bool)
	var shortfalls []SubjectShortfall

	for _, subjectID := range subjectIDs {
		pool, err := s.repo.Question().IDsBySubject(ctx, subjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load question pool for subject %d: %w", subjectID, err)
		}

		picked := s.samplePreferringFresh(pool, s.cfg.QuestionsPerSubject, seen, selectedSet)
		for _, id := range picked {
			selectedSet[id] = true
		}
		selected = append(selected, picked...)

		if len(picked) < s.cfg.QuestionsPerSubject {
			shortfalls = append(shortfalls, SubjectShortfall{
				SubjectID:   subjectID,
				SubjectName: subjectNames[subjectID],
				Requested:   s.cfg.QuestionsPerSubject,
				Granted:     len(picked),
				Shortfall:   s.cfg.QuestionsPerSubject - len(picked),
			})
		}
	}

	// Backfill subject deficits from whatever the rest of the bank offers.
	backfilled := 0
	wanted := s.cfg.SubjectsPerExam * s.cfg.QuestionsPerSubject
	if len(selected) < wanted {
		pool, err := s.repo.Question().IDsExcluding(ctx, selected)
		if err != nil {
			return nil, fmt.Errorf("failed to load backfill pool: %w", err)
		}
		extra := s.samplePreferringFresh(pool, wanted-len(selected), seen, selectedSet)
		for _, id := range extra {
			selectedSet[id] = true
		}
		selected = append(selected, extra...)
		backfilled = len(extra)
	}

	if len(selected) == 0 {
		return nil, ErrQuestionPoolEmpty
	}

	questions, err := s.repo.Question().GetByIDsWithOptions(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected questions: %w", err)
	}
	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	// Subscription linkage is best effort; free-tier users generate exams
	// without one.
	var subscriptionID *uint
	if sub, err := s.repo.User().GetActiveSubscription(ctx, userID); err == nil {
		subscriptionID = &sub.ID
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}

	now := time.Now().UTC()
	exam := &models.MockExam{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		StartTime:      now,
		EndTime:        now.Add(time.Duration(s.cfg.DurationMinutes) * time.Minute),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Create(ctx, exam); err != nil {
			return fmt.Errorf("failed to create mock exam: %w", err)
		}

		rows := make([]*models.MockExamQuestion, 0, len(selected))
		for i, questionID := range selected {
			question, ok := byID[questionID]
			if !ok {
				return fmt.Errorf("sampled question %d vanished from the bank", questionID)
			}
			rows = append(rows, &models.MockExamQuestion{
				MockExamID: exam.ID,
				QuestionID: questionID,
				SubjectID:  question.SubjectID,
				Position:   i + 1,
			})
		}

		if err := txRepo.ExamQuestion().CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("failed to snapshot exam questions: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	response := &GeneratedExamResponse{
		ExamID:          exam.ID,
		StartTime:       exam.StartTime,
		EndTime:         exam.EndTime,
		DurationMinutes: s.cfg.DurationMinutes,
		TotalQuestions:  len(selected),
		Shortfalls:      shortfalls,
		Backfilled:      backfilled,
	}
	for i, questionID := range selected {
		question := byID[questionID]
		response.Questions = append(response.Questions, s.toGeneratedQuestion(question, i+1, subjectNames))
	}

	if err := s.notifier.NotifyExamReady(ctx, exam, subjectIDs, len(selected)); err != nil {
		// Notification failure never voids a generated exam.
		s.logger.Warn("Failed to send exam-ready notification",
			"exam_id", exam.ID,
			"error", err)
	}

	s.logger.Info("Generated mock exam",
		"exam_id", exam.ID,
		"user_id", userID,
		"questions", len(selected),
		"backfilled", backfilled)

	return response, nil
}

// GetExam re-reads a generated exam, still hiding correct options
func (s *generatorService) GetExam(ctx context.Context, userID, examID uint) (*GeneratedExamResponse, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam.UserID != userID {
		return nil, ErrExamAccessDenied
	}

	rows, err := s.repo.ExamQuestion().GetByExamWithQuestions(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam questions: %w", err)
	}

	response := &GeneratedExamResponse{
		ExamID:          exam.ID,
		StartTime:       exam.StartTime,
		EndTime:         exam.EndTime,
		DurationMinutes: int(exam.EndTime.Sub(exam.StartTime).Minutes()),
		TotalQuestions:  len(rows),
	}
	for _, row := range rows {
		gq := s.toGeneratedQuestion(&row.Question, row.Position, nil)
		gq.SubjectID = row.SubjectID
		gq.SubjectName = row.Subject.Name
		response.Questions = append(response.Questions, gq)
	}

	return response, nil
}

// ===== HELPERS =====

// samplePreferringFresh draws up to n IDs from pool without replacement,
// preferring IDs absent from the user's history. Partial Fisher-Yates: each
// draw swaps a random remaining element to the front, so a short draw from a
// large pool never shuffles the whole slice.
func (s *generatorService) samplePreferringFresh(pool []uint, n int, seen, exclude map[uint]bool) []uint {
	var fresh, repeats []uint
	for _, id := range pool {
		if exclude[id] {
			continue
		}
		if seen[id] {
			repeats = append(repeats, id)
		} else {
			fresh = append(fresh, id)
		}
	}

	picked := s.sample(fresh, n)
	if len(picked) < n {
		picked = append(picked, s.sample(repeats, n-len(picked))...)
	}
	return picked
}

// sample uses the package-level rand source, which is safe for the concurrent
// Generate calls gin dispatches.
func (s *generatorService) sample(pool []uint, n int) []uint {
	if n >= len(pool) {
		out := make([]uint, len(pool))
		copy(out, pool)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	out := make([]uint, len(pool))
	copy(out, pool)
	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:n]
}

func (s *generatorService) toGeneratedQuestion(question *models.Question, position int, subjectNames map[uint]string) GeneratedQuestion {
	gq := GeneratedQuestion{
		QuestionID: question.ID,
		Position:   position,
		SubjectID:  question.SubjectID,
		Text:       question.Text,
		ImageURL:   question.ImageURL,
	}
	if subjectNames != nil {
		gq.SubjectName = subjectNames[question.SubjectID]
	}
	for _, opt := range question.Options {
		gq.Options = append(gq.Options, GeneratedOption{Value: opt.Value, Label: opt.Label})
	}
	return gq
}
