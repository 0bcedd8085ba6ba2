package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/examprep-ng/examprep-service/internal/cache"
	"github.com/examprep-ng/examprep-service/internal/config"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
)

// AnalyticsService provides cross-exam performance views for one user. All
// views are read-only; nothing here mutates exam or answer rows. The weak-area
// store is the one exception, refreshed as a derived read model.
type AnalyticsService interface {
	GetExamStatistics(ctx context.Context, userID uint) (*ExamStatistics, error)
	GetTopicBreakdown(ctx context.Context, userID, examID uint) ([]TopicBreakdownRow, error)
	GetMockExamsWithScores(ctx context.Context, userID uint) ([]MockExamWithScores, error)
	GetOverallSubjectAnalysis(ctx context.Context, userID uint) ([]SubjectAnalysis, error)
	GetSubjectsPerformance(ctx context.Context, userID uint) (*SubjectsPerformance, error)
	GetWeakAreas(ctx context.Context, userID uint) ([]WeakAreaView, error)

	RefreshWeakAreas(ctx context.Context, userID uint) ([]*models.WeakArea, error)
	InvalidateUserCache(ctx context.Context, userID uint) error
}

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  cache.CacheService
	cfg    config.ExamConfig
}

func NewAnalyticsService(
	repo repositories.Repository,
	logger *slog.Logger,
	cacheService cache.CacheService,
	cfg config.ExamConfig,
) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
		cache:  cacheService,
		cfg:    cfg,
	}
}

const statsCacheTTL = 5 * time.Minute

// ===== DATA STRUCTURES =====

// ExamStatistics aggregates across every finalized exam of the user.
// AverageScore is the mean raw correct-answer count per exam on the 0-400
// national scale; Score-type percentages live on the per-subject views. The
// two scales are deliberately separate fields.
type ExamStatistics struct {
	TotalExams         int     `json:"total_exams"`
	AverageScore       float64 `json:"average_score"` // raw correct per exam, capped at 400
	TotalQuestions     int     `json:"total_questions"`
	AnsweredQuestions  int     `json:"answered_questions"`
	CorrectAnswers     int     `json:"correct_answers"`
	SkippedQuestions   int     `json:"skipped_questions"`
	AvgTimePerExam     float64 `json:"avg_time_per_exam"`     // seconds
	AvgTimePerQuestion float64 `json:"avg_time_per_question"` // seconds
}

type TopicBreakdownRow struct {
	SubjectID     uint   `json:"subject_id"`
	SubjectName   string `json:"subject_name"`
	TopicID       uint   `json:"topic_id"`
	TopicName     string `json:"topic_name"`
	QuestionCount int    `json:"question_count"`
	CorrectCount  int    `json:"correct_count"`
}

type SubjectScore struct {
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Correct     int     `json:"correct"`
	Attempted   int     `json:"attempted"`
	Skipped     int     `json:"skipped"`
	Score       float64 `json:"score"` // percent, 0-100
}

type MockExamWithScores struct {
	ExamID           uint                `json:"exam_id"`
	StartTime        time.Time           `json:"start_time"`
	EndTime          time.Time           `json:"end_time"`
	Status           *models.ExamStatus  `json:"status"`
	TotalScore       float64             `json:"total_score"` // percent, 0-100
	TimeSpentMinutes float64             `json:"time_spent_minutes"`
	SubjectScores    []SubjectScore      `json:"subject_scores"`
	TopicBreakdown   []TopicBreakdownRow `json:"topic_breakdown"`
}

type SubjectAnalysis struct {
	SubjectID          uint    `json:"subject_id"`
	SubjectName        string  `json:"subject_name"`
	ExamsAttempted     int     `json:"exams_attempted"`
	AverageScore       float64 `json:"average_score"` // percent, 0-100
	TotalQuestions     int     `json:"total_questions"`
	CorrectAnswers     int     `json:"correct_answers"`
	AttemptedQuestions int     `json:"attempted_questions"`
	AvgTimePerExam     float64 `json:"avg_time_per_exam"`     // seconds, this subject's share
	AvgTimePerQuestion float64 `json:"avg_time_per_question"` // seconds
}

type SubjectsPerformance struct {
	StrongSubject *SubjectAnalysis `json:"strong_subject"`
	WeakSubject   *SubjectAnalysis `json:"weak_subject"`
}

type WeakAreaView struct {
	SubjectID      uint    `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	TopicID        uint    `json:"topic_id"`
	TopicName      string  `json:"topic_name"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"` // percent
}

// ===== VIEWS =====

// GetExamStatistics aggregates all finalized exams. A user with no exams gets
// a zero-valued result, not an error.
func (s *analyticsService) GetExamStatistics(ctx context.Context, userID uint) (*ExamStatistics, error) {
	cacheKey := statsCacheKey(userID)
	var cached ExamStatistics
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Analytics cache read failed", "key", cacheKey, "error", err)
	}

	exams, err := s.finalizedExams(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ExamStatistics{}
	if len(exams) == 0 {
		return stats, nil
	}

	var rawScoreSum, timeSum float64
	for _, exam := range exams {
		stats.TotalExams++
		stats.TotalQuestions += derefInt(exam.TotalQuestions)
		stats.AnsweredQuestions += derefInt(exam.AnsweredQuestions)
		stats.CorrectAnswers += derefInt(exam.CorrectAnswers)

		rawScoreSum += float64(derefInt(exam.CorrectAnswers))
		if exam.AverageTimePerExam != nil {
			timeSum += *exam.AverageTimePerExam
		}
	}
	stats.SkippedQuestions = stats.TotalQuestions - stats.AnsweredQuestions

	stats.AverageScore = rawScoreSum / float64(stats.TotalExams)
	if max := float64(s.cfg.MaxAverageScore); stats.AverageScore > max {
		stats.AverageScore = max
	}
	stats.AvgTimePerExam = timeSum / float64(stats.TotalExams)
	if stats.TotalQuestions > 0 {
		stats.AvgTimePerQuestion = timeSum / float64(stats.TotalQuestions)
	}

	if err := s.cache.Set(ctx, cacheKey, stats, statsCacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", "key", cacheKey, "error", err)
	}

	return stats, nil
}

// GetTopicBreakdown groups one exam's questions by subject then topic
func (s *analyticsService) GetTopicBreakdown(ctx context.Context, userID, examID uint) ([]TopicBreakdownRow, error) {
	exam, err := s.repo.Exam().GetByIDWithDetails(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam.UserID != userID {
		return nil, ErrExamAccessDenied
	}

	subjectNames, err := s.subjectNamesForExams(ctx, []*models.MockExam{exam})
	if err != nil {
		return nil, err
	}

	return s.topicBreakdown(exam, subjectNames), nil
}

// GetMockExamsWithScores returns one enriched row per finalized exam
func (s *analyticsService) GetMockExamsWithScores(ctx context.Context, userID uint) ([]MockExamWithScores, error) {
	exams, err := s.finalizedExams(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjectNames, err := s.subjectNamesForExams(ctx, exams)
	if err != nil {
		return nil, err
	}

	out := make([]MockExamWithScores, 0, len(exams))
	for _, exam := range exams {
		row := MockExamWithScores{
			ExamID:         exam.ID,
			StartTime:      exam.StartTime,
			EndTime:        exam.EndTime,
			Status:         exam.Status,
			SubjectScores:  s.subjectScores(exam, subjectNames),
			TopicBreakdown: s.topicBreakdown(exam, subjectNames),
		}
		if exam.Score != nil {
			row.TotalScore = *exam.Score
		}
		if exam.AverageTimePerExam != nil {
			row.TimeSpentMinutes = *exam.AverageTimePerExam / 60
		}
		out = append(out, row)
	}

	return out, nil
}

// GetOverallSubjectAnalysis averages per-subject performance across all exams.
// Per-subject time is each exam's recorded time split evenly across the
// subjects attempted in that exam.
func (s *analyticsService) GetOverallSubjectAnalysis(ctx context.Context, userID uint) ([]SubjectAnalysis, error) {
	cacheKey := subjectsCacheKey(userID)
	var cached []SubjectAnalysis
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Analytics cache read failed", "key", cacheKey, "error", err)
	}

	exams, err := s.finalizedExams(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjectNames, err := s.subjectNamesForExams(ctx, exams)
	if err != nil {
		return nil, err
	}

	type acc struct {
		scoreSum  float64
		timeSum   float64
		exams     int
		total     int
		correct   int
		attempted int
	}
	accs := make(map[uint]*acc)
	var order []uint

	for _, exam := range exams {
		scores := s.subjectScores(exam, subjectNames)
		if len(scores) == 0 {
			continue
		}

		examTime := 0.0
		if exam.AverageTimePerExam != nil {
			examTime = *exam.AverageTimePerExam
		}
		perSubjectTime := examTime / float64(len(scores))

		for _, sc := range scores {
			a, ok := accs[sc.SubjectID]
			if !ok {
				a = &acc{}
				accs[sc.SubjectID] = a
				order = append(order, sc.SubjectID)
			}
			a.scoreSum += sc.Score
			a.timeSum += perSubjectTime
			a.exams++
			a.total += sc.Attempted + sc.Skipped
			a.correct += sc.Correct
			a.attempted += sc.Attempted
		}
	}

	out := make([]SubjectAnalysis, 0, len(order))
	for _, subjectID := range order {
		a := accs[subjectID]
		sa := SubjectAnalysis{
			SubjectID:          subjectID,
			SubjectName:        subjectNames[subjectID],
			ExamsAttempted:     a.exams,
			AverageScore:       a.scoreSum / float64(a.exams),
			TotalQuestions:     a.total,
			CorrectAnswers:     a.correct,
			AttemptedQuestions: a.attempted,
			AvgTimePerExam:     a.timeSum / float64(a.exams),
		}
		if a.total > 0 {
			sa.AvgTimePerQuestion = a.timeSum / float64(a.total)
		}
		out = append(out, sa)
	}

	if err := s.cache.Set(ctx, cacheKey, out, statsCacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", "key", cacheKey, "error", err)
	}

	return out, nil
}

// GetSubjectsPerformance picks the strongest and weakest subject by average
// score. Ties keep the first subject encountered.
func (s *analyticsService) GetSubjectsPerformance(ctx context.Context, userID uint) (*SubjectsPerformance, error) {
	analysis, err := s.GetOverallSubjectAnalysis(ctx, userID)
	if err != nil {
		return nil, err
	}

	perf := &SubjectsPerformance{}
	for i := range analysis {
		sa := analysis[i]
		if perf.StrongSubject == nil || sa.AverageScore > perf.StrongSubject.AverageScore {
			perf.StrongSubject = &sa
		}
		if perf.WeakSubject == nil || sa.AverageScore < perf.WeakSubject.AverageScore {
			perf.WeakSubject = &sa
		}
	}

	return perf, nil
}

// GetWeakAreas recomputes the weak-area store from exam data, then reads it
// back with taxonomy names. Replacement semantics mean repeat calls never
// inflate the counters.
func (s *analyticsService) GetWeakAreas(ctx context.Context, userID uint) ([]WeakAreaView, error) {
	if _, err := s.RefreshWeakAreas(ctx, userID); err != nil {
		return nil, err
	}

	areas, err := s.repo.WeakArea().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read weak areas: %w", err)
	}

	out := make([]WeakAreaView, 0, len(areas))
	for _, area := range areas {
		out = append(out, WeakAreaView{
			SubjectID:      area.SubjectID,
			SubjectName:    area.Subject.Name,
			TopicID:        area.TopicID,
			TopicName:      area.Topic.Name,
			TotalQuestions: area.TotalQuestions,
			CorrectAnswers: area.CorrectAnswers,
			Accuracy:       area.Accuracy(),
		})
	}

	return out, nil
}

// RefreshWeakAreas rebuilds the user's weak-area rows: per (subject, topic)
// totals across all finalized exams, keeping pairs under the accuracy
// threshold. The previous row set is replaced wholesale.
func (s *analyticsService) RefreshWeakAreas(ctx context.Context, userID uint) ([]*models.WeakArea, error) {
	exams, err := s.finalizedExams(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct{ subjectID, topicID uint }
	type tally struct{ total, correct int }
	tallies := make(map[key]*tally)

	for _, exam := range exams {
		answered := answersByQuestion(exam.Answers)
		for _, eq := range exam.Questions {
			k := key{subjectID: eq.SubjectID, topicID: eq.Question.TopicID}
			t, ok := tallies[k]
			if !ok {
				t = &tally{}
				tallies[k] = t
			}
			t.total++
			if a, ok := answered[eq.QuestionID]; ok && a.IsCorrect {
				t.correct++
			}
		}
	}

	var areas []*models.WeakArea
	for k, t := range tallies {
		accuracy := float64(t.correct) / float64(t.total) * 100
		if accuracy < s.cfg.WeakAreaThreshold {
			areas = append(areas, &models.WeakArea{
				UserID:         userID,
				SubjectID:      k.subjectID,
				TopicID:        k.topicID,
				TotalQuestions: t.total,
				CorrectAnswers: t.correct,
			})
		}
	}

	if err := s.repo.WeakArea().ReplaceForUser(ctx, userID, areas); err != nil {
		return nil, fmt.Errorf("failed to replace weak areas: %w", err)
	}

	return areas, nil
}

// InvalidateUserCache drops the user's cached analytics views
func (s *analyticsService) InvalidateUserCache(ctx context.Context, userID uint) error {
	return s.cache.DeletePattern(ctx, fmt.Sprintf("analytics:%d:*", userID))
}

// ===== HELPERS =====

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("analytics:%d:stats", userID)
}

func subjectsCacheKey(userID uint) string {
	return fmt.Sprintf("analytics:%d:subjects", userID)
}

func (s *analyticsService) finalizedExams(ctx context.Context, userID uint) ([]*models.MockExam, error) {
	exams, err := s.repo.Exam().GetByUserWithDetails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}
	return exams, nil
}

func (s *analyticsService) subjectNamesForExams(ctx context.Context, exams []*models.MockExam) (map[uint]string, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, exam := range exams {
		for _, eq := range exam.Questions {
			if !seen[eq.SubjectID] {
				seen[eq.SubjectID] = true
				ids = append(ids, eq.SubjectID)
			}
		}
	}

	subjects, err := s.repo.Taxonomy().GetSubjectsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject names: %w", err)
	}

	names := make(map[uint]string, len(subjects))
	for _, sub := range subjects {
		names[sub.ID] = sub.Name
	}
	return names, nil
}

// subjectScores grades one exam per subject from its snapshot and answers
func (s *analyticsService) subjectScores(exam *models.MockExam, subjectNames map[uint]string) []SubjectScore {
	answered := answersByQuestion(exam.Answers)

	type tally struct{ total, correct, attempted int }
	tallies := make(map[uint]*tally)
	var order []uint

	for _, eq := range exam.Questions {
		t, ok := tallies[eq.SubjectID]
		if !ok {
			t = &tally{}
			tallies[eq.SubjectID] = t
			order = append(order, eq.SubjectID)
		}
		t.total++
		if a, ok := answered[eq.QuestionID]; ok && !a.Skipped() {
			t.attempted++
			if a.IsCorrect {
				t.correct++
			}
		}
	}

	out := make([]SubjectScore, 0, len(order))
	for _, subjectID := range order {
		t := tallies[subjectID]
		sc := SubjectScore{
			SubjectID:   subjectID,
			SubjectName: subjectNames[subjectID],
			Correct:     t.correct,
			Attempted:   t.attempted,
			Skipped:     t.total - t.attempted,
		}
		if t.total > 0 {
			sc.Score = float64(t.correct) / float64(t.total) * 100
		}
		out = append(out, sc)
	}
	return out
}

func (s *analyticsService) topicBreakdown(exam *models.MockExam, subjectNames map[uint]string) []TopicBreakdownRow {
	answered := answersByQuestion(exam.Answers)

	type key struct{ subjectID, topicID uint }
	rows := make(map[key]*TopicBreakdownRow)
	var order []key

	for _, eq := range exam.Questions {
		k := key{subjectID: eq.SubjectID, topicID: eq.Question.TopicID}
		row, ok := rows[k]
		if !ok {
			row = &TopicBreakdownRow{
				SubjectID:   eq.SubjectID,
				SubjectName: subjectNames[eq.SubjectID],
				TopicID:     eq.Question.TopicID,
				TopicName:   eq.Question.Topic.Name,
			}
			rows[k] = row
			order = append(order, k)
		}
		row.QuestionCount++
		if a, ok := answered[eq.QuestionID]; ok && a.IsCorrect {
			row.CorrectCount++
		}
	}

	out := make([]TopicBreakdownRow, 0, len(order))
	for _, k := range order {
		out = append(out, *rows[k])
	}
	return out
}

func answersByQuestion(answers []models.UserExamAnswer) map[uint]*models.UserExamAnswer {
	byQuestion := make(map[uint]*models.UserExamAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}
	return byQuestion
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
