package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/repositories"
)

// ErrGeneratorUnavailable is returned when quiz creation is requested but no
// question generator was configured.
var ErrGeneratorUnavailable = errors.New("question generation is not configured")

// PoolGenerator produces a question pool from job metadata. The concrete
// implementation calls an external text-generation service.
type PoolGenerator interface {
	GeneratePool(ctx context.Context, job *models.GenerateQuizRequest) (engine.Pool, error)
}

// QuizService orchestrates the adaptive quiz state machine over persistence.
// It holds no mutable state of its own; everything lives in the attempt rows.
type QuizService struct {
	repo      *repositories.QuizRepository
	generator PoolGenerator
	events    *EventPublisher
	logger    *zap.Logger
}

// NewQuizService wires the orchestrator. generator and events may be nil;
// quiz creation and event publishing degrade accordingly.
func NewQuizService(repo *repositories.QuizRepository, generator PoolGenerator, events *EventPublisher, logger *zap.Logger) *QuizService {
	return &QuizService{
		repo:      repo,
		generator: generator,
		events:    events,
		logger:    logger,
	}
}

// CreateQuiz generates a question pool for the job and stores the quiz.
// Fails with ErrQuizExists when the job already has one.
func (s *QuizService) CreateQuiz(ctx context.Context, jobID uint, req *models.GenerateQuizRequest) (*models.Quiz, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}

	pool, err := s.generator.GeneratePool(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("generated pool rejected: %w", err)
	}

	quiz := &models.Quiz{
		JobID:           jobID,
		StartDifficulty: req.StartDifficulty,
		PassingScore:    60,
		IsActive:        true,
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if err := quiz.SetPool(pool); err != nil {
		return nil, err
	}

	if err := s.repo.CreateQuiz(quiz); err != nil {
		return nil, err
	}

	s.logger.Info("Quiz created",
		zap.Uint("job_id", jobID),
		zap.Uint("quiz_id", quiz.ID),
		zap.Int("question_count", pool.Total()))
	return quiz, nil
}

// StartAttempt begins or resumes the caller's attempt. Starting a finished
// attempt is idempotent and returns the stored summary.
func (s *QuizService) StartAttempt(ctx context.Context, userID string, jobID uint) (*models.StepResponse, error) {
	var resp *models.StepResponse
	var completed *QuizCompletedEvent

	err := s.repo.Transaction(func(tx *repositories.QuizRepository) error {
		quiz, err := tx.GetActiveQuizByJobID(jobID)
		if err != nil {
			return err
		}
		attempt, err := tx.GetOrCreateAttempt(quiz, userID)
		if err != nil {
			return err
		}

		pool, err := quiz.Pool()
		if err != nil {
			return err
		}

		if attempt.Finished() {
			resp = s.finishedSummary(quiz, attempt, pool, "You have already attempted this quiz")
			return nil
		}

		state, err := attempt.State()
		if err != nil {
			return err
		}
		next, out, err := engine.Begin(state, pool, quiz.PassingScore)
		if err != nil {
			return err
		}
		resp, completed, err = s.commit(tx, quiz, attempt, next, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishIfCompleted(ctx, completed)
	return resp, nil
}

// ProcessStep grades one submission and serves the next question, all inside
// a single transaction so concurrent submissions for the same attempt cannot
// interleave; the loser fails validation on the stale ref instead.
func (s *QuizService) ProcessStep(ctx context.Context, userID string, jobID uint, req *models.StepRequest) (*models.StepResponse, error) {
	ref, err := engine.ParseRef(req.QuestionRef)
	if err != nil {
		return nil, &engine.ValidationError{Reason: err.Error()}
	}

	var resp *models.StepResponse
	var completed *QuizCompletedEvent

	err = s.repo.Transaction(func(tx *repositories.QuizRepository) error {
		quiz, err := tx.GetActiveQuizByJobID(jobID)
		if err != nil {
			return err
		}
		attempt, err := tx.GetAttempt(quiz.ID, userID)
		if err != nil {
			return err
		}
		if attempt.Finished() {
			return engine.ErrAttemptFinished
		}

		state, err := attempt.State()
		if err != nil {
			return err
		}
		pool, err := quiz.Pool()
		if err != nil {
			return err
		}

		next, out, err := engine.Step(state, pool, quiz.PassingScore, ref, *req.AnswerIndex)
		if err != nil {
			return err
		}
		resp, completed, err = s.commit(tx, quiz, attempt, next, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishIfCompleted(ctx, completed)
	return resp, nil
}

// GetResult returns the final summary of a finished attempt. An unfinished
// or missing attempt is reported as not found.
func (s *QuizService) GetResult(ctx context.Context, userID string, jobID uint) (*models.ResultResponse, error) {
	quiz, err := s.repo.GetActiveQuizByJobID(jobID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.repo.GetAttempt(quiz.ID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Finished() || attempt.Score == nil || attempt.Passed == nil {
		return nil, repositories.ErrAttemptNotFound
	}

	pool, err := quiz.Pool()
	if err != nil {
		return nil, err
	}
	state, err := attempt.State()
	if err != nil {
		return nil, err
	}

	return &models.ResultResponse{
		Score:          *attempt.Score,
		Passed:         *attempt.Passed,
		CompletedAt:    attempt.CompletedAt,
		TotalQuestions: engine.TargetQuizLength,
		CorrectAnswers: engine.CountCorrect(state, pool),
	}, nil
}

// commit persists the post-transition state and builds the response. The
// returned event is non-nil when this step finalized the attempt.
func (s *QuizService) commit(tx *repositories.QuizRepository, quiz *models.Quiz, attempt *models.QuizAttempt, state engine.State, out engine.Outcome) (*models.StepResponse, *QuizCompletedEvent, error) {
	if err := attempt.ApplyState(state); err != nil {
		return nil, nil, err
	}

	var completed *QuizCompletedEvent
	if out.Finished {
		now := time.Now()
		attempt.Score = &out.Score
		attempt.Passed = &out.Passed
		attempt.CompletedAt = &now
		completed = &QuizCompletedEvent{
			JobID:           quiz.JobID,
			QuizID:          quiz.ID,
			UserID:          attempt.UserID,
			Score:           out.Score,
			Passed:          out.Passed,
			CorrectAnswers:  out.CorrectAnswers,
			QuestionsServed: state.Served,
			CompletedAt:     now,
		}
	}

	if err := tx.SaveAttempt(attempt); err != nil {
		return nil, nil, err
	}

	if !out.Finished {
		return &models.StepResponse{
			Status: models.StatusInProgress,
			Question: &models.QuestionPayload{
				Ref:     out.Ref.String(),
				Text:    out.Question.Text,
				Options: out.Question.Options,
			},
		}, nil, nil
	}

	score, passed := out.Score, out.Passed
	served, correct := state.Served, out.CorrectAnswers
	return &models.StepResponse{
		Status:         models.StatusFinished,
		Message:        "Quiz completed",
		Score:          &score,
		Passed:         &passed,
		TotalQuestions: &served,
		CorrectAnswers: &correct,
	}, completed, nil
}

// finishedSummary rebuilds the finished payload for an idempotent re-start.
func (s *QuizService) finishedSummary(quiz *models.Quiz, attempt *models.QuizAttempt, pool engine.Pool, message string) *models.StepResponse {
	resp := &models.StepResponse{
		Status:         models.StatusFinished,
		Message:        message,
		Score:          attempt.Score,
		Passed:         attempt.Passed,
		TotalQuestions: &attempt.TotalQuestionsServed,
	}
	if state, err := attempt.State(); err == nil {
		correct := engine.CountCorrect(state, pool)
		resp.CorrectAnswers = &correct
	} else {
		s.logger.Warn("Failed to decode finished attempt state",
			zap.Uint("attempt_id", attempt.ID), zap.Error(err))
	}
	return resp
}

func (s *QuizService) publishIfCompleted(ctx context.Context, event *QuizCompletedEvent) {
	if event == nil || s.events == nil {
		return
	}
	s.events.PublishQuizCompleted(ctx, *event)
}
