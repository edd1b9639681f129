package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/repositories"
	"github.com/Wafi-Ahmad/Hirehub/internal/testhelpers"
)

type stubGenerator struct {
	pool engine.Pool
	err  error
}

func (g *stubGenerator) GeneratePool(_ context.Context, _ *models.GenerateQuizRequest) (engine.Pool, error) {
	return g.pool, g.err
}

// fullPool has five questions per tier, correct option always 0.
func fullPool() engine.Pool {
	pool := engine.Pool{}
	for d := engine.Easy; d <= engine.Hard; d++ {
		for i := 1; i <= 5; i++ {
			pool[d] = append(pool[d], engine.Question{
				ID:            i,
				Text:          fmt.Sprintf("%s question %d", d, i),
				Options:       []string{"right", "wrong", "wrong", "wrong"},
				CorrectOption: 0,
			})
		}
	}
	return pool
}

// smallPool exhausts after three questions so attempts finalize early.
func smallPool() engine.Pool {
	return engine.Pool{
		engine.Easy:   {{ID: 1, Text: "e1", Options: []string{"right", "w", "w", "w"}, CorrectOption: 0}},
		engine.Medium: {{ID: 1, Text: "m1", Options: []string{"right", "w", "w", "w"}, CorrectOption: 0}},
		engine.Hard:   {{ID: 1, Text: "h1", Options: []string{"right", "w", "w", "w"}, CorrectOption: 0}},
	}
}

func newService(t *testing.T, generator PoolGenerator) (*QuizService, *repositories.QuizRepository) {
	t.Helper()
	repo := &repositories.QuizRepository{DB: testhelpers.SetupTestDB(t)}
	return NewQuizService(repo, generator, nil, zap.NewNop()), repo
}

func seedQuiz(t *testing.T, repo *repositories.QuizRepository, jobID uint, pool engine.Pool, passingScore int) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{
		JobID:           jobID,
		StartDifficulty: "medium",
		PassingScore:    passingScore,
		IsActive:        true,
	}
	require.NoError(t, quiz.SetPool(pool))
	require.NoError(t, repo.CreateQuiz(quiz))
	return quiz
}

// stepAnswer submits one answer for the currently served question. correct
// picks the right option (always index 0 in the test pools), otherwise a
// wrong one.
func stepAnswer(t *testing.T, svc *QuizService, userID string, jobID uint, ref string, correct bool) *models.StepResponse {
	t.Helper()
	answer := 0
	if !correct {
		answer = 1
	}
	resp, err := svc.ProcessStep(context.Background(), userID, jobID, &models.StepRequest{
		QuestionRef: ref,
		AnswerIndex: &answer,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateQuiz(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := newService(t, &stubGenerator{pool: fullPool()})
		quiz, err := svc.CreateQuiz(context.Background(), 1, &models.GenerateQuizRequest{
			Title:           "Backend Engineer",
			Description:     "Go services",
			StartDifficulty: "medium",
		})
		require.NoError(t, err)
		assert.NotZero(t, quiz.ID)
		assert.Equal(t, 60, quiz.PassingScore)

		pool, err := quiz.Pool()
		require.NoError(t, err)
		assert.Equal(t, 15, pool.Total())
	})

	t.Run("custom passing score", func(t *testing.T) {
		svc, _ := newService(t, &stubGenerator{pool: fullPool()})
		passing := 80
		quiz, err := svc.CreateQuiz(context.Background(), 1, &models.GenerateQuizRequest{
			Title:           "Backend Engineer",
			Description:     "Go services",
			PassingScore:    &passing,
			StartDifficulty: "medium",
		})
		require.NoError(t, err)
		assert.Equal(t, 80, quiz.PassingScore)
	})

	t.Run("duplicate job", func(t *testing.T) {
		svc, _ := newService(t, &stubGenerator{pool: fullPool()})
		req := &models.GenerateQuizRequest{Title: "t", Description: "d", StartDifficulty: "medium"}
		_, err := svc.CreateQuiz(context.Background(), 1, req)
		require.NoError(t, err)
		_, err = svc.CreateQuiz(context.Background(), 1, req)
		assert.ErrorIs(t, err, repositories.ErrQuizExists)
	})

	t.Run("no generator configured", func(t *testing.T) {
		svc, _ := newService(t, nil)
		_, err := svc.CreateQuiz(context.Background(), 1, &models.GenerateQuizRequest{Title: "t", Description: "d"})
		assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	})

	t.Run("generator failure surfaces", func(t *testing.T) {
		boom := errors.New("model timed out")
		svc, _ := newService(t, &stubGenerator{err: boom})
		_, err := svc.CreateQuiz(context.Background(), 1, &models.GenerateQuizRequest{Title: "t", Description: "d"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("undersized pool rejected", func(t *testing.T) {
		svc, _ := newService(t, &stubGenerator{pool: smallPool()})
		_, err := svc.CreateQuiz(context.Background(), 1, &models.GenerateQuizRequest{Title: "t", Description: "d"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generated pool rejected")
	})
}

func TestStartAttempt(t *testing.T) {
	t.Run("serves first question at start difficulty", func(t *testing.T) {
		svc, repo := newService(t, nil)
		seedQuiz(t, repo, 1, fullPool(), 60)

		resp, err := svc.StartAttempt(context.Background(), "user-1", 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, resp.Status)
		require.NotNil(t, resp.Question)

		ref, err := engine.ParseRef(resp.Question.Ref)
		require.NoError(t, err)
		assert.Equal(t, engine.Medium, ref.Difficulty)
		assert.Len(t, resp.Question.Options, engine.OptionsPerQuestion)
	})

	t.Run("resume re-serves the pending question", func(t *testing.T) {
		svc, repo := newService(t, nil)
		seedQuiz(t, repo, 1, fullPool(), 60)

		first, err := svc.StartAttempt(context.Background(), "user-1", 1)
		require.NoError(t, err)
		second, err := svc.StartAttempt(context.Background(), "user-1", 1)
		require.NoError(t, err)
		assert.Equal(t, first.Question.Ref, second.Question.Ref)
	})

	t.Run("quiz not found", func(t *testing.T) {
		svc, _ := newService(t, nil)
		_, err := svc.StartAttempt(context.Background(), "user-1", 42)
		assert.ErrorIs(t, err, repositories.ErrQuizNotFound)
	})
}

func TestFullAttemptFlow(t *testing.T) {
	svc, repo := newService(t, nil)
	seedQuiz(t, repo, 1, fullPool(), 60)

	resp, err := svc.StartAttempt(context.Background(), "user-1", 1)
	require.NoError(t, err)

	for i := 0; i < engine.TargetQuizLength; i++ {
		require.Equal(t, models.StatusInProgress, resp.Status, "step %d", i)
		resp = stepAnswer(t, svc, "user-1", 1, resp.Question.Ref, true)
	}

	require.Equal(t, models.StatusFinished, resp.Status)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 100, *resp.Score)
	require.NotNil(t, resp.Passed)
	assert.True(t, *resp.Passed)
	require.NotNil(t, resp.TotalQuestions)
	assert.Equal(t, engine.TargetQuizLength, *resp.TotalQuestions)
	require.NotNil(t, resp.CorrectAnswers)
	assert.Equal(t, engine.TargetQuizLength, *resp.CorrectAnswers)

	t.Run("result endpoint reflects summary", func(t *testing.T) {
		result, err := svc.GetResult(context.Background(), "user-1", 1)
		require.NoError(t, err)
		assert.Equal(t, 100, result.Score)
		assert.True(t, result.Passed)
		assert.Equal(t, engine.TargetQuizLength, result.TotalQuestions)
		assert.Equal(t, engine.TargetQuizLength, result.CorrectAnswers)
		assert.NotNil(t, result.CompletedAt)
	})

	t.Run("further steps rejected", func(t *testing.T) {
		answer := 0
		_, err := svc.ProcessStep(context.Background(), "user-1", 1, &models.StepRequest{
			QuestionRef: "medium_1",
			AnswerIndex: &answer,
		})
		assert.ErrorIs(t, err, engine.ErrAttemptFinished)
	})

	t.Run("restart returns stored summary", func(t *testing.T) {
		again, err := svc.StartAttempt(context.Background(), "user-1", 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFinished, again.Status)
		assert.Equal(t, "You have already attempted this quiz", again.Message)
		require.NotNil(t, again.Score)
		assert.Equal(t, 100, *again.Score)
		require.NotNil(t, again.CorrectAnswers)
		assert.Equal(t, engine.TargetQuizLength, *again.CorrectAnswers)
	})
}

func TestFailedAttempt(t *testing.T) {
	svc, repo := newService(t, nil)
	seedQuiz(t, repo, 1, fullPool(), 60)

	resp, err := svc.StartAttempt(context.Background(), "user-1", 1)
	require.NoError(t, err)
	for resp.Status == models.StatusInProgress {
		resp = stepAnswer(t, svc, "user-1", 1, resp.Question.Ref, false)
	}

	require.NotNil(t, resp.Score)
	assert.Equal(t, 0, *resp.Score)
	require.NotNil(t, resp.Passed)
	assert.False(t, *resp.Passed)
}

func TestEarlyFinishOnExhaustedPool(t *testing.T) {
	svc, repo := newService(t, nil)
	seedQuiz(t, repo, 1, smallPool(), 60)

	resp, err := svc.StartAttempt(context.Background(), "user-1", 1)
	require.NoError(t, err)
	for resp.Status == models.StatusInProgress {
		resp = stepAnswer(t, svc, "user-1", 1, resp.Question.Ref, true)
	}

	require.NotNil(t, resp.TotalQuestions)
	assert.Equal(t, 3, *resp.TotalQuestions)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 100, *resp.Score)
}

func TestProcessStepValidation(t *testing.T) {
	svc, repo := newService(t, nil)
	seedQuiz(t, repo, 1, fullPool(), 60)

	started, err := svc.StartAttempt(context.Background(), "user-1", 1)
	require.NoError(t, err)

	t.Run("malformed ref", func(t *testing.T) {
		answer := 0
		_, err := svc.ProcessStep(context.Background(), "user-1", 1, &models.StepRequest{
			QuestionRef: "bogus",
			AnswerIndex: &answer,
		})
		assert.True(t, engine.IsValidation(err))
	})

	t.Run("stale ref leaves attempt untouched", func(t *testing.T) {
		answer := 0
		staleRef := "hard_1"
		if started.Question.Ref == staleRef {
			staleRef = "easy_1"
		}
		_, err := svc.ProcessStep(context.Background(), "user-1", 1, &models.StepRequest{
			QuestionRef: staleRef,
			AnswerIndex: &answer,
		})
		assert.True(t, engine.IsValidation(err))

		// The pending question is still the one the attempt is waiting on.
		resumed, err := svc.StartAttempt(context.Background(), "user-1", 1)
		require.NoError(t, err)
		assert.Equal(t, started.Question.Ref, resumed.Question.Ref)
	})

	t.Run("no attempt yet", func(t *testing.T) {
		answer := 0
		_, err := svc.ProcessStep(context.Background(), "stranger", 1, &models.StepRequest{
			QuestionRef: "medium_1",
			AnswerIndex: &answer,
		})
		assert.ErrorIs(t, err, repositories.ErrAttemptNotFound)
	})
}

func TestGetResultBeforeFinish(t *testing.T) {
	svc, repo := newService(t, nil)
	seedQuiz(t, repo, 1, fullPool(), 60)

	_, err := svc.StartAttempt(context.Background(), "user-1", 1)
	require.NoError(t, err)

	_, err = svc.GetResult(context.Background(), "user-1", 1)
	assert.ErrorIs(t, err, repositories.ErrAttemptNotFound)
}
