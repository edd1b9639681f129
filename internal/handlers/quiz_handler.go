package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
	"github.com/Wafi-Ahmad/Hirehub/internal/generator"
	"github.com/Wafi-Ahmad/Hirehub/internal/metrics"
	"github.com/Wafi-Ahmad/Hirehub/internal/middleware"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/repositories"
	"github.com/Wafi-Ahmad/Hirehub/internal/services"
	"github.com/Wafi-Ahmad/Hirehub/internal/utils"
)

type QuizHandler struct {
	service *services.QuizService
	logger  *zap.Logger
}

func NewQuizHandler(service *services.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{service: service, logger: logger}
}

func jobIDParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// StartHandler begins or resumes the caller's attempt for the job's quiz.
func (h *QuizHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobIDParam(r)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_job_id",
			Message: "Job ID must be a positive integer",
		})
		return
	}

	resp, err := h.service.StartAttempt(r.Context(), middleware.UserID(r), jobID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	metrics.AttemptStarted()
	if resp.Status == models.StatusFinished {
		metrics.AttemptCompleted()
	}
	utils.JSON(w, http.StatusOK, resp)
}

// StepHandler grades one answer and returns the next question or the final
// summary.
func (h *QuizHandler) StepHandler(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobIDParam(r)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_job_id",
			Message: "Job ID must be a positive integer",
		})
		return
	}

	req := middleware.GetValidatedRequest[*models.StepRequest](r)
	resp, err := h.service.ProcessStep(r.Context(), middleware.UserID(r), jobID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	metrics.StepProcessed(resp.Status)
	if resp.Status == models.StatusFinished {
		metrics.AttemptCompleted()
	}
	utils.JSON(w, http.StatusOK, resp)
}

// ResultHandler returns the final summary of a finished attempt.
func (h *QuizHandler) ResultHandler(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobIDParam(r)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_job_id",
			Message: "Job ID must be a positive integer",
		})
		return
	}

	resp, err := h.service.GetResult(r.Context(), middleware.UserID(r), jobID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// GenerateHandler creates the quiz for a job from generated questions.
func (h *QuizHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobIDParam(r)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_job_id",
			Message: "Job ID must be a positive integer",
		})
		return
	}

	req := middleware.GetValidatedRequest[*models.GenerateQuizRequest](r)
	quiz, err := h.service.CreateQuiz(r.Context(), jobID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	pool, err := quiz.Pool()
	questionCount := 0
	if err == nil {
		questionCount = pool.Total()
	}
	utils.JSON(w, http.StatusCreated, models.QuizCreatedResponse{
		QuizID:        quiz.ID,
		JobID:         quiz.JobID,
		QuestionCount: questionCount,
		PassingScore:  quiz.PassingScore,
		Message:       "Quiz created",
	})
}

// writeServiceError maps domain errors onto HTTP responses: validation 400,
// missing resources 404, finished-attempt conflicts 409, generation 502.
func (h *QuizHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *engine.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "validation_error",
			Message: ve.Reason,
		})
	case errors.Is(err, repositories.ErrQuizNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "quiz_not_found",
			Message: "No active quiz exists for this job",
		})
	case errors.Is(err, repositories.ErrAttemptNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "attempt_not_found",
			Message: "No quiz attempt found",
		})
	case errors.Is(err, engine.ErrAttemptFinished):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "attempt_completed",
			Message: "This quiz attempt is already completed",
		})
	case errors.Is(err, repositories.ErrQuizExists):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "quiz_exists",
			Message: "A quiz already exists for this job",
		})
	case errors.Is(err, services.ErrGeneratorUnavailable):
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "generator_unavailable",
			Message: "Question generation is not configured",
		})
	case generator.IsExternal(err):
		h.logger.Error("Question generation failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "generation_failed",
			Message: "Failed to generate quiz questions",
		})
	default:
		h.logger.Error("Quiz operation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Something went wrong",
		})
	}
}
