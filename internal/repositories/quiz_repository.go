package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizExists      = errors.New("quiz already exists for this job")
	ErrAttemptNotFound = errors.New("quiz attempt not found")
)

type QuizRepository struct {
	DB *gorm.DB
}

// Transaction runs fn against a repository bound to a single database
// transaction. Step processing goes through here so the read-modify-write of
// an attempt row cannot interleave.
func (r *QuizRepository) Transaction(fn func(tx *QuizRepository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&QuizRepository{DB: tx})
	})
}

func (r *QuizRepository) CreateQuiz(quiz *models.Quiz) error {
	var count int64
	if err := r.DB.Model(&models.Quiz{}).Where("job_id = ?", quiz.JobID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrQuizExists
	}
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) GetActiveQuizByJobID(jobID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.DB.First(&quiz, "job_id = ? AND is_active = ?", jobID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	return &quiz, err
}

func (r *QuizRepository) GetAttempt(quizID uint, userID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.DB.First(&attempt, "quiz_id = ? AND user_id = ?", quizID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	return &attempt, err
}

// GetOrCreateAttempt returns the existing attempt for (quiz, user) or lazily
// creates a fresh one at the quiz's starting difficulty.
func (r *QuizRepository) GetOrCreateAttempt(quiz *models.Quiz, userID string) (*models.QuizAttempt, error) {
	attempt, err := r.GetAttempt(quiz.ID, userID)
	if err == nil {
		return attempt, nil
	}
	if !errors.Is(err, ErrAttemptNotFound) {
		return nil, err
	}

	start, err := engine.ParseDifficulty(quiz.StartDifficulty)
	if err != nil {
		return nil, err
	}
	fresh := &models.QuizAttempt{
		QuizID:    quiz.ID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := fresh.ApplyState(engine.NewState(start)); err != nil {
		return nil, err
	}
	if err := r.DB.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *QuizRepository) SaveAttempt(attempt *models.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

// UnexportedCompletedAttempts lists finished attempts not yet picked up by
// the analytics export job, oldest first.
func (r *QuizRepository) UnexportedCompletedAttempts(limit int) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	query := r.DB.Where("completed_at IS NOT NULL AND exported = ?", false).Order("completed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// MarkAttemptsExported flags attempts as exported.
func (r *QuizRepository) MarkAttemptsExported(ids []uint) (int64, error) {
	result := r.DB.Model(&models.QuizAttempt{}).
		Where("id IN ?", ids).
		Update("exported", true)
	return result.RowsAffected, result.Error
}
