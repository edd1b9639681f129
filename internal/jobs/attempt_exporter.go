package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/repositories"
)

// ExporterConfig configures the attempt export job.
type ExporterConfig struct {
	Schedule  string // cron schedule, e.g. "0 2 * * *" for 2 AM daily
	ExportDir string
	Enabled   bool
}

// AttemptExporterJob periodically dumps newly completed attempts to JSONL
// for the recruiter analytics pipeline.
type AttemptExporterJob struct {
	repo   *repositories.QuizRepository
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger
}

// exportRecord is one JSONL line of the export file.
type exportRecord struct {
	AttemptID       uint       `json:"attempt_id"`
	QuizID          uint       `json:"quiz_id"`
	UserID          string     `json:"user_id"`
	Score           int        `json:"score"`
	Passed          bool       `json:"passed"`
	QuestionsServed int        `json:"questions_served"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

func NewAttemptExporterJob(repo *repositories.QuizRepository, config *ExporterConfig, logger *zap.Logger) *AttemptExporterJob {
	return &AttemptExporterJob{
		repo:   repo,
		config: config,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the export job.
func (j *AttemptExporterJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("Attempt export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if err := j.RunExport(); err != nil {
			j.logger.Error("Attempt export job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Attempt exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduled export job.
func (j *AttemptExporterJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// RunExport performs a single export run.
func (j *AttemptExporterJob) RunExport() error {
	attempts, err := j.repo.UnexportedCompletedAttempts(0)
	if err != nil {
		return fmt.Errorf("failed to load unexported attempts: %w", err)
	}
	if len(attempts) == 0 {
		j.logger.Info("No completed attempts to export")
		return nil
	}

	data, err := toJSONL(attempts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(j.config.ExportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	filename := filepath.Join(j.config.ExportDir,
		fmt.Sprintf("quiz_attempts_%s.jsonl", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ids := make([]uint, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.ID)
	}
	marked, err := j.repo.MarkAttemptsExported(ids)
	if err != nil {
		return fmt.Errorf("failed to mark attempts as exported: %w", err)
	}

	j.logger.Info("Exported completed attempts",
		zap.Int("count", len(attempts)),
		zap.Int64("marked", marked),
		zap.String("file", filename))
	return nil
}

func toJSONL(attempts []models.QuizAttempt) ([]byte, error) {
	var lines []string
	for _, a := range attempts {
		record := exportRecord{
			AttemptID:       a.ID,
			QuizID:          a.QuizID,
			UserID:          a.UserID,
			QuestionsServed: a.TotalQuestionsServed,
			StartedAt:       a.StartedAt,
			CompletedAt:     a.CompletedAt,
		}
		if a.Score != nil {
			record.Score = *a.Score
		}
		if a.Passed != nil {
			record.Passed = *a.Passed
		}
		line, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode attempt %d: %w", a.ID, err)
		}
		lines = append(lines, string(line))
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}
