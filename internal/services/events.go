package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// QuizCompletedChannel is the Redis channel downstream services (candidate
// ranking, recruiter notifications) subscribe to.
const QuizCompletedChannel = "quiz_completed"

// QuizCompletedEvent is published when an attempt reaches its final state.
// EventID lets subscribers deduplicate redeliveries.
type QuizCompletedEvent struct {
	EventID         string    `json:"eventId"`
	JobID           uint      `json:"jobId"`
	QuizID          uint      `json:"quizId"`
	UserID          string    `json:"userId"`
	Score           int       `json:"score"`
	Passed          bool      `json:"passed"`
	CorrectAnswers  int       `json:"correctAnswers"`
	QuestionsServed int       `json:"questionsServed"`
	CompletedAt     time.Time `json:"completedAt"`
}

// EventPublisher pushes quiz lifecycle events onto the platform's Redis bus.
type EventPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewEventPublisher(redisAddr string, logger *zap.Logger) *EventPublisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &EventPublisher{rdb: rdb, logger: logger}
}

// PublishQuizCompleted is best effort: a failed publish is logged, never
// surfaced to the candidate, and the attempt stays finalized either way.
func (p *EventPublisher) PublishQuizCompleted(ctx context.Context, event QuizCompletedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to encode quiz completed event", zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, QuizCompletedChannel, payload).Err(); err != nil {
		p.logger.Error("Failed to publish quiz completed event",
			zap.Error(err),
			zap.Uint("quiz_id", event.QuizID),
			zap.String("user_id", event.UserID))
		return
	}
	p.logger.Info("Published quiz completed event",
		zap.Uint("quiz_id", event.QuizID),
		zap.String("user_id", event.UserID),
		zap.Int("score", event.Score))
}

// Close releases the underlying Redis connection.
func (p *EventPublisher) Close() error {
	return p.rdb.Close()
}
