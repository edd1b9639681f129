package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishQuizCompleted(t *testing.T) {
	mr := miniredis.RunT(t)

	publisher := NewEventPublisher(mr.Addr(), zap.NewNop())
	defer publisher.Close()

	subscriber := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer subscriber.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := subscriber.Subscribe(ctx, QuizCompletedChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	event := QuizCompletedEvent{
		JobID:           3,
		QuizID:          7,
		UserID:          "user-1",
		Score:           70,
		Passed:          true,
		CorrectAnswers:  7,
		QuestionsServed: 10,
		CompletedAt:     time.Now().UTC().Truncate(time.Second),
	}
	publisher.PublishQuizCompleted(ctx, event)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, QuizCompletedChannel, msg.Channel)

	var got QuizCompletedEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.NotEmpty(t, got.EventID)
	got.EventID = ""
	assert.Equal(t, event, got)
}

func TestPublishQuizCompletedUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	publisher := NewEventPublisher(addr, zap.NewNop())
	defer publisher.Close()

	// Best effort: an unreachable broker must not panic or block.
	publisher.PublishQuizCompleted(context.Background(), QuizCompletedEvent{QuizID: 1, UserID: "u"})
}
