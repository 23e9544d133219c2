package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/pkg/middleware"
)

type producedMessage struct {
	topic   string
	key     string
	value   interface{}
	headers map[string]string
}

type fakeProducer struct {
	messages []producedMessage
	err      error
	closed   bool
}

func (f *fakeProducer) ProduceJSON(ctx context.Context, topic, key string, v interface{}, headers map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, producedMessage{topic, key, v, headers})
	return nil
}

func (f *fakeProducer) Close() { f.closed = true }

func TestKafkaPublisher_Publish(t *testing.T) {
	prod := &fakeProducer{}
	pub := NewPublisherWithProducer(prod, "", "")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	require.NoError(t, pub.Publish(context.Background(), domain.QuestionEventUpdated, "user-1", "q-1"))
	require.Len(t, prod.messages, 1)

	msg := prod.messages[0]
	assert.Equal(t, "question-events", msg.topic)
	assert.Equal(t, "q-1", msg.key)
	assert.Equal(t, "question.updated", msg.headers["event_type"])
	assert.Equal(t, "interview-qa", msg.headers["source"])

	event, ok := msg.value.(*domain.QuestionEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"q-1"}, event.QuestionIDs)
	assert.Equal(t, "user-1", event.ActorID)
	assert.Equal(t, fixed, event.OccurredAt)
	assert.Equal(t, event.EventID, msg.headers["event_id"])
	assert.NotContains(t, msg.headers, "request_id")
}

func TestKafkaPublisher_CarriesRequestID(t *testing.T) {
	prod := &fakeProducer{}
	pub := NewPublisherWithProducer(prod, "", "")

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	require.NoError(t, pub.Publish(ctx, domain.QuestionEventDeleted, "user-1", "q-1"))
	require.Len(t, prod.messages, 1)
	assert.Equal(t, "req-42", prod.messages[0].headers["request_id"])
}

func TestKafkaPublisher_BulkKeysByType(t *testing.T) {
	prod := &fakeProducer{}
	pub := NewPublisherWithProducer(prod, "qa", "svc")

	require.NoError(t, pub.Publish(context.Background(), domain.QuestionEventBulkCreated, "u", "a", "b"))
	assert.Equal(t, "qa", prod.messages[0].topic)
	assert.Equal(t, "question.bulk_created", prod.messages[0].key)
}

func TestKafkaPublisher_Errors(t *testing.T) {
	boom := errors.New("broker down")
	prod := &fakeProducer{err: boom}
	pub := NewPublisherWithProducer(prod, "", "")

	err := pub.Publish(context.Background(), domain.QuestionEventDeleted, "u", "q")
	assert.ErrorIs(t, err, boom)

	require.NoError(t, pub.Close())
	assert.True(t, prod.closed)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(context.Background(), nil)
	assert.Error(t, err)
	_, err = NewKafkaPublisher(context.Background(), &Config{})
	assert.Error(t, err)
}

func TestNoOpPublisher(t *testing.T) {
	var p Publisher = NewNoOpPublisher()
	assert.NoError(t, p.Publish(context.Background(), domain.QuestionEventCreated, "u", "q"))
	assert.NoError(t, p.Close())
}
