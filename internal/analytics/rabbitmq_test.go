package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type channelMock struct {
	mock.Mock
}

func (m *channelMock) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *channelMock) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *channelMock) Close() error {
	return m.Called().Error(0)
}

func TestPublisher_PublishRoutesByType(t *testing.T) {
	ctx := context.Background()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", DefaultExchangeName, "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	var sent amqp.Publishing
	ch.On("PublishWithContext", ctx, DefaultExchangeName, "activity.tracker_created", false, false, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(5).(amqp.Publishing) }).
		Return(nil)

	p, err := NewPublisher(ch, "", nil)
	require.NoError(t, err)

	entry := activity.Entry{
		ID:        7,
		Type:      activity.TypeTrackerCreated,
		Summary:   "tracker created: Water",
		CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(ctx, entry))

	require.Equal(t, "application/json", sent.ContentType)
	require.Equal(t, "7", sent.MessageId)
	require.Equal(t, "tracker_created", sent.Type)

	var decoded activity.Entry
	require.NoError(t, json.Unmarshal(sent.Body, &decoded))
	require.Equal(t, entry.Summary, decoded.Summary)
	ch.AssertExpectations(t)
}

func TestPublisher_DeclareFailure(t *testing.T) {
	ch := &channelMock{}
	ch.On("ExchangeDeclare", "custom", "topic", true, false, false, false, amqp.Table(nil)).Return(errors.New("boom"))

	_, err := NewPublisher(ch, "custom", nil)
	require.Error(t, err)
}

func TestPublisher_PublishError(t *testing.T) {
	ctx := context.Background()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)
	ch.On("Close").Return(nil)

	p, err := NewPublisher(ch, "", nil)
	require.NoError(t, err)

	err = p.Publish(ctx, activity.Entry{Type: activity.TypeDateChanged})
	require.ErrorIs(t, err, amqp.ErrClosed)
	require.NoError(t, p.Close())
}
