package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish_EncodesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "notekeeper"}

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.Publish(context.Background(), KeyNoteCreated, NoteCreated{
		NoteID: "n-1", OwnerID: "u-1", Visibility: "PRIVATE", OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, "notekeeper", call.exchange)
	assert.Equal(t, "note.created", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(call.msg.Body, &got))
	assert.Equal(t, "n-1", got["noteId"])
	assert.Equal(t, "u-1", got["ownerId"])
	assert.NotContains(t, got, "type", "empty type is omitted")
	assert.NotContains(t, got, "content")
}

func TestAMQPPublisher_Publish_Errors(t *testing.T) {
	boom := errors.New("channel closed")
	p := &AMQPPublisher{ch: &fakeChannel{err: boom}, exchange: "x"}

	require.ErrorIs(t, p.Publish(context.Background(), KeyUserSignedUp, UserSignedUp{UserID: "u"}), boom)

	err := p.Publish(context.Background(), "bad", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode bad")
}

func TestAMQPPublisher_Close_WithoutConnection(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), KeyUserSignedUp, nil))
	assert.NoError(t, p.Close())
}
