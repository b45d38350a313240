package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/property-listings-backend/internal/domain/entity"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishImageEvent(t *testing.T) {
	asset := &entity.ImageAsset{ID: uuid.New(), ListingID: uuid.New(), URL: "/properties/images/a.jpg"}
	event := entity.NewImageEvent(entity.ImageCreated, asset)

	t.Run("writes a json message keyed by listing", func(t *testing.T) {
		w := &fakeWriter{}
		p := newKafkaPublisherWithWriter(w)

		require.NoError(t, p.PublishImageEvent(context.Background(), event))

		require.Len(t, w.msgs, 1)
		msg := w.msgs[0]
		assert.Equal(t, asset.ListingID.String(), string(msg.Key))
		assert.Equal(t, "image.created", string(msg.Headers[0].Value))

		var decoded entity.ImageEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, asset.ID, decoded.ImageID)
		assert.Equal(t, asset.URL, decoded.URL)
	})

	t.Run("wraps writer errors", func(t *testing.T) {
		cause := errors.New("leader not available")
		p := newKafkaPublisherWithWriter(&fakeWriter{err: cause})

		err := p.PublishImageEvent(context.Background(), event)

		assert.ErrorIs(t, err, cause)
	})

	t.Run("closes the writer", func(t *testing.T) {
		w := &fakeWriter{}
		require.NoError(t, newKafkaPublisherWithWriter(w).Close())
		assert.True(t, w.closed)
	})
}
