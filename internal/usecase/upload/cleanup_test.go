package upload_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/mocks"
	"github.com/marcos-nsantos/property-listings-backend/internal/usecase/upload"
)

func TestCompensator_Cleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the attempt's files and is idempotent", func(t *testing.T) {
		root := t.TempDir()
		store, err := storage.NewLocalStorage(root, "")
		require.NoError(t, err)

		attempt := upload.NewAttempt(uuid.New())
		mine := []string{
			"properties/images/" + attempt.ID().String() + ".jpg",
			"properties/thumbnails/thumb_" + attempt.ID().String() + ".jpg",
		}
		other := "properties/images/" + uuid.NewString() + ".jpg"
		for _, key := range append(mine, other) {
			require.NoError(t, store.Upload(ctx, key, bytes.NewReader([]byte("x")), "image/jpeg", 1))
		}
		for _, key := range mine {
			attempt.Track(key)
		}

		c := upload.NewCompensator(store, nil, nil)
		assert.NotPanics(t, func() {
			c.Cleanup(ctx, attempt)
			c.Cleanup(ctx, attempt)
		})

		assert.Equal(t, []string{other}, listFiles(t, root))
		assert.Empty(t, attempt.Keys())
	})

	t.Run("runs after the caller's context has ended", func(t *testing.T) {
		root := t.TempDir()
		store, err := storage.NewLocalStorage(root, "")
		require.NoError(t, err)

		attempt := upload.NewAttempt(uuid.New())
		key := "properties/images/" + attempt.ID().String() + ".jpg"
		require.NoError(t, store.Upload(ctx, key, bytes.NewReader([]byte("x")), "image/jpeg", 1))
		attempt.Track(key)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		upload.NewCompensator(store, nil, nil).Cleanup(cancelled, attempt)

		assert.Empty(t, listFiles(t, root))
	})

	t.Run("swallows delete failures and retries them next time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockImageStorage(ctrl)

		attempt := upload.NewAttempt(uuid.New())
		attempt.Track("properties/images/a.jpg")
		attempt.Track("properties/thumbnails/thumb_a.jpg")

		gomock.InOrder(
			store.EXPECT().Delete(gomock.Any(), "properties/images/a.jpg").Return(errors.New("device busy")),
			store.EXPECT().Delete(gomock.Any(), "properties/images/a.jpg").Return(nil),
		)
		store.EXPECT().Delete(gomock.Any(), "properties/thumbnails/thumb_a.jpg").Return(nil)

		c := upload.NewCompensator(store, nil, nil)
		c.Cleanup(ctx, attempt)
		assert.Equal(t, []string{"properties/images/a.jpg"}, attempt.Keys())

		c.Cleanup(ctx, attempt)
		assert.Empty(t, attempt.Keys())
	})

	t.Run("ignores nil and empty attempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := upload.NewCompensator(mocks.NewMockImageStorage(ctrl), nil, nil)

		assert.NotPanics(t, func() {
			c.Cleanup(ctx, nil)
			c.Cleanup(ctx, upload.NewAttempt(uuid.New()))
		})
	})
}
