package store

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"slip-payment-backend/internal/model"
)

func TestPutGetDelete(t *testing.T) {
	s := NewPendingUploadStore(time.Minute)
	defer s.Close()

	id := s.Put(model.PendingUpload{
		Text:   "hello",
		Sender: "somchai",
		Price:  decimal.NewFromInt(150),
	})
	require.NotEmpty(t, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "hello", got.Text)
	require.Equal(t, model.UploadStatusPending, got.Status)
	require.True(t, got.ExpiresAt.After(got.CreatedAt))

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting again reports not found, never panics
	require.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestGetUnknownID(t *testing.T) {
	s := NewPendingUploadStore(time.Minute)
	defer s.Close()

	_, err := s.Get("12345")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEntryExpires(t *testing.T) {
	s := NewPendingUploadStore(40 * time.Millisecond)
	defer s.Close()

	id := s.Put(model.PendingUpload{Text: "short lived"})

	_, err := s.Get(id)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	_, err = s.Get(id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLazyExpiryWithoutTimer(t *testing.T) {
	// Force the lazy path: a stored entry whose ExpiresAt has passed must be
	// invisible to Get even when its eviction timer has not run.
	s := NewPendingUploadStore(time.Minute)
	defer s.Close()

	id := s.Put(model.PendingUpload{Text: "stale"})
	s.mu.Lock()
	s.entries[id].upload.ExpiresAt = time.Now().Add(-time.Second)
	s.mu.Unlock()

	_, err := s.Get(id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIDsUniqueUnderBurst(t *testing.T) {
	s := NewPendingUploadStore(time.Minute)
	defer s.Close()

	seen := make(map[string]bool)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id := s.Put(model.PendingUpload{})
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		n, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
		require.Greater(t, n, prev)
		prev = n
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewPendingUploadStore(time.Minute)
	defer s.Close()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Put(model.PendingUpload{Text: "concurrent"})
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		_, err := s.Get(id)
		require.NoError(t, err)
		require.NoError(t, s.Delete(id))
	}
}
