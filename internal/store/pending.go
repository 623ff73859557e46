// Package store holds the in-memory registry of pending uploads awaiting
// payment confirmation. Entries are memory-only and lost on restart, which
// is acceptable at the 10-minute payment horizon.
package store

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"slip-payment-backend/internal/model"
)

// ErrNotFound is returned for unknown and expired ids. Callers treat it as
// "payment window closed", not a server error.
var ErrNotFound = errors.New("pending upload not found or expired")

type entry struct {
	upload model.PendingUpload
	timer  *time.Timer
}

// PendingUploadStore maps a time-based upload id to upload metadata with an
// absolute per-entry expiry. One mutex guards the map against concurrent
// requests and the eviction timers.
type PendingUploadStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	lastID  int64
	closed  bool
}

func NewPendingUploadStore(ttl time.Duration) *PendingUploadStore {
	return &PendingUploadStore{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Put stores the upload and returns its id. Ids are millisecond timestamps
// bumped past the previous id on collision, which keeps them unique for the
// lifetime of the store. A one-shot timer evicts the entry at expiry whether
// or not it was ever read.
func (s *PendingUploadStore) Put(upload model.PendingUpload) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	key := strconv.FormatInt(id, 10)

	upload.ID = key
	upload.Status = model.UploadStatusPending
	upload.CreatedAt = now
	upload.ExpiresAt = now.Add(s.ttl)

	e := &entry{upload: upload}
	if !s.closed {
		e.timer = time.AfterFunc(s.ttl, func() { s.evict(key) })
	}
	s.entries[key] = e
	return key
}

// Get returns the entry or ErrNotFound. An entry past its expiry is invisible
// even if its eviction timer has not fired yet.
func (s *PendingUploadStore) Get(id string) (model.PendingUpload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return model.PendingUpload{}, ErrNotFound
	}
	if !time.Now().Before(e.upload.ExpiresAt) {
		s.removeLocked(id, e)
		return model.PendingUpload{}, ErrNotFound
	}
	return e.upload, nil
}

// Delete removes the entry and stops its timer. Deleting an unknown id
// returns ErrNotFound; eviction itself is idempotent.
func (s *PendingUploadStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	s.removeLocked(id, e)
	return nil
}

// Close stops all timers and drops every entry. Further Puts are stored but
// never scheduled for eviction; the process is shutting down anyway.
func (s *PendingUploadStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, e := range s.entries {
		s.removeLocked(id, e)
	}
}

func (s *PendingUploadStore) evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		s.removeLocked(id, e)
	}
}

func (s *PendingUploadStore) removeLocked(id string, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(s.entries, id)
}
