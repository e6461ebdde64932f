package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memberKey struct {
	guildID string
	userID  string
}

// MemoryWarningStore keeps warnings for the lifetime of the process only
type MemoryWarningStore struct {
	mu       sync.RWMutex
	warnings map[memberKey][]Warning
	lastID   int64
	now      func() time.Time
}

// NewMemoryWarningStore creates an empty in-process warning store
func NewMemoryWarningStore() *MemoryWarningStore {
	return &MemoryWarningStore{
		warnings: make(map[memberKey][]Warning),
		now:      time.Now,
	}
}

// AddWarning appends a warning and returns it
func (s *MemoryWarningStore) AddWarning(_ context.Context, guildID, userID, reason, moderatorID string) (Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := newWarning(s.now(), &s.lastID, reason, moderatorID)
	key := memberKey{guildID, userID}
	s.warnings[key] = append(s.warnings[key], w)
	return w, nil
}

// Warnings returns the member's warnings in issue order
func (s *MemoryWarningStore) Warnings(_ context.Context, guildID, userID string) ([]Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.warnings[memberKey{guildID, userID}]
	out := make([]Warning, len(list))
	copy(out, list)
	return out, nil
}

// ClearWarnings drops every warning for the member. It returns false if there were none.
func (s *MemoryWarningStore) ClearWarnings(_ context.Context, guildID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{guildID, userID}
	if len(s.warnings[key]) == 0 {
		return false, nil
	}
	delete(s.warnings, key)
	return true, nil
}

// newWarning derives the ID from the creation time in milliseconds,
// bumped past lastID so two warnings in the same millisecond stay distinct.
func newWarning(now time.Time, lastID *int64, reason, moderatorID string) Warning {
	id := now.UnixMilli()
	if id <= *lastID {
		id = *lastID + 1
	}
	*lastID = id

	if strings.TrimSpace(reason) == "" {
		reason = DefaultReason
	}

	return Warning{
		ID:          strconv.FormatInt(id, 10),
		Reason:      reason,
		ModeratorID: moderatorID,
		Timestamp:   now,
	}
}
