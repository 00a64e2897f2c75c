// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// UserFetch retrieves the authenticated user's profile.
type UserFetch func(ctx context.Context) (schema.User, error)

// Session caches the authenticated user's profile for the lifetime of
// a run. The first CurrentUser call fetches; concurrent callers during
// that fetch are de-duplicated into a single request, and later calls
// return the cached profile. Sign-out invalidates the cache.
type Session struct {
	fetch UserFetch
	group singleflight.Group

	mu     sync.Mutex
	user   schema.User
	loaded bool
}

// New creates a Session around a profile fetch function, typically
// the API client's CurrentUser method.
func New(fetch UserFetch) *Session {
	return &Session{fetch: fetch}
}

// CurrentUser returns the authenticated user, fetching lazily on
// first use. A failed fetch is not cached; the next call retries.
func (s *Session) CurrentUser(ctx context.Context) (schema.User, error) {
	s.mu.Lock()
	if s.loaded {
		user := s.user
		s.mu.Unlock()
		return user, nil
	}
	s.mu.Unlock()

	result, err, _ := s.group.Do("current-user", func() (any, error) {
		user, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.user = user
		s.loaded = true
		s.mu.Unlock()
		return user, nil
	})
	if err != nil {
		return schema.User{}, err
	}
	return result.(schema.User), nil
}

// Cached returns the profile without fetching, and whether one is
// loaded.
func (s *Session) Cached() (schema.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.loaded
}

// Invalidate drops the cached profile. Called on sign-out and on
// authentication expiry so a stale identity is never reused.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = schema.User{}
	s.loaded = false
}
