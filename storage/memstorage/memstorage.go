/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package memstorage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ortuman/c2sgate/model"
	"github.com/ortuman/c2sgate/storage/repository"
)

// ErrMockedError will be returned by any Storage method
// when mocked error is activated.
var ErrMockedError = errors.New("storage mocked error")

// Storage represents an in-memory storage container.
type Storage struct {
	mockErr uint32
	mu      sync.RWMutex
	users   map[string]*model.User
}

// New returns an empty in-memory storage container.
func New() *Storage {
	return &Storage{
		users: make(map[string]*model.User),
	}
}

// User returns in-memory user repository.
func (m *Storage) User() repository.User { return m }

// Close satisfies repository.Container interface.
func (m *Storage) Close(_ context.Context) error { return nil }

// EnableMockedError makes every subsequent storage operation fail with ErrMockedError.
func (m *Storage) EnableMockedError() {
	atomic.StoreUint32(&m.mockErr, 1)
}

// DisableMockedError disables mocked error.
func (m *Storage) DisableMockedError() {
	atomic.StoreUint32(&m.mockErr, 0)
}

func (m *Storage) inWriteLock(f func() error) error {
	if atomic.LoadUint32(&m.mockErr) == 1 {
		return ErrMockedError
	}
	m.mu.Lock()
	err := f()
	m.mu.Unlock()
	return err
}

func (m *Storage) inReadLock(f func() error) error {
	if atomic.LoadUint32(&m.mockErr) == 1 {
		return ErrMockedError
	}
	m.mu.RLock()
	err := f()
	m.mu.RUnlock()
	return err
}
