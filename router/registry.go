/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package router

import (
	"sync"

	"github.com/ortuman/c2sgate/xmpp/jid"
	"github.com/pkg/errors"
)

// ErrConflict will be returned by Bind method if
// the full JID is already bound by another stream.
var ErrConflict = errors.New("router: jid already bound")

// ErrNotFullJID will be returned by Bind method if
// the JID lacks a resource part.
var ErrNotFullJID = errors.New("router: not a full jid")

// Registry represents the set of full JIDs currently bound across all streams.
type Registry struct {
	mu    sync.RWMutex
	bound map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bound: make(map[string]struct{})}
}

// Bind registers a full JID.
// Membership check and insertion are performed atomically.
func (r *Registry) Bind(j *jid.JID) error {
	if !j.IsFull() {
		return ErrNotFullJID
	}
	k := j.String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bound[k]; ok {
		return ErrConflict
	}
	r.bound[k] = struct{}{}
	return nil
}

// Unbind releases a previously bound JID.
func (r *Registry) Unbind(j *jid.JID) {
	k := j.String()

	r.mu.Lock()
	delete(r.bound, k)
	r.mu.Unlock()
}

// IsBound returns whether or not a full JID is bound.
func (r *Registry) IsBound(j *jid.JID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bound[j.String()]
	return ok
}

// Count returns the number of bound JIDs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bound)
}
