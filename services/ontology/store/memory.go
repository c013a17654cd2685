// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is a map-backed Store. It is the backend for scenario datasets,
// which are rebuilt wholesale on activation, and for tests.
type Memory struct {
	mu     sync.RWMutex
	kinds  map[Kind]map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{kinds: make(map[Kind]map[string][]byte)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, kind Kind, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	data, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(data), nil
}

// List implements Store. Results are sorted by ID.
func (m *Memory) List(_ context.Context, kind Kind) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	recs := m.kinds[kind]
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneBytes(recs[id]))
	}
	return out, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, kind Kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	recs, ok := m.kinds[kind]
	if !ok {
		recs = make(map[string][]byte)
		m.kinds[kind] = recs
	}
	recs[id] = cloneBytes(data)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	recs := m.kinds[kind]
	if _, ok := recs[id]; !ok {
		return ErrNotFound
	}
	delete(recs, id)
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(_ context.Context, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.kinds, kind)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.kinds = nil
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
