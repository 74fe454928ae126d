// Package storage provides the key-value persistence boundary. Values
// are opaque strings; callers own the encoding.
package storage

import (
	"context"
	"sync"
)

type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx

	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()

	return v, ok, nil
}

func (s *Memory) Set(ctx context.Context, key, value string) error {
	_ = ctx

	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()

	return nil
}

func (s *Memory) Close() error { return nil }
