package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemoryCacheSize = 512

// Memory is an in-process Cache backed by an expirable LRU.
// Used when no redis address is configured.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates an in-process cache whose entries expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, []byte](defaultMemoryCacheSize, nil, ttl),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}
