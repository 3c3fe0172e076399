package store

import "sync"

// ContextStore tracks the currently observed page context (a URL). The
// context API writes it on navigation; the background watcher and the
// coordinator read it.
type ContextStore struct {
	mu  sync.RWMutex
	url string
}

func NewContextStore() *ContextStore {
	return &ContextStore{}
}

func (c *ContextStore) Set(url string) {
	c.mu.Lock()
	c.url = url
	c.mu.Unlock()
}

func (c *ContextStore) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}
