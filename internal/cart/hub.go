package cart

import (
	"context"
	"log/slog"
	"sync"
)

// StoreFactory builds the persistence slot for one session's cart.
type StoreFactory func(sessionID string) Store

// Hub hands out one Manager per browsing session, constructing it lazily on
// first use. Construction hydrates the cart from its store, so a returning
// session sees the items it left behind. Instances in other processes that
// share the same backing store are not live-synced; the last writer wins.
type Hub struct {
	mu       sync.Mutex
	managers map[string]*Manager

	newStore StoreFactory
	onCreate func(sessionID string, m *Manager)
	logger   *slog.Logger
}

// HubOption customizes a Hub.
type HubOption func(*Hub)

// WithOnCreate registers a hook invoked once for every newly constructed
// Manager, before it is handed to any caller. The app uses it to attach
// change subscribers (event publishing, metrics) to each session's cart.
func WithOnCreate(hook func(sessionID string, m *Manager)) HubOption {
	return func(h *Hub) { h.onCreate = hook }
}

// NewHub creates a Hub that builds per-session stores with newStore.
func NewHub(newStore StoreFactory, logger *slog.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		managers: make(map[string]*Manager),
		newStore: newStore,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Get returns the Manager for the session, creating and hydrating it if this
// is the first request the session makes to this process.
func (h *Hub) Get(ctx context.Context, sessionID string) *Manager {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.managers[sessionID]; ok {
		return m
	}

	m := New(ctx, h.newStore(sessionID), h.logger.With(slog.String("session_id", sessionID)))
	if h.onCreate != nil {
		h.onCreate(sessionID, m)
	}
	h.managers[sessionID] = m
	return m
}

// Len reports how many session carts are live in this process.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.managers)
}
