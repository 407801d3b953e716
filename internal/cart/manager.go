package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	apperrors "github.com/animequeens/storefront/pkg/errors"
)

// EventChange is the only event the Manager emits. The payload describes
// which operation changed the cart.
const EventChange = "change"

// Actions carried by a Change payload.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
	ActionClear  = "clear"
)

// Change describes a single state transition. ProductID is zero for the
// clear action.
type Change struct {
	Action    string `json:"action"`
	ProductID int64  `json:"product_id,omitempty"`
}

// Store is the persistence channel for one cart: a key-value slot holding
// the serialized line-item snapshot. Load returns (nil, nil) when nothing
// has been persisted yet. Implementations must treat reads and writes as
// copy-in/copy-out; the Manager never shares live references with a Store.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, snapshot []byte) error
}

// Subscriber receives change notifications. Subscribers run synchronously
// in registration order; a panicking subscriber is recovered and logged
// without affecting the others or the mutating caller.
type Subscriber func(Change)

type subscription struct {
	fn Subscriber
}

// Manager owns the authoritative, validated line-item collection for one
// browsing session. All mutations go through its methods; Items returns an
// independent copy so external code can never corrupt internal state.
//
// The Manager persists a snapshot after every mutation. Persistence
// failures are logged and swallowed: in-memory state stays the source of
// truth for the session even when the store is unavailable.
type Manager struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger

	items []LineItem
	subs  map[string][]*subscription
}

// New creates a Manager and hydrates it from the store. A missing,
// unparsable, or partially corrupt snapshot never fails construction:
// malformed records are dropped and the rest are kept.
func New(ctx context.Context, store Store, logger *slog.Logger) *Manager {
	m := &Manager{
		store:  store,
		logger: logger,
		subs:   make(map[string][]*subscription),
	}
	m.load(ctx)
	return m
}

// AddItem puts quantity units of product into the cart. The quantity is
// clamped into [1, MaxQuantity]; if the product is already present the
// quantities merge, capped at MaxQuantity, instead of creating a duplicate
// line. A product without an id or price is rejected with an invalid-input
// error and the cart is left untouched.
func (m *Manager) AddItem(ctx context.Context, product Product, quantity int) error {
	if product.ID <= 0 {
		return apperrors.InvalidInput("product id is required")
	}
	if product.Price <= 0 {
		return apperrors.InvalidInput("product price is required")
	}

	qty := clampQuantity(quantity)

	m.mu.Lock()
	if i := m.indexOf(product.ID); i >= 0 {
		merged := m.items[i].Quantity + qty
		if merged > MaxQuantity {
			merged = MaxQuantity
		}
		m.items[i].Quantity = merged
	} else {
		m.items = append(m.items, LineItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: qty,
		})
	}
	m.save(ctx)
	m.mu.Unlock()

	m.emit(EventChange, Change{Action: ActionAdd, ProductID: product.ID})
	return nil
}

// RemoveItem deletes the line item with the given product id. The boolean
// reports whether anything was removed; a missing item is a normal outcome,
// not an error.
func (m *Manager) RemoveItem(ctx context.Context, productID int64) bool {
	m.mu.Lock()
	i := m.indexOf(productID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	m.save(ctx)
	m.mu.Unlock()

	m.emit(EventChange, Change{Action: ActionRemove, ProductID: productID})
	return true
}

// UpdateQuantity sets the quantity of an existing line item, clamped at
// MaxQuantity. A quantity of zero or less removes the item instead of
// clamping up. Returns false without side effects when the item is absent.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, quantity int) bool {
	m.mu.Lock()
	i := m.indexOf(productID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	if quantity <= 0 {
		m.mu.Unlock()
		return m.RemoveItem(ctx, productID)
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	m.items[i].Quantity = quantity
	m.save(ctx)
	m.mu.Unlock()

	m.emit(EventChange, Change{Action: ActionUpdate, ProductID: productID})
	return true
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.items = nil
	m.save(ctx)
	m.mu.Unlock()

	m.emit(EventChange, Change{Action: ActionClear})
}

// Items returns an independent copy of the line items in insertion order.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]LineItem, len(m.items))
	copy(out, m.items)
	return out
}

// ItemCount returns the sum of all quantities.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemCount()
}

// Subtotal returns the sum of price times quantity over all line items.
func (m *Manager) Subtotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subtotal()
}

// Summary derives the price breakdown for the current contents with the
// given pricing options. Pass the zero value for plain totals.
func (m *Manager) Summary(opts PricingOptions) Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return summarize(m.subtotal(), m.itemCount(), opts)
}

// IsEmpty reports whether the cart has no line items.
func (m *Manager) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) == 0
}

// On subscribes fn to the named event and returns an unsubscribe function.
// Unsubscribing removes exactly that registration and is safe to call more
// than once.
func (m *Manager) On(event string, fn Subscriber) func() {
	sub := &subscription{fn: fn}

	m.mu.Lock()
	m.subs[event] = append(m.subs[event], sub)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.subs[event]
		for i, s := range list {
			if s == sub {
				m.subs[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// emit notifies subscribers synchronously in registration order, outside
// the state lock so a subscriber may call back into the Manager.
func (m *Manager) emit(event string, change Change) {
	m.mu.Lock()
	subs := make([]*subscription, len(m.subs[event]))
	copy(subs, m.subs[event])
	m.mu.Unlock()

	for _, s := range subs {
		m.notify(s, change)
	}
}

// notify runs one subscriber inside a panic boundary so a faulty consumer
// cannot break the others or the mutating caller.
func (m *Manager) notify(s *subscription, change Change) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("cart subscriber panicked",
				slog.String("action", change.Action),
				slog.Any("panic", r),
			)
		}
	}()
	s.fn(change)
}

// indexOf returns the position of the line item with the given product id,
// or -1. Callers must hold mu.
func (m *Manager) indexOf(productID int64) int {
	for i := range m.items {
		if m.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (m *Manager) itemCount() int {
	var n int
	for i := range m.items {
		n += m.items[i].Quantity
	}
	return n
}

func (m *Manager) subtotal() float64 {
	var sum float64
	for i := range m.items {
		sum += m.items[i].Price * float64(m.items[i].Quantity)
	}
	return sum
}

// save serializes the current items to the store. Callers must hold mu.
// A write failure is logged, never surfaced: the cart keeps operating in
// memory for the rest of the session.
func (m *Manager) save(ctx context.Context) {
	snapshot := m.items
	if snapshot == nil {
		snapshot = []LineItem{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		m.logger.ErrorContext(ctx, "marshal cart snapshot", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Save(ctx, data); err != nil {
		m.logger.ErrorContext(ctx, "persist cart snapshot", slog.String("error", err.Error()))
	}
}

// persistedItem mirrors the durable record layout with optional fields so
// load can tell a missing field from a zero value.
type persistedItem struct {
	ID       *int64   `json:"id"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Image    *string  `json:"image"`
	Quantity *int     `json:"quantity"`
}

// load hydrates the cart from the store. Persisted data is untrusted input:
// a missing key or an unparsable payload leaves the cart empty, and records
// failing the line-item invariants are dropped individually while the
// well-formed rest are kept.
func (m *Manager) load(ctx context.Context) {
	raw, err := m.store.Load(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "load cart snapshot", slog.String("error", err.Error()))
		return
	}
	if len(raw) == 0 {
		return
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		m.logger.WarnContext(ctx, "discarding unparsable cart snapshot", slog.String("error", err.Error()))
		return
	}

	items := make([]LineItem, 0, len(records))
	for _, rec := range records {
		var p persistedItem
		if err := json.Unmarshal(rec, &p); err != nil {
			continue
		}
		if p.ID == nil || p.Price == nil || p.Quantity == nil || *p.Quantity <= 0 {
			continue
		}
		item := LineItem{ID: *p.ID, Price: *p.Price, Quantity: *p.Quantity}
		if p.Name != nil {
			item.Name = *p.Name
		}
		if p.Image != nil {
			item.Image = *p.Image
		}
		items = append(items, item)
	}
	m.items = items
}
