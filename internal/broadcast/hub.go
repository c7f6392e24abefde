// Package broadcast fans order events out to in-process subscribers.
//
// Delivery never blocks a publisher: every subscriber owns a bounded buffer and
// is evicted as soon as that buffer is full. An evicted subscriber sees its
// channel closed with Dropped() reporting true and is expected to re-subscribe
// and re-fetch current state from storage.
package broadcast

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// EventKind identifies what happened to the order carried by an Event.
type EventKind string

// List of event kinds
const (
	EventPending   EventKind = "order.pending"
	EventRetracted EventKind = "order.retracted"
	EventStatus    EventKind = "order.status"
)

// Event is a single notification delivered to a subscriber.
type Event struct {
	Kind  EventKind
	Order domain.Order
}

// Hub is an in-memory broadcaster safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	nextID  uint64
	pending map[uint64]*Subscription
	orders  map[string]map[uint64]*Subscription

	// pending subscriptions of identified couriers
	couriers map[string]map[uint64]*Subscription

	buffer  int
	logger  logx.Logger
	dropped prometheus.Counter
}

// NewHub creates a Hub whose subscribers buffer up to buffer events.
func NewHub(buffer int, logger logx.Logger, dropped prometheus.Counter) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Hub{
		pending:  make(map[uint64]*Subscription),
		orders:   make(map[string]map[uint64]*Subscription),
		couriers: make(map[string]map[uint64]*Subscription),
		buffer:   buffer,
		logger:   logger,
		dropped:  dropped,
	}
}

// PublishNewPending delivers a freshly created order to pending subscribers
// whose class filter matches it.
func (h *Hub) PublishNewPending(_ context.Context, o domain.Order) error {
	h.deliver(Event{Kind: EventPending, Order: o}, false)
	return nil
}

// PublishStatusChange delivers the order snapshot to its order subscribers and,
// once the order has left pending, retracts it from pending subscribers.
func (h *Hub) PublishStatusChange(_ context.Context, o domain.Order) error {
	h.deliver(Event{Kind: EventStatus, Order: o}, true)
	if o.Status != domain.StatusPending {
		h.deliver(Event{Kind: EventRetracted, Order: o}, false)
	}
	return nil
}

// SubscribePending opens a stream of pending-order events. A nil class receives
// every class. A non-empty courierID lets CloseCourier end the stream later.
func (h *Hub) SubscribePending(courierID string, class *domain.VehicleClass) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.newSubscription()
	if class != nil {
		c := *class
		s.class = &c
	}
	h.pending[s.id] = s
	if courierID != "" {
		s.courierID = courierID
		subs, ok := h.couriers[courierID]
		if !ok {
			subs = make(map[uint64]*Subscription)
			h.couriers[courierID] = subs
		}
		subs[s.id] = s
	}
	return s
}

// CloseCourier ends every pending stream of a courier that went offline and
// returns how many were closed. Dropped() stays false on those subscriptions.
func (h *Hub) CloseCourier(courierID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.couriers[courierID]
	for id, s := range subs {
		delete(h.pending, id)
		s.closeOnce.Do(func() { close(s.ch) })
	}
	delete(h.couriers, courierID)
	return len(subs)
}

// SubscribeOrder opens a stream of status events for one order.
func (h *Hub) SubscribeOrder(orderID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.newSubscription()
	s.orderID = orderID
	subs, ok := h.orders[orderID]
	if !ok {
		subs = make(map[uint64]*Subscription)
		h.orders[orderID] = subs
	}
	subs[s.id] = s
	return s
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	st := h.Stats()
	return st.Pending + st.Order
}

// Stats is a point-in-time view of the subscriber registry.
type Stats struct {
	Pending       int `json:"pending_subscribers"`
	Order         int `json:"order_subscribers"`
	WatchedOrders int `json:"watched_orders"`
}

// Stats returns the current subscriber counts.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := Stats{Pending: len(h.pending), WatchedOrders: len(h.orders)}
	for _, subs := range h.orders {
		st.Order += len(subs)
	}
	return st
}

func (h *Hub) newSubscription() *Subscription {
	h.nextID++
	return &Subscription{
		id:  h.nextID,
		hub: h,
		ch:  make(chan Event, h.buffer),
	}
}

// deliver sends ev without blocking. Sends happen under the read lock and
// channels are closed only under the write lock, so a send never hits a closed channel.
func (h *Hub) deliver(ev Event, byOrder bool) {
	var stragglers []*Subscription

	h.mu.RLock()
	if byOrder {
		for _, s := range h.orders[ev.Order.ID] {
			if !s.offer(ev) {
				stragglers = append(stragglers, s)
			}
		}
	} else {
		for _, s := range h.pending {
			if s.class != nil && *s.class != ev.Order.VehicleClass {
				continue
			}
			if !s.offer(ev) {
				stragglers = append(stragglers, s)
			}
		}
	}
	h.mu.RUnlock()

	for _, s := range stragglers {
		if h.remove(s) {
			if h.dropped != nil {
				h.dropped.Inc()
			}
			h.logger.Warn("subscriber evicted: buffer full",
				logx.Int64("subscription_id", int64(s.id)),
				logx.String("order_id", s.orderID),
				logx.String("event", string(ev.Kind)),
			)
		}
	}
}

// remove unregisters s and closes its channel. It reports whether s was still registered.
func (h *Hub) remove(s *Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := false
	if s.orderID != "" {
		if subs, ok := h.orders[s.orderID]; ok {
			if _, ok := subs[s.id]; ok {
				delete(subs, s.id)
				removed = true
			}
			if len(subs) == 0 {
				delete(h.orders, s.orderID)
			}
		}
	} else if _, ok := h.pending[s.id]; ok {
		delete(h.pending, s.id)
		removed = true
		if subs, ok := h.couriers[s.courierID]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(h.couriers, s.courierID)
			}
		}
	}

	s.closeOnce.Do(func() { close(s.ch) })
	return removed
}

// Subscription is one subscriber's view of the Hub.
type Subscription struct {
	id        uint64
	hub       *Hub
	ch        chan Event
	class     *domain.VehicleClass
	orderID   string
	courierID string

	dropped   atomic.Bool
	closeOnce sync.Once
}

// Events returns the receive side. It is closed on Close or eviction.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Dropped reports whether the Hub evicted this subscriber for falling behind.
func (s *Subscription) Dropped() bool { return s.dropped.Load() }

// Close unsubscribes. Safe to call more than once and concurrently with publishers.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

func (s *Subscription) offer(ev Event) bool {
	if s.dropped.Load() {
		return true
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return !s.dropped.CompareAndSwap(false, true)
	}
}
