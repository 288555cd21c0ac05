package activity

import (
	"sync"

	"estate-crm/internal/common/models"
	"estate-crm/internal/features/tenancy"
)

const subscriptionBuffer = 32

// Hub fans freshly recorded activities out to live feed subscribers. Each
// subscriber only sees rows inside the access it was authorized for.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscription]struct{})}
}

type Subscription struct {
	access tenancy.Access
	events chan models.Activity
}

// Events is closed when the subscription is cancelled.
func (s *Subscription) Events() <-chan models.Activity {
	return s.events
}

func (h *Hub) Subscribe(access tenancy.Access) *Subscription {
	sub := &Subscription{
		access: access,
		events: make(chan models.Activity, subscriptionBuffer),
	}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.events)
	}
}

// Publish never blocks; a slow subscriber misses events.
func (h *Hub) Publish(a models.Activity) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		if !visible(sub.access, a) {
			continue
		}
		select {
		case sub.events <- a:
		default:
		}
	}
}

func visible(access tenancy.Access, a models.Activity) bool {
	if access.Platform || access.TenantID != a.TenantID {
		return false
	}
	return access.Owns(a.UserID)
}
