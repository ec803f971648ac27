package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

// Hub fans new ticket messages out to live viewers of a ticket. Subscribers
// register per ticket id and receive each inserted message on a buffered
// channel; a viewer that cannot keep up misses messages and recovers them by
// re-listing the thread on reconnect. Ordering follows publish order, which
// is timestamp order only as far as insert timestamps are distinct.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[uuid.UUID]map[int]chan models.TicketMessage
}

const subscriberBuffer = 16

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[int]chan models.TicketMessage)}
}

// Subscribe registers a viewer for a ticket. The returned cancel func
// releases the subscription and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe(ticketID uuid.UUID) (<-chan models.TicketMessage, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.TicketMessage, subscriberBuffer)
	if h.subs[ticketID] == nil {
		h.subs[ticketID] = make(map[int]chan models.TicketMessage)
	}
	id := h.next
	h.next++
	h.subs[ticketID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[ticketID], id)
			if len(h.subs[ticketID]) == 0 {
				delete(h.subs, ticketID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers a message to every subscriber of its ticket without
// blocking the caller. Full subscriber buffers are skipped.
func (h *Hub) Publish(m models.TicketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[m.TicketID] {
		select {
		case ch <- m:
		default:
		}
	}
}
