package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	ticketID := uuid.New()

	ch1, cancel1 := hub.Subscribe(ticketID)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(ticketID)
	defer cancel2()

	// Two messages created back to back, different senders. Both must reach
	// both viewers; relative order is not asserted.
	now := time.Now()
	m1 := models.TicketMessage{ID: uuid.New(), TicketID: ticketID, SenderID: uuid.New(), Message: "first", CreatedAt: now}
	m2 := models.TicketMessage{ID: uuid.New(), TicketID: ticketID, SenderID: uuid.New(), Message: "second", CreatedAt: now}
	hub.Publish(m1)
	hub.Publish(m2)

	for _, ch := range []<-chan models.TicketMessage{ch1, ch2} {
		seen := map[uuid.UUID]bool{}
		for i := 0; i < 2; i++ {
			select {
			case m := <-ch:
				seen[m.ID] = true
			case <-time.After(time.Second):
				t.Fatalf("timed out waiting for message %d", i)
			}
		}
		if !seen[m1.ID] || !seen[m2.ID] {
			t.Fatalf("subscriber missed a message: %v", seen)
		}
	}
}

func TestPublishScopedToTicket(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(uuid.New())
	defer cancel()

	hub.Publish(models.TicketMessage{ID: uuid.New(), TicketID: uuid.New(), Message: "other thread"})

	select {
	case m := <-ch:
		t.Fatalf("received message for another ticket: %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ticketID := uuid.New()

	ch, cancel := hub.Subscribe(ticketID)
	cancel()
	cancel() // safe to call twice

	// The channel is closed; publish after cancel must not panic.
	hub.Publish(models.TicketMessage{ID: uuid.New(), TicketID: ticketID, Message: "late"})

	if _, open := <-ch; open {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	ticketID := uuid.New()

	_, cancel := hub.Subscribe(ticketID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(models.TicketMessage{ID: uuid.New(), TicketID: ticketID})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
}
