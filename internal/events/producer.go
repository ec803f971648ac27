package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/med-repair-dash/backend/internal/models"
)

const (
	TicketCreated       = "ticket.created"
	TicketStatusChanged = "ticket.status_changed"
	TicketAssigned      = "ticket.assigned"
)

// Producer writes ticket lifecycle events to a Kafka topic, best-effort: a
// publish failure is logged and never surfaces to the request. With no
// brokers configured every method is a no-op.
type Producer struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func NewProducer(brokers []string, topic string, logger zerolog.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{logger: logger}
	}
	return &Producer{
		logger: logger,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type ticketEvent struct {
	Event                string    `json:"event"`
	TicketID             string    `json:"ticket_id"`
	TicketNumber         string    `json:"ticket_number"`
	HospitalID           string    `json:"hospital_id"`
	AssignedTechnicianID *string   `json:"assigned_technician_id,omitempty"`
	TicketType           string    `json:"ticket_type"`
	Status               string    `json:"status"`
	At                   time.Time `json:"at"`
}

// PublishTicketEvent sends one event for the ticket in its current state.
// Call it in a goroutine after the write committed.
func (p *Producer) PublishTicketEvent(ctx context.Context, event string, t models.Ticket) {
	if p.writer == nil {
		return
	}
	e := ticketEvent{
		Event:        event,
		TicketID:     t.ID.String(),
		TicketNumber: t.TicketNumber,
		HospitalID:   t.HospitalID.String(),
		TicketType:   string(t.TicketType),
		Status:       string(t.Status),
		At:           time.Now().UTC(),
	}
	if t.AssignedTechnicianID != nil {
		id := t.AssignedTechnicianID.String()
		e.AssignedTechnicianID = &id
	}
	body, err := json.Marshal(e)
	if err != nil {
		p.logger.Error().Err(err).Msg("events: marshal ticket event")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.TicketID), Value: body}); err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("events: write ticket event")
	}
}

// PublishAsync fires PublishTicketEvent on its own goroutine with a bounded
// timeout so the HTTP response is never held up by the broker.
func (p *Producer) PublishAsync(event string, t models.Ticket) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.PublishTicketEvent(ctx, event, t)
	}()
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
