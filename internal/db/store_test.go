package db

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

func TestTicketNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := newTicketNumber()
		if !strings.HasPrefix(n, "TKT-") {
			t.Fatalf("unexpected ticket number %q", n)
		}
		parts := strings.Split(n, "-")
		if len(parts) != 3 || len(parts[1]) != 8 || len(parts[2]) != 6 {
			t.Fatalf("unexpected ticket number shape %q", n)
		}
		if seen[n] {
			t.Fatalf("duplicate ticket number %q", n)
		}
		seen[n] = true
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := MigrateUp(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestTicketRoundTripIntegration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	hospital := models.Profile{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@hospital.test",
		PasswordHash: "x",
		FullName:     "Test Hospital",
		Role:         models.RoleHospital,
		IsValidated:  true,
	}
	if err := store.CreateProfile(ctx, &hospital); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	model := "X200"
	ticket := models.Ticket{
		HospitalID:  hospital.ID,
		DeviceName:  "Ventilator",
		DeviceModel: &model,
		Symptoms:    "intermittent alarm",
		Priority:    models.PriorityUrgent,
		TicketType:  models.TypeQuote,
	}
	if err := store.CreateTicket(ctx, &ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if ticket.Status != models.StatusReceived {
		t.Fatalf("new ticket must start received, got %s", ticket.Status)
	}

	got, err := store.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if got.TicketNumber != ticket.TicketNumber ||
		got.HospitalID != ticket.HospitalID ||
		got.DeviceName != ticket.DeviceName ||
		got.DeviceModel == nil || *got.DeviceModel != model ||
		got.Symptoms != ticket.Symptoms ||
		got.Priority != ticket.Priority ||
		got.TicketType != ticket.TicketType ||
		got.Status != ticket.Status {
		t.Fatalf("round trip mismatch:\ncreated %+v\nread    %+v", ticket, got)
	}
}

func TestStaleTransitionConflictIntegration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	hospital := models.Profile{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@hospital.test",
		PasswordHash: "x",
		Role:         models.RoleHospital,
		IsValidated:  true,
	}
	if err := store.CreateProfile(ctx, &hospital); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	ticket := models.Ticket{
		HospitalID: hospital.ID,
		DeviceName: "Infusion pump",
		Symptoms:   "display dead",
		Priority:   models.PriorityHigh,
		TicketType: models.TypeIntervention,
	}
	if err := store.CreateTicket(ctx, &ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	updated, _, err := store.TransitionTicket(ctx, ticket.ID, models.StatusReceived, models.StatusProcessing, service.Effects{}, hospital.ID)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != models.StatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	// A stale writer still holding the received snapshot must not re-apply
	// the move once the row has advanced.
	if _, _, err := store.TransitionTicket(ctx, ticket.ID, models.StatusReceived, models.StatusProcessing, service.Effects{}, hospital.ID); !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale writer, got %v", err)
	}
}

func TestAssignTechnicianTypeGuardIntegration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	hospital := models.Profile{ID: uuid.New(), Email: uuid.NewString() + "@hospital.test", PasswordHash: "x", Role: models.RoleHospital, IsValidated: true}
	if err := store.CreateProfile(ctx, &hospital); err != nil {
		t.Fatalf("create hospital: %v", err)
	}
	technician := models.Profile{ID: uuid.New(), Email: uuid.NewString() + "@tech.test", PasswordHash: "x", Role: models.RoleTechnician, IsValidated: true}
	if err := store.CreateProfile(ctx, &technician); err != nil {
		t.Fatalf("create technician: %v", err)
	}

	quote := models.Ticket{
		HospitalID: hospital.ID,
		DeviceName: "MRI coil",
		Symptoms:   "replacement pricing",
		Priority:   models.PriorityLow,
		TicketType: models.TypeQuote,
	}
	if err := store.CreateTicket(ctx, &quote); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, _, err := store.TransitionTicket(ctx, quote.ID, models.StatusReceived, models.StatusProcessing, service.Effects{}, hospital.ID); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if _, err := store.AssignTechnician(ctx, quote.ID, technician.ID); !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition assigning a quote, got %v", err)
	}
}

func TestDuplicateEmailIntegration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	email := uuid.NewString() + "@hospital.test"
	first := models.Profile{ID: uuid.New(), Email: email, PasswordHash: "x", Role: models.RoleHospital, IsValidated: true}
	if err := store.CreateProfile(ctx, &first); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	second := models.Profile{ID: uuid.New(), Email: email, PasswordHash: "x", Role: models.RoleHospital, IsValidated: true}
	if err := store.CreateProfile(ctx, &second); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
