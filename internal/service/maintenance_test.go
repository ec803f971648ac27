package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

func maintenanceAt(status models.MaintenanceStatus) models.MaintenanceRequest {
	return models.MaintenanceRequest{ID: uuid.New(), HospitalID: uuid.New(), Status: status}
}

func TestMaintenanceTransitions(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin, Validated: true}

	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenancePending), models.MaintenanceScheduled); err != nil {
		t.Fatalf("pending -> scheduled: %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenanceScheduled), models.MaintenanceCompleted); err != nil {
		t.Fatalf("scheduled -> completed: %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenancePending), models.MaintenanceCancelled); err != nil {
		t.Fatalf("pending -> cancelled: %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenanceScheduled), models.MaintenanceCancelled); err != nil {
		t.Fatalf("scheduled -> cancelled: %v", err)
	}
}

func TestMaintenanceTransitionRejections(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin, Validated: true}
	hospital := Actor{ID: uuid.New(), Role: models.RoleHospital, Validated: true}

	if err := CheckMaintenanceTransition(hospital, maintenanceAt(models.MaintenancePending), models.MaintenanceScheduled); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for hospital scheduling, got %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenanceScheduled), models.MaintenanceScheduled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition rescheduling, got %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenancePending), models.MaintenanceCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition completing pending, got %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenanceCompleted), models.MaintenanceCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition cancelling completed, got %v", err)
	}
	if err := CheckMaintenanceTransition(admin, maintenanceAt(models.MaintenancePending), models.MaintenancePending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for no-op target, got %v", err)
	}
}
