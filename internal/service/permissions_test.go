package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

func TestPermissionTable(t *testing.T) {
	cases := []struct {
		action  Action
		role    models.Role
		allowed bool
	}{
		{ActionCreateTicket, models.RoleHospital, true},
		{ActionCreateTicket, models.RoleAdmin, false},
		{ActionCreateTicket, models.RoleTechnician, false},
		{ActionCreateMaintenance, models.RoleHospital, true},
		{ActionCreateMaintenance, models.RoleTechnician, false},
		{ActionScheduleMaintenance, models.RoleAdmin, true},
		{ActionScheduleMaintenance, models.RoleHospital, false},
		{ActionValidateTechnician, models.RoleAdmin, true},
		{ActionValidateTechnician, models.RoleTechnician, false},
		{ActionListTechnicians, models.RoleAdmin, true},
		{ActionListTechnicians, models.RoleHospital, false},
	}
	for _, tc := range cases {
		actor := Actor{ID: uuid.New(), Role: tc.role, Validated: true}
		if got := Can(actor, tc.action); got != tc.allowed {
			t.Fatalf("%s for %s: expected %v, got %v", tc.action, tc.role, tc.allowed, got)
		}
	}
}

func TestCanViewTicket(t *testing.T) {
	owner := uuid.New()
	tech := uuid.New()
	tk := models.Ticket{ID: uuid.New(), HospitalID: owner}
	assigned := tk
	assigned.AssignedTechnicianID = &tech

	if !CanViewTicket(Actor{ID: uuid.New(), Role: models.RoleAdmin}, tk) {
		t.Fatalf("admin should see every ticket")
	}
	if !CanViewTicket(Actor{ID: owner, Role: models.RoleHospital}, tk) {
		t.Fatalf("owner should see its ticket")
	}
	if CanViewTicket(Actor{ID: uuid.New(), Role: models.RoleHospital}, tk) {
		t.Fatalf("other hospital should not see the ticket")
	}
	if !CanViewTicket(Actor{ID: tech, Role: models.RoleTechnician, Validated: true}, assigned) {
		t.Fatalf("assigned validated technician should see the ticket")
	}
	if CanViewTicket(Actor{ID: tech, Role: models.RoleTechnician, Validated: false}, assigned) {
		t.Fatalf("unvalidated technician should see nothing")
	}
	if CanViewTicket(Actor{ID: uuid.New(), Role: models.RoleTechnician, Validated: true}, assigned) {
		t.Fatalf("non-assigned technician should not see the ticket")
	}
}

func TestScopeTickets(t *testing.T) {
	hospital := Actor{ID: uuid.New(), Role: models.RoleHospital, Validated: true}
	scope := ScopeTickets(hospital)
	if scope.HospitalID == nil || *scope.HospitalID != hospital.ID.String() {
		t.Fatalf("expected hospital scope, got %+v", scope)
	}

	admin := ScopeTickets(Actor{ID: uuid.New(), Role: models.RoleAdmin, Validated: true})
	if admin.HospitalID != nil || admin.TechnicianID != nil || admin.None {
		t.Fatalf("expected unrestricted admin scope, got %+v", admin)
	}

	tech := Actor{ID: uuid.New(), Role: models.RoleTechnician, Validated: true}
	scope = ScopeTickets(tech)
	if scope.TechnicianID == nil || *scope.TechnicianID != tech.ID.String() {
		t.Fatalf("expected technician scope, got %+v", scope)
	}

	pending := ScopeTickets(Actor{ID: uuid.New(), Role: models.RoleTechnician, Validated: false})
	if !pending.None {
		t.Fatalf("unvalidated technician must have an empty scope, got %+v", pending)
	}
}

func TestCanViewMaintenance(t *testing.T) {
	owner := uuid.New()
	m := models.MaintenanceRequest{ID: uuid.New(), HospitalID: owner}

	if !CanViewMaintenance(Actor{ID: uuid.New(), Role: models.RoleAdmin}, m) {
		t.Fatalf("admin should see maintenance requests")
	}
	if !CanViewMaintenance(Actor{ID: owner, Role: models.RoleHospital}, m) {
		t.Fatalf("owner should see its maintenance request")
	}
	if CanViewMaintenance(Actor{ID: uuid.New(), Role: models.RoleHospital}, m) {
		t.Fatalf("other hospital should not see the request")
	}
	if CanViewMaintenance(Actor{ID: uuid.New(), Role: models.RoleTechnician, Validated: true}, m) {
		t.Fatalf("technicians do not see maintenance requests")
	}
}
