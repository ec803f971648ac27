package service

import "github.com/med-repair-dash/backend/internal/models"

// Action names a role-gated operation outside the status transition table.
type Action string

const (
	ActionCreateTicket        Action = "ticket.create"
	ActionCreateMaintenance   Action = "maintenance.create"
	ActionScheduleMaintenance Action = "maintenance.schedule"
	ActionCompleteMaintenance Action = "maintenance.complete"
	ActionCancelMaintenance   Action = "maintenance.cancel"
	ActionValidateTechnician  Action = "technician.validate"
	ActionListTechnicians     Action = "technician.list"
)

// permissions is the role × action table consulted by every handler instead of
// per-view checks.
var permissions = map[Action][]models.Role{
	ActionCreateTicket:        {models.RoleHospital},
	ActionCreateMaintenance:   {models.RoleHospital},
	ActionScheduleMaintenance: {models.RoleAdmin},
	ActionCompleteMaintenance: {models.RoleAdmin},
	ActionCancelMaintenance:   {models.RoleAdmin},
	ActionValidateTechnician:  {models.RoleAdmin},
	ActionListTechnicians:     {models.RoleAdmin},
}

func Can(actor Actor, action Action) bool {
	for _, role := range permissions[action] {
		if actor.Role == role {
			return true
		}
	}
	return false
}

// CanViewTicket reports whether actor participates in the ticket: the owning
// hospital, the assigned validated technician, or any admin.
func CanViewTicket(actor Actor, t models.Ticket) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleHospital:
		return actor.ID == t.HospitalID
	case models.RoleTechnician:
		if !actor.Validated {
			return false
		}
		return t.AssignedTechnicianID != nil && *t.AssignedTechnicianID == actor.ID
	}
	return false
}

// CanViewMaintenance mirrors the maintenance ownership rule: hospitals see
// their own requests, admins see everything, technicians see none.
func CanViewMaintenance(actor Actor, m models.MaintenanceRequest) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleHospital:
		return actor.ID == m.HospitalID
	}
	return false
}

// TicketScope describes the list filter for an actor. Empty means
// unrestricted (admin); None means the actor sees no tickets at all
// (unvalidated technician).
type TicketScope struct {
	HospitalID   *string
	TechnicianID *string
	None         bool
}

func ScopeTickets(actor Actor) TicketScope {
	switch actor.Role {
	case models.RoleAdmin:
		return TicketScope{}
	case models.RoleHospital:
		id := actor.ID.String()
		return TicketScope{HospitalID: &id}
	case models.RoleTechnician:
		if !actor.Validated {
			return TicketScope{None: true}
		}
		id := actor.ID.String()
		return TicketScope{TechnicianID: &id}
	}
	return TicketScope{None: true}
}
