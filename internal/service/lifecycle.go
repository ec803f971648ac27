package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

var (
	ErrForbidden              = errors.New("actor not permitted")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrTechnicianRequired     = errors.New("transition requires a technician assignment")
	ErrTechnicianNotValidated = errors.New("technician is not validated")
)

// Actor is the session context injected into every authorization check. It is
// built by the auth middleware at request time and never stored globally.
type Actor struct {
	ID        uuid.UUID
	Role      models.Role
	Validated bool
}

// SystemInterventionMessage is appended to the thread when a hospital converts
// a resolved consultation/quote ticket into an intervention request.
const SystemInterventionMessage = "Intervention requested following the accepted quote/consultation."

// Effects are the writes the store must apply atomically together with a
// status change.
type Effects struct {
	ForceType       models.TicketType // "" = keep
	ClearTechnician bool
	SystemMessage   string
}

type transitionKey struct {
	from models.TicketStatus
	to   models.TicketStatus
}

type transitionRule struct {
	role         models.Role         // role allowed to drive this edge
	assignedTech bool                // actor must be the ticket's assigned technician
	owner        bool                // actor must be the owning hospital
	types        []models.TicketType // nil = any ticket type
	effects      Effects
}

// transitions is the single authoritative table for the ticket lifecycle:
// received → processing → assigned → working → resolved → closed, with the
// consultation/quote shortcut processing → resolved and the hospital-driven
// conversion resolved → received (type forced to intervention). Anything not
// listed here is rejected.
var transitions = map[transitionKey]transitionRule{
	{models.StatusReceived, models.StatusProcessing}: {
		role: models.RoleAdmin,
	},
	{models.StatusProcessing, models.StatusAssigned}: {
		role:  models.RoleAdmin,
		types: []models.TicketType{models.TypeIntervention},
	},
	{models.StatusAssigned, models.StatusWorking}: {
		role: models.RoleTechnician, assignedTech: true,
	},
	{models.StatusWorking, models.StatusResolved}: {
		role: models.RoleTechnician, assignedTech: true,
	},
	{models.StatusProcessing, models.StatusResolved}: {
		role:  models.RoleAdmin,
		types: []models.TicketType{models.TypeConsultation, models.TypeQuote},
	},
	{models.StatusResolved, models.StatusReceived}: {
		role: models.RoleHospital, owner: true,
		types: []models.TicketType{models.TypeConsultation, models.TypeQuote},
		effects: Effects{
			ForceType:       models.TypeIntervention,
			ClearTechnician: true,
			SystemMessage:   SystemInterventionMessage,
		},
	},
	{models.StatusResolved, models.StatusClosed}: {
		role: models.RoleAdmin,
	},
}

// CheckTransition decides whether actor may move ticket to the given status
// and, if so, which side effects accompany the move. The conversion back to
// received is one-directional: once a ticket's type is intervention there is
// no edge returning it to consultation or quote.
func CheckTransition(actor Actor, t models.Ticket, to models.TicketStatus) (Effects, error) {
	rule, ok := transitions[transitionKey{t.Status, to}]
	if !ok {
		return Effects{}, ErrInvalidTransition
	}
	if actor.Role != rule.role {
		return Effects{}, ErrForbidden
	}
	if rule.owner && actor.ID != t.HospitalID {
		return Effects{}, ErrForbidden
	}
	if rule.assignedTech {
		if !actor.Validated {
			return Effects{}, ErrForbidden
		}
		if t.AssignedTechnicianID == nil || *t.AssignedTechnicianID != actor.ID {
			return Effects{}, ErrForbidden
		}
	}
	if rule.types != nil && !typeIn(t.TicketType, rule.types) {
		return Effects{}, ErrInvalidTransition
	}
	// processing → assigned carries a technician and must go through
	// CheckAssignment so the validated-technician invariant is enforced.
	if to == models.StatusAssigned {
		return Effects{}, ErrTechnicianRequired
	}
	return rule.effects, nil
}

// CheckAssignment validates the processing → assigned edge: admin only,
// intervention tickets only, and the target must be a validated technician
// profile. Consultation and quote tickets never carry a technician; they are
// answered in place or converted to an intervention first.
func CheckAssignment(actor Actor, t models.Ticket, technician models.Profile) error {
	rule := transitions[transitionKey{models.StatusProcessing, models.StatusAssigned}]
	if actor.Role != rule.role {
		return ErrForbidden
	}
	if t.Status != models.StatusProcessing {
		return ErrInvalidTransition
	}
	if !typeIn(t.TicketType, rule.types) {
		return ErrInvalidTransition
	}
	if technician.Role != models.RoleTechnician {
		return ErrTechnicianNotValidated
	}
	if !technician.IsValidated {
		return ErrTechnicianNotValidated
	}
	return nil
}

// CheckInterventionReport gates the completion record: only the assigned,
// validated technician may file it, and only once field work has started.
func CheckInterventionReport(actor Actor, t models.Ticket) error {
	if actor.Role != models.RoleTechnician || !actor.Validated {
		return ErrForbidden
	}
	if t.AssignedTechnicianID == nil || *t.AssignedTechnicianID != actor.ID {
		return ErrForbidden
	}
	if t.Status != models.StatusWorking && t.Status != models.StatusResolved {
		return ErrInvalidTransition
	}
	return nil
}

func typeIn(t models.TicketType, set []models.TicketType) bool {
	for _, candidate := range set {
		if t == candidate {
			return true
		}
	}
	return false
}
