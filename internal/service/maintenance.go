package service

import "github.com/med-repair-dash/backend/internal/models"

// CheckMaintenanceTransition gates the maintenance workflow. Pricing and
// scheduling are admin-only: pending → scheduled (with cost and date),
// scheduled → completed, and pending/scheduled → cancelled.
func CheckMaintenanceTransition(actor Actor, m models.MaintenanceRequest, to models.MaintenanceStatus) error {
	var action Action
	switch to {
	case models.MaintenanceScheduled:
		action = ActionScheduleMaintenance
		if m.Status != models.MaintenancePending {
			return ErrInvalidTransition
		}
	case models.MaintenanceCompleted:
		action = ActionCompleteMaintenance
		if m.Status != models.MaintenanceScheduled {
			return ErrInvalidTransition
		}
	case models.MaintenanceCancelled:
		action = ActionCancelMaintenance
		if m.Status != models.MaintenancePending && m.Status != models.MaintenanceScheduled {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	if !Can(actor, action) {
		return ErrForbidden
	}
	return nil
}
