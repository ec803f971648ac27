package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleHospital   Role = "hospital"
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHospital, RoleAdmin, RoleTechnician:
		return true
	}
	return false
}

type TicketStatus string

const (
	StatusReceived   TicketStatus = "received"
	StatusProcessing TicketStatus = "processing"
	StatusAssigned   TicketStatus = "assigned"
	StatusWorking    TicketStatus = "working"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusProcessing, StatusAssigned, StatusWorking, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type TicketType string

const (
	TypeConsultation TicketType = "consultation"
	TypeQuote        TicketType = "quote"
	TypeIntervention TicketType = "intervention"
)

func (t TicketType) Valid() bool {
	switch t {
	case TypeConsultation, TypeQuote, TypeIntervention:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenancePending   MaintenanceStatus = "pending"
	MaintenanceScheduled MaintenanceStatus = "scheduled"
	MaintenanceCompleted MaintenanceStatus = "completed"
	MaintenanceCancelled MaintenanceStatus = "cancelled"
)

type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	IsValidated  bool      `json:"is_validated"`
	HospitalName *string   `json:"hospital_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Ticket struct {
	ID                   uuid.UUID    `json:"id"`
	TicketNumber         string       `json:"ticket_number"`
	HospitalID           uuid.UUID    `json:"hospital_id"`
	AssignedTechnicianID *uuid.UUID   `json:"assigned_technician_id,omitempty"`
	DeviceName           string       `json:"device_name"`
	DeviceModel          *string      `json:"device_model,omitempty"`
	SerialNumber         *string      `json:"serial_number,omitempty"`
	Symptoms             string       `json:"symptoms"`
	Priority             Priority     `json:"priority"`
	TicketType           TicketType   `json:"ticket_type"`
	Status               TicketStatus `json:"status"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

type TicketMessage struct {
	ID        uuid.UUID `json:"id"`
	TicketID  uuid.UUID `json:"ticket_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketFile struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileType   *string   `json:"file_type,omitempty"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type MaintenanceRequest struct {
	ID                  uuid.UUID         `json:"id"`
	HospitalID          uuid.UUID         `json:"hospital_id"`
	DeviceName          string            `json:"device_name"`
	DeviceModel         *string           `json:"device_model,omitempty"`
	SerialNumber        *string           `json:"serial_number,omitempty"`
	MaintenanceType     string            `json:"maintenance_type"`
	Description         string            `json:"description"`
	Status              MaintenanceStatus `json:"status"`
	Cost                *float64          `json:"cost,omitempty"`
	NextMaintenanceDate *time.Time        `json:"next_maintenance_date,omitempty"`
	PerformedBy         *uuid.UUID        `json:"performed_by,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type Intervention struct {
	ID              uuid.UUID `json:"id"`
	TicketID        uuid.UUID `json:"ticket_id"`
	TechnicianID    uuid.UUID `json:"technician_id"`
	WorkDone        string    `json:"work_done"`
	PartsReplaced   *string   `json:"parts_replaced,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	SignatureData   *string   `json:"signature_data,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}
