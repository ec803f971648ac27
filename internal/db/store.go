package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/med-repair-dash/backend/internal/models"
	"github.com/med-repair-dash/backend/internal/service"
)

// ErrDuplicate maps Postgres unique violations (duplicate email, second
// intervention report for the same ticket).
var ErrDuplicate = errors.New("duplicate row")

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- profiles ---

const profileColumns = `id, email, password_hash, full_name, phone, role, is_validated, hospital_name, created_at, updated_at`

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Role, &p.IsValidated, &p.HospitalName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, password_hash, full_name, phone, role, is_validated, hospital_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, p.ID, p.Email, p.PasswordHash, p.FullName, p.Phone, p.Role, p.IsValidated, p.HospitalName)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanProfile(row)
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (s *Store) ListTechnicians(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = 'technician' ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SetTechnicianValidated(ctx context.Context, id uuid.UUID, validated bool) (models.Profile, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE profiles SET is_validated = $1, updated_at = NOW()
		WHERE id = $2 AND role = 'technician'
		RETURNING `+profileColumns, validated, id)
	return scanProfile(row)
}

// --- tickets ---

const ticketColumns = `id, ticket_number, hospital_id, assigned_technician_id, device_name, device_model, serial_number, symptoms, priority, ticket_type, status, created_at, updated_at`

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.TicketNumber, &t.HospitalID, &t.AssignedTechnicianID, &t.DeviceName, &t.DeviceModel, &t.SerialNumber, &t.Symptoms, &t.Priority, &t.TicketType, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func newTicketNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TKT-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

func (s *Store) CreateTicket(ctx context.Context, t *models.Ticket) error {
	t.ID = uuid.New()
	t.TicketNumber = newTicketNumber()
	t.Status = models.StatusReceived
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO tickets (id, ticket_number, hospital_id, device_name, device_model, serial_number, symptoms, priority, ticket_type, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`, t.ID, t.TicketNumber, t.HospitalID, t.DeviceName, t.DeviceModel, t.SerialNumber, t.Symptoms, t.Priority, t.TicketType, t.Status)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) GetTicket(ctx context.Context, id uuid.UUID) (models.Ticket, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (s *Store) ListTickets(ctx context.Context, scope service.TicketScope, status, ticketType string, limit, offset int) ([]models.Ticket, error) {
	if scope.None {
		return []models.Ticket{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []any
	var wheres []string
	if scope.HospitalID != nil {
		args = append(args, *scope.HospitalID)
		wheres = append(wheres, fmt.Sprintf("hospital_id = $%d", len(args)))
	}
	if scope.TechnicianID != nil {
		args = append(args, *scope.TechnicianID)
		wheres = append(wheres, fmt.Sprintf("assigned_technician_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if ticketType != "" {
		args = append(args, ticketType)
		wheres = append(wheres, fmt.Sprintf("ticket_type = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TransitionTicket applies a status change together with its side effects in
// one transaction: optional type conversion, technician clearing, and the
// system message insert. The UPDATE is predicated on the expected current
// status so a stale or duplicate writer gets ErrInvalidTransition instead of
// re-applying the move. Returns the updated ticket and the system message
// when one was created.
func (s *Store) TransitionTicket(ctx context.Context, ticketID uuid.UUID, from, to models.TicketStatus, effects service.Effects, senderID uuid.UUID) (models.Ticket, *models.TicketMessage, error) {
	var updated models.Ticket
	var sysMsg *models.TicketMessage
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		sets := []string{"status = $1", "updated_at = NOW()"}
		args := []any{to}
		if effects.ForceType != "" {
			args = append(args, effects.ForceType)
			sets = append(sets, fmt.Sprintf("ticket_type = $%d", len(args)))
		}
		if effects.ClearTechnician {
			sets = append(sets, "assigned_technician_id = NULL")
		}
		args = append(args, ticketID, from)
		query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = $%d AND status = $%d RETURNING `+ticketColumns, strings.Join(sets, ", "), len(args)-1, len(args))
		t, err := scanTicket(tx.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrInvalidTransition
		}
		if err != nil {
			return err
		}
		updated = t

		if effects.SystemMessage != "" {
			m := models.TicketMessage{ID: uuid.New(), TicketID: ticketID, SenderID: senderID, Message: effects.SystemMessage}
			row := tx.QueryRow(ctx, `
				INSERT INTO ticket_messages (id, ticket_id, sender_id, message)
				VALUES ($1,$2,$3,$4) RETURNING created_at
			`, m.ID, m.TicketID, m.SenderID, m.Message)
			if err := row.Scan(&m.CreatedAt); err != nil {
				return err
			}
			sysMsg = &m
		}
		return nil
	})
	if err != nil {
		return models.Ticket{}, nil, err
	}
	return updated, sysMsg, nil
}

// AssignTechnician performs processing → assigned, re-checking inside the
// transaction that the target is still a validated technician. The UPDATE is
// predicated on status and ticket type: only an intervention ticket still in
// processing can pick up a technician.
func (s *Store) AssignTechnician(ctx context.Context, ticketID, technicianID uuid.UUID) (models.Ticket, error) {
	var updated models.Ticket
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var validated bool
		err := tx.QueryRow(ctx, `SELECT is_validated FROM profiles WHERE id = $1 AND role = 'technician'`, technicianID).Scan(&validated)
		if err != nil {
			return err
		}
		if !validated {
			return service.ErrTechnicianNotValidated
		}
		t, err := scanTicket(tx.QueryRow(ctx, `
			UPDATE tickets SET assigned_technician_id = $1, status = 'assigned', updated_at = NOW()
			WHERE id = $2 AND status = 'processing' AND ticket_type = 'intervention'
			RETURNING `+ticketColumns, technicianID, ticketID))
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrInvalidTransition
		}
		if err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	return updated, nil
}

// --- ticket messages ---

func (s *Store) CreateMessage(ctx context.Context, m *models.TicketMessage) error {
	m.ID = uuid.New()
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO ticket_messages (id, ticket_id, sender_id, message)
		VALUES ($1,$2,$3,$4) RETURNING created_at
	`, m.ID, m.TicketID, m.SenderID, m.Message)
	return row.Scan(&m.CreatedAt)
}

func (s *Store) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.TicketMessage, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, ticket_id, sender_id, message, created_at
		FROM ticket_messages WHERE ticket_id = $1 ORDER BY created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TicketMessage{}
	for rows.Next() {
		var m models.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// --- ticket files ---

func (s *Store) CreateFile(ctx context.Context, f *models.TicketFile) error {
	f.ID = uuid.New()
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO ticket_files (id, ticket_id, file_name, file_url, file_type, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at
	`, f.ID, f.TicketID, f.FileName, f.FileURL, f.FileType, f.UploadedBy)
	return row.Scan(&f.CreatedAt)
}

func (s *Store) ListFiles(ctx context.Context, ticketID uuid.UUID) ([]models.TicketFile, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, ticket_id, file_name, file_url, file_type, uploaded_by, created_at
		FROM ticket_files WHERE ticket_id = $1 ORDER BY created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TicketFile{}
	for rows.Next() {
		var f models.TicketFile
		if err := rows.Scan(&f.ID, &f.TicketID, &f.FileName, &f.FileURL, &f.FileType, &f.UploadedBy, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// --- equipment maintenance ---

const maintenanceColumns = `id, hospital_id, device_name, device_model, serial_number, maintenance_type, description, status, cost, next_maintenance_date, performed_by, created_at, updated_at`

func scanMaintenance(row pgx.Row) (models.MaintenanceRequest, error) {
	var m models.MaintenanceRequest
	err := row.Scan(&m.ID, &m.HospitalID, &m.DeviceName, &m.DeviceModel, &m.SerialNumber, &m.MaintenanceType, &m.Description, &m.Status, &m.Cost, &m.NextMaintenanceDate, &m.PerformedBy, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (s *Store) CreateMaintenance(ctx context.Context, m *models.MaintenanceRequest) error {
	m.ID = uuid.New()
	m.Status = models.MaintenancePending
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO equipment_maintenance (id, hospital_id, device_name, device_model, serial_number, maintenance_type, description, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, m.ID, m.HospitalID, m.DeviceName, m.DeviceModel, m.SerialNumber, m.MaintenanceType, m.Description, m.Status)
	return row.Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (s *Store) GetMaintenance(ctx context.Context, id uuid.UUID) (models.MaintenanceRequest, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM equipment_maintenance WHERE id = $1`, id)
	return scanMaintenance(row)
}

func (s *Store) ListMaintenance(ctx context.Context, hospitalID *uuid.UUID) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM equipment_maintenance`
	var args []any
	if hospitalID != nil {
		query += ` WHERE hospital_id = $1`
		args = append(args, *hospitalID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MaintenanceRequest{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ScheduleMaintenance(ctx context.Context, id uuid.UUID, cost float64, nextDate time.Time) (models.MaintenanceRequest, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE equipment_maintenance
		SET status = 'scheduled', cost = $1, next_maintenance_date = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+maintenanceColumns, cost, nextDate, id)
	return scanMaintenance(row)
}

func (s *Store) UpdateMaintenanceStatus(ctx context.Context, id uuid.UUID, to models.MaintenanceStatus) (models.MaintenanceRequest, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE equipment_maintenance SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+maintenanceColumns, to, id)
	return scanMaintenance(row)
}

// --- interventions ---

func (s *Store) CreateIntervention(ctx context.Context, iv *models.Intervention) error {
	iv.ID = uuid.New()
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO interventions (id, ticket_id, technician_id, work_done, parts_replaced, duration_minutes, signature_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING completed_at
	`, iv.ID, iv.TicketID, iv.TechnicianID, iv.WorkDone, iv.PartsReplaced, iv.DurationMinutes, iv.SignatureData)
	if err := row.Scan(&iv.CompletedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) GetInterventionByTicket(ctx context.Context, ticketID uuid.UUID) (models.Intervention, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, ticket_id, technician_id, work_done, parts_replaced, duration_minutes, signature_data, completed_at
		FROM interventions WHERE ticket_id = $1
	`, ticketID)
	var iv models.Intervention
	err := row.Scan(&iv.ID, &iv.TicketID, &iv.TechnicianID, &iv.WorkDone, &iv.PartsReplaced, &iv.DurationMinutes, &iv.SignatureData, &iv.CompletedAt)
	return iv, err
}
