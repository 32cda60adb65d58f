package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medspa/medspa/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, practitioner_id, client_id, client_name, room_id, service_id, service_name,
	start_time, end_time, post_treatment_minutes, status, overridden_conflicts, notes, series_id,
	created_at, updated_at`

func (r *appointmentRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PractitionerID, &a.ClientID, &a.ClientName, &a.RoomID, &a.ServiceID,
		&a.ServiceName, &a.StartTime, &a.EndTime, &a.PostTreatmentMinutes, &a.Status,
		&a.OverriddenConflicts, &a.Notes, &a.SeriesID, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, practitioner_id, client_id, client_name, room_id, service_id,
			service_name, start_time, end_time, post_treatment_minutes, status,
			overridden_conflicts, notes, series_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.PractitionerID, a.ClientID, a.ClientName, a.RoomID, a.ServiceID,
		a.ServiceName, a.StartTime, a.EndTime, a.PostTreatmentMinutes, a.Status,
		a.OverriddenConflicts, a.Notes, a.SeriesID)
	if err != nil {
		return err
	}
	for _, res := range a.Resources {
		res.AppointmentID = a.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO appointment_resource (appointment_id, resource_id, pool_id)
			VALUES ($1,$2,$3)`,
			res.AppointmentID, res.ResourceID, res.PoolID); err != nil {
			return err
		}
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachResources(ctx, []*Appointment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET room_id=$2, start_time=$3, end_time=$4,
			post_treatment_minutes=$5, status=$6, overridden_conflicts=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.RoomID, a.StartTime, a.EndTime,
		a.PostTreatmentMinutes, a.Status, a.OverriddenConflicts, a.Notes)
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment_resource WHERE appointment_id = $1`, a.ID); err != nil {
		return err
	}
	for _, res := range a.Resources {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO appointment_resource (appointment_id, resource_id, pool_id)
			VALUES ($1,$2,$3)`,
			a.ID, res.ResourceID, res.PoolID); err != nil {
			return err
		}
	}
	return nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointment SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *appointmentRepoPG) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE practitioner_id = $1`, practitionerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE practitioner_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`, practitionerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(ctx, rows)
	return items, total, err
}

func (r *appointmentRepoPG) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE client_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(ctx, rows)
	return items, total, err
}

func (r *appointmentRepoPG) ListInRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE start_time < $2 AND end_time + make_interval(mins => post_treatment_minutes) > $1
		ORDER BY start_time ASC`, from, to)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *appointmentRepoPG) ListByPractitionerInRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE practitioner_id = $1
		  AND start_time < $3 AND end_time + make_interval(mins => post_treatment_minutes) > $2
		ORDER BY start_time ASC`, practitionerID, from, to)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *appointmentRepoPG) collect(ctx context.Context, rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachResources(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *appointmentRepoPG) attachResources(ctx context.Context, appts []*Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(appts))
	byID := make(map[uuid.UUID]*Appointment, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
		byID[a.ID] = a
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT appointment_id, resource_id, pool_id
		FROM appointment_resource WHERE appointment_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var res AppointmentResource
		if err := rows.Scan(&res.AppointmentID, &res.ResourceID, &res.PoolID); err != nil {
			return err
		}
		if a, ok := byID[res.AppointmentID]; ok {
			a.Resources = append(a.Resources, res)
		}
	}
	return rows.Err()
}

// =========== Shift Repository ===========

type shiftRepoPG struct{ pool *pgxpool.Pool }

func NewShiftRepoPG(pool *pgxpool.Pool) ShiftRepository { return &shiftRepoPG{pool: pool} }

func (r *shiftRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const shiftCols = `id, practitioner_id, start_time, end_time, room_id, tags, created_at, updated_at`

func (r *shiftRepoPG) scanShift(row pgx.Row) (*Shift, error) {
	var s Shift
	err := row.Scan(&s.ID, &s.PractitionerID, &s.StartTime, &s.EndTime, &s.RoomID, &s.Tags,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *shiftRepoPG) Create(ctx context.Context, s *Shift) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO shift (id, practitioner_id, start_time, end_time, room_id, tags)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.PractitionerID, s.StartTime, s.EndTime, s.RoomID, s.Tags)
	return err
}

func (r *shiftRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Shift, error) {
	return r.scanShift(r.conn(ctx).QueryRow(ctx, `SELECT `+shiftCols+` FROM shift WHERE id = $1`, id))
}

func (r *shiftRepoPG) Update(ctx context.Context, s *Shift) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE shift SET start_time=$2, end_time=$3, room_id=$4, tags=$5, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.StartTime, s.EndTime, s.RoomID, s.Tags)
	return err
}

func (r *shiftRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM shift WHERE id = $1`, id)
	return err
}

func (r *shiftRepoPG) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Shift, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM shift WHERE practitioner_id = $1`, practitionerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+shiftCols+` FROM shift WHERE practitioner_id = $1 ORDER BY start_time ASC LIMIT $2 OFFSET $3`, practitionerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Shift
	for rows.Next() {
		s, err := r.scanShift(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *shiftRepoPG) ListInRange(ctx context.Context, from, to time.Time) ([]*Shift, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+shiftCols+` FROM shift
		WHERE start_time < $2 AND end_time > $1
		ORDER BY start_time ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Shift
	for rows.Next() {
		s, err := r.scanShift(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// =========== Practitioner Repository ===========

type practitionerRepoPG struct{ pool *pgxpool.Pool }

func NewPractitionerRepoPG(pool *pgxpool.Pool) PractitionerRepository {
	return &practitionerRepoPG{pool: pool}
}

func (r *practitionerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const practitionerCols = `id, name, role, capabilities, stagger_minutes, active, created_at, updated_at`

func (r *practitionerRepoPG) scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.Capabilities, &p.StaggerMinutes, &p.Active,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *practitionerRepoPG) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO practitioner (id, name, role, capabilities, stagger_minutes, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Role, p.Capabilities, p.StaggerMinutes, p.Active)
	return err
}

func (r *practitionerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return r.scanPractitioner(r.conn(ctx).QueryRow(ctx, `SELECT `+practitionerCols+` FROM practitioner WHERE id = $1`, id))
}

func (r *practitionerRepoPG) Update(ctx context.Context, p *Practitioner) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE practitioner SET name=$2, role=$3, capabilities=$4, stagger_minutes=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Role, p.Capabilities, p.StaggerMinutes, p.Active)
	return err
}

func (r *practitionerRepoPG) List(ctx context.Context, limit, offset int) ([]*Practitioner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM practitioner`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+practitionerCols+` FROM practitioner ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Practitioner
	for rows.Next() {
		p, err := r.scanPractitioner(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Service Repository ===========

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository { return &serviceRepoPG{pool: pool} }

func (r *serviceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const serviceCols = `id, name, duration_minutes, scheduled_duration_minutes, post_treatment_minutes,
	required_capabilities, required_equipment, tags, active, created_at, updated_at`

func (r *serviceRepoPG) scanService(row pgx.Row) (*TreatmentService, error) {
	var s TreatmentService
	err := row.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.ScheduledDurationMinutes,
		&s.PostTreatmentMinutes, &s.RequiredCapabilities, &s.RequiredEquipment, &s.Tags,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *serviceRepoPG) Create(ctx context.Context, s *TreatmentService) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO service (id, name, duration_minutes, scheduled_duration_minutes,
			post_treatment_minutes, required_capabilities, required_equipment, tags, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Name, s.DurationMinutes, s.ScheduledDurationMinutes,
		s.PostTreatmentMinutes, s.RequiredCapabilities, s.RequiredEquipment, s.Tags, s.Active)
	if err != nil {
		return err
	}
	return r.replaceRequirements(ctx, s)
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TreatmentService, error) {
	s, err := r.scanService(r.conn(ctx).QueryRow(ctx, `SELECT `+serviceCols+` FROM service WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachRequirements(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *serviceRepoPG) Update(ctx context.Context, s *TreatmentService) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE service SET name=$2, duration_minutes=$3, scheduled_duration_minutes=$4,
			post_treatment_minutes=$5, required_capabilities=$6, required_equipment=$7,
			tags=$8, active=$9, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.DurationMinutes, s.ScheduledDurationMinutes,
		s.PostTreatmentMinutes, s.RequiredCapabilities, s.RequiredEquipment, s.Tags, s.Active)
	if err != nil {
		return err
	}
	return r.replaceRequirements(ctx, s)
}

func (r *serviceRepoPG) List(ctx context.Context, limit, offset int) ([]*TreatmentService, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM service`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+serviceCols+` FROM service ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TreatmentService
	for rows.Next() {
		s, err := r.scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, s := range items {
		if err := r.attachRequirements(ctx, s); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *serviceRepoPG) replaceRequirements(ctx context.Context, s *TreatmentService) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM service_requirement WHERE service_id = $1`, s.ID); err != nil {
		return err
	}
	for _, req := range s.Requirements {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO service_requirement (service_id, pool_id, quantity)
			VALUES ($1,$2,$3)`,
			s.ID, req.PoolID, req.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *serviceRepoPG) attachRequirements(ctx context.Context, s *TreatmentService) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT service_id, pool_id, quantity FROM service_requirement WHERE service_id = $1`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	s.Requirements = nil
	for rows.Next() {
		var req Requirement
		if err := rows.Scan(&req.ServiceID, &req.PoolID, &req.Quantity); err != nil {
			return err
		}
		s.Requirements = append(s.Requirements, req)
	}
	return rows.Err()
}

// =========== Room Repository ===========

type roomRepoPG struct{ pool *pgxpool.Pool }

func NewRoomRepoPG(pool *pgxpool.Pool) RoomRepository { return &roomRepoPG{pool: pool} }

func (r *roomRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *roomRepoPG) Create(ctx context.Context, rm *Room) error {
	rm.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO room (id, name, active) VALUES ($1,$2,$3)`, rm.ID, rm.Name, rm.Active)
	return err
}

func (r *roomRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var rm Room
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, active, created_at, updated_at FROM room WHERE id = $1`, id).
		Scan(&rm.ID, &rm.Name, &rm.Active, &rm.CreatedAt, &rm.UpdatedAt)
	return &rm, err
}

func (r *roomRepoPG) Update(ctx context.Context, rm *Room) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE room SET name=$2, active=$3, updated_at=NOW() WHERE id = $1`, rm.ID, rm.Name, rm.Active)
	return err
}

func (r *roomRepoPG) List(ctx context.Context, limit, offset int) ([]*Room, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM room`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, active, created_at, updated_at FROM room ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Active, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rm)
	}
	return items, total, rows.Err()
}

// =========== Resource Repository ===========

type resourceRepoPG struct{ pool *pgxpool.Pool }

func NewResourceRepoPG(pool *pgxpool.Pool) ResourceRepository { return &resourceRepoPG{pool: pool} }

func (r *resourceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *resourceRepoPG) CreatePool(ctx context.Context, p *ResourcePool) error {
	p.ID = uuid.New()
	if _, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO resource_pool (id, name) VALUES ($1,$2)`, p.ID, p.Name); err != nil {
		return err
	}
	for i := range p.Resources {
		p.Resources[i].PoolID = p.ID
		if err := r.CreateResource(ctx, &p.Resources[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *resourceRepoPG) GetPool(ctx context.Context, id uuid.UUID) (*ResourcePool, error) {
	var p ResourcePool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM resource_pool WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := r.attachPoolResources(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *resourceRepoPG) ListPools(ctx context.Context) ([]*ResourcePool, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at, updated_at FROM resource_pool ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pools []*ResourcePool
	for rows.Next() {
		var p ResourcePool
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pools = append(pools, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range pools {
		if err := r.attachPoolResources(ctx, p); err != nil {
			return nil, err
		}
	}
	return pools, nil
}

func (r *resourceRepoPG) CreateResource(ctx context.Context, res *Resource) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO resource (id, pool_id, name, active) VALUES ($1,$2,$3,$4)`,
		res.ID, res.PoolID, res.Name, res.Active)
	return err
}

func (r *resourceRepoPG) UpdateResource(ctx context.Context, res *Resource) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE resource SET name=$2, active=$3, updated_at=NOW() WHERE id = $1`,
		res.ID, res.Name, res.Active)
	return err
}

func (r *resourceRepoPG) attachPoolResources(ctx context.Context, p *ResourcePool) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, pool_id, name, active, created_at, updated_at
		FROM resource WHERE pool_id = $1 ORDER BY id ASC`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Resources = nil
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.PoolID, &res.Name, &res.Active, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return err
		}
		p.Resources = append(p.Resources, res)
	}
	return rows.Err()
}
