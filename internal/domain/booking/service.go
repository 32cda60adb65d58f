package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medspa/medspa/internal/engine"
)

var validStatuses = map[string]bool{
	"scheduled": true, "confirmed": true, "arrived": true, "in_progress": true,
	"completed": true, "cancelled": true, "no_show": true, "deleted": true,
}

// practitionerLocks serializes booking commits per practitioner so two
// concurrent requests cannot both pass evaluation and claim the same slot.
type practitionerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newPractitionerLocks() *practitionerLocks {
	return &practitionerLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (p *practitionerLocks) lock(id uuid.UUID) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m
}

// Service orchestrates booking: it loads a schedule snapshot, runs the
// engine's checks, and commits permitted bookings.
type Service struct {
	appts         AppointmentRepository
	shifts        ShiftRepository
	practitioners PractitionerRepository
	services      ServiceRepository
	rooms         RoomRepository
	resources     ResourceRepository

	policy  engine.OverridePolicy
	aliases engine.TagAliases
	locks   *practitionerLocks
}

func NewService(
	appts AppointmentRepository,
	shifts ShiftRepository,
	practitioners PractitionerRepository,
	services ServiceRepository,
	rooms RoomRepository,
	resources ResourceRepository,
	policy engine.OverridePolicy,
	aliases engine.TagAliases,
) *Service {
	return &Service{
		appts:         appts,
		shifts:        shifts,
		practitioners: practitioners,
		services:      services,
		rooms:         rooms,
		resources:     resources,
		policy:        policy,
		aliases:       aliases,
		locks:         newPractitionerLocks(),
	}
}

// BookingInput is one booking or reschedule request.
type BookingInput struct {
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	ServiceID      uuid.UUID  `json:"service_id"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	ClientName     *string    `json:"client_name,omitempty"`
	RoomID         *uuid.UUID `json:"room_id,omitempty"`
	StartTime      time.Time  `json:"start_time"`
	// EndTime is optional; when zero the service's scheduled duration
	// decides it.
	EndTime time.Time `json:"end_time,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	// ExcludePostTreatment books without the service's sanitation buffer,
	// so the practitioner and room free up at the nominal end time.
	ExcludePostTreatment bool `json:"exclude_post_treatment,omitempty"`
	// RescheduleOf names the appointment being moved so it does not
	// conflict with itself.
	RescheduleOf uuid.UUID `json:"reschedule_of,omitempty"`
}

// BookingResult pairs the committed appointment with the verdict that
// permitted it. Appointment is nil when the verdict refused the booking.
type BookingResult struct {
	Appointment *Appointment   `json:"appointment,omitempty"`
	Verdict     engine.Verdict `json:"verdict"`
}

// loadSnapshot reads everything the engine needs for one evaluation window.
// The window is padded by a day on each side so buffered intervals and
// overnight shifts are never clipped.
func (s *Service) loadSnapshot(ctx context.Context, from, to time.Time) (engine.Snapshot, error) {
	var snap engine.Snapshot

	appts, err := s.appts.ListInRange(ctx, from.AddDate(0, 0, -1), to.AddDate(0, 0, 1))
	if err != nil {
		return snap, fmt.Errorf("load appointments: %w", err)
	}
	for _, a := range appts {
		snap.Appointments = append(snap.Appointments, a.ToEngine())
	}

	shifts, err := s.shifts.ListInRange(ctx, from.AddDate(0, 0, -1), to.AddDate(0, 0, 1))
	if err != nil {
		return snap, fmt.Errorf("load shifts: %w", err)
	}
	for _, sh := range shifts {
		snap.Shifts = append(snap.Shifts, sh.ToEngine())
	}

	pools, err := s.resources.ListPools(ctx)
	if err != nil {
		return snap, fmt.Errorf("load resource pools: %w", err)
	}
	for _, p := range pools {
		snap.Pools = append(snap.Pools, p.ToEngine())
	}
	return snap, nil
}

func (s *Service) buildRequest(ctx context.Context, in BookingInput) (engine.BookingRequest, *TreatmentService, error) {
	if in.PractitionerID == uuid.Nil {
		return engine.BookingRequest{}, nil, fmt.Errorf("practitioner_id is required")
	}
	if in.StartTime.IsZero() {
		return engine.BookingRequest{}, nil, fmt.Errorf("start_time is required")
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return engine.BookingRequest{}, nil, fmt.Errorf("service not found: %w", err)
	}
	pract, err := s.practitioners.GetByID(ctx, in.PractitionerID)
	if err != nil {
		return engine.BookingRequest{}, nil, fmt.Errorf("practitioner not found: %w", err)
	}

	end := in.EndTime
	if end.IsZero() {
		end = in.StartTime.Add(time.Duration(svc.ToEngine().BlockMinutes()) * time.Minute)
	}
	post := svc.PostTreatmentMinutes
	if in.ExcludePostTreatment {
		post = 0
	}

	return engine.BookingRequest{
		Candidate: engine.Candidate{
			PractitionerID:       in.PractitionerID,
			Start:                in.StartTime,
			End:                  end,
			RoomID:               in.RoomID,
			PostTreatmentMinutes: post,
			ServiceName:          svc.Name,
			ExcludeID:            in.RescheduleOf,
		},
		Service:      svc.ToEngine(),
		Practitioner: pract.ToEngine(),
		Aliases:      s.aliases,
	}, svc, nil
}

// EvaluateBooking runs the full check pipeline without committing anything.
func (s *Service) EvaluateBooking(ctx context.Context, in BookingInput) (engine.Verdict, error) {
	req, _, err := s.buildRequest(ctx, in)
	if err != nil {
		return engine.Verdict{}, err
	}
	snap, err := s.loadSnapshot(ctx, req.Candidate.Start, req.Candidate.BufferedEnd())
	if err != nil {
		return engine.Verdict{}, err
	}
	return engine.Evaluate(req, snap, s.policy)
}

// Book evaluates and, when permitted, commits the appointment with its
// assigned resources. The commit runs under the practitioner's lock so the
// snapshot cannot go stale between evaluation and insert.
func (s *Service) Book(ctx context.Context, in BookingInput) (BookingResult, error) {
	req, svc, err := s.buildRequest(ctx, in)
	if err != nil {
		return BookingResult{}, err
	}

	mu := s.locks.lock(in.PractitionerID)
	defer mu.Unlock()

	snap, err := s.loadSnapshot(ctx, req.Candidate.Start, req.Candidate.BufferedEnd())
	if err != nil {
		return BookingResult{}, err
	}
	verdict, err := engine.Evaluate(req, snap, s.policy)
	if err != nil {
		return BookingResult{}, err
	}
	if !verdict.Permitted {
		return BookingResult{Verdict: verdict}, nil
	}

	a := &Appointment{
		PractitionerID:       in.PractitionerID,
		ClientID:             in.ClientID,
		ClientName:           in.ClientName,
		RoomID:               in.RoomID,
		ServiceID:            &svc.ID,
		ServiceName:          svc.Name,
		StartTime:            req.Candidate.Start,
		EndTime:              req.Candidate.End,
		PostTreatmentMinutes: req.Candidate.PostTreatmentMinutes,
		Status:               "scheduled",
		OverriddenConflicts:  verdict.Overridden,
		Notes:                in.Notes,
	}
	for _, ref := range verdict.Resources.Assignments() {
		a.Resources = append(a.Resources, AppointmentResource{
			ResourceID: ref.ResourceID,
			PoolID:     ref.PoolID,
		})
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return BookingResult{}, fmt.Errorf("commit appointment: %w", err)
	}
	return BookingResult{Appointment: a, Verdict: verdict}, nil
}

// Reschedule moves an existing appointment to a new window, re-running the
// full pipeline with the appointment excluded from its own conflict check.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, in BookingInput) (BookingResult, error) {
	existing, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return BookingResult{}, fmt.Errorf("appointment not found: %w", err)
	}
	in.PractitionerID = existing.PractitionerID
	if in.ServiceID == uuid.Nil && existing.ServiceID != nil {
		in.ServiceID = *existing.ServiceID
	}
	in.RescheduleOf = id

	req, _, err := s.buildRequest(ctx, in)
	if err != nil {
		return BookingResult{}, err
	}

	mu := s.locks.lock(existing.PractitionerID)
	defer mu.Unlock()

	snap, err := s.loadSnapshot(ctx, req.Candidate.Start, req.Candidate.BufferedEnd())
	if err != nil {
		return BookingResult{}, err
	}
	verdict, err := engine.Evaluate(req, snap, s.policy)
	if err != nil {
		return BookingResult{}, err
	}
	if !verdict.Permitted {
		return BookingResult{Verdict: verdict}, nil
	}

	existing.RoomID = in.RoomID
	existing.StartTime = req.Candidate.Start
	existing.EndTime = req.Candidate.End
	existing.PostTreatmentMinutes = req.Candidate.PostTreatmentMinutes
	existing.OverriddenConflicts = verdict.Overridden
	existing.Resources = nil
	for _, ref := range verdict.Resources.Assignments() {
		existing.Resources = append(existing.Resources, AppointmentResource{
			AppointmentID: existing.ID,
			ResourceID:    ref.ResourceID,
			PoolID:        ref.PoolID,
		})
	}
	if err := s.appts.Update(ctx, existing); err != nil {
		return BookingResult{}, fmt.Errorf("commit reschedule: %w", err)
	}
	return BookingResult{Appointment: existing, Verdict: verdict}, nil
}

// UpdateStatus moves an appointment through its lifecycle. Cancellation and
// no-show release the appointment's hold on equipment implicitly: the
// availability checks filter on status, so no row deletion is needed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid appointment status: %s", status)
	}
	if _, err := s.appts.GetByID(ctx, id); err != nil {
		return fmt.Errorf("appointment not found: %w", err)
	}
	return s.appts.UpdateStatus(ctx, id, status)
}

// Cancel marks the appointment cancelled, freeing its practitioner, room,
// and equipment for the window.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.UpdateStatus(ctx, id, "cancelled")
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) ListAppointmentsByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPractitioner(ctx, practitionerID, limit, offset)
}

func (s *Service) ListAppointmentsByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByClient(ctx, clientID, limit, offset)
}

// -- Recurring series --

// SeriesInput describes a recurring booking request.
type SeriesInput struct {
	PractitionerID       uuid.UUID      `json:"practitioner_id"`
	ServiceID            uuid.UUID      `json:"service_id"`
	ClientID             *uuid.UUID     `json:"client_id,omitempty"`
	ClientName           *string        `json:"client_name,omitempty"`
	RoomID               *uuid.UUID     `json:"room_id,omitempty"`
	AnchorDate           time.Time      `json:"anchor_date"`
	StartHour            int            `json:"start_hour"`
	StartMinute          int            `json:"start_minute"`
	Weekdays             []time.Weekday `json:"weekdays"`
	EndDate              time.Time      `json:"end_date"`
	IncludePostTreatment bool           `json:"include_post_treatment"`
}

// PreviewSeries expands and classifies a recurring request without booking.
func (s *Service) PreviewSeries(ctx context.Context, in SeriesInput) ([]engine.Occurrence, error) {
	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("service not found: %w", err)
	}
	snap, err := s.loadSnapshot(ctx, in.AnchorDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return engine.PlanSeries(engine.SeriesAnchor{
		PractitionerID:       in.PractitionerID,
		Service:              svc.ToEngine(),
		RoomID:               in.RoomID,
		AnchorDate:           in.AnchorDate,
		StartHour:            in.StartHour,
		StartMinute:          in.StartMinute,
		IncludePostTreatment: in.IncludePostTreatment,
	}, in.Weekdays, in.EndDate, snap)
}

// SeriesResult reports what a series booking committed and what it skipped.
type SeriesResult struct {
	SeriesID    uuid.UUID           `json:"series_id"`
	Booked      []*Appointment      `json:"booked"`
	Skipped     []engine.Occurrence `json:"skipped,omitempty"`
	Occurrences []engine.Occurrence `json:"occurrences"`
}

// BookSeries books the selected dates of a recurring series, one occurrence
// at a time so an earlier booking in the series is visible to the next
// occurrence's checks. When selected is empty, every available occurrence
// is booked.
func (s *Service) BookSeries(ctx context.Context, in SeriesInput, selected map[time.Time]bool) (SeriesResult, error) {
	occurrences, err := s.PreviewSeries(ctx, in)
	if err != nil {
		return SeriesResult{}, err
	}
	if len(selected) == 0 {
		selected = engine.DefaultSelection(occurrences)
	}

	result := SeriesResult{SeriesID: uuid.New(), Occurrences: occurrences}
	for _, occ := range occurrences {
		if !selected[occ.Date] {
			continue
		}
		if !engine.Selectable(occ, s.policy) {
			result.Skipped = append(result.Skipped, occ)
			continue
		}
		booking, err := s.Book(ctx, BookingInput{
			PractitionerID:       in.PractitionerID,
			ServiceID:            in.ServiceID,
			ClientID:             in.ClientID,
			ClientName:           in.ClientName,
			RoomID:               in.RoomID,
			StartTime:            occ.Start,
			EndTime:              occ.End,
			ExcludePostTreatment: !in.IncludePostTreatment,
		})
		if err != nil {
			return result, fmt.Errorf("book occurrence %s: %w", occ.Date.Format("2006-01-02"), err)
		}
		if booking.Appointment == nil {
			result.Skipped = append(result.Skipped, occ)
			continue
		}
		seriesID := result.SeriesID
		booking.Appointment.SeriesID = &seriesID
		if err := s.appts.Update(ctx, booking.Appointment); err != nil {
			return result, fmt.Errorf("tag series: %w", err)
		}
		result.Booked = append(result.Booked, booking.Appointment)
	}
	return result, nil
}

// -- Calendar layout --

// DayLayout lays out one practitioner's appointments for one calendar day.
func (s *Service) DayLayout(ctx context.Context, practitionerID uuid.UUID, day time.Time, opts engine.LayoutOptions) ([]engine.LayoutSlot, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	appts, err := s.appts.ListByPractitionerInRange(ctx, practitionerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	engineAppts := make([]engine.Appointment, len(appts))
	for i, a := range appts {
		engineAppts[i] = a.ToEngine()
	}
	return engine.AssignLayout(engineAppts, opts), nil
}

// RoomAvailability reports whether a room is free over a window.
func (s *Service) RoomAvailability(ctx context.Context, roomID uuid.UUID, start, end time.Time) (engine.RoomStatus, error) {
	if !end.After(start) {
		return engine.RoomStatus{}, engine.ErrEndBeforeStart
	}
	appts, err := s.appts.ListInRange(ctx, start.AddDate(0, 0, -1), end)
	if err != nil {
		return engine.RoomStatus{}, err
	}
	engineAppts := make([]engine.Appointment, len(appts))
	for i, a := range appts {
		engineAppts[i] = a.ToEngine()
	}
	return engine.CheckRoom(roomID, start, end, uuid.Nil, engineAppts), nil
}

// -- Catalog passthroughs --

func (s *Service) CreateShift(ctx context.Context, sh *Shift) error {
	if sh.PractitionerID == uuid.Nil {
		return fmt.Errorf("practitioner_id is required")
	}
	if !sh.EndTime.After(sh.StartTime) {
		return fmt.Errorf("shift end must be after start")
	}
	return s.shifts.Create(ctx, sh)
}

func (s *Service) GetShift(ctx context.Context, id uuid.UUID) (*Shift, error) {
	return s.shifts.GetByID(ctx, id)
}

func (s *Service) UpdateShift(ctx context.Context, sh *Shift) error {
	if !sh.EndTime.After(sh.StartTime) {
		return fmt.Errorf("shift end must be after start")
	}
	return s.shifts.Update(ctx, sh)
}

func (s *Service) DeleteShift(ctx context.Context, id uuid.UUID) error {
	return s.shifts.Delete(ctx, id)
}

func (s *Service) ListShiftsByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Shift, int, error) {
	return s.shifts.ListByPractitioner(ctx, practitionerID, limit, offset)
}

func (s *Service) CreatePractitioner(ctx context.Context, p *Practitioner) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.practitioners.Create(ctx, p)
}

func (s *Service) GetPractitioner(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return s.practitioners.GetByID(ctx, id)
}

func (s *Service) UpdatePractitioner(ctx context.Context, p *Practitioner) error {
	return s.practitioners.Update(ctx, p)
}

func (s *Service) ListPractitioners(ctx context.Context, limit, offset int) ([]*Practitioner, int, error) {
	return s.practitioners.List(ctx, limit, offset)
}

func (s *Service) CreateTreatmentService(ctx context.Context, svc *TreatmentService) error {
	if svc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if svc.DurationMinutes < engine.MinAppointmentMinutes {
		return fmt.Errorf("duration must be at least %d minutes", engine.MinAppointmentMinutes)
	}
	return s.services.Create(ctx, svc)
}

func (s *Service) GetTreatmentService(ctx context.Context, id uuid.UUID) (*TreatmentService, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) UpdateTreatmentService(ctx context.Context, svc *TreatmentService) error {
	if svc.DurationMinutes < engine.MinAppointmentMinutes {
		return fmt.Errorf("duration must be at least %d minutes", engine.MinAppointmentMinutes)
	}
	return s.services.Update(ctx, svc)
}

func (s *Service) ListTreatmentServices(ctx context.Context, limit, offset int) ([]*TreatmentService, int, error) {
	return s.services.List(ctx, limit, offset)
}

func (s *Service) CreateRoom(ctx context.Context, r *Room) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.rooms.Create(ctx, r)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) UpdateRoom(ctx context.Context, r *Room) error {
	return s.rooms.Update(ctx, r)
}

func (s *Service) ListRooms(ctx context.Context, limit, offset int) ([]*Room, int, error) {
	return s.rooms.List(ctx, limit, offset)
}

func (s *Service) CreateResourcePool(ctx context.Context, p *ResourcePool) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.resources.CreatePool(ctx, p)
}

func (s *Service) GetResourcePool(ctx context.Context, id uuid.UUID) (*ResourcePool, error) {
	return s.resources.GetPool(ctx, id)
}

func (s *Service) ListResourcePools(ctx context.Context) ([]*ResourcePool, error) {
	return s.resources.ListPools(ctx)
}

func (s *Service) CreateResource(ctx context.Context, res *Resource) error {
	if res.PoolID == uuid.Nil {
		return fmt.Errorf("pool_id is required")
	}
	return s.resources.CreateResource(ctx, res)
}

func (s *Service) UpdateResource(ctx context.Context, res *Resource) error {
	return s.resources.UpdateResource(ctx, res)
}
