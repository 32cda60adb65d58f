package booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medspa/medspa/internal/engine"
)

// -- Mock Repositories --

type mockApptRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockApptRepo) Update(_ context.Context, a *Appointment) error {
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.appts[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.Status = status
	return nil
}

func (m *mockApptRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PractitionerID == practitionerID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockApptRepo) ListByClient(_ context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.ClientID != nil && *a.ClientID == clientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockApptRepo) ListInRange(_ context.Context, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApptRepo) ListByPractitionerInRange(_ context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PractitionerID == practitionerID && a.StartTime.Before(to) && a.EndTime.After(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

type mockShiftRepo struct {
	shifts map[uuid.UUID]*Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[uuid.UUID]*Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, s *Shift) error {
	s.ID = uuid.New()
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id uuid.UUID) (*Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockShiftRepo) Update(_ context.Context, s *Shift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Shift, int, error) {
	var result []*Shift
	for _, s := range m.shifts {
		if s.PractitionerID == practitionerID {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockShiftRepo) ListInRange(_ context.Context, from, to time.Time) ([]*Shift, error) {
	var result []*Shift
	for _, s := range m.shifts {
		if s.StartTime.Before(to) && s.EndTime.After(from) {
			result = append(result, s)
		}
	}
	return result, nil
}

type mockPractitionerRepo struct {
	practs map[uuid.UUID]*Practitioner
}

func newMockPractitionerRepo() *mockPractitionerRepo {
	return &mockPractitionerRepo{practs: make(map[uuid.UUID]*Practitioner)}
}

func (m *mockPractitionerRepo) Create(_ context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	m.practs[p.ID] = p
	return nil
}

func (m *mockPractitionerRepo) GetByID(_ context.Context, id uuid.UUID) (*Practitioner, error) {
	p, ok := m.practs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPractitionerRepo) Update(_ context.Context, p *Practitioner) error {
	m.practs[p.ID] = p
	return nil
}

func (m *mockPractitionerRepo) List(_ context.Context, limit, offset int) ([]*Practitioner, int, error) {
	var result []*Practitioner
	for _, p := range m.practs {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockServiceRepo struct {
	services map[uuid.UUID]*TreatmentService
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{services: make(map[uuid.UUID]*TreatmentService)}
}

func (m *mockServiceRepo) Create(_ context.Context, s *TreatmentService) error {
	s.ID = uuid.New()
	m.services[s.ID] = s
	return nil
}

func (m *mockServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*TreatmentService, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockServiceRepo) Update(_ context.Context, s *TreatmentService) error {
	m.services[s.ID] = s
	return nil
}

func (m *mockServiceRepo) List(_ context.Context, limit, offset int) ([]*TreatmentService, int, error) {
	var result []*TreatmentService
	for _, s := range m.services {
		result = append(result, s)
	}
	return result, len(result), nil
}

type mockRoomRepo struct {
	rooms map[uuid.UUID]*Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[uuid.UUID]*Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, r *Room) error {
	r.ID = uuid.New()
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id uuid.UUID) (*Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRoomRepo) Update(_ context.Context, r *Room) error {
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) List(_ context.Context, limit, offset int) ([]*Room, int, error) {
	var result []*Room
	for _, r := range m.rooms {
		result = append(result, r)
	}
	return result, len(result), nil
}

type mockResourceRepo struct {
	pools map[uuid.UUID]*ResourcePool
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{pools: make(map[uuid.UUID]*ResourcePool)}
}

func (m *mockResourceRepo) CreatePool(_ context.Context, p *ResourcePool) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Resources {
		if p.Resources[i].ID == uuid.Nil {
			p.Resources[i].ID = uuid.New()
		}
		p.Resources[i].PoolID = p.ID
	}
	m.pools[p.ID] = p
	return nil
}

func (m *mockResourceRepo) GetPool(_ context.Context, id uuid.UUID) (*ResourcePool, error) {
	p, ok := m.pools[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockResourceRepo) ListPools(_ context.Context) ([]*ResourcePool, error) {
	var result []*ResourcePool
	for _, p := range m.pools {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockResourceRepo) CreateResource(_ context.Context, r *Resource) error {
	p, ok := m.pools[r.PoolID]
	if !ok {
		return fmt.Errorf("pool not found")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	p.Resources = append(p.Resources, *r)
	return nil
}

func (m *mockResourceRepo) UpdateResource(_ context.Context, r *Resource) error {
	p, ok := m.pools[r.PoolID]
	if !ok {
		return fmt.Errorf("pool not found")
	}
	for i := range p.Resources {
		if p.Resources[i].ID == r.ID {
			p.Resources[i] = *r
			return nil
		}
	}
	return fmt.Errorf("not found")
}

// -- Fixtures --

type fixture struct {
	svc       *Service
	appts     *mockApptRepo
	pract     *Practitioner
	treatment *TreatmentService
	pool      *ResourcePool
}

func day(hour, minute int) time.Time {
	return time.Date(2024, time.June, 3, hour, minute, 0, 0, time.UTC)
}

func newFixture(t *testing.T, policy engine.OverridePolicy) *fixture {
	t.Helper()
	appts := newMockApptRepo()
	shifts := newMockShiftRepo()
	practs := newMockPractitionerRepo()
	services := newMockServiceRepo()
	rooms := newMockRoomRepo()
	resources := newMockResourceRepo()
	svc := NewService(appts, shifts, practs, services, rooms, resources, policy, nil)

	ctx := context.Background()
	pract := &Practitioner{Name: "Dr. Vega", Active: true}
	if err := svc.CreatePractitioner(ctx, pract); err != nil {
		t.Fatalf("create practitioner: %v", err)
	}

	pool := &ResourcePool{Name: "IPL Laser", Resources: []Resource{
		{Name: "IPL Laser 1", Active: true},
		{Name: "IPL Laser 2", Active: true},
	}}
	if err := svc.CreateResourcePool(ctx, pool); err != nil {
		t.Fatalf("create pool: %v", err)
	}

	treatment := &TreatmentService{
		Name:                 "Laser Hair Removal",
		DurationMinutes:      45,
		PostTreatmentMinutes: 10,
		Tags:                 []string{"laser"},
		Active:               true,
	}
	if err := svc.CreateTreatmentService(ctx, treatment); err != nil {
		t.Fatalf("create service: %v", err)
	}
	treatment.Requirements = []Requirement{{ServiceID: treatment.ID, PoolID: pool.ID, Quantity: 1}}

	if err := svc.CreateShift(ctx, &Shift{
		PractitionerID: pract.ID,
		StartTime:      day(9, 0),
		EndTime:        day(17, 0),
		Tags:           []string{"laser"},
	}); err != nil {
		t.Fatalf("create shift: %v", err)
	}

	return &fixture{svc: svc, appts: appts, pract: pract, treatment: treatment, pool: pool}
}

func (f *fixture) input(start time.Time) BookingInput {
	return BookingInput{
		PractitionerID: f.pract.ID,
		ServiceID:      f.treatment.ID,
		StartTime:      start,
	}
}

// -- Booking Tests --

func TestBook_CleanSlot(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	result, err := f.svc.Book(context.Background(), f.input(day(10, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Appointment == nil {
		t.Fatalf("expected a committed appointment, verdict %+v", result.Verdict)
	}
	a := result.Appointment
	if a.Status != "scheduled" {
		t.Errorf("expected status scheduled, got %s", a.Status)
	}
	if !a.EndTime.Equal(day(10, 45)) {
		t.Errorf("end time must come from the service duration, got %v", a.EndTime)
	}
	if a.PostTreatmentMinutes != 10 {
		t.Errorf("post-treatment minutes must be copied from the service, got %d", a.PostTreatmentMinutes)
	}
	if len(a.Resources) != 1 {
		t.Errorf("expected one assigned device, got %d", len(a.Resources))
	}
}

func TestBook_ConflictRefused(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	if first, err := f.svc.Book(ctx, f.input(day(10, 0))); err != nil || first.Appointment == nil {
		t.Fatalf("first booking must succeed: %v %+v", err, first.Verdict)
	}

	second, err := f.svc.Book(ctx, f.input(day(10, 30)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Appointment != nil {
		t.Fatal("an overlapping booking must be refused")
	}
	if len(second.Verdict.Blockers) == 0 {
		t.Error("the refusal must carry its blockers")
	}
	if len(f.appts.appts) != 1 {
		t.Errorf("nothing may be committed on refusal, got %d rows", len(f.appts.appts))
	}
}

func TestBook_BufferRefusesAdjacentSlot(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	// 10:00-10:45 with a 10 minute buffer occupies until 10:55.
	f.svc.Book(ctx, f.input(day(10, 0)))

	blocked, err := f.svc.Book(ctx, f.input(day(10, 50)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked.Appointment != nil {
		t.Error("a booking inside the sanitation buffer must be refused")
	}

	clear, err := f.svc.Book(ctx, f.input(day(10, 55)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clear.Appointment == nil {
		t.Errorf("a booking at the buffer boundary must succeed, verdict %+v", clear.Verdict)
	}
}

func TestBook_ExcludePostTreatmentFreesBuffer(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()

	in := f.input(day(10, 0))
	in.ExcludePostTreatment = true
	first, err := f.svc.Book(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Appointment == nil {
		t.Fatalf("expected a committed appointment, verdict %+v", first.Verdict)
	}
	if first.Appointment.PostTreatmentMinutes != 0 {
		t.Errorf("an excluded buffer must not be persisted, got %d minutes", first.Appointment.PostTreatmentMinutes)
	}

	// Without the buffer the slot frees at 10:45 sharp.
	next, err := f.svc.Book(ctx, f.input(day(10, 45)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Appointment == nil {
		t.Errorf("the nominal end must not block the next booking, verdict %+v", next.Verdict)
	}
}

func TestBook_OverrideAllowCommitsFlagged(t *testing.T) {
	f := newFixture(t, engine.OverrideAllow)
	ctx := context.Background()
	f.svc.Book(ctx, f.input(day(10, 0)))

	result, err := f.svc.Book(ctx, f.input(day(10, 30)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Appointment == nil {
		t.Fatal("allow policy must commit the overlapping booking")
	}
	if !result.Appointment.OverriddenConflicts {
		t.Error("an overridden booking must be flagged for audit")
	}
}

func TestBook_NoShiftRefused(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	result, err := f.svc.Book(context.Background(), f.input(day(10, 0).AddDate(0, 0, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Appointment != nil {
		t.Error("a date without a shift must be refused")
	}
}

func TestBook_DevicePoolExhausted(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	// Two devices; a second practitioner with stagger could share, but here
	// both units are held over the window by other bookings.
	other := &Practitioner{Name: "Dr. Osei", Active: true}
	f.svc.CreatePractitioner(ctx, other)
	f.svc.CreateShift(ctx, &Shift{
		PractitionerID: other.ID,
		StartTime:      day(9, 0),
		EndTime:        day(17, 0),
		Tags:           []string{"laser"},
	})

	if r, _ := f.svc.Book(ctx, f.input(day(10, 0))); r.Appointment == nil {
		t.Fatal("first booking must succeed")
	}
	otherIn := f.input(day(10, 0))
	otherIn.PractitionerID = other.ID
	if r, _ := f.svc.Book(ctx, otherIn); r.Appointment == nil {
		t.Fatal("second booking must succeed on the second device")
	}

	third := &Practitioner{Name: "Dr. Lund", Active: true}
	f.svc.CreatePractitioner(ctx, third)
	f.svc.CreateShift(ctx, &Shift{
		PractitionerID: third.ID,
		StartTime:      day(9, 0),
		EndTime:        day(17, 0),
		Tags:           []string{"laser"},
	})
	thirdIn := f.input(day(10, 0))
	thirdIn.PractitionerID = third.ID
	result, err := f.svc.Book(ctx, thirdIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Appointment != nil {
		t.Error("a third concurrent booking must be refused once both devices are held")
	}
	if !hasBlocker(result.Verdict.Blockers, "insufficient") {
		t.Errorf("expected a device shortfall blocker, got %v", result.Verdict.Blockers)
	}
}

func hasBlocker(blockers []string, fragment string) bool {
	for _, b := range blockers {
		if strings.Contains(b, fragment) {
			return true
		}
	}
	return false
}

func TestReschedule_ExcludesSelf(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	booked, _ := f.svc.Book(ctx, f.input(day(10, 0)))
	if booked.Appointment == nil {
		t.Fatal("booking must succeed")
	}

	// A shift of 15 minutes overlaps the original slot; only the exclusion
	// keeps it from conflicting with itself.
	result, err := f.svc.Reschedule(ctx, booked.Appointment.ID, BookingInput{
		ServiceID: f.treatment.ID,
		StartTime: day(10, 15),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Appointment == nil {
		t.Fatalf("reschedule must succeed, verdict %+v", result.Verdict)
	}
	if !result.Appointment.StartTime.Equal(day(10, 15)) {
		t.Errorf("start time must move, got %v", result.Appointment.StartTime)
	}
}

func TestCancel_ReleasesSlotAndDevice(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	booked, _ := f.svc.Book(ctx, f.input(day(10, 0)))
	if err := f.svc.Cancel(ctx, booked.Appointment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rebooked, err := f.svc.Book(ctx, f.input(day(10, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rebooked.Appointment == nil {
		t.Errorf("a cancelled slot must be bookable again, verdict %+v", rebooked.Verdict)
	}
}

func TestUpdateStatus_RejectsUnknown(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	booked, _ := f.svc.Book(ctx, f.input(day(10, 0)))
	if err := f.svc.UpdateStatus(ctx, booked.Appointment.ID, "bogus"); err == nil {
		t.Error("expected error for invalid status")
	}
}

// -- Series Tests --

func seriesInput(f *fixture) SeriesInput {
	return SeriesInput{
		PractitionerID: f.pract.ID,
		ServiceID:      f.treatment.ID,
		AnchorDate:     day(0, 0),
		StartHour:      10,
		Weekdays:       []time.Weekday{time.Monday},
		EndDate:        day(0, 0).AddDate(0, 0, 14),
	}
}

func TestPreviewSeries(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	// Shifts exist only on the anchor Monday; add one for the next.
	f.svc.CreateShift(ctx, &Shift{
		PractitionerID: f.pract.ID,
		StartTime:      day(9, 0).AddDate(0, 0, 7),
		EndTime:        day(17, 0).AddDate(0, 0, 7),
		Tags:           []string{"laser"},
	})

	occs, err := f.svc.PreviewSeries(ctx, seriesInput(f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("expected 3 Mondays, got %d", len(occs))
	}
	if occs[0].Status != engine.OccurrenceAvailable || occs[1].Status != engine.OccurrenceAvailable {
		t.Errorf("covered weeks must be available, got %s and %s", occs[0].Status, occs[1].Status)
	}
	if occs[2].Status != engine.OccurrenceNoShift {
		t.Errorf("the shiftless week must be no-shift, got %s", occs[2].Status)
	}
}

func TestBookSeries_BooksAvailableAndSkipsRest(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	f.svc.CreateShift(ctx, &Shift{
		PractitionerID: f.pract.ID,
		StartTime:      day(9, 0).AddDate(0, 0, 7),
		EndTime:        day(17, 0).AddDate(0, 0, 7),
		Tags:           []string{"laser"},
	})

	result, err := f.svc.BookSeries(ctx, seriesInput(f), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Booked) != 2 {
		t.Fatalf("expected 2 booked occurrences, got %d", len(result.Booked))
	}
	for _, a := range result.Booked {
		if a.SeriesID == nil || *a.SeriesID != result.SeriesID {
			t.Error("every booked occurrence must carry the series ID")
		}
	}
	if len(f.appts.appts) != 2 {
		t.Errorf("expected 2 committed rows, got %d", len(f.appts.appts))
	}
}

func TestBookSeries_EarlierOccurrenceVisibleToLater(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()

	in := seriesInput(f)
	in.EndDate = day(0, 0)
	if _, err := f.svc.BookSeries(ctx, in, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The same series request again: the anchor Monday is now taken.
	again, err := f.svc.BookSeries(ctx, in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.Booked) != 0 {
		t.Error("a taken occurrence must not be booked twice")
	}
}

func TestBookSeries_ExcludedBufferHonoredOnCommit(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	// 10:50 sits five minutes past the occurrence's nominal 10:45 end, inside
	// the sanitation buffer the series explicitly excludes.
	if taken, err := f.svc.Book(ctx, f.input(day(10, 50))); err != nil || taken.Appointment == nil {
		t.Fatalf("setup booking failed: %v %+v", err, taken.Verdict)
	}

	in := seriesInput(f)
	in.EndDate = day(0, 0)
	in.IncludePostTreatment = false

	occs, err := f.svc.PreviewSeries(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 1 || occs[0].Status != engine.OccurrenceAvailable {
		t.Fatalf("the bufferless occurrence must preview as available, got %+v", occs)
	}

	result, err := f.svc.BookSeries(ctx, in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Booked) != 1 {
		t.Fatalf("a previewed-available occurrence must commit, booked %d skipped %d",
			len(result.Booked), len(result.Skipped))
	}
	if result.Booked[0].PostTreatmentMinutes != 0 {
		t.Errorf("the committed occurrence must not carry the excluded buffer, got %d minutes",
			result.Booked[0].PostTreatmentMinutes)
	}
}

// -- Layout and Availability Tests --

func TestDayLayout(t *testing.T) {
	f := newFixture(t, engine.OverrideAllow)
	ctx := context.Background()
	f.svc.Book(ctx, f.input(day(10, 0)))
	f.svc.Book(ctx, f.input(day(10, 30)))

	slots, err := f.svc.DayLayout(ctx, f.pract.ID, day(0, 0), engine.LayoutOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Columns != 2 {
			t.Errorf("overlapping bookings must share columns, got %+v", s)
		}
	}
}

func TestRoomAvailability(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	ctx := context.Background()
	room := &Room{Name: "Suite 1", Active: true}
	f.svc.CreateRoom(ctx, room)

	in := f.input(day(10, 0))
	in.RoomID = &room.ID
	if r, _ := f.svc.Book(ctx, in); r.Appointment == nil {
		t.Fatal("booking must succeed")
	}

	busy, err := f.svc.RoomAvailability(ctx, room.ID, day(10, 30), day(11, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if busy.Available {
		t.Error("the room must be busy over the booked window")
	}

	free, err := f.svc.RoomAvailability(ctx, room.ID, day(14, 0), day(15, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free.Available {
		t.Error("the room must be free in the afternoon")
	}

	if _, err := f.svc.RoomAvailability(ctx, room.ID, day(11, 0), day(10, 0)); err == nil {
		t.Error("an inverted window must fail loudly")
	}
}

// -- Catalog Validation Tests --

func TestCreateTreatmentService_MinimumDuration(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	err := f.svc.CreateTreatmentService(context.Background(), &TreatmentService{
		Name:            "Too Short",
		DurationMinutes: 2,
	})
	if err == nil {
		t.Error("expected error for sub-minimum duration")
	}
}

func TestCreateShift_EndBeforeStart(t *testing.T) {
	f := newFixture(t, engine.OverrideBlock)
	err := f.svc.CreateShift(context.Background(), &Shift{
		PractitionerID: f.pract.ID,
		StartTime:      day(17, 0),
		EndTime:        day(9, 0),
	})
	if err == nil {
		t.Error("expected error for inverted shift window")
	}
}
