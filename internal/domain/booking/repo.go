package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// ListInRange returns every appointment overlapping [from, to),
	// resources included, for snapshot loading.
	ListInRange(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	ListByPractitionerInRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}

type ShiftRepository interface {
	Create(ctx context.Context, s *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	Update(ctx context.Context, s *Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Shift, int, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*Shift, error)
}

type PractitionerRepository interface {
	Create(ctx context.Context, p *Practitioner) error
	GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)
	Update(ctx context.Context, p *Practitioner) error
	List(ctx context.Context, limit, offset int) ([]*Practitioner, int, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *TreatmentService) error
	GetByID(ctx context.Context, id uuid.UUID) (*TreatmentService, error)
	Update(ctx context.Context, s *TreatmentService) error
	List(ctx context.Context, limit, offset int) ([]*TreatmentService, int, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	Update(ctx context.Context, r *Room) error
	List(ctx context.Context, limit, offset int) ([]*Room, int, error)
}

type ResourceRepository interface {
	CreatePool(ctx context.Context, p *ResourcePool) error
	GetPool(ctx context.Context, id uuid.UUID) (*ResourcePool, error)
	// ListPools returns every pool with its resources attached.
	ListPools(ctx context.Context) ([]*ResourcePool, error)
	CreateResource(ctx context.Context, r *Resource) error
	UpdateResource(ctx context.Context, r *Resource) error
}
