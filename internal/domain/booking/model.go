package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/medspa/medspa/internal/engine"
)

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Role           *string   `db:"role" json:"role,omitempty"`
	Capabilities   []string  `db:"capabilities" json:"capabilities,omitempty"`
	StaggerMinutes int       `db:"stagger_minutes" json:"stagger_minutes"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Practitioner) ToEngine() engine.Practitioner {
	return engine.Practitioner{
		ID:             p.ID,
		Name:           p.Name,
		Capabilities:   p.Capabilities,
		StaggerMinutes: p.StaggerMinutes,
	}
}

// Room maps to the room table.
type Room struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TreatmentService maps to the service table. "Treatment" avoids colliding
// with the booking Service orchestrator.
type TreatmentService struct {
	ID                       uuid.UUID     `db:"id" json:"id"`
	Name                     string        `db:"name" json:"name"`
	DurationMinutes          int           `db:"duration_minutes" json:"duration_minutes"`
	ScheduledDurationMinutes int           `db:"scheduled_duration_minutes" json:"scheduled_duration_minutes"`
	PostTreatmentMinutes     int           `db:"post_treatment_minutes" json:"post_treatment_minutes"`
	RequiredCapabilities     []string      `db:"required_capabilities" json:"required_capabilities,omitempty"`
	RequiredEquipment        []string      `db:"required_equipment" json:"required_equipment,omitempty"`
	Tags                     []string      `db:"tags" json:"tags,omitempty"`
	Requirements             []Requirement `json:"requirements,omitempty"`
	Active                   bool          `db:"active" json:"active"`
	CreatedAt                time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time     `db:"updated_at" json:"updated_at"`
}

// Requirement maps to the service_requirement table.
type Requirement struct {
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
	PoolID    uuid.UUID `db:"pool_id" json:"pool_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
}

func (s *TreatmentService) ToEngine() engine.Service {
	reqs := make([]engine.Requirement, len(s.Requirements))
	for i, r := range s.Requirements {
		reqs[i] = engine.Requirement{PoolID: r.PoolID, Quantity: r.Quantity}
	}
	return engine.Service{
		Name:                     s.Name,
		DurationMinutes:          s.DurationMinutes,
		ScheduledDurationMinutes: s.ScheduledDurationMinutes,
		PostTreatmentMinutes:     s.PostTreatmentMinutes,
		RequiredResources:        reqs,
		RequiredCapabilities:     s.RequiredCapabilities,
		RequiredEquipment:        s.RequiredEquipment,
		Tags:                     s.Tags,
	}
}

// ResourcePool maps to the resource_pool table.
type ResourcePool struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Resources []Resource `json:"resources,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Resource maps to the resource table.
type Resource struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PoolID    uuid.UUID `db:"pool_id" json:"pool_id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *ResourcePool) ToEngine() engine.ResourcePool {
	resources := make([]engine.Resource, len(p.Resources))
	for i, r := range p.Resources {
		resources[i] = engine.Resource{ID: r.ID, PoolID: r.PoolID, Name: r.Name, Active: r.Active}
	}
	return engine.ResourcePool{ID: p.ID, Name: p.Name, Resources: resources}
}

// Shift maps to the shift table: one dated block of availability.
// Repeating weekly templates are expanded into rows before booking time.
type Shift struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PractitionerID uuid.UUID  `db:"practitioner_id" json:"practitioner_id"`
	StartTime      time.Time  `db:"start_time" json:"start_time"`
	EndTime        time.Time  `db:"end_time" json:"end_time"`
	RoomID         *uuid.UUID `db:"room_id" json:"room_id,omitempty"`
	Tags           []string   `db:"tags" json:"tags,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func (s *Shift) ToEngine() engine.Shift {
	return engine.Shift{
		PractitionerID: s.PractitionerID,
		Start:          s.StartTime,
		End:            s.EndTime,
		RoomID:         s.RoomID,
		Tags:           s.Tags,
	}
}

// Appointment maps to the appointment table.
type Appointment struct {
	ID                   uuid.UUID             `db:"id" json:"id"`
	PractitionerID       uuid.UUID             `db:"practitioner_id" json:"practitioner_id"`
	ClientID             *uuid.UUID            `db:"client_id" json:"client_id,omitempty"`
	ClientName           *string               `db:"client_name" json:"client_name,omitempty"`
	RoomID               *uuid.UUID            `db:"room_id" json:"room_id,omitempty"`
	ServiceID            *uuid.UUID            `db:"service_id" json:"service_id,omitempty"`
	ServiceName          string                `db:"service_name" json:"service_name"`
	StartTime            time.Time             `db:"start_time" json:"start_time"`
	EndTime              time.Time             `db:"end_time" json:"end_time"`
	PostTreatmentMinutes int                   `db:"post_treatment_minutes" json:"post_treatment_minutes"`
	Status               string                `db:"status" json:"status"`
	OverriddenConflicts  bool                  `db:"overridden_conflicts" json:"overridden_conflicts"`
	Notes                *string               `db:"notes" json:"notes,omitempty"`
	SeriesID             *uuid.UUID            `db:"series_id" json:"series_id,omitempty"`
	Resources            []AppointmentResource `json:"resources,omitempty"`
	CreatedAt            time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time             `db:"updated_at" json:"updated_at"`
}

// AppointmentResource maps to the appointment_resource table: one device
// an appointment holds for its duration.
type AppointmentResource struct {
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	ResourceID    uuid.UUID `db:"resource_id" json:"resource_id"`
	PoolID        uuid.UUID `db:"pool_id" json:"pool_id"`
}

func (a *Appointment) ToEngine() engine.Appointment {
	refs := make([]engine.ResourceRef, len(a.Resources))
	for i, r := range a.Resources {
		refs[i] = engine.ResourceRef{ResourceID: r.ResourceID, PoolID: r.PoolID}
	}
	return engine.Appointment{
		ID:                   a.ID,
		PractitionerID:       a.PractitionerID,
		RoomID:               a.RoomID,
		Start:                a.StartTime,
		End:                  a.EndTime,
		PostTreatmentMinutes: a.PostTreatmentMinutes,
		ServiceName:          a.ServiceName,
		Status:               engine.Status(a.Status),
		OverriddenConflicts:  a.OverriddenConflicts,
		AssignedResources:    refs,
	}
}
