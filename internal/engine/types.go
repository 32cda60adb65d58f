// Package engine implements the appointment scheduling and resource
// allocation core: conflict detection, resource pool availability,
// capability matching, recurring series planning, and calendar overlap
// layout. Every function is a pure computation over an immutable
// Snapshot; persistence, authentication, and rendering live elsewhere.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusArrived    Status = "arrived"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
	StatusDeleted    Status = "deleted"
)

// CountsForConflicts reports whether an appointment in this status still
// occupies its practitioner and room.
func (s Status) CountsForConflicts() bool {
	return s != StatusCancelled && s != StatusDeleted
}

// HoldsResources reports whether an appointment in this status still holds
// its assigned equipment. A no-show releases equipment even though the
// calendar entry remains visible.
func (s Status) HoldsResources() bool {
	return s != StatusCancelled && s != StatusDeleted && s != StatusNoShow
}

// OverridePolicy controls how conflict and availability findings affect the
// booking verdict.
type OverridePolicy int

const (
	// OverrideBlock refuses any booking with findings.
	OverrideBlock OverridePolicy = iota
	// OverrideWarn permits the booking but surfaces every finding.
	OverrideWarn
	// OverrideAllow permits the booking and marks it as overridden.
	OverrideAllow
)

// ParsePolicy maps a policy name to its OverridePolicy value.
func ParsePolicy(s string) (OverridePolicy, error) {
	switch s {
	case "block":
		return OverrideBlock, nil
	case "warn":
		return OverrideWarn, nil
	case "allow":
		return OverrideAllow, nil
	}
	return OverrideBlock, fmt.Errorf("unknown override policy %q", s)
}

func (p OverridePolicy) String() string {
	switch p {
	case OverrideBlock:
		return "block"
	case OverrideWarn:
		return "warn"
	case OverrideAllow:
		return "allow"
	}
	return "unknown"
}

// ResourceRef identifies one physical resource held by an appointment.
type ResourceRef struct {
	ResourceID uuid.UUID `json:"resource_id"`
	PoolID     uuid.UUID `json:"pool_id"`
}

// Appointment is an immutable snapshot of a booked appointment.
type Appointment struct {
	ID                   uuid.UUID     `json:"id"`
	PractitionerID       uuid.UUID     `json:"practitioner_id"`
	RoomID               *uuid.UUID    `json:"room_id,omitempty"`
	Start                time.Time     `json:"start"`
	End                  time.Time     `json:"end"`
	PostTreatmentMinutes int           `json:"post_treatment_minutes,omitempty"`
	ServiceName          string        `json:"service_name"`
	Status               Status        `json:"status"`
	OverriddenConflicts  bool          `json:"overridden_conflicts,omitempty"`
	AssignedResources    []ResourceRef `json:"assigned_resources,omitempty"`
}

// BufferedEnd is the instant the appointment stops occupying its
// practitioner and room: End plus any post-treatment (sanitation) time.
func (a Appointment) BufferedEnd() time.Time {
	if a.PostTreatmentMinutes <= 0 {
		return a.End
	}
	return a.End.Add(time.Duration(a.PostTreatmentMinutes) * time.Minute)
}

// Holds reports whether the appointment holds the given resource.
func (a Appointment) Holds(resourceID uuid.UUID) bool {
	for _, ref := range a.AssignedResources {
		if ref.ResourceID == resourceID {
			return true
		}
	}
	return false
}

// Shift is one concrete dated block of practitioner availability. Repeating
// shift templates are expanded into dated shifts before they reach the
// engine; a practitioner may have zero, one, or several shifts on a date.
type Shift struct {
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	RoomID         *uuid.UUID `json:"room_id,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

// Contains reports whether t falls inside the shift window [Start, End).
func (s Shift) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Covers reports whether the whole interval [start, end] fits inside the
// shift window.
func (s Shift) Covers(start, end time.Time) bool {
	return !start.Before(s.Start) && !end.After(s.End)
}

// Requirement is a service's demand for a quantity of interchangeable
// resources from one pool.
type Requirement struct {
	PoolID   uuid.UUID `json:"pool_id"`
	Quantity int       `json:"quantity"`
}

// Service describes a bookable treatment.
type Service struct {
	Name                     string        `json:"name"`
	DurationMinutes          int           `json:"duration_minutes"`
	ScheduledDurationMinutes int           `json:"scheduled_duration_minutes,omitempty"`
	PostTreatmentMinutes     int           `json:"post_treatment_minutes,omitempty"`
	RequiredResources        []Requirement `json:"required_resources,omitempty"`
	RequiredCapabilities     []string      `json:"required_capabilities,omitempty"`
	RequiredEquipment        []string      `json:"required_equipment,omitempty"`
	Tags                     []string      `json:"tags,omitempty"`
}

// BlockMinutes is the number of minutes the service reserves on the
// calendar. With staggered booking a service may block a shorter slot than
// the full treatment takes.
func (s Service) BlockMinutes() int {
	if s.ScheduledDurationMinutes > 0 {
		return s.ScheduledDurationMinutes
	}
	return s.DurationMinutes
}

// RequiredMarkers returns the union of every capability, equipment, and tag
// requirement the performing shift must satisfy.
func (s Service) RequiredMarkers() []string {
	seen := make(map[string]bool)
	var markers []string
	for _, group := range [][]string{s.RequiredCapabilities, s.RequiredEquipment, s.Tags} {
		for _, m := range group {
			if !seen[m] {
				seen[m] = true
				markers = append(markers, m)
			}
		}
	}
	return markers
}

// Practitioner describes a staff member who performs services.
type Practitioner struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Capabilities []string  `json:"capabilities,omitempty"`
	// StaggerMinutes, when positive, allows this practitioner to carry
	// overlapping appointments within that many minutes of each other, as
	// long as each appointment secures its own required resources.
	StaggerMinutes int `json:"stagger_minutes,omitempty"`
}

// Resource is one physical device or station belonging to a pool.
type Resource struct {
	ID     uuid.UUID `json:"id"`
	PoolID uuid.UUID `json:"pool_id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// ResourcePool groups interchangeable resources, e.g. a set of identical
// laser devices.
type ResourcePool struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Resources []Resource `json:"resources"`
}

// Snapshot is the consistent view of the schedule a single evaluation runs
// against. The engine never mutates it; the caller is responsible for
// serializing writes so two concurrent checks cannot both claim one slot.
type Snapshot struct {
	Appointments []Appointment
	Shifts       []Shift
	Pools        []ResourcePool
}

// Pool returns the pool with the given ID, or nil when absent.
func (s Snapshot) Pool(id uuid.UUID) *ResourcePool {
	for i := range s.Pools {
		if s.Pools[i].ID == id {
			return &s.Pools[i]
		}
	}
	return nil
}

// ShiftsFor returns the practitioner's shifts whose window intersects the
// calendar date of day, ordered by start time.
func (s Snapshot) ShiftsFor(practitionerID uuid.UUID, day time.Time) []Shift {
	y, m, d := day.Date()
	var out []Shift
	for _, sh := range s.Shifts {
		if sh.PractitionerID != practitionerID {
			continue
		}
		sy, sm, sd := sh.Start.Date()
		if sy == y && sm == m && sd == d {
			out = append(out, sh)
		}
	}
	sortShiftsByStart(out)
	return out
}
