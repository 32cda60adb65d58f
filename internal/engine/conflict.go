package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MinAppointmentMinutes is the shortest bookable appointment.
const MinAppointmentMinutes = 5

// Errors for malformed candidates. Business findings (conflicts, shortfalls,
// capability mismatches) are reported as data, never as errors.
var (
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrTooShort       = errors.New("appointment is shorter than the minimum duration")
)

// Candidate is a proposed appointment under evaluation. ExcludeID, when set,
// names the appointment being edited so it does not conflict with itself.
type Candidate struct {
	PractitionerID       uuid.UUID
	Start                time.Time
	End                  time.Time
	RoomID               *uuid.UUID
	PostTreatmentMinutes int
	ServiceName          string
	ExcludeID            uuid.UUID
}

// BufferedEnd mirrors Appointment.BufferedEnd for the candidate.
func (c Candidate) BufferedEnd() time.Time {
	if c.PostTreatmentMinutes <= 0 {
		return c.End
	}
	return c.End.Add(time.Duration(c.PostTreatmentMinutes) * time.Minute)
}

// Validate rejects candidates the engine cannot meaningfully evaluate.
func (c Candidate) Validate() error {
	if !c.End.After(c.Start) {
		return ErrEndBeforeStart
	}
	if c.End.Sub(c.Start) < MinAppointmentMinutes*time.Minute {
		return ErrTooShort
	}
	return nil
}

// overlaps applies the half-open interval test: [s1,e1) and [s2,e2)
// intersect iff s1 < e2 and s2 < e1.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflicts returns every existing appointment whose buffered interval
// overlaps the candidate's: first same-practitioner conflicts, then
// same-room conflicts from other practitioners. Cancelled and deleted
// appointments never conflict, nor does the appointment being edited. An
// empty result means the slot is clear; a non-empty result is advisory
// until the caller applies its override policy.
func FindConflicts(c Candidate, appts []Appointment) ([]Appointment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start, end := c.Start, c.BufferedEnd()

	var practitioner, room []Appointment
	for _, a := range appts {
		if a.ID == c.ExcludeID || !a.Status.CountsForConflicts() {
			continue
		}
		if !overlaps(start, end, a.Start, a.BufferedEnd()) {
			continue
		}
		switch {
		case a.PractitionerID == c.PractitionerID:
			practitioner = append(practitioner, a)
		case c.RoomID != nil && a.RoomID != nil && *a.RoomID == *c.RoomID:
			room = append(room, a)
		}
	}

	sortByStart(practitioner)
	sortByStart(room)
	return append(practitioner, room...), nil
}

// HasConflicts is a convenience wrapper for callers that only need a
// boolean answer.
func HasConflicts(c Candidate, appts []Appointment) (bool, error) {
	conflicts, err := FindConflicts(c, appts)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// ConflictMessage renders a human-readable description of a conflict list:
// the service and time for a single conflict, a count for several.
func ConflictMessage(conflicts []Appointment) string {
	switch len(conflicts) {
	case 0:
		return ""
	case 1:
		c := conflicts[0]
		return fmt.Sprintf("conflicts with %s at %s", c.ServiceName, c.Start.Format("3:04 PM"))
	default:
		return fmt.Sprintf("conflicts with %d existing appointments", len(conflicts))
	}
}

func sortByStart(appts []Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Start.Equal(appts[j].Start) {
			return appts[i].ID.String() < appts[j].ID.String()
		}
		return appts[i].Start.Before(appts[j].Start)
	})
}

func sortShiftsByStart(shifts []Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].Start.Before(shifts[j].Start)
	})
}
