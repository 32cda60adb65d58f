package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OccurrenceStatus classifies one dated instance of a recurring series.
type OccurrenceStatus string

const (
	// OccurrenceAvailable means the slot passed every check.
	OccurrenceAvailable OccurrenceStatus = "available"
	// OccurrenceConflict means the conflict detector or resource checker
	// reported a problem.
	OccurrenceConflict OccurrenceStatus = "conflict"
	// OccurrenceNoShift means the practitioner has no shift on the date.
	OccurrenceNoShift OccurrenceStatus = "no-shift"
)

// MaxSeriesSpan bounds how far a recurring series may extend past its
// anchor date.
const MaxSeriesSpan = 366 * 24 * time.Hour

// ErrNoWeekdays is returned when a series selects no weekdays at all.
var ErrNoWeekdays = errors.New("at least one weekday must be selected")

// SeriesAnchor is the prototype appointment a recurring series repeats.
type SeriesAnchor struct {
	PractitionerID uuid.UUID
	Service        Service
	RoomID         *uuid.UUID
	// AnchorDate is the first candidate date; only its calendar date is
	// significant.
	AnchorDate time.Time
	// StartHour/StartMinute give the time of day every occurrence starts.
	StartHour   int
	StartMinute int
	// IncludePostTreatment appends the service's post-treatment time to
	// every occurrence.
	IncludePostTreatment bool
}

// Occurrence is one classified dated instance of a series.
type Occurrence struct {
	Date               time.Time        `json:"date"`
	Start              time.Time        `json:"start"`
	End                time.Time        `json:"end"`
	Status             OccurrenceStatus `json:"status"`
	Conflicts          []Appointment    `json:"conflicts,omitempty"`
	ResourcesAvailable bool             `json:"resources_available"`
}

// PlanSeries expands a recurring request into classified occurrences: one
// entry per selected weekday between the anchor date and endDate inclusive,
// with endDate clamped to a year past the anchor. Each occurrence runs the
// conflict detector and, when the service needs equipment, the resource
// checker. The planner mutates nothing; which occurrences get booked is the
// caller's selection.
func PlanSeries(anchor SeriesAnchor, weekdays []time.Weekday, endDate time.Time, snap Snapshot) ([]Occurrence, error) {
	if len(weekdays) == 0 {
		return nil, ErrNoWeekdays
	}
	selected := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		selected[d] = true
	}

	start := dateOnly(anchor.AnchorDate)
	end := dateOnly(endDate)
	if limit := start.Add(MaxSeriesSpan); end.After(limit) {
		end = dateOnly(limit)
	}
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}

	blockMinutes := anchor.Service.BlockMinutes()
	post := 0
	if anchor.IncludePostTreatment {
		post = anchor.Service.PostTreatmentMinutes
	}

	var occurrences []Occurrence
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !selected[day.Weekday()] {
			continue
		}

		if len(snap.ShiftsFor(anchor.PractitionerID, day)) == 0 {
			occurrences = append(occurrences, Occurrence{Date: day, Status: OccurrenceNoShift})
			continue
		}

		occStart := time.Date(day.Year(), day.Month(), day.Day(), anchor.StartHour, anchor.StartMinute, 0, 0, day.Location())
		occEnd := occStart.Add(time.Duration(blockMinutes) * time.Minute)

		conflicts, err := FindConflicts(Candidate{
			PractitionerID:       anchor.PractitionerID,
			Start:                occStart,
			End:                  occEnd,
			RoomID:               anchor.RoomID,
			PostTreatmentMinutes: post,
			ServiceName:          anchor.Service.Name,
		}, snap.Appointments)
		if err != nil {
			return nil, err
		}

		resourcesOK := true
		if len(anchor.Service.RequiredResources) > 0 {
			resourcesOK = CheckRequirements(anchor.Service.RequiredResources, occStart, occEnd, uuid.Nil, snap).Satisfied
		}

		occ := Occurrence{
			Date:               day,
			Start:              occStart,
			End:                occEnd,
			Conflicts:          conflicts,
			ResourcesAvailable: resourcesOK,
			Status:             OccurrenceAvailable,
		}
		if len(conflicts) > 0 || !resourcesOK {
			occ.Status = OccurrenceConflict
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}

// DefaultSelection returns the dates booked by default: every available
// occurrence. With override intent, conflict occurrences become selectable
// too, but never no-shift ones.
func DefaultSelection(occurrences []Occurrence) map[time.Time]bool {
	selection := make(map[time.Time]bool)
	for _, occ := range occurrences {
		if occ.Status == OccurrenceAvailable {
			selection[occ.Date] = true
		}
	}
	return selection
}

// Selectable reports whether an occurrence may be included in a booking
// under the given override policy.
func Selectable(occ Occurrence, policy OverridePolicy) bool {
	switch occ.Status {
	case OccurrenceAvailable:
		return true
	case OccurrenceConflict:
		return policy != OverrideBlock
	default:
		return false
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
