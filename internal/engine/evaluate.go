package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingRequest is one proposed booking to evaluate against a snapshot.
type BookingRequest struct {
	Candidate    Candidate
	Service      Service
	Practitioner Practitioner
	Aliases      TagAliases
}

// Verdict is the full evaluation result. Findings are data; nothing here is
// an error. Permitted reflects the override policy: a blocked verdict keeps
// its findings so the caller can render every reason, and an overridden
// booking keeps them for audit.
type Verdict struct {
	Capability      CapabilityMatch   `json:"capability"`
	Shift           *Shift            `json:"shift,omitempty"`
	WithinShift     bool              `json:"within_shift"`
	AlternateShifts []Shift           `json:"alternate_shifts,omitempty"`
	Conflicts       []Appointment     `json:"conflicts,omitempty"`
	Resources       RequirementReport `json:"resources"`
	Blockers        []string          `json:"blockers,omitempty"`
	Permitted       bool              `json:"permitted"`
	Overridden      bool              `json:"overridden"`
}

// Clean reports whether the evaluation found nothing wrong.
func (v Verdict) Clean() bool { return len(v.Blockers) == 0 }

// Evaluate runs the booking checks in cost order: capability and shift
// gating first, then practitioner/room conflict detection, then resource
// pool capacity. Every failed check contributes a blocker; the tri-state
// policy decides whether blockers stop the booking (Block), let it proceed
// flagged (Allow), or merely warn (Warn).
func Evaluate(req BookingRequest, snap Snapshot, policy OverridePolicy) (Verdict, error) {
	cand := req.Candidate
	if err := cand.Validate(); err != nil {
		return Verdict{}, err
	}

	v := Verdict{Capability: CapabilityMatch{CanPerform: true}}

	dayShifts := snap.ShiftsFor(cand.PractitionerID, cand.Start)
	if len(dayShifts) == 0 {
		v.Blockers = append(v.Blockers, "practitioner has no shift scheduled on this date")
	} else {
		for _, sh := range dayShifts {
			if sh.Covers(cand.Start, cand.End) {
				shift := sh
				v.Shift = &shift
				v.WithinShift = true
				break
			}
		}
		if !v.WithinShift {
			v.Blockers = append(v.Blockers, "appointment falls outside the practitioner's shift hours")
		}
	}

	if v.Shift != nil {
		v.Capability = MatchCapability(req.Service, *v.Shift, req.Aliases)
		if !v.Capability.CanPerform {
			v.Blockers = append(v.Blockers, v.Capability.Reasons...)
			v.AlternateShifts = AlternateShifts(req.Service, dayShifts, req.Aliases)
		}
	}

	conflicts, err := FindConflicts(cand, snap.Appointments)
	if err != nil {
		return Verdict{}, err
	}
	v.Conflicts = conflicts
	if blocking := staggerFiltered(conflicts, cand, req.Practitioner); len(blocking) > 0 {
		v.Blockers = append(v.Blockers, ConflictMessage(blocking))
	}

	v.Resources = CheckRequirements(req.Service.RequiredResources, cand.Start, cand.End, cand.ExcludeID, snap)
	// Stagger booking never waives equipment: every appointment secures its
	// own resources.
	if !v.Resources.Satisfied {
		v.Blockers = append(v.Blockers, v.Resources.Shortfalls()...)
	}

	switch policy {
	case OverrideBlock:
		v.Permitted = v.Clean()
	case OverrideWarn, OverrideAllow:
		v.Permitted = true
		v.Overridden = !v.Clean() && policy == OverrideAllow
	default:
		return Verdict{}, fmt.Errorf("unknown override policy %d", policy)
	}
	return v, nil
}

// staggerFiltered drops same-practitioner conflicts that the practitioner's
// stagger window tolerates: the overlapping appointment must start within
// StaggerMinutes of the candidate and must not occupy the candidate's room.
// A room is never double-booked, whoever works it, so a tolerated overlap
// that shares the room still blocks. Anything outside the window blocks too.
func staggerFiltered(conflicts []Appointment, cand Candidate, p Practitioner) []Appointment {
	if p.StaggerMinutes <= 0 {
		return conflicts
	}
	window := time.Duration(p.StaggerMinutes) * time.Minute
	var blocking []Appointment
	for _, c := range conflicts {
		if c.PractitionerID == cand.PractitionerID && !sameRoom(c.RoomID, cand.RoomID) {
			gap := c.Start.Sub(cand.Start)
			if gap < 0 {
				gap = -gap
			}
			if gap <= window {
				continue
			}
		}
		blocking = append(blocking, c)
	}
	return blocking
}

func sameRoom(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
