package engine

import (
	"fmt"
	"time"
)

// CapabilityMatch is the verdict of matching a service's requirements
// against one shift.
type CapabilityMatch struct {
	CanPerform bool     `json:"can_perform"`
	Reasons    []string `json:"reasons,omitempty"`
}

// TagAliases maps a required marker to alternative shift tags that satisfy
// it, e.g. "laser" -> ["co2-laser", "ipl"]. A nil map means exact matching.
type TagAliases map[string][]string

// MatchCapability decides whether a service may be performed during the
// given shift. A service with no capability, equipment, or tag requirements
// matches trivially. Otherwise every required marker must be present in the
// shift's tag set (directly or through an alias): the shift's tags describe
// what equipment and specialty coverage is physically present during that
// block, which is deliberately separate from what the practitioner can do
// in principle.
func MatchCapability(svc Service, shift Shift, aliases TagAliases) CapabilityMatch {
	required := svc.RequiredMarkers()
	if len(required) == 0 {
		return CapabilityMatch{CanPerform: true}
	}

	present := make(map[string]bool, len(shift.Tags))
	for _, tag := range shift.Tags {
		present[tag] = true
	}

	match := CapabilityMatch{CanPerform: true}
	for _, marker := range required {
		if present[marker] || aliasSatisfied(marker, present, aliases) {
			continue
		}
		match.CanPerform = false
		match.Reasons = append(match.Reasons, fmt.Sprintf("shift does not provide %q", marker))
	}
	return match
}

func aliasSatisfied(marker string, present map[string]bool, aliases TagAliases) bool {
	for _, alt := range aliases[marker] {
		if present[alt] {
			return true
		}
	}
	return false
}

// ShiftAt returns the shift whose window contains t, or false when none
// does. Shifts never overlap by construction of the calendar generator, so
// the first hit wins.
func ShiftAt(shifts []Shift, t time.Time) (Shift, bool) {
	for _, sh := range shifts {
		if sh.Contains(t) {
			return sh, true
		}
	}
	return Shift{}, false
}

// AlternateShifts returns the practitioner's shifts that would satisfy the
// service's requirements, for "available at these times instead" guidance.
// This is advisory only and never feeds back into a booking verdict.
func AlternateShifts(svc Service, shifts []Shift, aliases TagAliases) []Shift {
	var out []Shift
	for _, sh := range shifts {
		if MatchCapability(svc, sh, aliases).CanPerform {
			out = append(out, sh)
		}
	}
	return out
}
