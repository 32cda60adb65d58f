package engine

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func shift(p uuid.UUID, startHour, endHour int, tags ...string) Shift {
	return Shift{
		PractitionerID: p,
		Start:          at(startHour, 0),
		End:            at(endHour, 0),
		Tags:           tags,
	}
}

func TestMatchCapability_NoRequirementsAlwaysMatches(t *testing.T) {
	match := MatchCapability(Service{Name: "Consultation"}, shift(uuid.New(), 9, 17), nil)
	if !match.CanPerform || len(match.Reasons) != 0 {
		t.Errorf("a service without requirements must match any shift, got %+v", match)
	}
}

func TestMatchCapability_RequiredTagGatesShift(t *testing.T) {
	p := uuid.New()
	svc := Service{Name: "Laser Hair Removal", Tags: []string{"laser"}}

	if !MatchCapability(svc, shift(p, 9, 17, "laser", "injectables"), nil).CanPerform {
		t.Error("a shift tagged laser must accept a laser service")
	}

	match := MatchCapability(svc, shift(p, 9, 17, "injectables"), nil)
	if match.CanPerform {
		t.Fatal("a shift without the laser tag must reject a laser service")
	}
	if len(match.Reasons) != 1 || !strings.Contains(match.Reasons[0], `"laser"`) {
		t.Errorf("the reason must name the missing marker, got %v", match.Reasons)
	}
}

func TestMatchCapability_UnionOfMarkers(t *testing.T) {
	svc := Service{
		Name:                 "CO2 Resurfacing",
		RequiredCapabilities: []string{"laser-certified"},
		RequiredEquipment:    []string{"co2-laser"},
		Tags:                 []string{"laser"},
	}

	full := shift(uuid.New(), 9, 17, "laser-certified", "co2-laser", "laser")
	if !MatchCapability(svc, full, nil).CanPerform {
		t.Error("a shift carrying every marker must match")
	}

	partial := shift(uuid.New(), 9, 17, "laser-certified", "laser")
	match := MatchCapability(svc, partial, nil)
	if match.CanPerform {
		t.Fatal("a missing equipment marker must fail the match")
	}
	if len(match.Reasons) != 1 {
		t.Errorf("only the missing markers are reported, got %v", match.Reasons)
	}
}

func TestMatchCapability_Aliases(t *testing.T) {
	svc := Service{Name: "Laser Hair Removal", Tags: []string{"laser"}}
	aliases := TagAliases{"laser": {"ipl", "co2-laser"}}

	if !MatchCapability(svc, shift(uuid.New(), 9, 17, "ipl"), aliases).CanPerform {
		t.Error("an alias tag must satisfy the required marker")
	}
	if MatchCapability(svc, shift(uuid.New(), 9, 17, "microdermabrasion"), aliases).CanPerform {
		t.Error("a tag outside the alias set must not satisfy the marker")
	}
}

func TestShiftAt(t *testing.T) {
	p := uuid.New()
	morning := shift(p, 9, 12)
	afternoon := shift(p, 13, 17)
	shifts := []Shift{morning, afternoon}

	got, ok := ShiftAt(shifts, at(10, 30))
	if !ok || !got.Start.Equal(morning.Start) {
		t.Errorf("expected the morning shift, got %+v ok=%v", got, ok)
	}

	if _, ok := ShiftAt(shifts, at(12, 30)); ok {
		t.Error("noon gap must have no shift")
	}
	// Half-open window: the end instant belongs to no shift.
	if _, ok := ShiftAt(shifts, at(17, 0)); ok {
		t.Error("the shift end instant must fall outside the shift")
	}
}

func TestAlternateShifts(t *testing.T) {
	p := uuid.New()
	svc := Service{Name: "Laser Hair Removal", Tags: []string{"laser"}}
	plain := shift(p, 9, 12)
	equipped := shift(p, 13, 17, "laser")

	alts := AlternateShifts(svc, []Shift{plain, equipped}, nil)
	if len(alts) != 1 || !alts[0].Start.Equal(equipped.Start) {
		t.Errorf("only the laser-equipped shift qualifies, got %+v", alts)
	}
}
