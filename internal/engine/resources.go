package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ResourceStatus is the availability of one physical resource over a window.
type ResourceStatus struct {
	ResourceID uuid.UUID     `json:"resource_id"`
	Name       string        `json:"name"`
	Active     bool          `json:"active"`
	Available  bool          `json:"available"`
	Conflicts  []Appointment `json:"conflicts,omitempty"`
}

// PoolReport is the result of checking one requirement against its pool.
type PoolReport struct {
	PoolID    uuid.UUID        `json:"pool_id"`
	PoolName  string           `json:"pool_name"`
	Required  int              `json:"required"`
	Free      int              `json:"free"`
	Satisfied bool             `json:"satisfied"`
	Resources []ResourceStatus `json:"resources"`
	// Assigned holds the deterministic first-N assignment when the pool
	// satisfies the requirement.
	Assigned []ResourceRef `json:"assigned,omitempty"`
}

// RequirementReport aggregates every pool check for a candidate booking.
// Every shortfall is reported, not just the first, so a caller can surface
// all blocking reasons at once.
type RequirementReport struct {
	Satisfied bool         `json:"satisfied"`
	Pools     []PoolReport `json:"pools"`
}

// Assignments flattens the per-pool resource assignments.
func (r RequirementReport) Assignments() []ResourceRef {
	var refs []ResourceRef
	for _, p := range r.Pools {
		refs = append(refs, p.Assigned...)
	}
	return refs
}

// Shortfalls returns one human-readable line per unsatisfied pool.
func (r RequirementReport) Shortfalls() []string {
	var out []string
	for _, p := range r.Pools {
		if !p.Satisfied {
			out = append(out, fmt.Sprintf("insufficient %s: need %d, only %d available", p.PoolName, p.Required, p.Free))
		}
	}
	return out
}

// CheckPool reports, for every resource in the pool, whether it is free over
// [start, end). A resource is held by any appointment that still holds
// resources (cancelled, deleted, and no-show appointments release theirs),
// excluding the appointment identified by excludeID. Resource windows use
// the raw appointment interval; post-treatment buffers apply to
// practitioners and rooms, not equipment.
func CheckPool(pool ResourcePool, start, end time.Time, excludeID uuid.UUID, appts []Appointment) []ResourceStatus {
	resources := make([]Resource, len(pool.Resources))
	copy(resources, pool.Resources)
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].ID.String() < resources[j].ID.String()
	})

	statuses := make([]ResourceStatus, 0, len(resources))
	for _, res := range resources {
		st := ResourceStatus{ResourceID: res.ID, Name: res.Name, Active: res.Active}
		if !res.Active {
			statuses = append(statuses, st)
			continue
		}
		for _, a := range appts {
			if a.ID == excludeID || !a.Status.HoldsResources() || !a.Holds(res.ID) {
				continue
			}
			if overlaps(start, end, a.Start, a.End) {
				st.Conflicts = append(st.Conflicts, a)
			}
		}
		st.Available = len(st.Conflicts) == 0
		statuses = append(statuses, st)
	}
	return statuses
}

// CheckRequirements evaluates every required pool independently over
// [start, end) and assigns the first N available resources of each
// satisfied pool, in resource-ID order, so assignment is reproducible.
// Unknown pools are reported as unsatisfied rather than dropped.
func CheckRequirements(reqs []Requirement, start, end time.Time, excludeID uuid.UUID, snap Snapshot) RequirementReport {
	report := RequirementReport{Satisfied: true}
	for _, req := range reqs {
		pool := snap.Pool(req.PoolID)
		if pool == nil {
			report.Satisfied = false
			report.Pools = append(report.Pools, PoolReport{
				PoolID:   req.PoolID,
				PoolName: "unknown pool",
				Required: req.Quantity,
			})
			continue
		}

		statuses := CheckPool(*pool, start, end, excludeID, snap.Appointments)

		pr := PoolReport{
			PoolID:    pool.ID,
			PoolName:  pool.Name,
			Required:  req.Quantity,
			Resources: statuses,
		}
		for _, st := range statuses {
			if st.Available && st.Active {
				pr.Free++
			}
		}
		pr.Satisfied = pr.Free >= req.Quantity
		if pr.Satisfied {
			for _, st := range statuses {
				if len(pr.Assigned) == req.Quantity {
					break
				}
				if st.Available && st.Active {
					pr.Assigned = append(pr.Assigned, ResourceRef{ResourceID: st.ResourceID, PoolID: pool.ID})
				}
			}
		} else {
			report.Satisfied = false
		}
		report.Pools = append(report.Pools, pr)
	}
	return report
}

// RoomStatus is the availability of a room over a window.
type RoomStatus struct {
	RoomID    uuid.UUID     `json:"room_id"`
	Available bool          `json:"available"`
	Conflicts []Appointment `json:"conflicts,omitempty"`
}

// CheckRoom reports whether the room is free over [start, end), using
// buffered appointment intervals since sanitation time keeps a room
// occupied past the nominal end.
func CheckRoom(roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID, appts []Appointment) RoomStatus {
	st := RoomStatus{RoomID: roomID}
	for _, a := range appts {
		if a.ID == excludeID || !a.Status.CountsForConflicts() {
			continue
		}
		if a.RoomID == nil || *a.RoomID != roomID {
			continue
		}
		if overlaps(start, end, a.Start, a.BufferedEnd()) {
			st.Conflicts = append(st.Conflicts, a)
		}
	}
	sortByStart(st.Conflicts)
	st.Available = len(st.Conflicts) == 0
	return st
}

// FirstAvailableRoom returns the first room from candidates that is free
// over the window, preserving the caller's preference order. The second
// return value is false when every room is occupied.
func FirstAvailableRoom(candidates []uuid.UUID, start, end time.Time, excludeID uuid.UUID, appts []Appointment) (uuid.UUID, bool) {
	for _, id := range candidates {
		if CheckRoom(id, start, end, excludeID, appts).Available {
			return id, true
		}
	}
	return uuid.Nil, false
}
