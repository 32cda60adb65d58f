package engine

import (
	"sort"
	"time"
)

// LayoutSlot is the column/width annotation for rendering one appointment
// among its concurrently visible neighbors.
type LayoutSlot struct {
	Appointment Appointment `json:"appointment"`
	// Column is the zero-based column index within the cluster.
	Column int `json:"column"`
	// Columns is the number of columns the cluster needs.
	Columns int `json:"columns"`
	// WidthPct and LeftPct position the block as percentages of the lane.
	WidthPct float64 `json:"width_pct"`
	LeftPct  float64 `json:"left_pct"`
}

// LayoutOptions filters which appointments participate in layout, mirroring
// the calendar's visibility settings.
type LayoutOptions struct {
	ShowCancelled bool
	ShowDeleted   bool
}

// AssignLayout lays out one practitioner's appointments for one day. It is
// the interval-graph coloring sweep: appointments sorted by start time (ties
// by ID) claim the lowest free column, where a column frees up once its
// occupant's buffered end is reached. Appointments connected by transitive
// overlap form a cluster and share that cluster's column count, so an
// appointment's width is 100 / (columns in its cluster) percent and its
// offset is column * width. The ID tie-break makes the layout stable across
// re-renders.
func AssignLayout(appts []Appointment, opts LayoutOptions) []LayoutSlot {
	visible := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status == StatusCancelled && !opts.ShowCancelled {
			continue
		}
		if a.Status == StatusDeleted && !opts.ShowDeleted {
			continue
		}
		visible = append(visible, a)
	}
	sortByStart(visible)

	type column struct {
		end time.Time // buffered end of the current occupant
	}

	slots := make([]LayoutSlot, len(visible))
	var columns []column

	// clusterStart marks where the current cluster began in slots; a new
	// cluster starts whenever every column has drained.
	clusterStart := 0
	flush := func(upTo int) {
		width := len(columns)
		if width == 0 {
			return
		}
		for i := clusterStart; i < upTo; i++ {
			slots[i].Columns = width
			slots[i].WidthPct = 100.0 / float64(width)
			slots[i].LeftPct = float64(slots[i].Column) * slots[i].WidthPct
		}
	}

	for i, a := range visible {
		// Release every drained column; when all drain, the cluster is done.
		active := 0
		for c := range columns {
			if columns[c].end.After(a.Start) {
				active++
			}
		}
		if active == 0 && i > clusterStart {
			flush(i)
			columns = columns[:0]
			clusterStart = i
		}

		assigned := -1
		for c := range columns {
			if !columns[c].end.After(a.Start) {
				columns[c].end = a.BufferedEnd()
				assigned = c
				break
			}
		}
		if assigned == -1 {
			columns = append(columns, column{end: a.BufferedEnd()})
			assigned = len(columns) - 1
		}
		slots[i] = LayoutSlot{Appointment: a, Column: assigned}
	}
	flush(len(visible))

	return slots
}

// MaxConcurrency returns the widest cluster in a layout, useful for
// signaling staggered days in the calendar header.
func MaxConcurrency(slots []LayoutSlot) int {
	max := 0
	for _, s := range slots {
		if s.Columns > max {
			max = s.Columns
		}
	}
	return max
}

// SortedByStart returns a copy of appts ordered by start time, ties broken
// by ID, for callers that need the layout ordering without the layout.
func SortedByStart(appts []Appointment) []Appointment {
	out := make([]Appointment, len(appts))
	copy(out, appts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
