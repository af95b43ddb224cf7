// Package roster expands sparse shift anchors into the dense per-interval
// staffing grid. Column c of the grid belongs to the shift starting at
// interval c; rows are the intervals of the day.
package roster

import "occupancy-modeler/models"

const intervals = models.IntervalsPerDay

// Grid is a roster grid that can be edited one anchor column at a time.
type Grid struct {
	cells models.RosterGrid
}

// Expand builds a grid from anchors. When two anchors share a start interval
// the later one replaces the earlier, as a grid holds one shift per column.
func Expand(anchors []models.ShiftAnchor) *Grid {
	g := &Grid{}
	for _, a := range anchors {
		g.SetAnchor(a)
	}
	return g
}

// FromCells wraps an already-expanded grid.
func FromCells(cells models.RosterGrid) *Grid {
	for r := range intervals {
		for c := range intervals {
			if cells[r][c] < 0 {
				cells[r][c] = 0
			}
		}
	}
	return &Grid{cells: cells}
}

// Normalize maps an anchor onto the grid: the start interval wraps mod 48,
// negative headcount becomes 0, a non-positive shift length becomes the
// default and lengths beyond one day are capped at 48.
func Normalize(a models.ShiftAnchor) models.ShiftAnchor {
	a.AnchorInterval = ((a.AnchorInterval % intervals) + intervals) % intervals
	if a.Headcount < 0 {
		a.Headcount = 0
	}
	switch {
	case a.ShiftLength <= 0:
		a.ShiftLength = models.DefaultShiftLength
	case a.ShiftLength > intervals:
		a.ShiftLength = intervals
	}
	return a
}

// SetAnchor clears the anchor's column and refills it. Other columns are
// left untouched.
func (g *Grid) SetAnchor(a models.ShiftAnchor) {
	a = Normalize(a)
	g.ClearAnchor(a.AnchorInterval)
	for offset := range a.ShiftLength {
		g.cells[(a.AnchorInterval+offset)%intervals][a.AnchorInterval] = a.Headcount
	}
}

// ClearAnchor zeroes one anchor column.
func (g *Grid) ClearAnchor(anchor int) {
	anchor = ((anchor % intervals) + intervals) % intervals
	for row := range intervals {
		g.cells[row][anchor] = 0
	}
}

// Cell returns the headcount contributed by anchor to interval.
func (g *Grid) Cell(interval, anchor int) int {
	if interval < 0 || interval >= intervals || anchor < 0 || anchor >= intervals {
		return 0
	}
	return g.cells[interval][anchor]
}

// Rostered returns the headcount working during interval, summed over anchors.
func (g *Grid) Rostered(interval int) int {
	if interval < 0 || interval >= intervals {
		return 0
	}
	total := 0
	for _, v := range g.cells[interval] {
		total += v
	}
	return total
}

// Totals returns Rostered for every interval.
func (g *Grid) Totals() [intervals]int {
	var out [intervals]int
	for i := range intervals {
		out[i] = g.Rostered(i)
	}
	return out
}

// Total is the headcount summed over every interval of the day.
func (g *Grid) Total() int {
	total := 0
	for _, v := range g.Totals() {
		total += v
	}
	return total
}

// Cells returns a copy of the dense grid.
func (g *Grid) Cells() models.RosterGrid {
	return g.cells
}
