package densitymap

import (
	"math"
	"strings"
)

// Cell is the state of one grid cell.
type Cell struct {
	Count    int      // elements whose rectangle overlaps the cell
	Dominant Category // highest-priority category among them, Plain when Count is 0
}

// Grid is the full dense rasterization of a snapshot, stored row-major.
type Grid struct {
	Cols     int
	Rows     int
	CellSize int
	Cells    []Cell
}

// CellSize returns the square cell edge for a viewport width split into
// cols columns: width/cols rounded up, so cols cells always span the width.
func CellSize(width, cols int) int {
	size := int(math.Ceil(float64(width) / float64(cols)))
	if size < 1 {
		size = 1
	}
	return size
}

// Dimensions returns the grid size and cell edge for a viewport.
//
// gridCols never exceeds cols. It is smaller when cols does not divide the
// width evenly or exceeds it, since columns that would start past the right
// edge of the viewport are dropped.
func Dimensions(vp Viewport, cols int) (gridCols, rows, cellSize int, err error) {
	if err := validateCols(cols); err != nil {
		return 0, 0, 0, err
	}
	if err := validateViewport(vp); err != nil {
		return 0, 0, 0, err
	}
	cellSize = CellSize(vp.Width, cols)
	gridCols = (vp.Width + cellSize - 1) / cellSize
	rows = (vp.Height + cellSize - 1) / cellSize
	return gridCols, rows, cellSize, nil
}

// Rasterize maps elements onto a grid of at most cols columns covering the
// whole viewport.
//
// An element overlaps a cell when the two pixel regions intersect with
// non-zero extent on both axes; touching edges do not count. Elements are
// read but never modified.
func Rasterize(elements []Element, vp Viewport, cols int) (*Grid, error) {
	cols, rows, size, err := Dimensions(vp, cols)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: size,
		Cells:    make([]Cell, cols*rows),
	}
	for i := range g.Cells {
		g.Cells[i].Dominant = Plain
	}

	for _, el := range elements {
		c0, c1, ok := g.span(el.Rect.X, el.Rect.W, cols)
		if !ok {
			continue
		}
		r0, r1, ok := g.span(el.Rect.Y, el.Rect.H, rows)
		if !ok {
			continue
		}
		cat := Classify(el)
		for r := r0; r <= r1; r++ {
			row := g.Cells[r*cols : (r+1)*cols]
			for c := c0; c <= c1; c++ {
				row[c].Count++
				if cat.Outranks(row[c].Dominant) {
					row[c].Dominant = cat
				}
			}
		}
	}
	return g, nil
}

// span returns the inclusive range of cell indexes that [start, start+length)
// intersects, clipped to [0, limit).
func (g *Grid) span(start, length, limit int) (first, last int, ok bool) {
	end := start + length // exclusive
	if length <= 0 || end <= 0 {
		return 0, 0, false
	}
	if start < 0 {
		start = 0
	}
	first = start / g.CellSize
	last = (end - 1) / g.CellSize
	if first >= limit {
		return 0, 0, false
	}
	if last >= limit {
		last = limit - 1
	}
	return first, last, true
}

// At returns the cell at column c, row r.
func (g *Grid) At(c, r int) Cell {
	return g.Cells[r*g.Cols+c]
}

// CellOf returns the grid cell containing pixel p, clamped to the grid.
func (g *Grid) CellOf(p Point) Point {
	return Point{
		X: clamp(p.X/g.CellSize, 0, g.Cols-1),
		Y: clamp(p.Y/g.CellSize, 0, g.Rows-1),
	}
}

// Lines renders every row as a string of exactly Cols runes.
func (g *Grid) Lines(glyphs Glyphs) []string {
	lines := make([]string, g.Rows)
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		sb.Reset()
		for c := 0; c < g.Cols; c++ {
			sb.WriteRune(glyphs.Rune(g.At(c, r)))
		}
		lines[r] = sb.String()
	}
	return lines
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
