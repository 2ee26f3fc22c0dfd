// Package densitymap renders a snapshot of visible page elements as compact
// text: a dense character grid, a run-length encoded sparse grid, and a
// reverse lookup of the elements stacked under a point.
//
// Every function in this package is a pure function of its input snapshot.
// Nothing is cached between calls and input slices are never modified, so a
// single Snapshot may be rendered from several goroutines at once.
package densitymap

import "math"

// Point is a coordinate pair, either in viewport pixels or grid cells
// depending on context.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an element's bounding box in viewport pixels, top-left origin.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether p lies inside r. The top and left edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Area returns W*H, or 0 for an empty rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Empty reports whether r has no rendered area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Center returns the rectangle center rounded to the nearest pixel.
func (r Rect) Center() Point {
	return Point{
		X: int(math.Round(float64(r.X) + float64(r.W)/2)),
		Y: int(math.Round(float64(r.Y) + float64(r.H)/2)),
	}
}

// Style holds the computed style subset shown by reverse lookup.
type Style struct {
	Cursor     string `json:"cursor,omitempty"`
	Background string `json:"bg,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Element is one visible DOM node as captured by the page walker.
type Element struct {
	Tag             string            `json:"tag"`
	Rect            Rect              `json:"rect"`
	TextLen         int               `json:"textLen,omitempty"` // direct text only, trimmed
	Text            string            `json:"text,omitempty"`
	Interactive     bool              `json:"interactive,omitempty"`
	Role            string            `json:"role,omitempty"`
	HasHref         bool              `json:"hasHref,omitempty"`
	Href            string            `json:"href,omitempty"`
	InputType       string            `json:"inputType,omitempty"`
	ContentEditable bool              `json:"editable,omitempty"`
	Label           string            `json:"label,omitempty"`
	ID              string            `json:"id,omitempty"`
	Classes         []string          `json:"classes,omitempty"`
	Attrs           map[string]string `json:"attrs,omitempty"`
	Style           Style             `json:"style,omitempty"`
	Depth           int               `json:"depth,omitempty"` // 0 when the walker did not record nesting
}

// Viewport is the size of the page's visible area in device pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Snapshot is a flat list of the elements visible at one instant.
type Snapshot struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Viewport Viewport  `json:"viewport"`
	Elements []Element `json:"elements"`
	// Nested is set when every element carries a Depth, which lets reverse
	// lookup order by true nesting instead of by area.
	Nested bool `json:"nested,omitempty"`
}
