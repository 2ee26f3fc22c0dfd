package densitymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PointKind says how a lookup query's coordinates are measured.
type PointKind int

const (
	PointPixel PointKind = iota
	PointGrid
)

// Query is a reverse lookup request.
type Query struct {
	Kind  PointKind
	Point Point
	Cols  int // grid width, required for PointGrid
}

// ParseQuery parses "x,y" as pixel coordinates and "gC,R" as grid
// coordinates.
func ParseQuery(s string, cols int) (Query, error) {
	q := Query{Kind: PointPixel, Cols: cols}
	if strings.HasPrefix(s, "g") {
		q.Kind = PointGrid
		s = s[1:]
	}
	xs, ys, ok := strings.Cut(s, ",")
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if !ok || errX != nil || errY != nil {
		return Query{}, invalidf("point %q: want X,Y or gCOL,ROW", s)
	}
	q.Point = Point{X: x, Y: y}
	return q, nil
}

// Resolve converts the query to a pixel point inside the viewport. Grid
// coordinates resolve to the top-left pixel of the cell.
func (q Query) Resolve(vp Viewport) (Point, error) {
	if err := validateViewport(vp); err != nil {
		return Point{}, err
	}
	p := q.Point
	if q.Kind == PointGrid {
		cols, rows, size, err := Dimensions(vp, q.Cols)
		if err != nil {
			return Point{}, err
		}
		if p.X < 0 || p.X >= cols || p.Y < 0 || p.Y >= rows {
			return Point{}, invalidf("grid cell (%d,%d) outside %dx%d grid", p.X, p.Y, cols, rows)
		}
		p = Point{X: p.X * size, Y: p.Y * size}
	}
	if p.X < 0 || p.X >= vp.Width || p.Y < 0 || p.Y >= vp.Height {
		return Point{}, invalidf("point (%d,%d) outside %dx%d viewport", p.X, p.Y, vp.Width, vp.Height)
	}
	return p, nil
}

// Stack is the result of a reverse lookup: every element containing Point,
// innermost first.
type Stack struct {
	Point    Point
	Elements []Element
}

// StackOrder sorts a lookup result innermost first. Entries arrive in
// document order.
type StackOrder func(elements []Element)

// ByArea orders the smallest rectangle first. Without parent links a smaller
// box containing the same point is the best guess at a descendant; among
// equal areas the later element in document order comes first.
func ByArea(elements []Element) {
	reverse(elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Rect.Area() < elements[j].Rect.Area()
	})
}

// ByDepth orders the most deeply nested element first, keeping later
// document order first among siblings.
func ByDepth(elements []Element) {
	reverse(elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Depth > elements[j].Depth
	})
}

// OrderFor picks ByDepth when the snapshot records nesting, ByArea otherwise.
func OrderFor(s *Snapshot) StackOrder {
	if s.Nested {
		return ByDepth
	}
	return ByArea
}

// Lookup finds every element whose rectangle contains the query point.
// An empty stack is a valid result.
func Lookup(s *Snapshot, q Query) (*Stack, error) {
	return LookupOrdered(s, q, OrderFor(s))
}

// LookupOrdered is Lookup with an explicit ordering policy.
func LookupOrdered(s *Snapshot, q Query, order StackOrder) (*Stack, error) {
	p, err := q.Resolve(s.Viewport)
	if err != nil {
		return nil, err
	}
	var hits []Element
	for _, el := range s.Elements {
		if el.Rect.Contains(p) {
			hits = append(hits, el)
		}
	}
	if order != nil {
		order(hits)
	}
	return &Stack{Point: p, Elements: hits}, nil
}

// RenderStack formats a lookup result, one block per element.
func RenderStack(st *Stack) string {
	var sb strings.Builder
	if len(st.Elements) == 0 {
		fmt.Fprintf(&sb, "No elements at px(%d,%d)\n", st.Point.X, st.Point.Y)
		return sb.String()
	}
	fmt.Fprintf(&sb, "=== Elements at px(%d,%d) ===\n", st.Point.X, st.Point.Y)
	fmt.Fprintf(&sb, "Stack depth: %d\n\n", len(st.Elements))
	for i, el := range st.Elements {
		writeStackEntry(&sb, i, el)
	}
	return sb.String()
}

// stackAttrs lists the curated attributes shown per element, in order.
var stackAttrs = []string{"data-e2e", "aria-label", "aria-pressed", "aria-expanded", "disabled"}

func writeStackEntry(sb *strings.Builder, i int, el Element) {
	fmt.Fprintf(sb, "[%d] <%s>", i, strings.ToLower(el.Tag))
	if el.ID != "" {
		fmt.Fprintf(sb, " id=%q", el.ID)
	}
	if el.Role != "" {
		fmt.Fprintf(sb, " role=%q", el.Role)
	}
	sb.WriteString("  " + Classify(el).String() + "\n")

	detail := func(key, value string) {
		fmt.Fprintf(sb, "     %s: %s\n", key, value)
	}
	if len(el.Classes) > 0 {
		detail("class", strings.Join(el.Classes, " "))
	}
	for _, name := range stackAttrs {
		if v, ok := el.Attrs[name]; ok {
			detail(name, fmt.Sprintf("%q", v))
		}
	}
	if el.Href != "" {
		detail("href", el.Href)
	}
	if el.InputType != "" {
		detail("type", el.InputType)
	}
	if el.ContentEditable {
		detail("contentEditable", "true")
	}
	if el.Text != "" {
		detail("text", fmt.Sprintf("%q", el.Text))
	}
	if el.Style.Cursor != "" {
		detail("cursor", el.Style.Cursor)
	}
	if el.Style.Background != "" {
		detail("bg", el.Style.Background)
	}
	if el.Style.Color != "" {
		detail("color", el.Style.Color)
	}
	r := el.Rect
	detail("rect", fmt.Sprintf("(%d,%d) %dx%d", r.X, r.Y, r.W, r.H))
}

func reverse(elements []Element) {
	for i, j := 0, len(elements)-1; i < j; i, j = i+1, j-1 {
		elements[i], elements[j] = elements[j], elements[i]
	}
}
