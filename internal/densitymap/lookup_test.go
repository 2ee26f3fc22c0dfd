package densitymap

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func nestedSnapshot() *Snapshot {
	return &Snapshot{
		Viewport: Viewport{100, 100},
		Elements: []Element{
			{Tag: "body", Rect: Rect{0, 0, 100, 100}},
			{Tag: "div", Rect: Rect{10, 10, 50, 50}, Classes: []string{"card", "wide"}},
			{Tag: "button", Rect: Rect{20, 20, 10, 10}, Attrs: map[string]string{"aria-pressed": "false"}},
		},
	}
}

func tags(els []Element) string {
	var out []string
	for _, el := range els {
		out = append(out, el.Tag)
	}
	return strings.Join(out, ",")
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		point    Point
		expected string
	}{
		{"innermost first", Query{Point: Point{25, 25}}, Point{25, 25}, "button,div,body"},
		{"outside card", Query{Point: Point{5, 5}}, Point{5, 5}, "body"},
		{"top-left edge inclusive", Query{Point: Point{10, 10}}, Point{10, 10}, "div,body"},
		{"bottom-right edge exclusive", Query{Point: Point{60, 60}}, Point{60, 60}, "body"},
		{"grid cell top-left", Query{Kind: PointGrid, Point: Point{2, 2}, Cols: 10}, Point{20, 20}, "button,div,body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Lookup(nestedSnapshot(), tt.query)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if st.Point != tt.point {
				t.Errorf("resolved point %v, expected %v", st.Point, tt.point)
			}
			if got := tags(st.Elements); got != tt.expected {
				t.Errorf("got stack %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLookupInvalidPoint(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"right of viewport", Query{Point: Point{100, 0}}},
		{"below viewport", Query{Point: Point{0, 100}}},
		{"negative", Query{Point: Point{-1, 5}}},
		{"grid outside", Query{Kind: PointGrid, Point: Point{10, 0}, Cols: 10}},
		{"grid without cols", Query{Kind: PointGrid, Point: Point{1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Lookup(nestedSnapshot(), tt.query); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLookupEmptyStack(t *testing.T) {
	s := &Snapshot{Viewport: Viewport{100, 100}}
	st, err := Lookup(s, Query{Point: Point{5, 5}})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(st.Elements) != 0 {
		t.Fatalf("expected empty stack, got %d elements", len(st.Elements))
	}
	if got := RenderStack(st); got != "No elements at px(5,5)\n" {
		t.Errorf("got %q", got)
	}
}

func TestLookupByDepth(t *testing.T) {
	s := &Snapshot{
		Viewport: Viewport{100, 100},
		Nested:   true,
		Elements: []Element{
			{Tag: "body", Depth: 1, Rect: Rect{0, 0, 100, 100}},
			// Absolutely positioned overlay, larger than its parent.
			{Tag: "div", Depth: 2, Rect: Rect{0, 0, 10, 10}},
			{Tag: "span", Depth: 3, Rect: Rect{0, 0, 50, 50}},
		},
	}
	st, err := Lookup(s, Query{Point: Point{5, 5}})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := tags(st.Elements); got != "span,div,body" {
		t.Errorf("got %q, expected span,div,body", got)
	}

	st, _ = LookupOrdered(s, Query{Point: Point{5, 5}}, ByArea)
	if got := tags(st.Elements); got != "div,span,body" {
		t.Errorf("area order got %q, expected div,span,body", got)
	}
}

func TestLookupEqualAreaPrefersLaterElement(t *testing.T) {
	s := &Snapshot{
		Viewport: Viewport{100, 100},
		Elements: []Element{
			{Tag: "div", Rect: Rect{0, 0, 20, 20}},
			{Tag: "a", HasHref: true, Rect: Rect{0, 0, 20, 20}},
		},
	}
	st, err := Lookup(s, Query{Point: Point{1, 1}})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := tags(st.Elements); got != "a,div" {
		t.Errorf("got %q, expected a,div", got)
	}
}

func TestLookupContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	vp := Viewport{400, 300}
	var els []Element
	for i := 0; i < 300; i++ {
		x, y := rng.Intn(vp.Width), rng.Intn(vp.Height)
		els = append(els, Element{
			Tag:  "div",
			ID:   string(rune('a'+i%26)) + strings.Repeat("x", i/26),
			Rect: Rect{X: x, Y: y, W: 1 + rng.Intn(vp.Width-x), H: 1 + rng.Intn(vp.Height-y)},
		})
	}
	s := &Snapshot{Viewport: vp, Elements: els}

	for i := 0; i < 100; i++ {
		p := Point{rng.Intn(vp.Width), rng.Intn(vp.Height)}
		st, err := Lookup(s, Query{Point: p})
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		seen := map[string]int{}
		for j, el := range st.Elements {
			if !el.Rect.Contains(p) {
				t.Errorf("%s does not contain %v", el.ID, p)
			}
			if j > 0 && st.Elements[j-1].Rect.Area() > el.Rect.Area() {
				t.Errorf("stack not ordered by area at %d", j)
			}
			seen[el.ID]++
		}
		for _, el := range els {
			want := 0
			if el.Rect.Contains(p) {
				want = 1
			}
			if seen[el.ID] != want {
				t.Errorf("%s appears %d times at %v, expected %d", el.ID, seen[el.ID], p, want)
			}
		}
	}
}

func TestRenderStack(t *testing.T) {
	st, err := Lookup(nestedSnapshot(), Query{Point: Point{25, 25}})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	out := RenderStack(st)
	for _, want := range []string{
		"=== Elements at px(25,25) ===",
		"Stack depth: 3",
		"[0] <button>  button",
		`     aria-pressed: "false"`,
		"[1] <div>  plain",
		"     class: card wide",
		"     rect: (20,20) 10x10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in    string
		kind  PointKind
		point Point
	}{
		{"694,584", PointPixel, Point{694, 584}},
		{"g48,40", PointGrid, Point{48, 40}},
		{"10, 20", PointPixel, Point{10, 20}},
	}
	for _, tt := range tests {
		q, err := ParseQuery(tt.in, 160)
		if err != nil {
			t.Fatalf("ParseQuery(%q) failed: %v", tt.in, err)
		}
		if q.Kind != tt.kind || q.Point != tt.point || q.Cols != 160 {
			t.Errorf("ParseQuery(%q) = %+v", tt.in, q)
		}
	}
	for _, in := range []string{"abc", "12,34xyz", "g1,2,3", "12", "g,4", "1.5,2"} {
		if _, err := ParseQuery(in, 160); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseQuery(%q): expected ErrInvalidInput, got %v", in, err)
		}
	}
}
