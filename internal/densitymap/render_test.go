package densitymap

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func pageSnapshot() *Snapshot {
	return &Snapshot{
		Title:    "Example",
		Viewport: Viewport{40, 20},
		Elements: []Element{
			{Tag: "body", Rect: Rect{0, 0, 40, 20}},
			{Tag: "button", Interactive: true, Label: "Go", Rect: Rect{0, 0, 10, 10}},
			{Tag: "a", HasHref: true, Interactive: true, Label: "  Read\n  more ", Rect: Rect{20, 10, 15, 9}},
			{Tag: "img", Rect: Rect{30, 0, 10, 10}},
		},
	}
}

func TestRenderDense(t *testing.T) {
	res, err := Render(pageSnapshot(), Options{Mode: ModeDense, Cols: 4})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	expected := strings.Join([]string{
		"B..I",
		"..LL",
		"",
		"--- Interactive (2) ---",
		`1B: "Go" at grid(0,0) px(5,5)`,
		`2L: "Read more" at grid(2,1) px(28,15)`,
		"",
	}, "\n")
	if res.Text != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", res.Text, expected)
	}
}

func TestRenderSparse(t *testing.T) {
	res, err := Render(pageSnapshot(), Options{Mode: ModeSparse, Cols: 4})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	expected := strings.Join([]string{
		"r0: B.2I",
		"r1: .2L2",
		"",
		"--- Interactive (2) ---",
		`1B: "Go" (5,5)`,
		`2L: "Read more" (28,15)`,
		"",
	}, "\n")
	if res.Text != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", res.Text, expected)
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	s := &Snapshot{Viewport: Viewport{30, 20}}
	res, err := Render(s, Options{Mode: ModeSparse, Cols: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Text != "r0-1: (empty) (x2)\n" {
		t.Errorf("got %q", res.Text)
	}

	res, err = Render(s, Options{Mode: ModeDense, Cols: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Text != "   \n   \n" {
		t.Errorf("got %q", res.Text)
	}
}

func TestRenderMaxInteractive(t *testing.T) {
	res, err := Render(pageSnapshot(), Options{Cols: 4, MaxInteractive: 1})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(res.Interactive) != 1 || res.Interactive[0].Label != "Go" {
		t.Errorf("got %+v, expected only the button", res.Interactive)
	}
}

func TestRenderListsOnlyCategorizedElements(t *testing.T) {
	s := &Snapshot{
		Viewport: Viewport{40, 20},
		Elements: []Element{
			{Tag: "a", Interactive: true, Label: "Top", Rect: Rect{0, 0, 20, 10}},
			{Tag: "a", HasHref: true, Interactive: true, Label: "Home", Rect: Rect{20, 0, 20, 10}},
		},
	}
	res, err := Render(s, Options{Mode: ModeDense, Cols: 4})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(res.Interactive) != 1 || res.Interactive[0].ID() != "1L" {
		t.Fatalf("got %+v, expected only the link", res.Interactive)
	}
	if strings.Contains(res.Text, "?") || strings.Contains(res.Text, "Top") {
		t.Errorf("listing includes an uncategorized element:\n%s", res.Text)
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	if _, err := Render(pageSnapshot(), Options{Cols: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero cols, got %v", err)
	}
	if _, err := Render(pageSnapshot(), Options{Cols: 4, Mode: "fancy"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown mode, got %v", err)
	}
}

func TestRenderDeterministicAndConcurrent(t *testing.T) {
	s := pageSnapshot()
	first, err := Render(s, Options{Mode: ModeDense, Cols: 4, Glyphs: Blocks})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Render(s, Options{Mode: ModeDense, Cols: 4, Glyphs: Blocks})
			if err == nil {
				results[i] = res.Text
			}
		}(i)
	}
	wg.Wait()

	for i, text := range results {
		if text != first.Text {
			t.Errorf("render %d differs:\n%s\nexpected:\n%s", i, text, first.Text)
		}
	}
}

func TestRuler(t *testing.T) {
	r := Ruler(23)
	if r[0] != "0         1         2  " {
		t.Errorf("tens = %q", r[0])
	}
	if r[1] != "01234567890123456789012" {
		t.Errorf("ones = %q", r[1])
	}
}
