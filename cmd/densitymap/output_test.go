package main

import (
	"strings"
	"testing"

	"github.com/v0xg/densitymap/internal/densitymap"
)

func TestHeader(t *testing.T) {
	snap := &densitymap.Snapshot{
		Title:    "Example\n Domain",
		URL:      "https://example.com/",
		Viewport: densitymap.Viewport{Width: 1920, Height: 1080},
		Elements: []densitymap.Element{
			{Tag: "a", HasHref: true, Label: "More", Rect: densitymap.Rect{X: 0, Y: 0, W: 1920, H: 40}},
		},
	}

	tests := []struct {
		name    string
		mode    densitymap.Mode
		want    []string
		notWant []string
	}{
		{"dense", densitymap.ModeDense, []string{
			"=== DOM Density Map ===",
			"Page: Example Domain",
			"Viewport: 1920x1080  Grid: 60x34 (32px/cell)",
			"Elements: 1 visible, 1 interactive",
			"Legend: (space)=empty .=1elem :=2-3 #=4-7 @=8+",
			"0         1         2         3         4         5         ",
		}, []string{"RLE:"}},
		{"sparse", densitymap.ModeSparse, []string{
			"=== DOM Density Map (sparse) ===",
			"Key: _=empty .=1 :=2-3 #=4-7 @=8+ B=btn L=link F=input I=img T=text",
			"RLE: X5 = XXXXX",
		}, []string{"Legend:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := densitymap.Render(snap, densitymap.Options{Mode: tt.mode, Cols: 60})
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			out := header(snap, res, tt.mode, densitymap.ASCII)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("header missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("header should not contain %q", w)
				}
			}
		})
	}
}
