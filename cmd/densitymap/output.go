package main

import (
	"fmt"
	"strings"

	"github.com/v0xg/densitymap/internal/densitymap"
)

// header builds the block printed above a map: page info, grid geometry,
// legend and, for dense maps, the column ruler.
func header(snap *densitymap.Snapshot, res *densitymap.Result, mode densitymap.Mode, glyphs densitymap.Glyphs) string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+"\n", args...)
	}

	g := res.Grid
	if mode == densitymap.ModeSparse {
		line("=== DOM Density Map (sparse) ===")
	} else {
		line("=== DOM Density Map ===")
	}
	if snap.Title != "" {
		line("Page: %s", oneLine(snap.Title))
	}
	if snap.URL != "" {
		line("URL: %s", snap.URL)
	}
	line("Viewport: %dx%d  Grid: %dx%d (%dpx/cell)", snap.Viewport.Width, snap.Viewport.Height, g.Cols, g.Rows, g.CellSize)
	line("Elements: %d visible, %d interactive", len(snap.Elements), len(res.Interactive))

	if mode == densitymap.ModeSparse {
		d, t := glyphs.Density, glyphs.Types
		line("Key: _=empty %c=1 %c=2-3 %c=4-7 %c=8+ %c=btn %c=link %c=input %c=img %c=text",
			d[1], d[2], d[3], d[4],
			t[densitymap.Button], t[densitymap.Link], t[densitymap.Input], t[densitymap.Media], t[densitymap.Text])
		line("RLE: X5 = XXXXX")
		line("")
		return sb.String()
	}

	line("")
	for _, l := range glyphs.Legend() {
		line("%s", l)
	}
	line("")
	for _, l := range densitymap.Ruler(g.Cols) {
		line("%s", l)
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
