package densitymap

import (
	"fmt"
	"strings"
)

// RenderDense writes the grid rows followed by the interactive listing.
// Each listed element shows both its grid cell and pixel center.
func RenderDense(g *Grid, index []Interactive, glyphs Glyphs) string {
	var sb strings.Builder
	for _, line := range g.Lines(glyphs) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	writeListing(&sb, index, func(it Interactive) string {
		return fmt.Sprintf("%s: %q at grid(%d,%d) px(%d,%d)",
			it.ID(), it.Label, it.Cell.X, it.Cell.Y, it.Center.X, it.Center.Y)
	})
	return sb.String()
}

// Ruler returns the two column-ruler lines printed above a dense grid: the
// tens digit every tenth column, then the ones digit of every column.
func Ruler(cols int) []string {
	var tens, ones strings.Builder
	for i := 0; i < cols; i++ {
		if i%10 == 0 {
			tens.WriteByte(byte('0' + (i/10)%10))
		} else {
			tens.WriteByte(' ')
		}
		ones.WriteByte(byte('0' + i%10))
	}
	return []string{tens.String(), ones.String()}
}
