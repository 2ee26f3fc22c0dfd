package densitymap

import "fmt"

// Glyphs maps cell states to the runes drawn in the grid.
type Glyphs struct {
	Name    string
	Density [5]rune // empty, 1, 2-3, 4-7, 8+
	Types   [Plain]rune
}

// ASCII is the default glyph set.
var ASCII = Glyphs{
	Name:    "ascii",
	Density: [5]rune{' ', '.', ':', '#', '@'},
	Types:   [Plain]rune{'B', 'F', 'L', 'I', 'T'},
}

// Blocks draws density with shade characters and types with square glyphs.
var Blocks = Glyphs{
	Name:    "blocks",
	Density: [5]rune{' ', '░', '▒', '▓', '█'},
	Types:   [Plain]rune{'▣', '▤', '▨', '▧', '▥'},
}

// GlyphsByName resolves "ascii" or "blocks".
func GlyphsByName(name string) (Glyphs, error) {
	switch name {
	case "", "ascii":
		return ASCII, nil
	case "blocks":
		return Blocks, nil
	}
	return Glyphs{}, fmt.Errorf("unknown glyph set: %s (supported: ascii, blocks)", name)
}

// Bucket returns the density bucket for an overlap count: 0, 1, 2-3, 4-7
// or 8 and more map to 0..4.
func Bucket(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 7:
		return 3
	}
	return 4
}

// Rune returns the glyph for a cell.
func (g Glyphs) Rune(c Cell) rune {
	if c.Count > 0 && c.Dominant.Typed() {
		return g.Types[c.Dominant]
	}
	return g.Density[Bucket(c.Count)]
}

// Empty is the glyph of a cell no element overlaps.
func (g Glyphs) Empty() rune {
	return g.Density[0]
}

// Legend describes the glyph set in one or two lines.
func (g Glyphs) Legend() []string {
	d, t := g.Density, g.Types
	return []string{
		fmt.Sprintf("Legend: (space)=empty %c=1elem %c=2-3 %c=4-7 %c=8+", d[1], d[2], d[3], d[4]),
		fmt.Sprintf("        %c=button %c=link %c=input %c=image/video %c=text",
			t[Button], t[Link], t[Input], t[Media], t[Text]),
	}
}
