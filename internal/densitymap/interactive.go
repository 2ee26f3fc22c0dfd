package densitymap

import (
	"fmt"
	"strings"
)

// maxLabelLen bounds listing labels, matching what the page walker captures.
const maxLabelLen = 60

// Interactive is one entry of the interactive index.
type Interactive struct {
	Index    int // 1-based, stable within one render only
	Category Category
	Label    string
	Center   Point // pixel center of the element
	Cell     Point // grid cell containing Center
}

// ID is the listing key, the index followed by the category letter.
func (it Interactive) ID() string {
	return fmt.Sprintf("%d%c", it.Index, it.Category.Letter())
}

// IndexInteractive numbers the interactive elements in the order they
// appear in elements. A positive limit truncates the index.
func IndexInteractive(elements []Element, g *Grid, limit int) []Interactive {
	var index []Interactive
	for _, el := range elements {
		if el.Rect.Empty() || !IsInteractive(el) {
			continue
		}
		if limit > 0 && len(index) == limit {
			break
		}
		center := el.Rect.Center()
		index = append(index, Interactive{
			Index:    len(index) + 1,
			Category: Classify(el),
			Label:    cleanLabel(el.Label),
			Center:   center,
			Cell:     g.CellOf(center),
		})
	}
	return index
}

// cleanLabel collapses whitespace so the label stays on one line and
// truncates it to maxLabelLen runes.
func cleanLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxLabelLen {
		s = string(r[:maxLabelLen-3]) + "..."
	}
	return s
}

func writeListing(sb *strings.Builder, index []Interactive, line func(Interactive) string) {
	if len(index) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n--- Interactive (%d) ---\n", len(index))
	for _, it := range index {
		sb.WriteString(line(it))
		sb.WriteByte('\n')
	}
}
