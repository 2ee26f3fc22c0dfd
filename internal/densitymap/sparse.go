package densitymap

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// emptyRow marks a row where no element overlaps any cell.
	emptyRow = "(empty)"
	// blankCell stands in for the empty-cell glyph so encoded rows never
	// contain spaces.
	blankCell = '_'
)

// EncodeRow run-length encodes one grid row. Each run is written as its
// glyph followed by the run length; the length is omitted for runs of one.
// Glyphs are never digits, so decoding is unambiguous.
func EncodeRow(row string, empty rune) string {
	runes := []rune(row)
	if len(runes) == 0 {
		return ""
	}
	var sb strings.Builder
	cur, n := runes[0], 1
	flush := func() {
		if cur == empty {
			sb.WriteRune(blankCell)
		} else {
			sb.WriteRune(cur)
		}
		if n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	for _, r := range runes[1:] {
		if r == cur {
			n++
			continue
		}
		flush()
		cur, n = r, 1
	}
	flush()
	return sb.String()
}

// DecodeRow expands an EncodeRow result back into grid glyphs.
func DecodeRow(enc string, empty rune) (string, error) {
	var sb strings.Builder
	runes := []rune(enc)
	for i := 0; i < len(runes); {
		glyph := runes[i]
		if unicode.IsDigit(glyph) {
			return "", fmt.Errorf("run count without glyph at offset %d in %q", i, enc)
		}
		if glyph == blankCell {
			glyph = empty
		}
		i++
		j := i
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}
		n := 1
		if j > i {
			var err error
			if n, err = strconv.Atoi(string(runes[i:j])); err != nil || n < 1 {
				return "", fmt.Errorf("bad run count %q in %q", string(runes[i:j]), enc)
			}
		}
		sb.WriteString(strings.Repeat(string(glyph), n))
		i = j
	}
	return sb.String(), nil
}

// SparseRow is one output line of the sparse encoding: a run of consecutive
// grid rows sharing the same encoding.
type SparseRow struct {
	First, Last int
	Encoding    string
}

// Count is the number of grid rows the line stands for.
func (s SparseRow) Count() int {
	return s.Last - s.First + 1
}

func (s SparseRow) String() string {
	if s.Count() == 1 {
		return fmt.Sprintf("r%d: %s", s.First, s.Encoding)
	}
	return fmt.Sprintf("r%d-%d: %s (x%d)", s.First, s.Last, s.Encoding, s.Count())
}

// EncodeSparse run-length encodes every row of the grid and merges runs of
// identical consecutive rows.
func EncodeSparse(g *Grid, glyphs Glyphs) []SparseRow {
	empty := glyphs.Empty()
	var out []SparseRow
	for r, line := range g.Lines(glyphs) {
		enc := EncodeRow(line, empty)
		if isBlank(line, empty) {
			enc = emptyRow
		}
		if n := len(out); n > 0 && out[n-1].Encoding == enc {
			out[n-1].Last = r
			continue
		}
		out = append(out, SparseRow{First: r, Last: r, Encoding: enc})
	}
	return out
}

// RenderSparse writes the sparse grid followed by the interactive listing.
// Listed elements carry their pixel center only.
func RenderSparse(g *Grid, index []Interactive, glyphs Glyphs) string {
	var sb strings.Builder
	for _, row := range EncodeSparse(g, glyphs) {
		sb.WriteString(row.String())
		sb.WriteByte('\n')
	}
	writeListing(&sb, index, func(it Interactive) string {
		return fmt.Sprintf("%s: %q (%d,%d)", it.ID(), it.Label, it.Center.X, it.Center.Y)
	})
	return sb.String()
}

// DecodeSparse reconstructs the dense grid rows from RenderSparse output.
// Lines that are not row lines are skipped and decoding stops at the
// interactive listing, so header text in front of the rows is tolerated.
func DecodeSparse(text string, cols int, glyphs Glyphs) ([]string, error) {
	empty := glyphs.Empty()
	var rows []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "--- ") {
			break
		}
		row, ok, err := parseSparseLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if row.First != len(rows) {
			return nil, fmt.Errorf("row %d follows row %d", row.First, len(rows)-1)
		}
		decoded := strings.Repeat(string(empty), cols)
		if row.Encoding != emptyRow {
			if decoded, err = DecodeRow(row.Encoding, empty); err != nil {
				return nil, err
			}
		}
		if n := len([]rune(decoded)); n != cols {
			return nil, fmt.Errorf("row %d decodes to %d cells, want %d", row.First, n, cols)
		}
		for r := row.First; r <= row.Last; r++ {
			rows = append(rows, decoded)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// parseSparseLine parses "r<a>: enc" or "r<a>-<b>: enc (x<n>)". ok is false
// for lines that are not row lines.
func parseSparseLine(line string) (row SparseRow, ok bool, err error) {
	label, rest, found := strings.Cut(line, ": ")
	if !found || len(label) < 2 || label[0] != 'r' || !unicode.IsDigit(rune(label[1])) {
		return row, false, nil
	}
	first, last, ranged := strings.Cut(label[1:], "-")
	if row.First, err = strconv.Atoi(first); err != nil {
		return row, false, fmt.Errorf("bad row label %q", label)
	}
	row.Last = row.First
	if ranged {
		if row.Last, err = strconv.Atoi(last); err != nil || row.Last < row.First {
			return row, false, fmt.Errorf("bad row range %q", label)
		}
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields) > 2 {
		return row, false, fmt.Errorf("malformed row line %q", line)
	}
	row.Encoding = fields[0]
	if len(fields) == 2 {
		var n int
		if _, err := fmt.Sscanf(fields[1], "(x%d)", &n); err != nil || n != row.Count() {
			return row, false, fmt.Errorf("repeat count %q does not match range %q", fields[1], label)
		}
	}
	return row, true, nil
}

func isBlank(line string, empty rune) bool {
	for _, r := range line {
		if r != empty {
			return false
		}
	}
	return true
}
