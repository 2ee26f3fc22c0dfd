package densitymap

import "fmt"

// Mode selects the map rendering.
type Mode string

const (
	ModeDense  Mode = "dense"
	ModeSparse Mode = "sparse"
)

// ParseMode accepts "dense" or "sparse".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDense, ModeSparse:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode: %s (supported: dense, sparse)", s)
}

// Options configures one map render.
type Options struct {
	Mode           Mode
	Cols           int
	Glyphs         Glyphs
	MaxInteractive int // 0 keeps every interactive element
}

// Result is a rendered map plus the structures it was built from.
type Result struct {
	Grid        *Grid
	Interactive []Interactive
	Text        string
}

// Render rasterizes the snapshot and renders it in the requested mode.
func Render(s *Snapshot, opts Options) (*Result, error) {
	if opts.Glyphs.Name == "" {
		opts.Glyphs = ASCII
	}
	if opts.Mode == "" {
		opts.Mode = ModeDense
	}
	g, err := Rasterize(s.Elements, s.Viewport, opts.Cols)
	if err != nil {
		return nil, err
	}
	index := IndexInteractive(s.Elements, g, opts.MaxInteractive)

	res := &Result{Grid: g, Interactive: index}
	switch opts.Mode {
	case ModeDense:
		res.Text = RenderDense(g, index, opts.Glyphs)
	case ModeSparse:
		res.Text = RenderSparse(g, index, opts.Glyphs)
	default:
		return nil, invalidf("unknown mode %q", opts.Mode)
	}
	return res, nil
}
