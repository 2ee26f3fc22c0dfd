package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/v0xg/densitymap/internal/densitymap"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func renderGrid(t *testing.T) (densitymap.Viewport, *densitymap.Grid, []densitymap.Interactive) {
	t.Helper()
	s := &densitymap.Snapshot{
		Viewport: densitymap.Viewport{Width: 100, Height: 50},
		Elements: []densitymap.Element{
			{Tag: "button", Label: "OK", Rect: densitymap.Rect{X: 0, Y: 0, W: 10, H: 10}},
		},
	}
	res, err := densitymap.Render(s, densitymap.Options{Cols: 10})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return s.Viewport, res.Grid, res.Interactive
}

func TestAnnotateTintsOccupiedCells(t *testing.T) {
	vp, g, index := renderGrid(t)
	out := Annotate(whiteImage(100, 50), vp, g, index, Options{})

	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	r, gr, b, _ := out.At(1, 1).RGBA()
	if r == gr && gr == b {
		t.Errorf("button cell should be tinted, got grey (%d,%d,%d)", r, gr, b)
	}
	if c := color.RGBAModel.Convert(out.At(50, 40)).(color.RGBA); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("empty cell changed to %v", c)
	}
}

func TestAnnotateResamplesHighDPI(t *testing.T) {
	vp, g, index := renderGrid(t)
	out := Annotate(whiteImage(200, 100), vp, g, index, Options{GridLines: true})
	if out.Bounds().Dx() != 100 {
		t.Errorf("width = %d, expected viewport width 100", out.Bounds().Dx())
	}
}

func TestAnnotateScalesDown(t *testing.T) {
	vp, g, index := renderGrid(t)
	out := Annotate(whiteImage(100, 50), vp, g, index, Options{MaxWidth: 50})
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Errorf("bounds = %v, expected 50x25", out.Bounds())
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	size, err := WritePNG(path, whiteImage(10, 10))
	if err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	if size == 0 {
		t.Error("expected non-empty file")
	}
}
