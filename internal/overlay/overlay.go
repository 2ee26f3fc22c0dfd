// Package overlay draws a rendered density grid on top of a page screenshot
// so the text map can be checked against what the page actually shows.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/nfnt/resize"
	"github.com/v0xg/densitymap/internal/densitymap"
)

// Options configures the annotated image
type Options struct {
	MaxWidth  uint // output is scaled down to this width, 0 keeps the viewport width
	GridLines bool
}

// categoryTint is the fill drawn over cells whose dominant category renders
// as a letter
var categoryTint = map[densitymap.Category]color.NRGBA{
	densitymap.Button: {234, 67, 53, 110},
	densitymap.Input:  {251, 188, 5, 110},
	densitymap.Link:   {66, 133, 244, 110},
	densitymap.Media:  {52, 168, 83, 90},
	densitymap.Text:   {160, 90, 200, 70},
}

var (
	gridColor   = color.RGBA{0, 0, 0, 40}
	markerColor = color.RGBA{255, 0, 128, 255}
)

// Annotate returns a copy of shot with the grid drawn over it. The
// screenshot is first resampled to viewport pixels so that cells line up
// on high-DPI captures.
func Annotate(shot image.Image, vp densitymap.Viewport, g *densitymap.Grid, index []densitymap.Interactive, opts Options) image.Image {
	if b := shot.Bounds(); b.Dx() != vp.Width || b.Dy() != vp.Height {
		shot = resize.Resize(uint(vp.Width), uint(vp.Height), shot, resize.Bilinear)
	}

	bounds := image.Rect(0, 0, vp.Width, vp.Height)
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, shot, shot.Bounds().Min, draw.Src)

	size := g.CellSize
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := g.At(c, r)
			if cell.Count == 0 {
				continue
			}
			rect := image.Rect(c*size, r*size, (c+1)*size, (r+1)*size).Intersect(bounds)
			draw.Draw(result, rect, &image.Uniform{C: cellColor(cell)}, image.Point{}, draw.Over)
		}
	}

	if opts.GridLines {
		drawGridLines(result, g)
	}
	for _, it := range index {
		drawRing(result, it.Center.X, it.Center.Y, max(size/2, 4), markerColor)
	}

	if opts.MaxWidth == 0 || opts.MaxWidth >= uint(vp.Width) {
		return result
	}
	return Scale(result, opts.MaxWidth)
}

// cellColor picks the category tint, or a grey whose opacity grows with the
// density bucket
func cellColor(cell densitymap.Cell) color.NRGBA {
	if cell.Dominant.Typed() {
		return categoryTint[cell.Dominant]
	}
	return color.NRGBA{0, 0, 0, uint8(25 * densitymap.Bucket(cell.Count))}
}

// Scale resizes img to width, keeping the aspect ratio
func Scale(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// WritePNG encodes img to path
func WritePNG(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func drawGridLines(img *image.RGBA, g *densitymap.Grid) {
	b := img.Bounds()
	for c := 1; c < g.Cols; c++ {
		x := c * g.CellSize
		drawLine(img, x, 0, x, b.Max.Y-1, gridColor)
	}
	for r := 1; r < g.Rows; r++ {
		y := r * g.CellSize
		drawLine(img, 0, y, b.Max.X-1, y, gridColor)
	}
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawRing marks an interactive element's center
func drawRing(img *image.RGBA, x, y, radius int, c color.RGBA) {
	for angle := 0.0; angle < 360; angle += 1 {
		rad := angle * math.Pi / 180
		px := x + int(float64(radius)*math.Cos(rad))
		py := y + int(float64(radius)*math.Sin(rad))
		setPixelSafe(img, px, py, c)
		setPixelSafe(img, px+1, py, c)
		setPixelSafe(img, px, py+1, c)
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.Set(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
