package render

import (
	"bytes"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

// RasterOption configures rasterization.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	scale      float64
	background scene.Color
}

// WithScale sets the resolution multiplier (default 1). Non-positive
// values are ignored.
func WithScale(s float64) RasterOption {
	return func(r *rasterRenderer) {
		if s > 0 && !math.IsInf(s, 0) {
			r.scale = s
		}
	}
}

// WithBackground fills the canvas before drawing. Without it the canvas is
// transparent.
func WithBackground(c scene.Color) RasterOption {
	return func(r *rasterRenderer) { r.background = c }
}

// Raster draws the snapshot into an RGBA image of size
// ceil(Width×scale) × ceil(Height×scale).
func Raster(snap scene.Snapshot, opts ...RasterOption) *image.RGBA {
	r := rasterRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	w := max(int(math.Ceil(snap.Width*r.scale)), 1)
	h := max(int(math.Ceil(snap.Height*r.scale)), 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if r.background != "" {
		draw.Draw(img, img.Bounds(), image.NewUniform(r.background.RGBA()), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	base := rasterx.Identity.Scale(r.scale, r.scale)

	if sh := snap.Background; sh != nil {
		fillPath(filler, shapePath(sh), base, sh.Fill, true)
	}
	for _, icon := range snap.Icons {
		m := base.Mult(iconMatrix(icon))
		for _, p := range icon.Body.SubPaths() {
			fillPath(filler, p.Path, m, p.Fill, p.NonZero)
		}
	}
	return img
}

// fillPath fills one path transformed by m.
func fillPath(f *rasterx.Filler, p rasterx.Path, m rasterx.Matrix2D, c scene.Color, nonZero bool) {
	f.Clear()
	f.SetWinding(nonZero)
	f.SetColor(c.RGBA())
	adder := rasterx.MatrixAdder{Adder: f, M: m}
	p.AddTo(&adder)
	f.Draw()
}

// PNG rasterizes the snapshot and encodes it as PNG.
func PNG(snap scene.Snapshot, opts ...RasterOption) ([]byte, error) {
	img := Raster(snap, opts...)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img to the given width, keeping the aspect ratio.
// A non-positive width returns an unscaled copy.
func Thumbnail(img image.Image, width int) *image.NRGBA {
	if width <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
