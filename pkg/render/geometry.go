package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/srwiley/rasterx"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

// shapePath returns the outline of a background shape in canvas units.
func shapePath(sh *scene.Shape) rasterx.Path {
	var p rasterx.Path
	switch sh.Kind {
	case scene.Circle:
		cx, cy := sh.Bounds().Center()
		rasterx.AddCircle(cx, cy, math.Min(sh.Width, sh.Height)/2, &p)
	case scene.Triangle:
		p.Start(rasterx.ToFixedP(sh.X+sh.Width/2, sh.Y))
		p.Line(rasterx.ToFixedP(sh.X+sh.Width, sh.Y+sh.Height))
		p.Line(rasterx.ToFixedP(sh.X, sh.Y+sh.Height))
		p.Stop(true)
	default:
		rasterx.AddRect(sh.X, sh.Y, sh.X+sh.Width, sh.Y+sh.Height, 0, &p)
	}
	return p
}

// shapeData returns SVG path data for a background shape. Circles use arcs
// so the document stays exact.
func shapeData(sh *scene.Shape) string {
	x, y, w, h := sh.X, sh.Y, sh.Width, sh.Height
	switch sh.Kind {
	case scene.Circle:
		r := math.Min(w, h) / 2
		cx, cy := sh.Bounds().Center()
		return fmt.Sprintf("M%s %s A%s %s 0 1 0 %s %s A%s %s 0 1 0 %s %s Z",
			num(cx-r), num(cy), num(r), num(r), num(cx+r), num(cy),
			num(r), num(r), num(cx-r), num(cy))
	case scene.Triangle:
		return fmt.Sprintf("M%s %s L%s %s L%s %s Z",
			num(x+w/2), num(y), num(x+w), num(y+h), num(x), num(y+h))
	default:
		return fmt.Sprintf("M%s %s H%s V%s H%s Z", num(x), num(y), num(x+w), num(y+h), num(x))
	}
}

// iconMatrix maps asset coordinates to canvas coordinates.
func iconMatrix(icon *scene.Icon) rasterx.Matrix2D {
	cx, cy := icon.ViewBox.Center()
	return rasterx.Identity.
		Translate(icon.X, icon.Y).
		Scale(icon.Scale, icon.Scale).
		Translate(-cx, -cy)
}

// iconTransform is iconMatrix as an SVG transform attribute value.
func iconTransform(icon *scene.Icon) string {
	cx, cy := icon.ViewBox.Center()
	return fmt.Sprintf("translate(%s %s) scale(%s) translate(%s %s)",
		num(icon.X), num(icon.Y), num(icon.Scale), num(-cx), num(-cy))
}

// num formats a coordinate at full precision without an exponent.
func num(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// boundsData returns SVG path data for a rectangle.
func boundsData(b scene.Bounds) string {
	return fmt.Sprintf("M%s %s H%s V%s H%s Z", num(b.X), num(b.Y), num(b.X+b.W), num(b.Y+b.H), num(b.X))
}
