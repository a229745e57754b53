package scene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/srwiley/rasterx"
)

// Bounds is an axis-aligned rectangle in canvas units.
type Bounds struct {
	X, Y, W, H float64
}

// Center returns the geometric center of the rectangle.
func (b Bounds) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// SubPath is one vector path of an icon asset.
type SubPath struct {
	Path    rasterx.Path // geometry in asset coordinates
	Fill    Color
	NonZero bool // nonzero winding; evenodd otherwise
}

func (p SubPath) clone() SubPath {
	p.Path = slices.Clone(p.Path)
	return p
}

// Asset is a parsed icon file: its view box and sub-paths.
type Asset struct {
	Kind    IconKind
	ViewBox Bounds
	Paths   []SubPath
}

// Shape is the background primitive. X and Y are its top-left corner.
type Shape struct {
	ID     string
	Kind   ShapeKind
	Fill   Color
	X, Y   float64
	Width  float64
	Height float64
}

// Bounds returns the shape's bounding rectangle.
func (s *Shape) Bounds() Bounds {
	return Bounds{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
}

// Selectable is always false for background shapes.
func (s *Shape) Selectable() bool { return false }

// Body is the drawable content of an icon: [Simple] or [Composite].
type Body interface {
	// SubPaths returns the paths in draw order.
	SubPaths() []SubPath
	setFill(Color)
	clone() Body
}

// Simple is an icon made of a single vector path.
type Simple struct {
	Path SubPath
}

func (b *Simple) SubPaths() []SubPath { return []SubPath{b.Path} }
func (b *Simple) setFill(c Color)     { b.Path.Fill = c }
func (b *Simple) clone() Body         { return &Simple{Path: b.Path.clone()} }

// Composite is an icon whose asset had several sub-paths, grouped so they
// move and recolor as a unit.
type Composite struct {
	Paths []SubPath
}

func (b *Composite) SubPaths() []SubPath { return slices.Clone(b.Paths) }

func (b *Composite) setFill(c Color) {
	for i := range b.Paths {
		b.Paths[i].Fill = c
	}
}

func (b *Composite) clone() Body {
	paths := make([]SubPath, len(b.Paths))
	for i, p := range b.Paths {
		paths[i] = p.clone()
	}
	return &Composite{Paths: paths}
}

// Icon is a user-manipulable decoration. X and Y are the icon's center.
type Icon struct {
	ID      string
	Kind    IconKind
	X, Y    float64
	Scale   float64
	ViewBox Bounds // asset coordinate space
	Body    Body

	Selectable  bool
	HasControls bool
	HasBorders  bool
}

// newIcon builds an icon from a loaded asset. A single sub-path becomes a
// Simple body, several become a Composite.
func newIcon(a *Asset) *Icon {
	var body Body
	if len(a.Paths) == 1 {
		body = &Simple{Path: a.Paths[0].clone()}
	} else {
		paths := make([]SubPath, len(a.Paths))
		for i, p := range a.Paths {
			paths[i] = p.clone()
		}
		body = &Composite{Paths: paths}
	}
	return &Icon{
		ID:          uuid.NewString(),
		Kind:        a.Kind,
		Scale:       1,
		ViewBox:     a.ViewBox,
		Body:        body,
		Selectable:  true,
		HasControls: true,
		HasBorders:  true,
	}
}

// IsComposite reports whether the icon groups several sub-paths.
func (i *Icon) IsComposite() bool {
	_, ok := i.Body.(*Composite)
	return ok
}

// Fill returns the fill of the first sub-path. Icons are always recolored
// uniformly, so this is the icon's color.
func (i *Icon) Fill() Color {
	paths := i.Body.SubPaths()
	if len(paths) == 0 {
		return ""
	}
	return paths[0].Fill
}

// SetFill recolors the icon, every sub-path for composites.
func (i *Icon) SetFill(c Color) {
	i.Body.setFill(c)
}

// Size returns the rendered width and height.
func (i *Icon) Size() (float64, float64) {
	return i.ViewBox.W * i.Scale, i.ViewBox.H * i.Scale
}

// Bounds returns the rendered bounding rectangle.
func (i *Icon) Bounds() Bounds {
	w, h := i.Size()
	return Bounds{X: i.X - w/2, Y: i.Y - h/2, W: w, H: h}
}

// Clone returns a deep copy with a fresh ID.
func (i *Icon) Clone() *Icon {
	c := *i
	c.ID = uuid.NewString()
	c.Body = i.Body.clone()
	return &c
}

// copyIcon is a deep copy that keeps the ID, used for snapshots.
func (i *Icon) copyIcon() *Icon {
	c := *i
	c.Body = i.Body.clone()
	return &c
}
