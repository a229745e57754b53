package scene

import "math"

// Options parameterizes the controller. The two historical variants of the
// editor (icon scale 0.3 on a dynamic canvas, icon scale 5 on a fixed
// 800x600 canvas) are both expressible here.
type Options struct {
	Width, Height   float64 // canvas size
	ShapeRatio      float64 // background size as a fraction of min(Width, Height)
	IconScale       float64 // scale applied to freshly loaded icons
	Jitter          float64 // max random offset from the background center, per axis; NoJitter disables it
	DuplicateOffset float64 // offset of a duplicate from its original, per axis
	ShapeColor      Color   // initial shape picker value
	IconColor       Color   // initial icon picker value
	Seed            uint64  // jitter seed; 0 picks a random seed
}

// Default option values.
const (
	DefaultWidth           = 800
	DefaultHeight          = 600
	DefaultShapeRatio      = 0.8
	DefaultIconScale       = 0.3
	DefaultJitter          = 50
	DefaultDuplicateOffset = 30
)

// NoJitter places new icons exactly on the background center. Any negative
// Jitter has the same effect; zero selects DefaultJitter.
const NoJitter = -1

// DefaultOptions returns the stock editor configuration.
func DefaultOptions() Options {
	return Options{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		ShapeRatio:      DefaultShapeRatio,
		IconScale:       DefaultIconScale,
		Jitter:          DefaultJitter,
		DuplicateOffset: DefaultDuplicateOffset,
		ShapeColor:      "#ffcc00",
		IconColor:       "#000000",
	}
}

// withDefaults fills zero fields from DefaultOptions, and out-of-range
// sizes, ratios and scales as well. A negative Jitter is kept and disables
// jitter; a negative DuplicateOffset moves duplicates up and to the left.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.ShapeRatio <= 0 || o.ShapeRatio > 1 {
		o.ShapeRatio = d.ShapeRatio
	}
	if o.IconScale <= 0 {
		o.IconScale = d.IconScale
	}
	if o.Jitter == 0 || math.IsNaN(o.Jitter) {
		o.Jitter = d.Jitter
	}
	if o.DuplicateOffset == 0 || math.IsNaN(o.DuplicateOffset) {
		o.DuplicateOffset = d.DuplicateOffset
	}
	if o.ShapeColor == "" {
		o.ShapeColor = d.ShapeColor
	}
	if o.IconColor == "" {
		o.IconColor = d.IconColor
	}
	return o
}
