package scene

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
)

// Color is a validated fill color, normalized to lowercase "#rrggbb".
// The zero value is not a valid color.
type Color string

// ParseColor accepts "#rgb", "#rrggbb" (with or without '#') and SVG color
// names such as "tomato".
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", apperr.New(apperr.ErrCodeInvalidColor, "color cannot be empty")
	}
	if named, ok := colornames.Map[v]; ok {
		c, _ := colorful.MakeColor(named)
		return Color(c.Hex()), nil
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return Color(c.Hex()), nil
}

// MustParseColor is like ParseColor but panics on invalid input.
// Intended for constants and tests.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the "#rrggbb" form.
func (c Color) String() string { return string(c) }

// RGBA converts the color to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := cc.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
