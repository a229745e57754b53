package scene

import (
	"strings"

	"github.com/agnivade/levenshtein"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
)

// ShapeKind identifies a background primitive.
type ShapeKind string

// Background shape kinds.
const (
	Circle   ShapeKind = "circle"
	Square   ShapeKind = "square"
	Triangle ShapeKind = "triangle"
)

// ShapeKinds lists every background kind in button order.
var ShapeKinds = []ShapeKind{Circle, Square, Triangle}

// IconKind identifies a decorative vector asset.
type IconKind string

// Icon kinds. Each maps to assets/icons/{kind}.svg.
const (
	Star         IconKind = "star"
	Umbrella     IconKind = "umbrella"
	TriangleIcon IconKind = "triangle"
)

// IconKinds lists every icon kind in button order.
var IconKinds = []IconKind{Star, Umbrella, TriangleIcon}

// AssetPath returns the relative asset path for the icon kind.
func (k IconKind) AssetPath() string {
	return "assets/icons/" + string(k) + ".svg"
}

// ParseShapeKind parses a background kind name (case-insensitive).
func ParseShapeKind(s string) (ShapeKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range ShapeKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", unknownKind("shape", s, shapeNames())
}

// ParseIconKind parses an icon kind name (case-insensitive).
func ParseIconKind(s string) (IconKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range IconKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", unknownKind("icon", s, iconNames())
}

func shapeNames() []string {
	names := make([]string, len(ShapeKinds))
	for i, k := range ShapeKinds {
		names[i] = string(k)
	}
	return names
}

func iconNames() []string {
	names := make([]string, len(IconKinds))
	for i, k := range IconKinds {
		names[i] = string(k)
	}
	return names
}

func unknownKind(what, got string, valid []string) error {
	if s := suggest(got, valid); s != "" {
		return apperr.New(apperr.ErrCodeInvalidKind, "unknown %s %q (did you mean %q?)", what, got, s)
	}
	return apperr.New(apperr.ErrCodeInvalidKind, "unknown %s %q (must be one of: %s)", what, got, strings.Join(valid, ", "))
}

// suggest returns the closest candidate within edit distance 2, or "".
func suggest(name string, candidates []string) string {
	name = strings.ToLower(name)
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
