package export

import "math"

// DefaultMaxScale bounds PNG resolution multipliers.
const DefaultMaxScale = 8

// NormalizeScale returns a usable raster multiplier: NaN, infinities and
// values <= 0 become 1, values above DefaultMaxScale are clamped.
func NormalizeScale(scale float64) float64 {
	return normalizeScale(scale, DefaultMaxScale)
}

func normalizeScale(scale, maxScale float64) float64 {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return 1
	}
	if maxScale > 0 && scale > maxScale {
		return maxScale
	}
	return scale
}
