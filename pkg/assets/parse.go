package assets

import (
	"bytes"

	"github.com/srwiley/oksvg"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// Parse decodes an SVG icon into its view box and sub-paths. Fill colors
// in the file are dropped; icons take the color picker value when placed.
// Element transforms are not applied, so icon files should use absolute
// path coordinates.
func Parse(kind scene.IconKind, data []byte) (*scene.Asset, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeAssetInvalid, err, "parse icon %q", kind)
	}

	vb := scene.Bounds{X: icon.ViewBox.X, Y: icon.ViewBox.Y, W: icon.ViewBox.W, H: icon.ViewBox.H}
	if vb.W <= 0 || vb.H <= 0 {
		return nil, apperr.New(apperr.ErrCodeAssetInvalid, "icon %q has no view box", kind)
	}

	asset := &scene.Asset{Kind: kind, ViewBox: vb}
	for _, p := range icon.SVGPaths {
		if len(p.Path) == 0 {
			continue
		}
		asset.Paths = append(asset.Paths, scene.SubPath{
			Path:    append(p.Path[:0:0], p.Path...),
			NonZero: p.UseNonZeroWinding,
		})
	}
	return asset, nil
}
