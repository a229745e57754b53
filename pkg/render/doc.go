// Package render draws scene snapshots.
//
// # Overview
//
// Every renderer works on an immutable [scene.Snapshot], so a scene can be
// rendered while the controller keeps mutating it:
//
//   - [SVG]: a standalone SVG document (ajstarks/svgo)
//   - [Raster] and [PNG]: scanline rasterization (srwiley/rasterx) encoded
//     with disintegration/imaging
//   - [Thumbnail]: a downscaled preview of a raster
//   - [OutlineDOT] and [OutlineSVG]: the scene tree as a Graphviz diagram
//
// # Coordinates
//
// Shapes are positioned by their top-left corner. Icons are positioned by
// their center: an icon's asset is translated so its view box center lands
// on (X, Y) and scaled around that point.
//
//	png, err := render.PNG(snap, render.WithScale(2))
//	svg := render.SVG(snap)
package render
