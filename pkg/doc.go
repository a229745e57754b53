// Package pkg provides the core libraries for Shapeboard.
//
// # Overview
//
// Shapeboard composes one background shape and a stack of vector icons
// into a picture that can be exported as PNG or SVG. The pkg directory is
// organized into three areas:
//
//  1. Domain: [scene] (objects and the editing controller), [assets] (icon
//     loading and parsing) and [render] (SVG, raster and outline output)
//  2. Delivery: [export] (format and scale handling, downloads, archive)
//  3. Infrastructure: [cache], [config], [httputil], [observability],
//     [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow through Shapeboard:
//
//	key press / HTTP request / CLI flag
//	         ↓
//	    [scene] Controller (mutations under one lock)
//	         ↓ Snapshot
//	    [render] SVG or raster
//	         ↓
//	    [export] Artifact → file, HTTP attachment or MongoDB
//
// Icon kinds are resolved to vector assets by [assets] loaders, which may
// fetch them over HTTP through [httputil] and keep them in a [cache].
//
// # Quick Start
//
//	ctrl := scene.NewController(scene.DefaultOptions(), assets.Builtin(), nil)
//	ctrl.SelectBackgroundShape(scene.Circle, scene.MustParseColor("gold"))
//	if _, err := ctrl.AddIcon(ctx, scene.Star).Wait(ctx); err != nil {
//	    return err
//	}
//
//	exp, _ := export.NewExporter(export.Options{}, nil, nil, nil)
//	artifact, err := exp.Export(ctx, ctrl.Snapshot(), export.PNG, 2)
//
// [scene]: github.com/matzehuels/shapeboard/pkg/scene
// [assets]: github.com/matzehuels/shapeboard/pkg/assets
// [render]: github.com/matzehuels/shapeboard/pkg/render
// [export]: github.com/matzehuels/shapeboard/pkg/export
// [cache]: github.com/matzehuels/shapeboard/pkg/cache
// [config]: github.com/matzehuels/shapeboard/pkg/config
// [httputil]: github.com/matzehuels/shapeboard/pkg/httputil
// [observability]: github.com/matzehuels/shapeboard/pkg/observability
// [errors]: github.com/matzehuels/shapeboard/pkg/errors
// [buildinfo]: github.com/matzehuels/shapeboard/pkg/buildinfo
package pkg
