// Package scene owns the editable composition: one optional background
// shape and an ordered stack of icon decorations, plus the controller that
// turns UI events into scene mutations.
//
// # Object Model
//
// A [Scene] has at most one [Shape] (the background) and any number of
// [Icon] values. The background is never selectable and is always drawn
// beneath every icon. Icons are drawn in insertion order; new icons go on
// top.
//
// An icon body is a tagged variant: [Simple] for assets with a single
// sub-path and [Composite] for assets whose sub-paths were merged into one
// object. Recoloring a composite recolors every sub-path.
//
// # Controller
//
// [Controller] is the single writer. Every mutation takes its lock, so UI
// surfaces (terminal editor, HTTP handlers) may call it from any goroutine.
// Icon loading is asynchronous: [Controller.AddIcon] returns a [Pending]
// that resolves once the asset has been loaded and the icon inserted.
// Overlapping loads complete in no particular order; the last completion
// becomes the active selection.
//
//	c := scene.NewController(scene.DefaultOptions(), loader, logger)
//	c.SelectBackgroundShape(scene.Circle, scene.MustParseColor("#ff0000"))
//	icon, err := c.AddIcon(ctx, scene.Star).Wait(ctx)
//
// Commands without an eligible target (no background, no active icon) are
// silent no-ops and report false.
package scene
