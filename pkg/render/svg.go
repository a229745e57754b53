package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

// selectionStroke outlines the active icon in previews.
const selectionStroke = `fill="none" stroke="#2563eb" stroke-width="2" stroke-dasharray="6 4"`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background scene.Color
	selection  bool
	title      string
}

// WithSVGBackground fills the canvas behind the scene. Without it the
// canvas is transparent.
func WithSVGBackground(c scene.Color) SVGOption {
	return func(r *svgRenderer) { r.background = c }
}

// WithSelection outlines the active icon, as the editor shows it.
func WithSelection() SVGOption {
	return func(r *svgRenderer) { r.selection = true }
}

// WithTitle sets the document <title>.
func WithTitle(t string) SVGOption {
	return func(r *svgRenderer) { r.title = t }
}

// SVG serializes the whole snapshot: background shape first, then icons in
// draw order. Each icon is a group carrying its transform; composite icons
// nest all of their sub-paths in that group.
func SVG(snap scene.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(math.Ceil(snap.Width)), int(math.Ceil(snap.Height)),
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(snap.Width), num(snap.Height)))
	if r.title != "" {
		canvas.Title(r.title)
	}

	if r.background != "" {
		canvas.Path(boundsData(scene.Bounds{W: snap.Width, H: snap.Height}),
			fmt.Sprintf(`fill="%s"`, r.background))
	}

	if sh := snap.Background; sh != nil {
		canvas.Path(shapeData(sh),
			fmt.Sprintf(`id="shape-%s"`, sh.ID),
			fmt.Sprintf(`class="shape %s"`, sh.Kind),
			fmt.Sprintf(`fill="%s"`, sh.Fill))
	}

	for _, icon := range snap.Icons {
		class := "icon " + string(icon.Kind)
		if icon.IsComposite() {
			class += " composite"
		}
		canvas.Group(
			fmt.Sprintf(`id="icon-%s"`, icon.ID),
			fmt.Sprintf(`class="%s"`, class),
			fmt.Sprintf(`transform="%s"`, iconTransform(icon)))
		for _, p := range icon.Body.SubPaths() {
			canvas.Path(p.Path.ToSVGPath(), fmt.Sprintf(`fill="%s"`, p.Fill), fillRule(p.NonZero))
		}
		canvas.Gend()
	}

	if r.selection {
		if active := snap.Active(); active != nil {
			canvas.Path(boundsData(active.Bounds()), selectionStroke)
		}
	}

	canvas.End()
	return buf.Bytes()
}

func fillRule(nonZero bool) string {
	if nonZero {
		return `fill-rule="nonzero"`
	}
	return `fill-rule="evenodd"`
}
