package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

// OutlineDOT describes the scene tree in Graphviz DOT: the canvas, its
// background shape and its icons in draw order, with composite icons
// expanded into their sub-paths. The active icon is drawn bold.
func OutlineDOT(snap scene.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  canvas [label=%q, fillcolor=lightgrey];\n",
		fmt.Sprintf("canvas\n%s × %s", num(snap.Width), num(snap.Height)))

	if sh := snap.Background; sh != nil {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=%q];\n",
			"shape-"+sh.ID, fmt.Sprintf("%s\n%s", sh.Kind, sh.Fill), string(sh.Fill))
		fmt.Fprintf(&buf, "  canvas -> %q [label=\"background\"];\n", "shape-"+sh.ID)
	}

	for i, icon := range snap.Icons {
		id := "icon-" + icon.ID
		attrs := []string{
			fmt.Sprintf("label=%q", iconLabel(icon)),
			fmt.Sprintf("fillcolor=%q", string(icon.Fill())),
			fmt.Sprintf("fontcolor=%q", contrast(icon.Fill())),
		}
		if icon.ID == snap.ActiveID {
			attrs = append(attrs, "penwidth=3", "style=\"rounded,filled,bold\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		fmt.Fprintf(&buf, "  canvas -> %q [label=\"%d\"];\n", id, i)

		if !icon.IsComposite() {
			continue
		}
		for j, p := range icon.Body.SubPaths() {
			sub := fmt.Sprintf("%s/%d", id, j)
			fmt.Fprintf(&buf, "  %q [label=\"path %d\", shape=note, fillcolor=%q, fontcolor=%q];\n",
				sub, j, string(p.Fill), contrast(p.Fill))
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, sub)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func iconLabel(icon *scene.Icon) string {
	return fmt.Sprintf("%s\n(%s, %s) ×%s", icon.Kind, num(icon.X), num(icon.Y), num(icon.Scale))
}

// contrast picks black or white text for a fill.
func contrast(c scene.Color) string {
	rgba := c.RGBA()
	lum := 0.299*float64(rgba.R) + 0.587*float64(rgba.G) + 0.114*float64(rgba.B)
	if lum < 128 {
		return "white"
	}
	return "black"
}

// OutlineSVG renders DOT produced by OutlineDOT to SVG using Graphviz.
func OutlineSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with a
// plain one whose width and height match the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
