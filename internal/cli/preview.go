package cli

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shapeboard/pkg/render"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// previewBackground fills the canvas in the terminal preview so transparent
// pixels do not take the terminal's color.
const previewBackground scene.Color = "#ffffff"

// halfBlock draws two pixel rows per text row: the foreground colors the
// upper half, the background the lower half.
const halfBlock = "▀"

// renderPreview rasterizes snap and downsamples it to cols terminal columns.
func renderPreview(snap scene.Snapshot, cols int) string {
	img := render.Raster(snap, render.WithBackground(previewBackground))
	return halfBlocks(render.Thumbnail(img, cols))
}

// halfBlocks converts img to lines of colored half-block characters.
func halfBlocks(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img, x, y))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img, x, y+1))
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
