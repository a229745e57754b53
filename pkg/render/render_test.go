package render

import (
	"bytes"
	"context"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

func squarePath(size float64) rasterx.Path {
	var p rasterx.Path
	rasterx.AddRect(0, 0, size, size, 0, &p)
	return p
}

// testSnapshot is a 100×80 canvas with a yellow circle and two icons: a
// simple black square at the center and a composite red one in a corner.
func testSnapshot() scene.Snapshot {
	simple := &scene.Icon{
		ID: "a", Kind: scene.Star, X: 50, Y: 40, Scale: 2,
		ViewBox: scene.Bounds{W: 10, H: 10},
		Body:    &scene.Simple{Path: scene.SubPath{Path: squarePath(10), Fill: "#000000", NonZero: true}},
	}
	composite := &scene.Icon{
		ID: "b", Kind: scene.Umbrella, X: 90, Y: 70, Scale: 1,
		ViewBox: scene.Bounds{W: 10, H: 10},
		Body: &scene.Composite{Paths: []scene.SubPath{
			{Path: squarePath(5), Fill: "#ff0000"},
			{Path: squarePath(10), Fill: "#ff0000"},
		}},
	}
	return scene.Snapshot{
		Width:      100,
		Height:     80,
		Background: &scene.Shape{ID: "bg", Kind: scene.Circle, Fill: "#ffcc00", X: 10, Y: 0, Width: 80, Height: 80},
		Icons:      []*scene.Icon{simple, composite},
		ActiveID:   "a",
	}
}

func TestSVG(t *testing.T) {
	out := string(SVG(testSnapshot()))

	for _, want := range []string{
		`viewBox="0 0 100 80"`,
		`id="shape-bg"`,
		`fill="#ffcc00"`,
		`id="icon-a"`,
		`transform="translate(50 40) scale(2) translate(-5 -5)"`,
		`class="icon umbrella composite"`,
		`fill-rule="nonzero"`,
		`fill-rule="evenodd"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %s", want)
		}
	}

	shape := strings.Index(out, `id="shape-bg"`)
	first := strings.Index(out, `id="icon-a"`)
	second := strings.Index(out, `id="icon-b"`)
	if !(shape < first && first < second) {
		t.Errorf("draw order wrong: shape %d, a %d, b %d", shape, first, second)
	}

	if got := strings.Count(out, `fill="#ff0000"`); got != 2 {
		t.Errorf("composite sub-paths = %d, want 2", got)
	}
	if strings.Contains(out, "stroke-dasharray") {
		t.Error("selection outline drawn without WithSelection")
	}
}

func TestSVGOptions(t *testing.T) {
	out := string(SVG(testSnapshot(), WithSelection(), WithSVGBackground("#ffffff"), WithTitle("board")))
	for _, want := range []string{"stroke-dasharray", `fill="#ffffff"`, "<title>board</title>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %s", want)
		}
	}

	snap := testSnapshot()
	snap.ActiveID = ""
	if strings.Contains(string(SVG(snap, WithSelection())), "stroke-dasharray") {
		t.Error("selection outline drawn with no active icon")
	}
}

func TestSVGKeepsFractionalTransform(t *testing.T) {
	snap := testSnapshot()
	icon := snap.Icons[0]
	icon.X, icon.Y, icon.Scale = 50.0035, 40.125, 0.363
	want := `transform="translate(50.0035 40.125) scale(0.363) translate(-5 -5)"`
	if out := string(SVG(snap)); !strings.Contains(out, want) {
		t.Errorf("SVG missing %s", want)
	}
}

func TestSVGEmptyScene(t *testing.T) {
	out := string(SVG(scene.Snapshot{Width: 800, Height: 600}))
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("SVG() = %q", out)
	}
	if strings.Contains(out, "<path") {
		t.Error("empty scene should have no paths")
	}
}

func TestShapeData(t *testing.T) {
	tests := []struct {
		kind scene.ShapeKind
		want string
	}{
		{scene.Square, "M10 20 H50 V60 H10 Z"},
		{scene.Triangle, "M30 20 L50 60 L10 60 Z"},
		{scene.Circle, "M10 40 A20 20 0 1 0 50 40 A20 20 0 1 0 10 40 Z"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			sh := &scene.Shape{Kind: tt.kind, X: 10, Y: 20, Width: 40, Height: 40}
			if got := shapeData(sh); got != tt.want {
				t.Errorf("shapeData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{160, "160"},
		{0.3, "0.3"},
		{1.23456, "1.23456"},
		{0.363, "0.363"},
		{-0.001, "-0.001"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRaster(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name  string
		scale float64
	}{
		{"1x", 1},
		{"2x", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Raster(snap, WithScale(tt.scale))
			b := img.Bounds()
			if b.Dx() != int(100*tt.scale) || b.Dy() != int(80*tt.scale) {
				t.Fatalf("size = %dx%d", b.Dx(), b.Dy())
			}

			at := func(x, y float64) color.RGBA {
				return img.RGBAAt(int(x*tt.scale), int(y*tt.scale))
			}
			if c := at(50, 40); c != (color.RGBA{0, 0, 0, 255}) {
				t.Errorf("icon pixel = %v, want black", c)
			}
			if c := at(20, 40); c != (color.RGBA{0xff, 0xcc, 0, 255}) {
				t.Errorf("shape pixel = %v, want #ffcc00", c)
			}
			if c := at(88, 68); c != (color.RGBA{0xff, 0, 0, 255}) {
				t.Errorf("composite pixel = %v, want red", c)
			}
			if c := at(1, 1); c.A != 0 {
				t.Errorf("corner = %v, want transparent", c)
			}
		})
	}
}

func TestRasterBackground(t *testing.T) {
	img := Raster(testSnapshot(), WithBackground("#ffffff"))
	if c := img.RGBAAt(1, 1); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("corner = %v, want white", c)
	}
}

func TestWithScaleIgnoresInvalid(t *testing.T) {
	for _, s := range []float64{0, -3} {
		img := Raster(testSnapshot(), WithScale(s))
		if img.Bounds().Dx() != 100 {
			t.Errorf("WithScale(%v) width = %d, want 100", s, img.Bounds().Dx())
		}
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(testSnapshot(), WithScale(3))
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("PNG() output is not a PNG")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 240 {
		t.Errorf("decoded size = %dx%d, want 300x240", b.Dx(), b.Dy())
	}
}

func TestThumbnail(t *testing.T) {
	img := Raster(testSnapshot())
	thumb := Thumbnail(img, 50)
	if b := thumb.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("Thumbnail() size = %dx%d, want 50x40", b.Dx(), b.Dy())
	}
	if b := Thumbnail(img, 0).Bounds(); b.Dx() != 100 {
		t.Errorf("Thumbnail(0) width = %d, want 100", b.Dx())
	}
}

func TestOutlineDOT(t *testing.T) {
	dot := OutlineDOT(testSnapshot())

	for _, want := range []string{
		"digraph scene",
		`canvas -> "shape-bg"`,
		`canvas -> "icon-a" [label="0"]`,
		`canvas -> "icon-b" [label="1"]`,
		`"icon-b" -> "icon-b/1"`,
		"penwidth=3",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s", want)
		}
	}
	if strings.Contains(dot, `"icon-a" -> `) {
		t.Error("simple icon should not expand into sub-paths")
	}
}

func TestOutlineSVG(t *testing.T) {
	out, err := OutlineSVG(context.Background(), OutlineDOT(testSnapshot()))
	if err != nil {
		t.Fatalf("OutlineSVG() error = %v", err)
	}
	if !bytes.Contains(out, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`)) {
		t.Errorf("OutlineSVG() root not normalized: %.200s", out)
	}
}

func TestContrast(t *testing.T) {
	if contrast("#000000") != "white" || contrast("#ffffff") != "black" {
		t.Error("contrast() picks the wrong text color")
	}
}
