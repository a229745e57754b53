package scene

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/srwiley/rasterx"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
)

// =============================================================================
// Test Helpers
// =============================================================================

func rectPath(x0, y0, x1, y1 float64) rasterx.Path {
	var p rasterx.Path
	p.Start(rasterx.ToFixedP(x0, y0))
	p.Line(rasterx.ToFixedP(x1, y0))
	p.Line(rasterx.ToFixedP(x1, y1))
	p.Line(rasterx.ToFixedP(x0, y1))
	p.Stop(true)
	return p
}

// fakeLoader returns assets with a fixed number of sub-paths per kind.
// Kinds listed in gates block until their channel is closed.
type fakeLoader struct {
	paths map[IconKind]int
	errs  map[IconKind]error
	gates map[IconKind]chan struct{}
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		paths: map[IconKind]int{Star: 1, Umbrella: 3, TriangleIcon: 1},
		errs:  map[IconKind]error{},
		gates: map[IconKind]chan struct{}{},
	}
}

func (l *fakeLoader) Load(ctx context.Context, kind IconKind) (*Asset, error) {
	if gate, ok := l.gates[kind]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := l.errs[kind]; err != nil {
		return nil, err
	}
	a := &Asset{Kind: kind, ViewBox: Bounds{W: 100, H: 100}}
	for i := 0; i < l.paths[kind]; i++ {
		off := float64(i * 10)
		a.Paths = append(a.Paths, SubPath{Path: rectPath(off, off, off+20, off+20), Fill: "#123456", NonZero: true})
	}
	return a, nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Jitter = NoJitter
	opts.Seed = 7
	return opts
}

func newTestController(t *testing.T, loader Loader) *Controller {
	t.Helper()
	return NewController(testOptions(), loader, nil)
}

func mustAdd(t *testing.T, c *Controller, kind IconKind) *Icon {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	icon, err := c.AddIcon(ctx, kind).Wait(ctx)
	if err != nil {
		t.Fatalf("AddIcon(%s) error: %v", kind, err)
	}
	return icon
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// =============================================================================
// Background Shape
// =============================================================================

func TestSelectBackgroundShapeReplaces(t *testing.T) {
	red, blue := MustParseColor("#ff0000"), MustParseColor("#0000ff")
	for _, k1 := range ShapeKinds {
		for _, k2 := range ShapeKinds {
			t.Run(string(k1)+"->"+string(k2), func(t *testing.T) {
				c := newTestController(t, newFakeLoader())
				c.SelectBackgroundShape(k1, red)
				c.SelectBackgroundShape(k2, blue)

				snap := c.Snapshot()
				if snap.Background == nil {
					t.Fatal("expected a background shape")
				}
				if snap.Background.Kind != k2 || snap.Background.Fill != blue {
					t.Errorf("background = %s/%s, want %s/%s", snap.Background.Kind, snap.Background.Fill, k2, blue)
				}
				if len(snap.Icons) != 0 {
					t.Errorf("icons = %d, want 0", len(snap.Icons))
				}
			})
		}
	}
}

func TestSelectBackgroundShapeGeometry(t *testing.T) {
	tests := []struct {
		kind       ShapeKind
		x, y, w, h float64
	}{
		{Circle, 160, 60, 480, 480},
		{Square, 160, 60, 480, 480},
		{Triangle, 160, 84, 480, 432},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := newTestController(t, newFakeLoader())
			sh := c.SelectBackgroundShape(tt.kind, MustParseColor("#ff0000"))
			if !approx(sh.X, tt.x) || !approx(sh.Y, tt.y) || !approx(sh.Width, tt.w) || !approx(sh.Height, tt.h) {
				t.Errorf("shape = (%v,%v %vx%v), want (%v,%v %vx%v)", sh.X, sh.Y, sh.Width, sh.Height, tt.x, tt.y, tt.w, tt.h)
			}
			if sh.Selectable() {
				t.Error("background shape must not be selectable")
			}
			cx, cy := sh.Bounds().Center()
			if !approx(cx, 400) || !approx(cy, 300) {
				t.Errorf("center = (%v,%v), want (400,300)", cx, cy)
			}
		})
	}
}

func TestRedCircleScenario(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
	mustAdd(t, c, Star)

	snap := c.Snapshot()
	if snap.Background == nil || snap.Background.Kind != Circle || snap.Background.Fill != "#ff0000" {
		t.Fatalf("background = %+v, want red circle", snap.Background)
	}
	if snap.ActiveID == snap.Background.ID {
		t.Error("background must never be the active selection")
	}
	if len(snap.Icons) != 1 {
		t.Fatalf("icons = %d, want 1", len(snap.Icons))
	}
}

func TestSelectBackgroundShapeKeepsIconOrder(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	a := mustAdd(t, c, Star)
	b := mustAdd(t, c, Umbrella)

	c.SelectBackgroundShape(Square, MustParseColor("#00ff00"))

	snap := c.Snapshot()
	if len(snap.Icons) != 2 || snap.Icons[0].ID != a.ID || snap.Icons[1].ID != b.ID {
		t.Errorf("icon order changed after background replacement")
	}
}

func TestSetBackgroundColor(t *testing.T) {
	c := newTestController(t, newFakeLoader())

	if c.SetBackgroundColor(MustParseColor("#00ff00")) {
		t.Error("SetBackgroundColor without background should report false")
	}
	if c.ShapeColor() != "#00ff00" {
		t.Errorf("shape picker = %s, want #00ff00", c.ShapeColor())
	}

	c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
	rev := c.Revision()
	if !c.SetBackgroundColor(MustParseColor("#0000ff")) {
		t.Fatal("SetBackgroundColor with background should report true")
	}
	if got := c.Snapshot().Background.Fill; got != "#0000ff" {
		t.Errorf("fill = %s, want #0000ff", got)
	}
	if c.Revision() <= rev {
		t.Error("recolor should bump the revision")
	}
}

// =============================================================================
// Icons
// =============================================================================

func TestAddIconPlacement(t *testing.T) {
	t.Run("canvas center without background", func(t *testing.T) {
		c := newTestController(t, newFakeLoader())
		icon := mustAdd(t, c, Star)
		if !approx(icon.X, 400) || !approx(icon.Y, 300) {
			t.Errorf("icon at (%v,%v), want (400,300)", icon.X, icon.Y)
		}
	})

	t.Run("jitter around background center", func(t *testing.T) {
		opts := testOptions()
		opts.Jitter = 50
		c := NewController(opts, newFakeLoader(), nil)
		c.SelectBackgroundShape(Triangle, MustParseColor("#ff0000"))
		for i := 0; i < 20; i++ {
			icon := mustAdd(t, c, Star)
			if math.Abs(icon.X-400) > 50 || math.Abs(icon.Y-300) > 50 {
				t.Fatalf("icon at (%v,%v) outside jitter box", icon.X, icon.Y)
			}
		}
	})
}

func TestAddIconBody(t *testing.T) {
	c := newTestController(t, newFakeLoader())

	star := mustAdd(t, c, Star)
	if star.IsComposite() {
		t.Error("single-path asset should produce a simple icon")
	}

	umbrella := mustAdd(t, c, Umbrella)
	if !umbrella.IsComposite() {
		t.Error("multi-path asset should produce a composite icon")
	}
	if n := len(umbrella.Body.SubPaths()); n != 3 {
		t.Errorf("composite sub-paths = %d, want 3", n)
	}
}

func TestAddIconAppliesPickerAndFlags(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	c.SetActiveIconColor(MustParseColor("#00ff00"))

	icon := mustAdd(t, c, Umbrella)
	if icon.Fill() != "#00ff00" {
		t.Errorf("fill = %s, want picker value #00ff00", icon.Fill())
	}
	for _, p := range icon.Body.SubPaths() {
		if p.Fill != "#00ff00" {
			t.Errorf("sub-path fill = %s, want #00ff00", p.Fill)
		}
	}
	if !approx(icon.Scale, DefaultIconScale) {
		t.Errorf("scale = %v, want %v", icon.Scale, DefaultIconScale)
	}
	if !icon.Selectable || !icon.HasControls || !icon.HasBorders {
		t.Error("icons must be selectable, resizable and bordered")
	}
	if c.Active() == nil || c.Active().ID != icon.ID {
		t.Error("new icon should be the active selection")
	}
}

func TestAddIconLoadFailure(t *testing.T) {
	loader := newFakeLoader()
	loader.errs[Star] = apperr.New(apperr.ErrCodeAssetNotFound, "missing")
	loader.paths[TriangleIcon] = 0
	c := newTestController(t, loader)
	c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
	before := c.Snapshot()

	ctx := context.Background()
	if _, err := c.AddIcon(ctx, Star).Wait(ctx); !apperr.Is(err, apperr.ErrCodeAssetNotFound) {
		t.Errorf("err = %v, want ASSET_NOT_FOUND", err)
	}
	if _, err := c.AddIcon(ctx, TriangleIcon).Wait(ctx); !apperr.Is(err, apperr.ErrCodeAssetInvalid) {
		t.Errorf("err = %v, want ASSET_INVALID for empty asset", err)
	}

	after := c.Snapshot()
	if len(after.Icons) != 0 || after.Revision != before.Revision {
		t.Error("failed loads must leave the scene unchanged")
	}
}

func TestAddIconWithoutLoader(t *testing.T) {
	c := NewController(testOptions(), nil, nil)
	ctx := context.Background()
	if _, err := c.AddIcon(ctx, Star).Wait(ctx); err == nil {
		t.Error("AddIcon without loader should fail")
	}
}

func TestAddIconCanceled(t *testing.T) {
	loader := newFakeLoader()
	loader.gates[Star] = make(chan struct{})
	c := newTestController(t, loader)

	ctx, cancel := context.WithCancel(context.Background())
	p := c.AddIcon(ctx, Star)
	cancel()

	<-p.Done()
	if _, err := p.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if n := len(c.Snapshot().Icons); n != 0 {
		t.Errorf("icons = %d, want 0", n)
	}
}

func TestAddIconLastCompletionWins(t *testing.T) {
	loader := newFakeLoader()
	loader.gates[Star] = make(chan struct{})
	loader.gates[Umbrella] = make(chan struct{})
	c := newTestController(t, loader)

	ctx := context.Background()
	first := c.AddIcon(ctx, Star)
	second := c.AddIcon(ctx, Umbrella)

	// Complete out of issue order.
	close(loader.gates[Umbrella])
	umbrella, err := second.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	close(loader.gates[Star])
	star, err := first.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	if snap.ActiveID != star.ID {
		t.Errorf("active = %s, want last completion %s", snap.ActiveID, star.ID)
	}
	if len(snap.Icons) != 2 || snap.Icons[0].ID != umbrella.ID || snap.Icons[1].ID != star.ID {
		t.Error("icons should be stacked in completion order")
	}
}

func TestAddIconConcurrent(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(kind IconKind) {
			defer wg.Done()
			icon, err := c.AddIcon(ctx, kind).Wait(ctx)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- icon.ID
		}(IconKinds[i%len(IconKinds)])
	}
	wg.Wait()
	close(ids)

	snap := c.Snapshot()
	if len(snap.Icons) != n {
		t.Fatalf("icons = %d, want %d", len(snap.Icons), n)
	}
	// No ordering assumption: the active icon is whichever completed last,
	// which is the top of the stack.
	if snap.ActiveID != snap.Icons[n-1].ID {
		t.Error("active icon should be the topmost (last inserted) icon")
	}
	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("distinct ids = %d, want %d", len(seen), n)
	}
}

// =============================================================================
// Commands on the Active Selection
// =============================================================================

func TestSetActiveIconColor(t *testing.T) {
	t.Run("no active selection", func(t *testing.T) {
		c := newTestController(t, newFakeLoader())
		c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
		before := c.Snapshot()

		if c.SetActiveIconColor(MustParseColor("#00ff00")) {
			t.Error("SetActiveIconColor without selection should report false")
		}
		after := c.Snapshot()
		if after.Revision != before.Revision || after.Background.Fill != "#ff0000" {
			t.Error("scene must be unchanged")
		}
	})

	t.Run("recolors icon not background", func(t *testing.T) {
		c := newTestController(t, newFakeLoader())
		c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
		mustAdd(t, c, Star)

		if !c.SetActiveIconColor(MustParseColor("#00ff00")) {
			t.Fatal("expected recolor")
		}
		snap := c.Snapshot()
		if snap.Active().Fill() != "#00ff00" {
			t.Errorf("icon fill = %s, want #00ff00", snap.Active().Fill())
		}
		if snap.Background.Fill != "#ff0000" {
			t.Errorf("background fill = %s, want unchanged #ff0000", snap.Background.Fill)
		}
	})

	t.Run("composite recolors every sub-path", func(t *testing.T) {
		c := newTestController(t, newFakeLoader())
		mustAdd(t, c, Umbrella)
		c.SetActiveIconColor(MustParseColor("#abcdef"))

		for i, p := range c.Snapshot().Active().Body.SubPaths() {
			if p.Fill != "#abcdef" {
				t.Errorf("sub-path %d fill = %s, want #abcdef", i, p.Fill)
			}
		}
	})
}

func TestDeleteActiveSelection(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	star := mustAdd(t, c, Star)
	umbrella := mustAdd(t, c, Umbrella)

	if got := c.Active(); got == nil || got.ID != umbrella.ID {
		t.Fatal("umbrella should be active")
	}
	if !c.DeleteActiveSelection() {
		t.Fatal("expected delete")
	}

	snap := c.Snapshot()
	if len(snap.Icons) != 1 || snap.Icons[0].ID != star.ID {
		t.Fatal("star should remain")
	}
	if snap.Icons[0].X != star.X || snap.Icons[0].Y != star.Y || snap.Icons[0].Fill() != star.Fill() {
		t.Error("star should be unaffected")
	}
	if snap.ActiveID != "" {
		t.Error("selection should be cleared")
	}
	if c.DeleteActiveSelection() {
		t.Error("second delete should be a no-op")
	}
}

func TestBackgroundNeverSelectable(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	bg := c.SelectBackgroundShape(Square, MustParseColor("#ff0000"))

	if c.Select(bg.ID) {
		t.Error("Select(background) should be rejected")
	}
	if c.DeleteActiveSelection() {
		t.Error("delete with background only should be a no-op")
	}
	if _, ok := c.DuplicateActiveSelection(); ok {
		t.Error("duplicate with background only should be a no-op")
	}
	if snap := c.Snapshot(); snap.Background == nil || snap.Background.ID != bg.ID {
		t.Error("background must survive")
	}
}

func TestDuplicateActiveSelection(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	orig := mustAdd(t, c, Umbrella)
	c.MoveActive(-20, 15)
	orig = c.Active()

	dup, ok := c.DuplicateActiveSelection()
	if !ok {
		t.Fatal("expected duplicate")
	}
	if !approx(dup.X, orig.X+30) || !approx(dup.Y, orig.Y+30) {
		t.Errorf("duplicate at (%v,%v), want (%v,%v)", dup.X, dup.Y, orig.X+30, orig.Y+30)
	}
	if dup.ID == orig.ID {
		t.Error("duplicate must have a distinct identity")
	}
	if dup.Fill() != orig.Fill() {
		t.Errorf("duplicate fill = %s, want %s", dup.Fill(), orig.Fill())
	}
	if c.Active().ID != dup.ID {
		t.Error("duplicate should become active")
	}

	// Geometry and color are independent from the original.
	c.SetActiveIconColor(MustParseColor("#ffffff"))
	snap := c.Snapshot()
	for _, icon := range snap.Icons {
		if icon.ID == orig.ID && icon.Fill() == "#ffffff" {
			t.Error("recoloring the duplicate leaked into the original")
		}
	}
}

func TestSelectAndCycle(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	a := mustAdd(t, c, Star)
	b := mustAdd(t, c, TriangleIcon)

	if !c.Select(a.ID) || c.Active().ID != a.ID {
		t.Fatal("Select(a) failed")
	}
	if c.Select("missing") {
		t.Error("Select(unknown) should fail")
	}
	if icons := c.Snapshot().Icons; icons[len(icons)-1].ID != a.ID {
		t.Error("Select should raise the icon to the top")
	}

	next, ok := c.SelectNext()
	if !ok || next.ID != b.ID {
		t.Error("SelectNext should move to b")
	}
	next, _ = c.SelectNext()
	if next.ID != a.ID {
		t.Error("SelectNext should wrap to a")
	}

	c.ClearSelection()
	if c.Active() != nil {
		t.Error("ClearSelection should drop the selection")
	}
}

func TestMoveAndScaleActive(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	if c.MoveActive(1, 1) || c.ScaleActive(2) {
		t.Error("move/scale without selection should be no-ops")
	}

	icon := mustAdd(t, c, Star)
	c.MoveActive(10, -5)
	if got := c.Active(); !approx(got.X, icon.X+10) || !approx(got.Y, icon.Y-5) {
		t.Errorf("moved to (%v,%v)", got.X, got.Y)
	}

	tests := []struct {
		factor float64
		ok     bool
	}{
		{2, true},
		{0, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := c.ScaleActive(tt.factor); got != tt.ok {
			t.Errorf("ScaleActive(%v) = %v, want %v", tt.factor, got, tt.ok)
		}
	}
	if got := c.Active().Scale; !approx(got, icon.Scale*2) {
		t.Errorf("scale = %v, want %v", got, icon.Scale*2)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := newTestController(t, newFakeLoader())
	c.SelectBackgroundShape(Circle, MustParseColor("#ff0000"))
	mustAdd(t, c, Umbrella)

	snap := c.Snapshot()
	snap.Background.Fill = "#000000"
	snap.Icons[0].SetFill("#000000")
	snap.Icons[0].X = -1

	fresh := c.Snapshot()
	if fresh.Background.Fill != "#ff0000" {
		t.Error("snapshot background aliases the scene")
	}
	if fresh.Icons[0].Fill() == "#000000" || fresh.Icons[0].X == -1 {
		t.Error("snapshot icons alias the scene")
	}
}
