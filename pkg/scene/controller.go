package scene

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/observability"
)

// triangleAspect is the height/width ratio of the background triangle.
const triangleAspect = 0.9

// Loader loads the vector asset for an icon kind. Implementations live in
// the assets package.
type Loader interface {
	Load(ctx context.Context, kind IconKind) (*Asset, error)
}

// Controller owns a scene and its active selection and applies every
// mutation under one lock.
type Controller struct {
	mu sync.Mutex

	opts   Options
	scene  *Scene
	active *Icon

	shapeColor Color
	iconColor  Color

	loader   Loader
	rng      *rand.Rand
	logger   *log.Logger
	revision uint64
}

// NewController creates a controller with an empty scene.
// If logger is nil, log.Default() is used.
func NewController(opts Options, loader Loader, logger *log.Logger) *Controller {
	opts = opts.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Controller{
		opts:       opts,
		scene:      New(opts.Width, opts.Height),
		shapeColor: opts.ShapeColor,
		iconColor:  opts.IconColor,
		loader:     loader,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:     logger,
	}
}

// Options returns the effective controller options.
func (c *Controller) Options() Options { return c.opts }

// bump records a mutation. Callers hold c.mu.
func (c *Controller) bump(op string) {
	c.revision++
	observability.Scene().OnMutation(op, c.revision)
}

// Revision returns a counter that increases with every mutation. UIs use it
// to decide when to redraw.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// ShapeColor returns the shape picker value.
func (c *Controller) ShapeColor() Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shapeColor
}

// IconColor returns the icon picker value.
func (c *Controller) IconColor() Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iconColor
}

// SelectBackgroundShape replaces the background with a new centered shape
// of the given kind and fill. Icons keep their order above it.
func (c *Controller) SelectBackgroundShape(kind ShapeKind, fill Color) *Shape {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shapeColor = fill
	size := math.Min(c.scene.Width, c.scene.Height) * c.opts.ShapeRatio
	w, h := size, size
	if kind == Triangle {
		h = size * triangleAspect
	}
	sh := &Shape{
		ID:     uuid.NewString(),
		Kind:   kind,
		Fill:   fill,
		X:      (c.scene.Width - w) / 2,
		Y:      (c.scene.Height - h) / 2,
		Width:  w,
		Height: h,
	}
	if prev := c.scene.SetBackground(sh); prev != nil {
		c.logger.Debug("replaced background", "from", prev.Kind, "to", kind)
	}
	c.bump("select_shape")

	cp := *sh
	return &cp
}

// SetBackgroundColor recolors the background. It records the picker value
// and reports false when there is no background.
func (c *Controller) SetBackgroundColor(fill Color) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shapeColor = fill
	bg := c.scene.Background()
	if bg == nil {
		return false
	}
	bg.Fill = fill
	c.bump("shape_color")
	return true
}

// AddIcon loads the asset for kind in the background and inserts the icon
// on top once loaded, making it the active selection. Overlapping calls
// resolve independently; whichever completes last stays active.
func (c *Controller) AddIcon(ctx context.Context, kind IconKind) *Pending {
	p := newPending()
	go func() {
		icon, err := c.loadIcon(ctx, kind)
		p.resolve(icon, err)
	}()
	return p
}

func (c *Controller) loadIcon(ctx context.Context, kind IconKind) (*Icon, error) {
	if c.loader == nil {
		return nil, apperr.New(apperr.ErrCodeInternal, "no asset loader configured")
	}

	hooks := observability.Scene()
	hooks.OnIconLoadStart(ctx, string(kind))
	start := time.Now()

	asset, err := c.loader.Load(ctx, kind)
	if err == nil && len(asset.Paths) == 0 {
		err = apperr.New(apperr.ErrCodeAssetInvalid, "icon %q has no paths", kind)
	}
	hooks.OnIconLoadComplete(ctx, string(kind), time.Since(start), err)
	if err != nil {
		c.logger.Warn("icon load failed", "kind", kind, "err", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	icon := newIcon(asset)
	icon.Scale = c.opts.IconScale
	icon.SetFill(c.iconColor)
	icon.X, icon.Y = c.placement()

	c.scene.Add(icon)
	c.active = icon
	c.bump("add_icon")
	c.logger.Debug("added icon", "kind", kind, "id", icon.ID, "paths", len(asset.Paths))

	return icon.copyIcon(), nil
}

// placement picks the center for a new icon: the background center plus
// jitter, or the canvas center. Callers hold c.mu.
func (c *Controller) placement() (float64, float64) {
	bg := c.scene.Background()
	if bg == nil {
		return c.scene.Center()
	}
	x, y := bg.Bounds().Center()
	return x + c.jitter(), y + c.jitter()
}

func (c *Controller) jitter() float64 {
	j := c.opts.Jitter
	if j <= 0 {
		return 0
	}
	return c.rng.Float64()*2*j - j
}

// eligible returns the active icon if it can be targeted by a command.
// The background can never be active, but a stale pointer to a removed
// icon is treated as no selection. Callers hold c.mu.
func (c *Controller) eligible() *Icon {
	if c.active == nil {
		return nil
	}
	if _, ok := c.scene.Icon(c.active.ID); !ok {
		c.active = nil
		return nil
	}
	return c.active
}

// SetActiveIconColor records the icon picker value and recolors the active
// icon, every sub-path of a composite. It reports false without a target.
func (c *Controller) SetActiveIconColor(fill Color) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.iconColor = fill
	icon := c.eligible()
	if icon == nil {
		return false
	}
	icon.SetFill(fill)
	c.bump("icon_color")
	return true
}

// DeleteActiveSelection removes the active icon and clears the selection.
func (c *Controller) DeleteActiveSelection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon := c.eligible()
	if icon == nil {
		return false
	}
	c.scene.Remove(icon.ID)
	c.active = nil
	c.bump("delete")
	c.logger.Debug("deleted icon", "id", icon.ID)
	return true
}

// DuplicateActiveSelection deep-copies the active icon, offsets the copy by
// DuplicateOffset on both axes, inserts it on top and selects it.
func (c *Controller) DuplicateActiveSelection() (*Icon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon := c.eligible()
	if icon == nil {
		return nil, false
	}
	dup := icon.Clone()
	dup.X = icon.X + c.opts.DuplicateOffset
	dup.Y = icon.Y + c.opts.DuplicateOffset

	c.scene.Add(dup)
	c.active = dup
	c.bump("duplicate")
	return dup.copyIcon(), true
}

// Select makes the icon with the given ID active and raises it to the top
// of the stack. The background and unknown IDs are rejected.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bg := c.scene.Background(); bg != nil && bg.ID == id {
		return false
	}
	icon, ok := c.scene.Icon(id)
	if !ok {
		return false
	}
	c.scene.BringToFront(id)
	c.active = icon
	c.bump("select")
	return true
}

// SelectNext cycles the selection through the icons in draw order without
// restacking them.
func (c *Controller) SelectNext() (*Icon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icons := c.scene.Icons()
	if len(icons) == 0 {
		return nil, false
	}
	next := 0
	if cur := c.eligible(); cur != nil {
		for i, icon := range icons {
			if icon.ID == cur.ID {
				next = (i + 1) % len(icons)
				break
			}
		}
	}
	c.active = icons[next]
	c.bump("select")
	return c.active.copyIcon(), true
}

// ClearSelection drops the active selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active = nil
		c.bump("select")
	}
}

// Active returns a copy of the active icon, or nil.
func (c *Controller) Active() *Icon {
	c.mu.Lock()
	defer c.mu.Unlock()
	if icon := c.eligible(); icon != nil {
		return icon.copyIcon()
	}
	return nil
}

// MoveActive drags the active icon by (dx, dy).
func (c *Controller) MoveActive(dx, dy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon := c.eligible()
	if icon == nil {
		return false
	}
	icon.X += dx
	icon.Y += dy
	c.bump("move")
	return true
}

// ScaleActive resizes the active icon by factor, which must be positive.
func (c *Controller) ScaleActive(factor float64) bool {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	icon := c.eligible()
	if icon == nil {
		return false
	}
	icon.Scale *= factor
	c.bump("scale")
	return true
}

// Snapshot returns a deep copy of the scene for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.scene.snapshot()
	if icon := c.eligible(); icon != nil {
		snap.ActiveID = icon.ID
	}
	snap.Revision = c.revision
	return snap
}
