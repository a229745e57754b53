package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// composition describes a scene built from flags instead of key presses.
type composition struct {
	shape      string
	shapeColor string
	icons      []string
	seed       uint64
	noCache    bool
}

func (o *composition) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.shape, "shape", "", "background shape: circle, square or triangle")
	f.StringVar(&o.shapeColor, "shape-color", "", "background color (default from config)")
	f.StringArrayVar(&o.icons, "icon", nil, "icon to add as kind[@color], repeatable (star, umbrella, triangle)")
	f.Uint64Var(&o.seed, "seed", 0, "placement jitter seed (0 = random)")
	f.BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// iconSpec is one parsed --icon value.
type iconSpec struct {
	kind  scene.IconKind
	color scene.Color // empty keeps the current icon color
}

// parseIconSpec parses "kind" or "kind@color".
func parseIconSpec(s string) (iconSpec, error) {
	name, color, hasColor := strings.Cut(s, "@")
	kind, err := scene.ParseIconKind(name)
	if err != nil {
		return iconSpec{}, err
	}
	spec := iconSpec{kind: kind}
	if hasColor {
		if spec.color, err = scene.ParseColor(color); err != nil {
			return iconSpec{}, err
		}
	}
	return spec, nil
}

// validate parses every flag before any icon is fetched.
func (o *composition) validate() ([]iconSpec, error) {
	if o.shape != "" {
		if _, err := scene.ParseShapeKind(o.shape); err != nil {
			return nil, err
		}
	} else if o.shapeColor != "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "--shape-color needs --shape")
	}
	if o.shapeColor != "" {
		if _, err := scene.ParseColor(o.shapeColor); err != nil {
			return nil, err
		}
	}
	specs := make([]iconSpec, 0, len(o.icons))
	for _, s := range o.icons {
		spec, err := parseIconSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// apply replays the composition on ctrl the way a user would: shape first,
// then each icon in order, waiting for each load so stacking is stable. An
// icon color also becomes the picker value for the icons after it.
func (o *composition) apply(ctx context.Context, ctrl *scene.Controller, specs []iconSpec) error {
	if o.shape != "" {
		kind, _ := scene.ParseShapeKind(o.shape)
		fill := ctrl.ShapeColor()
		if o.shapeColor != "" {
			fill = scene.MustParseColor(o.shapeColor)
		}
		ctrl.SelectBackgroundShape(kind, fill)
	}

	for _, spec := range specs {
		if _, err := ctrl.AddIcon(ctx, spec.kind).Wait(ctx); err != nil {
			return err
		}
		if spec.color != "" {
			ctrl.SetActiveIconColor(spec.color)
		}
	}
	return nil
}
