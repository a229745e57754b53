package server

import "github.com/matzehuels/shapeboard/pkg/scene"

type shapeView struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Fill   string  `json:"fill"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type iconView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Fill      string  `json:"fill"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Scale     float64 `json:"scale"`
	Composite bool    `json:"composite"`
	Paths     int     `json:"paths"`
	Active    bool    `json:"active"`
}

type sceneView struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Revision   uint64     `json:"revision"`
	Background *shapeView `json:"background"`
	Icons      []iconView `json:"icons"`
	ActiveID   string     `json:"active_id,omitempty"`
	ShapeColor string     `json:"shape_color"`
	IconColor  string     `json:"icon_color"`
}

func newShapeView(sh *scene.Shape) *shapeView {
	if sh == nil {
		return nil
	}
	return &shapeView{
		ID: sh.ID, Kind: string(sh.Kind), Fill: string(sh.Fill),
		X: sh.X, Y: sh.Y, Width: sh.Width, Height: sh.Height,
	}
}

func newIconView(icon *scene.Icon, activeID string) iconView {
	return iconView{
		ID:        icon.ID,
		Kind:      string(icon.Kind),
		Fill:      string(icon.Fill()),
		X:         icon.X,
		Y:         icon.Y,
		Scale:     icon.Scale,
		Composite: icon.IsComposite(),
		Paths:     len(icon.Body.SubPaths()),
		Active:    icon.ID == activeID,
	}
}

func newSceneView(snap scene.Snapshot, shapeColor, iconColor scene.Color) sceneView {
	v := sceneView{
		Width:      snap.Width,
		Height:     snap.Height,
		Revision:   snap.Revision,
		Background: newShapeView(snap.Background),
		Icons:      make([]iconView, 0, len(snap.Icons)),
		ActiveID:   snap.ActiveID,
		ShapeColor: string(shapeColor),
		IconColor:  string(iconColor),
	}
	for _, icon := range snap.Icons {
		v.Icons = append(v.Icons, newIconView(icon, snap.ActiveID))
	}
	return v
}

// changed reports whether a command mutated the scene. Commands without a
// target are no-ops, not errors.
type changed struct {
	Changed  bool      `json:"changed"`
	Revision uint64    `json:"revision"`
	Icon     *iconView `json:"icon,omitempty"`
}
