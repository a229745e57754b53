package cli

import (
	"context"
	"testing"

	"github.com/matzehuels/shapeboard/pkg/assets"
	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

func TestParseIconSpec(t *testing.T) {
	tests := []struct {
		input   string
		kind    scene.IconKind
		color   scene.Color
		wantErr apperr.Code
	}{
		{"star", scene.Star, "", ""},
		{"umbrella@red", scene.Umbrella, "#ff0000", ""},
		{"triangle@#00f", scene.TriangleIcon, "#0000ff", ""},
		{"moon", "", "", apperr.ErrCodeInvalidKind},
		{"star@nope", "", "", apperr.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseIconSpec(tt.input)
			if tt.wantErr != "" {
				if !apperr.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.kind != tt.kind || got.color != tt.color {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestCompositionValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    composition
		wantErr bool
	}{
		{"empty", composition{}, false},
		{"shape and icons", composition{shape: "circle", shapeColor: "teal", icons: []string{"star", "umbrella@red"}}, false},
		{"bad shape", composition{shape: "hexagon"}, true},
		{"color without shape", composition{shapeColor: "red"}, true},
		{"bad icon", composition{shape: "square", icons: []string{"star", "moon"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompositionApply(t *testing.T) {
	opts := composition{shape: "triangle", shapeColor: "#123456", icons: []string{"star@red", "umbrella", "star@blue"}}
	specs, err := opts.validate()
	if err != nil {
		t.Fatal(err)
	}
	ctrl := scene.NewController(scene.Options{Seed: 1}, assets.Builtin(), nil)
	if err := opts.apply(context.Background(), ctrl, specs); err != nil {
		t.Fatal(err)
	}

	snap := ctrl.Snapshot()
	if snap.Background == nil || snap.Background.Kind != scene.Triangle || snap.Background.Fill != "#123456" {
		t.Fatalf("background = %+v", snap.Background)
	}
	want := []struct {
		kind scene.IconKind
		fill scene.Color
	}{
		{scene.Star, "#ff0000"},
		{scene.Umbrella, "#ff0000"}, // picker keeps the previous color
		{scene.Star, "#0000ff"},
	}
	if len(snap.Icons) != len(want) {
		t.Fatalf("icons = %d, want %d", len(snap.Icons), len(want))
	}
	for i, w := range want {
		if got := snap.Icons[i]; got.Kind != w.kind || got.Fill() != w.fill {
			t.Errorf("icon %d = %s %s, want %s %s", i, got.Kind, got.Fill(), w.kind, w.fill)
		}
	}
	if snap.ActiveID != snap.Icons[2].ID {
		t.Error("last icon should be active")
	}
}
