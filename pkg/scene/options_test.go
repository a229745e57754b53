package scene

import (
	"math"
	"testing"
)

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		name       string
		in         Options
		jitter     float64
		offset float64
	}{
		{"zero fields", Options{}, DefaultJitter, DefaultDuplicateOffset},
		{"explicit values", Options{Jitter: 10, DuplicateOffset: 5}, 10, 5},
		{"no jitter", Options{Jitter: NoJitter}, NoJitter, DefaultDuplicateOffset},
		{"negative offset", Options{DuplicateOffset: -30}, DefaultJitter, -30},
		{"nan", Options{Jitter: math.NaN(), DuplicateOffset: math.NaN()}, DefaultJitter, DefaultDuplicateOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.withDefaults()
			if got.Jitter != tt.jitter {
				t.Errorf("Jitter = %v, want %v", got.Jitter, tt.jitter)
			}
			if got.DuplicateOffset != tt.offset {
				t.Errorf("DuplicateOffset = %v, want %v", got.DuplicateOffset, tt.offset)
			}
			if got.Width != DefaultWidth || got.Height != DefaultHeight || got.IconScale != DefaultIconScale {
				t.Errorf("canvas defaults not applied: %+v", got)
			}
		})
	}
}

func TestZeroOptionsJitterIcons(t *testing.T) {
	c := NewController(Options{Seed: 3}, newFakeLoader(), nil)
	c.SelectBackgroundShape(Square, MustParseColor("#ff0000"))
	moved := false
	for i := 0; i < 10; i++ {
		icon := mustAdd(t, c, Star)
		dx, dy := math.Abs(icon.X-400), math.Abs(icon.Y-300)
		if dx > DefaultJitter || dy > DefaultJitter {
			t.Fatalf("icon at (%v,%v) outside default jitter box", icon.X, icon.Y)
		}
		if dx > 0 || dy > 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("zero Options placed every icon on the exact center")
	}
}
