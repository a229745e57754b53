package assets

import (
	"context"

	"github.com/matzehuels/shapeboard/pkg/scene"
)

// Fetcher returns the raw SVG bytes for an icon kind.
type Fetcher interface {
	Fetch(ctx context.Context, kind scene.IconKind) ([]byte, error)

	// Source names where the bytes come from. It scopes cache keys, so two
	// sources never share entries.
	Source() string
}

// load fetches and parses; shared by every loader.
func load(ctx context.Context, f Fetcher, kind scene.IconKind) (*scene.Asset, error) {
	data, err := f.Fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	return Parse(kind, data)
}
