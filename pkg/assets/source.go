package assets

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapeboard/pkg/cache"
)

// SourceBuiltin selects the icons compiled into the binary.
const SourceBuiltin = "builtin"

// Open picks a Fetcher for a configured source: "builtin" (or empty), an
// http(s) base URL, or a directory path. Remote sources are wrapped in a
// CachedLoader backed by c.
func Open(source string, c cache.Cache, keyer cache.Keyer, logger *log.Logger) (*CachedLoader, error) {
	var f Fetcher
	switch {
	case source == "" || source == SourceBuiltin:
		f = Builtin()
		c = nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		l, err := NewHTTPLoader(source)
		if err != nil {
			return nil, err
		}
		f = l
	default:
		l, err := NewFSLoader(source)
		if err != nil {
			return nil, err
		}
		f = l
		c = nil
	}
	return NewCachedLoader(f, c, keyer, logger), nil
}
