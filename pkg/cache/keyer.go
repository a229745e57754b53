package cache

import "fmt"

// Keyer generates cache keys for each cached value type.
type Keyer interface {
	// AssetKey identifies raw icon bytes from a given source.
	AssetKey(source, name string) string

	// ArtifactKey identifies a rendered export of a scene document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AssetKey returns "asset:{source}:{name}".
func (DefaultKeyer) AssetKey(source, name string) string {
	return fmt.Sprintf("asset:%s:%s", source, name)
}

// ArtifactKey hashes the document hash together with the options.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
