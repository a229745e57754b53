package export

import (
	"strconv"
	"strings"

	"github.com/matzehuels/shapeboard/pkg/cache"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// fingerprint hashes every field of snap that affects its pixels, at full
// precision. IDs, the selection and the revision are left out so equal
// scenes share a key across sessions.
func fingerprint(snap scene.Snapshot) string {
	var b strings.Builder
	f := func(vs ...float64) {
		for _, v := range vs {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			b.WriteByte(' ')
		}
	}

	b.WriteString("canvas ")
	f(snap.Width, snap.Height)
	if bg := snap.Background; bg != nil {
		b.WriteString("\nshape " + string(bg.Kind) + " " + string(bg.Fill) + " ")
		f(bg.X, bg.Y, bg.Width, bg.Height)
	}
	for _, icon := range snap.Icons {
		b.WriteString("\nicon " + string(icon.Kind) + " ")
		f(icon.X, icon.Y, icon.Scale, icon.ViewBox.X, icon.ViewBox.Y, icon.ViewBox.W, icon.ViewBox.H)
		if icon.Body == nil {
			continue
		}
		for _, p := range icon.Body.SubPaths() {
			b.WriteString("\n path " + string(p.Fill) + " " + strconv.FormatBool(p.NonZero))
			for _, v := range p.Path {
				b.WriteByte(' ')
				b.WriteString(strconv.FormatInt(int64(v), 10))
			}
		}
	}
	return cache.Hash([]byte(b.String()))
}
