package assets

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

//go:embed icons/*.svg
var builtinIcons embed.FS

// FSLoader reads icons from an fs.FS.
type FSLoader struct {
	fsys   fs.FS
	root   string
	source string
}

// NewFSLoader loads icons from dir/assets/icons/{name}.svg on disk.
func NewFSLoader(dir string) (*FSLoader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "asset directory %q", dir)
	}
	if !info.IsDir() {
		return nil, apperr.New(apperr.ErrCodeInvalidPath, "asset directory %q is not a directory", dir)
	}
	return &FSLoader{fsys: os.DirFS(dir), root: "assets/icons", source: "dir:" + dir}, nil
}

// Builtin returns a loader over the icons compiled into the binary.
func Builtin() *FSLoader {
	return &FSLoader{fsys: builtinIcons, root: "icons", source: "builtin"}
}

// Source implements Fetcher.
func (l *FSLoader) Source() string { return l.source }

// Fetch implements Fetcher.
func (l *FSLoader) Fetch(ctx context.Context, kind scene.IconKind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Join(l.root, string(kind)+".svg")
	if err := apperr.ValidatePath(name); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.New(apperr.ErrCodeAssetNotFound, "icon %q not found in %s", kind, l.source)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeAssetNotFound, err, "read icon %q", kind)
	}
	return data, nil
}

// Load implements scene.Loader.
func (l *FSLoader) Load(ctx context.Context, kind scene.IconKind) (*scene.Asset, error) {
	return load(ctx, l, kind)
}
