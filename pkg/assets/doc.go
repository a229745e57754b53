// Package assets loads and parses the vector icons that decorate a scene.
//
// Icons live at assets/icons/{name}.svg relative to an asset root. Three
// sources are supported:
//
//   - the built-in set compiled into the binary ([Builtin])
//   - a directory on disk ([NewFSLoader] over os.DirFS)
//   - an HTTP(S) base URL ([NewHTTPLoader]), retried on transient failures
//
// Raw bytes from any [Fetcher] can be cached with [NewCachedLoader]. Every
// loader satisfies scene.Loader, parsing bytes with [Parse].
package assets
