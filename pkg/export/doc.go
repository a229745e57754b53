// Package export turns scene snapshots into downloadable files.
//
// An [Exporter] renders a snapshot as PNG or SVG and returns an
// [Artifact] with a fixed filename ("canvas.png" or "canvas.svg" by
// default). PNG renders are cached by the hash of the scene's SVG
// document, the scale and the background, so exporting an unchanged
// scene twice rasterizes once.
//
// A [Downloader] delivers the artifact: [DirDownloader] writes it to a
// directory, [MongoDownloader] archives it in MongoDB, and
// [WriteAttachment] answers an HTTP request with it.
package export
