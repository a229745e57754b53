package export

import (
	"strings"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
)

// Format is an export file format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{PNG, SVG}

// ParseFormat accepts "png" or "svg", case-insensitive, with an optional
// leading dot.
func ParseFormat(s string) (Format, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch Format(v) {
	case PNG, SVG:
		return Format(v), nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q: must be png or svg", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}
