// Package target converts user supplied fetch targets into the form used as
// keys by sources and request cells.
package target

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Normalize processes a fetch target and converts it into a standard form.
//
// Targets may be plain paths or file URIs. Both become slash-rooted, cleaned
// paths that are resolved against a source root rather than the working
// directory. Any other URI scheme is returned as-is for some other source to
// handle.
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	return filepath.ToSlash(filepath.Join("/", target))
}

// Relative strips the leading slash from a normalized target so that it is
// accepted by fs.FS. The root itself becomes ".".
func Relative(normalized string) string {
	p := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(normalized)), "/")
	if p == "" {
		return "."
	}
	return p
}
