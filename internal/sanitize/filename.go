// Package sanitize turns video titles into filenames that are valid on
// every platform the output may land on.
package sanitize

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxBaseLength = 120
	fallbackName  = "video"
	fallbackExt   = "mp4"
)

// unsafeRuns matches characters Windows rejects in filenames. A run is
// collapsed into a single replacement so "a: b?" stays readable.
var unsafeRuns = regexp.MustCompile(`[\\/:*?"<>|]+`)

// ToSafeFilename builds a filename from a title and an extension given
// without the dot. An empty title or extension picks the fallbacks.
func ToSafeFilename(title, ext string) string {
	base := unsafeRuns.ReplaceAllString(strings.TrimSpace(title), "_")
	base = strings.TrimSpace(base)
	if base == "" {
		base = fallbackName
	}
	if len(base) > maxBaseLength {
		base = base[:maxBaseLength]
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = fallbackExt
	}
	return filepath.Clean(base + "." + ext)
}
