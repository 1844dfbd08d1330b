// Package mimeext maps stream MIME types to output file extensions.
package mimeext

import "strings"

// ExtM4A is the extension for MP4 audio, whose MIME subtype does not match
// the conventional file name.
const ExtM4A = "m4a"

const defaultExt = "mp4"

// extByMime covers the container types the itag table and the player
// response actually ship. Everything else falls back to the MIME subtype,
// which is already the right extension for 3gp, flv and ts streams.
var extByMime = map[string]string{
	"video/mp4":  "mp4",
	"audio/mp4":  ExtM4A,
	"audio/m4a":  ExtM4A,
	"video/webm": "webm",
	"audio/webm": "webm",
}

// ExtFromMime returns the file extension (without dot) for a MIME type,
// ignoring parameters such as codecs.
func ExtFromMime(mime string) string {
	base := mime
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)
	if ext, ok := extByMime[base]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return sub
	}
	return defaultExt
}
