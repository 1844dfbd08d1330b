// Package urlutil validates video ids and canonicalizes them out of the
// accepted watch/short/embed URL shapes.
package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/errs"
)

var idRe = regexp.MustCompile(`^[a-zA-Z0-9\-_]{11}$`)

var queryHosts = map[string]bool{
	"youtube.com":        true,
	"www.youtube.com":    true,
	"m.youtube.com":      true,
	"music.youtube.com":  true,
	"gaming.youtube.com": true,
}

var pathShapeRe = regexp.MustCompile(`^https?://(youtu\.be/|(www\.)?youtube\.com/(embed|v|shorts)/)`)

var schemeRe = regexp.MustCompile(`^https?://`)

// ValidateID reports whether id satisfies the 11-character id format.
func ValidateID(id string) bool {
	return idRe.MatchString(id)
}

// GetURLVideoID extracts and validates the video id from a URL. Accepted
// shapes:
//   - https://www.youtube.com/watch?v=VIDEO_ID
//   - https://m.youtube.com/watch?v=VIDEO_ID
//   - https://youtu.be/VIDEO_ID
//   - https://www.youtube.com/v/VIDEO_ID
//   - https://www.youtube.com/embed/VIDEO_ID
//   - https://www.youtube.com/shorts/VIDEO_ID
//   - https://music.youtube.com/watch?v=VIDEO_ID
//   - https://gaming.youtube.com/watch?v=VIDEO_ID
func GetURLVideoID(link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrNoVideoID, link)
	}
	id := parsed.Query().Get("v")
	if pathShapeRe.MatchString(link) && id == "" {
		paths := strings.Split(parsed.Path, "/")
		id = paths[len(paths)-1]
	} else if parsed.Hostname() != "" && !queryHosts[parsed.Hostname()] {
		return "", fmt.Errorf("%w: %s", errs.ErrNotYouTubeDomain, parsed.Hostname())
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", errs.ErrNoVideoID, link)
	}
	if len(id) > 11 {
		id = id[:11]
	}
	if !ValidateID(id) {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidID, id)
	}
	return id, nil
}

// GetVideoID resolves either a bare 11-character id or any accepted URL shape
// into a validated id.
func GetVideoID(str string) (string, error) {
	if ValidateID(str) {
		return str, nil
	}
	if schemeRe.MatchString(str) {
		return GetURLVideoID(str)
	}
	return "", fmt.Errorf("%w: %s", errs.ErrNoVideoID, str)
}

// ValidateURL reports whether the input contains an extractable, valid id.
func ValidateURL(str string) bool {
	_, err := GetURLVideoID(str)
	return err == nil
}
