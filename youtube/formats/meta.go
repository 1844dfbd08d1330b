// Package formats normalizes, sorts, filters and selects media formats.
package formats

import (
	"regexp"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/internal/textscan"
	"github.com/DjDeveloperr/ytdl-core/types"
)

var (
	liveRe = regexp.MustCompile(`\bsource[/=]yt_live_broadcast\b`)
	hlsRe  = regexp.MustCompile(`/manifest/hls_(variant|playlist)/`)
	dashRe = regexp.MustCompile(`/manifest/dash/`)
)

// AddMeta backfills per-itag defaults and derives the capability and
// container fields from what the format already carries. Calling it again on
// an already normalized format changes nothing.
func AddMeta(f *types.Format) {
	if def, ok := itagTable[f.Itag]; ok {
		if f.MimeType == "" {
			f.MimeType = def.MimeType
		}
		if f.QualityLabel == "" {
			f.QualityLabel = def.QualityLabel
		}
		if f.Bitrate == 0 {
			f.Bitrate = def.Bitrate
		}
		if f.AudioBitrate == 0 {
			f.AudioBitrate = def.AudioBitrate
		}
	}

	f.HasVideo = f.QualityLabel != ""
	f.HasAudio = f.AudioBitrate > 0
	f.Container = mimeSubtype(f.MimeType)
	f.Codecs = textscan.Between(f.MimeType, `codecs="`, `"`)
	f.VideoCodec = ""
	f.AudioCodec = ""
	if f.Codecs != "" {
		parts := strings.Split(f.Codecs, ", ")
		if f.HasVideo {
			f.VideoCodec = parts[0]
		}
		if f.HasAudio {
			f.AudioCodec = parts[len(parts)-1]
		}
	}
	f.IsLive = liveRe.MatchString(f.URL)
	f.IsHLS = hlsRe.MatchString(f.URL)
	f.IsDashMPD = dashRe.MatchString(f.URL)
}

// mimeSubtype returns the part after the slash of a MIME type, without
// parameters.
func mimeSubtype(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if i := strings.Index(mime, "/"); i >= 0 {
		return strings.TrimSpace(mime[i+1:])
	}
	return ""
}
