package formats

import (
	"sort"
	"strconv"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/types"
)

// Encoding preference tables, lowest to highest rank.
var (
	audioEncodingRanks = []string{"mp4a", "mp3", "vorbis", "aac", "opus", "flac"}
	videoEncodingRanks = []string{
		"mp4v",
		"avc1",
		"Sorenson H.283",
		"MPEG-4 Visual",
		"VP8",
		"VP9",
		"H.264",
	}
)

func encodingRank(ranks []string, codecs string) int {
	if codecs == "" {
		return -1
	}
	for i, enc := range ranks {
		if strings.Contains(codecs, enc) {
			return i
		}
	}
	return -1
}

func videoEncodingRank(f types.Format) int { return encodingRank(videoEncodingRanks, f.Codecs) }
func audioEncodingRank(f types.Format) int { return encodingRank(audioEncodingRanks, f.Codecs) }

// qualityNumber parses the leading integer of a quality label such as
// "1080p60".
func qualityNumber(label string) int {
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, _ := strconv.Atoi(label[:i])
	return n
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareBy runs keys in order and returns the first nonzero b-a difference,
// so higher keys sort earlier.
func compareBy(a, b types.Format, keys []func(types.Format) int) int {
	for _, key := range keys {
		if d := key(b) - key(a); d != 0 {
			return d
		}
	}
	return 0
}

var overallKeys = []func(types.Format) int{
	func(f types.Format) int { return boolRank(f.IsHLS) },
	func(f types.Format) int { return boolRank(f.IsDashMPD) },
	func(f types.Format) int { return boolRank(f.ContentLength > 0) },
	func(f types.Format) int { return boolRank(f.HasVideo && f.HasAudio) },
	func(f types.Format) int { return boolRank(f.HasVideo) },
	func(f types.Format) int { return qualityNumber(f.QualityLabel) },
	func(f types.Format) int { return f.Bitrate },
	func(f types.Format) int { return f.AudioBitrate },
	videoEncodingRank,
	audioEncodingRank,
}

var videoKeys = []func(types.Format) int{
	func(f types.Format) int { return qualityNumber(f.QualityLabel) },
	func(f types.Format) int { return f.Bitrate },
	videoEncodingRank,
}

var audioKeys = []func(types.Format) int{
	func(f types.Format) int { return f.AudioBitrate },
	audioEncodingRank,
}

// SortFormats orders formats from most to least preferred: streaming
// variants first, then combined audio+video, then by resolution, bitrates
// and codec rank.
func SortFormats(formats []types.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		return compareBy(formats[i], formats[j], overallKeys) < 0
	})
}

// SortByVideo orders by resolution, video bitrate and video codec rank.
func SortByVideo(formats []types.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		return compareBy(formats[i], formats[j], videoKeys) < 0
	})
}

// SortByAudio orders by audio bitrate and audio codec rank.
func SortByAudio(formats []types.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		return compareBy(formats[i], formats[j], audioKeys) < 0
	})
}
