package formats

import (
	"testing"

	"github.com/DjDeveloperr/ytdl-core/types"
)

func TestSortFormatsCombinedFirst(t *testing.T) {
	formats := []types.Format{
		{Itag: 137, URL: "u", QualityLabel: "1080p", Bitrate: 3000000, HasVideo: true, ContentLength: 10},
		{Itag: 22, URL: "u", QualityLabel: "720p", Bitrate: 2000000, HasVideo: true, HasAudio: true, AudioBitrate: 192, ContentLength: 10},
	}
	SortFormats(formats)
	if formats[0].Itag != 22 {
		t.Errorf("combined audio+video should rank first, got itag %d", formats[0].Itag)
	}
}

func TestSortFormatsStreamingFirst(t *testing.T) {
	formats := []types.Format{
		{Itag: 22, URL: "u", QualityLabel: "720p", HasVideo: true, HasAudio: true, ContentLength: 10},
		{Itag: 96, URL: "u", QualityLabel: "1080p", HasVideo: true, HasAudio: true, IsHLS: true},
	}
	SortFormats(formats)
	if !formats[0].IsHLS {
		t.Errorf("hls variant should rank first, got itag %d", formats[0].Itag)
	}
}

func TestSortFormatsByResolution(t *testing.T) {
	formats := []types.Format{
		{Itag: 135, URL: "u", QualityLabel: "480p", HasVideo: true, ContentLength: 1},
		{Itag: 137, URL: "u", QualityLabel: "1080p", HasVideo: true, ContentLength: 1},
		{Itag: 136, URL: "u", QualityLabel: "720p60", HasVideo: true, ContentLength: 1},
	}
	SortFormats(formats)
	want := []int{137, 136, 135}
	for i, itag := range want {
		if formats[i].Itag != itag {
			t.Fatalf("order = %v, want %v", itags(formats), want)
		}
	}
}

func TestSortByAudio(t *testing.T) {
	formats := []types.Format{
		{Itag: 249, URL: "u", AudioBitrate: 48, HasAudio: true, Codecs: "opus"},
		{Itag: 251, URL: "u", AudioBitrate: 160, HasAudio: true, Codecs: "opus"},
		{Itag: 140, URL: "u", AudioBitrate: 128, HasAudio: true, Codecs: "mp4a.40.2"},
	}
	SortByAudio(formats)
	want := []int{251, 140, 249}
	for i, itag := range want {
		if formats[i].Itag != itag {
			t.Fatalf("order = %v, want %v", itags(formats), want)
		}
	}
}

func TestSortByAudioCodecTiebreak(t *testing.T) {
	formats := []types.Format{
		{Itag: 140, URL: "u", AudioBitrate: 128, HasAudio: true, Codecs: "mp4a.40.2"},
		{Itag: 250, URL: "u", AudioBitrate: 128, HasAudio: true, Codecs: "opus"},
	}
	SortByAudio(formats)
	if formats[0].Codecs != "opus" {
		t.Errorf("opus outranks mp4a at equal bitrate, got %v", itags(formats))
	}
}

func TestQualityNumber(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"1080p60", 1080},
		{"720p", 720},
		{"", 0},
		{"audio", 0},
	}
	for _, tt := range tests {
		if got := qualityNumber(tt.label); got != tt.want {
			t.Errorf("qualityNumber(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func itags(formats []types.Format) []int {
	out := make([]int, len(formats))
	for i, f := range formats {
		out[i] = f.Itag
	}
	return out
}
