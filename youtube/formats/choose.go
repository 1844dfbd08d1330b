package formats

import (
	"fmt"
	"strconv"

	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/types"
)

// Filter names a predefined format predicate.
type Filter string

const (
	FilterAudioAndVideo Filter = "audioandvideo"
	FilterVideo         Filter = "video"
	FilterVideoOnly     Filter = "videoonly"
	FilterAudio         Filter = "audio"
	FilterAudioOnly     Filter = "audioonly"
)

// Quality policies for ChooseFormat. Anything else is treated as an itag.
const (
	QualityHighest      = "highest"
	QualityLowest       = "lowest"
	QualityHighestAudio = "highestaudio"
	QualityLowestAudio  = "lowestaudio"
	QualityHighestVideo = "highestvideo"
	QualityLowestVideo  = "lowestvideo"
)

// ChooseOptions steers ChooseFormat.
type ChooseOptions struct {
	// Quality is one of the policy constants, an itag in decimal, or empty
	// for "highest". Itags holds fallback itags tried in order when Quality
	// does not resolve.
	Quality string
	Itags   []int

	Filter     Filter
	FilterFunc func(types.Format) bool

	// Format short-circuits selection with an already resolved format.
	Format *types.Format
}

// FilterFormats returns the formats the named predicate accepts. Formats
// without a resolved URL never pass, whatever the predicate says.
func FilterFormats(formats []types.Format, filter Filter) ([]types.Format, error) {
	fn, err := filterPredicate(filter)
	if err != nil {
		return nil, err
	}
	return filterFunc(formats, fn), nil
}

func filterPredicate(filter Filter) (func(types.Format) bool, error) {
	switch filter {
	case FilterAudioAndVideo, "videoandaudio":
		return func(f types.Format) bool { return f.HasVideo && f.HasAudio }, nil
	case FilterVideo:
		return func(f types.Format) bool { return f.HasVideo }, nil
	case FilterVideoOnly:
		return func(f types.Format) bool { return f.HasVideo && !f.HasAudio }, nil
	case FilterAudio:
		return func(f types.Format) bool { return f.HasAudio }, nil
	case FilterAudioOnly:
		return func(f types.Format) bool { return !f.HasVideo && f.HasAudio }, nil
	default:
		return nil, fmt.Errorf("unsupported format filter %q", filter)
	}
}

func filterFunc(formats []types.Format, fn func(types.Format) bool) []types.Format {
	out := make([]types.Format, 0, len(formats))
	for _, f := range formats {
		if f.URL != "" && fn(f) {
			out = append(out, f)
		}
	}
	return out
}

// ChooseFormat picks one format according to the options. The input is
// expected in SortFormats order; "highest" is the first element after
// filtering and "lowest" the last.
func ChooseFormat(formats []types.Format, opts ChooseOptions) (types.Format, error) {
	if opts.Format != nil {
		if opts.Format.URL == "" {
			return types.Format{}, fmt.Errorf("given format has no url, was it normalized?")
		}
		return *opts.Format, nil
	}

	var err error
	if opts.FilterFunc != nil {
		formats = filterFunc(formats, opts.FilterFunc)
	} else if opts.Filter != "" {
		formats, err = FilterFormats(formats, opts.Filter)
		if err != nil {
			return types.Format{}, err
		}
	}

	quality := opts.Quality
	if quality == "" {
		quality = QualityHighest
	}

	switch quality {
	case QualityHighest:
		if len(formats) > 0 {
			return formats[0], nil
		}
	case QualityLowest:
		if len(formats) > 0 {
			return formats[len(formats)-1], nil
		}
	case QualityHighestAudio, QualityLowestAudio:
		audio, ferr := FilterFormats(formats, FilterAudio)
		if ferr != nil {
			return types.Format{}, ferr
		}
		SortByAudio(audio)
		if len(audio) > 0 {
			if quality == QualityHighestAudio {
				return audio[0], nil
			}
			return audio[len(audio)-1], nil
		}
	case QualityHighestVideo, QualityLowestVideo:
		video, ferr := FilterFormats(formats, FilterVideo)
		if ferr != nil {
			return types.Format{}, ferr
		}
		SortByVideo(video)
		if len(video) > 0 {
			if quality == QualityHighestVideo {
				return video[0], nil
			}
			return video[len(video)-1], nil
		}
	default:
		if f, ok := byItagString(formats, quality); ok {
			return f, nil
		}
		for _, itag := range opts.Itags {
			if f, ok := byItag(formats, itag); ok {
				return f, nil
			}
		}
	}

	return types.Format{}, &errs.NoFormatError{Quality: quality}
}

func byItagString(formats []types.Format, s string) (types.Format, bool) {
	itag, err := strconv.Atoi(s)
	if err != nil {
		return types.Format{}, false
	}
	return byItag(formats, itag)
}

func byItag(formats []types.Format, itag int) (types.Format, bool) {
	for _, f := range formats {
		if f.Itag == itag {
			return f, true
		}
	}
	return types.Format{}, false
}
