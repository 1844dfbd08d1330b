// Package types holds the data model shared across the resolution pipeline,
// format utilities and the downloader.
package types

// Format describes one streamable variant of a video. Fields up to
// SignatureCipher arrive from the platform; the remainder are derived during
// normalization. A normalized format always carries a directly fetchable URL
// with signature and n parameter already applied.
type Format struct {
	Itag            int
	URL             string
	MimeType        string
	Quality         string
	QualityLabel    string
	Bitrate         int
	AudioBitrate    int
	ContentLength   int64
	Width           int
	Height          int
	FPS             int
	AudioSampleRate string
	AudioChannels   int
	SignatureCipher string

	// Derived during normalization.
	HasVideo   bool
	HasAudio   bool
	Container  string
	Codecs     string
	VideoCodec string
	AudioCodec string
	IsLive     bool
	IsHLS      bool
	IsDashMPD  bool
}

// Thumbnail is a preview image at one resolution.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// Author describes the channel that published a video.
type Author struct {
	ID                 string
	Name               string
	User               string
	ChannelURL         string
	ExternalChannelURL string
	UserURL            string
	Thumbnails         []Thumbnail
	Verified           bool
	SubscriberCount    int64
}

// RelatedVideo is one entry from the watch page's related list. Its fields
// are best effort; the watch page ships them inconsistently.
type RelatedVideo struct {
	ID             string
	Title          string
	Published      string
	Author         Author
	ShortViewCount string
	ViewCount      string
	LengthSeconds  int
	Thumbnails     []Thumbnail
	IsLive         bool
}

// Storyboard describes one tier of the seek-preview thumbnail grids.
type Storyboard struct {
	TemplateURL     string
	ThumbnailWidth  int
	ThumbnailHeight int
	ThumbnailCount  int
	Interval        int
	Columns         int
	Rows            int
	StoryboardCount int
}

// Media holds loosely structured metadata rows from the watch page, such as
// song, artist, game or category attributions. Keys keep the row titles the
// page uses; a "<title>_url" key carries the row's link when present.
type Media map[string]string

// VideoInfo is the resolved metadata for one video.
type VideoInfo struct {
	ID            string
	Title         string
	Description   string
	LengthSeconds int
	ViewCount     int64
	Keywords      []string
	Category      string
	PublishDate   string
	UploadDate    string
	VideoURL      string
	Thumbnails    []Thumbnail
	Author        Author
	Media         Media
	Likes         int64
	Dislikes      int64
	AgeRestricted bool
	IsLiveContent bool
	IsPrivate     bool
	IsUnlisted    bool
	Storyboards   []Storyboard
	RelatedVideos []RelatedVideo

	// Formats is populated by GetInfo; GetBasicInfo leaves the raw,
	// unresolved variants here instead.
	Formats []Format

	// LiveChunkReadahead is nonzero for live streams.
	LiveChunkReadahead int
}

// Range restricts a download to a byte window. A zero End means "to the end
// of the resource".
type Range struct {
	Start int64
	End   int64
}
