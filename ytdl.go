// Package ytdl resolves video metadata, picks a format, and downloads the
// stream. The Client is configured with chainable setters and drives the
// metadata pipeline, format selection and the chunked downloader.
package ytdl

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/DjDeveloperr/ytdl-core/client"
	"github.com/DjDeveloperr/ytdl-core/downloader"
	"github.com/DjDeveloperr/ytdl-core/types"
	"github.com/DjDeveloperr/ytdl-core/youtube/formats"
	"github.com/DjDeveloperr/ytdl-core/youtube/info"
	"github.com/DjDeveloperr/ytdl-core/youtube/urlutil"
)

// Progress describes current progress of an ongoing download.
type Progress = downloader.Progress

// Client provides the high-level API. The zero value from New downloads the
// highest quality muxed format to the working directory.
type Client struct {
	cfg      client.Config
	pipeOpts info.Options

	quality    string
	itags      []int
	filter     formats.Filter
	filterFunc func(types.Format) bool

	chunkSize    int64
	byteRange    *types.Range
	rateLimitBps int64
	outputPath   string
	progressFunc func(Progress)

	httpClient *http.Client

	pipe    *info.Pipeline
	http    *client.Client
	pipeErr error
}

// New creates a Client with default options.
func New() *Client {
	return &Client{quality: formats.QualityHighest}
}

// WithHTTPClient sets a custom HTTP client used for all network calls.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c.invalidate()
}

// WithHeaders adds headers to every request. A Cookie entry enables the
// authenticated watch-page flow.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	c.cfg.Headers = headers
	return c.invalidate()
}

// WithLang sets the Accept-Language header and the hl parameter on metadata
// requests.
func (c *Client) WithLang(lang string) *Client {
	c.cfg.Lang = lang
	return c.invalidate()
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.cfg.UserAgent = ua
	return c.invalidate()
}

// WithProxy routes all requests through the proxy URL.
func (c *Client) WithProxy(proxyURL string) *Client {
	c.cfg.ProxyURL = proxyURL
	return c.invalidate()
}

// WithIPv6Block dials every connection from a random address inside the
// CIDR block.
func (c *Client) WithIPv6Block(block string) *Client {
	c.cfg.IPv6Block = block
	return c.invalidate()
}

// WithTimeout sets the per-request HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.cfg.Timeout = timeout
	return c.invalidate()
}

// WithRetries sets the HTTP retry budget for transient errors.
func (c *Client) WithRetries(retries int) *Client {
	c.cfg.Retries = retries
	return c.invalidate()
}

// WithRetryOptions tunes the metadata pipeline's per-endpoint retry.
func (c *Client) WithRetryOptions(opts info.RetryOptions) *Client {
	c.pipeOpts.Retry = opts
	return c.invalidate()
}

// WithQuality sets the selection policy: "highest", "lowest",
// "highestaudio", "lowestaudio", "highestvideo", "lowestvideo", or an itag
// number as a string.
func (c *Client) WithQuality(quality string) *Client {
	c.quality = quality
	return c
}

// WithItags restricts selection to the given itags, in order of preference.
func (c *Client) WithItags(itags ...int) *Client {
	c.itags = itags
	return c
}

// WithFilter restricts selection to a format category.
func (c *Client) WithFilter(filter formats.Filter) *Client {
	c.filter = filter
	return c
}

// WithFilterFunc restricts selection with a custom predicate.
func (c *Client) WithFilterFunc(fn func(types.Format) bool) *Client {
	c.filterFunc = fn
	return c
}

// WithChunkSize sets the range-request size for unmuxed streams. Negative
// disables chunking.
func (c *Client) WithChunkSize(chunkSize int64) *Client {
	c.chunkSize = chunkSize
	return c
}

// WithRange restricts downloads to a byte window of the stream.
func (c *Client) WithRange(r *types.Range) *Client {
	c.byteRange = r
	return c
}

// WithRateLimit sets a download rate limit in bytes per second. Zero
// disables limiting.
func (c *Client) WithRateLimit(bytesPerSecond int64) *Client {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	c.rateLimitBps = bytesPerSecond
	return c
}

// WithOutputPath sets the output file path. If empty, a safe filename is
// derived from the video title and container. A directory path gets the
// derived filename joined onto it.
func (c *Client) WithOutputPath(path string) *Client {
	c.outputPath = path
	return c
}

// WithProgress registers a callback that receives progress updates.
func (c *Client) WithProgress(fn func(Progress)) *Client {
	c.progressFunc = fn
	return c
}

func (c *Client) invalidate() *Client {
	c.pipe, c.http, c.pipeErr = nil, nil, nil
	return c
}

// pipeline builds the HTTP layer and metadata pipeline once per
// configuration.
func (c *Client) pipeline() (*info.Pipeline, error) {
	if c.pipe == nil && c.pipeErr == nil {
		hc, err := client.NewWith(c.cfg)
		if err != nil {
			c.pipeErr = err
		} else {
			if c.httpClient != nil {
				hc.HTTPClient = c.httpClient
			}
			c.http = hc
			c.pipe = info.New(hc, c.pipeOpts)
		}
	}
	return c.pipe, c.pipeErr
}

func (c *Client) httpLayer() (*client.Client, error) {
	if _, err := c.pipeline(); err != nil {
		return nil, err
	}
	return c.http, nil
}

// GetVideoID extracts the 11-character video ID from a URL or returns the
// input when it already is one.
func GetVideoID(urlOrID string) (string, error) {
	return urlutil.GetVideoID(urlOrID)
}

// ValidateURL reports whether the string is a video URL an ID can be
// extracted from.
func ValidateURL(rawURL string) bool {
	return urlutil.ValidateURL(rawURL)
}

// GetBasicInfo resolves metadata without fetching the player script. The
// returned formats still carry cipher blobs and untransformed URLs.
func (c *Client) GetBasicInfo(ctx context.Context, urlOrID string) (*types.VideoInfo, error) {
	p, err := c.pipeline()
	if err != nil {
		return nil, err
	}
	basic, err := p.GetBasicInfo(ctx, urlOrID)
	if err != nil {
		return nil, err
	}
	return basic.Video, nil
}

// GetInfo resolves metadata and formats, with signatures deciphered and
// direct URLs ready for download.
func (c *Client) GetInfo(ctx context.Context, urlOrID string) (*types.VideoInfo, error) {
	p, err := c.pipeline()
	if err != nil {
		return nil, err
	}
	return p.GetInfo(ctx, urlOrID)
}

// ChooseFormat picks a format from list according to the client's quality,
// itag and filter settings.
func (c *Client) ChooseFormat(list []types.Format) (types.Format, error) {
	return formats.ChooseFormat(list, formats.ChooseOptions{
		Quality:    c.quality,
		Itags:      c.itags,
		Filter:     c.filter,
		FilterFunc: c.filterFunc,
	})
}

// Download resolves the video, picks a format and downloads it. The output
// location follows WithOutputPath; returns the resolved video metadata.
func (c *Client) Download(ctx context.Context, urlOrID string) (*types.VideoInfo, error) {
	video, err := c.GetInfo(ctx, urlOrID)
	if err != nil {
		return nil, err
	}
	format, err := c.ChooseFormat(video.Formats)
	if err != nil {
		return nil, err
	}
	if err := c.DownloadFormat(ctx, video, &format); err != nil {
		return nil, err
	}
	return video, nil
}

// DownloadFormat downloads one already chosen format of video.
func (c *Client) DownloadFormat(ctx context.Context, video *types.VideoInfo, format *types.Format) error {
	hc, err := c.httpLayer()
	if err != nil {
		return err
	}
	dl := downloader.New(hc, downloader.Options{
		ChunkSize:    c.chunkSize,
		Range:        c.byteRange,
		RateLimitBps: c.rateLimitBps,
		ProgressFunc: c.progressFunc,
	})

	outputPath := c.outputPath
	switch {
	case outputPath == "":
		outputPath = downloader.FileName(video, format)
	default:
		if fi, err := os.Stat(outputPath); err == nil && fi.IsDir() {
			outputPath = filepath.Join(outputPath, downloader.FileName(video, format))
		}
	}

	if err := dl.Download(ctx, format, outputPath); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	return nil
}
