// Package downloader fetches a resolved format to disk with chunked range
// requests, resume from a partial temp file, and per-chunk retry.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DjDeveloperr/ytdl-core/client"
	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/internal/logger"
	"github.com/DjDeveloperr/ytdl-core/internal/mimeext"
	"github.com/DjDeveloperr/ytdl-core/internal/sanitize"
	"github.com/DjDeveloperr/ytdl-core/types"
)

const (
	// defaultChunkSize bounds each range request. Serving infrastructure
	// throttles long-lived unmuxed streams, so they are pulled in pieces.
	defaultChunkSize    = int64(10 * 1024 * 1024)
	defaultMaxRetries   = 3
	initialBackoff      = 500 * time.Millisecond
	maxBackoff          = 10 * time.Second
	temporaryFileSuffix = ".tmp"
	copyBufferSize      = 32 * 1024
)

// ErrManifestFormat marks HLS and DASH manifest formats, whose URL points at
// a playlist rather than a media resource.
var ErrManifestFormat = errors.New("format is a manifest, not a direct media stream")

// streamError marks a response body that failed mid-copy. Bytes already
// received are on disk, so the download resumes from the new offset instead
// of retrying the same range.
type streamError struct {
	rangeSpec string
	err       error
}

func (e *streamError) Error() string {
	return fmt.Sprintf("stream interrupted during %s: %v", e.rangeSpec, e.err)
}

func (e *streamError) Unwrap() error { return e.err }

// Progress holds information about download progress.
type Progress struct {
	TotalSize      int64
	DownloadedSize int64
	Percent        float64
}

// Options configures a Downloader. Zero values pick the defaults.
type Options struct {
	// ChunkSize is the size of each range request for unmuxed streams.
	// Negative disables chunking entirely.
	ChunkSize int64
	// Range restricts the download to a byte window of the stream.
	Range      *types.Range
	MaxRetries int
	// RateLimitBps throttles writing. 0 disables limiting.
	RateLimitBps int64
	ProgressFunc func(Progress)
}

// Downloader fetches media streams over the shared retrying client.
type Downloader struct {
	client       *client.Client
	chunkSize    int64
	maxRetries   int
	rateLimitBps int64
	progressFunc func(Progress)
	byteRange    *types.Range
}

func dlog() *logger.ComponentLogger { return logger.WithComponent(logger.ComponentDownloader) }

// New creates a downloader on top of c.
func New(c *client.Client, opts Options) *Downloader {
	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	} else if chunkSize < 0 {
		chunkSize = 0
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Downloader{
		client:       c,
		chunkSize:    chunkSize,
		maxRetries:   maxRetries,
		rateLimitBps: opts.RateLimitBps,
		progressFunc: opts.ProgressFunc,
		byteRange:    opts.Range,
	}
}

// FileName derives a safe output filename from the video title and the
// format's container.
func FileName(video *types.VideoInfo, f *types.Format) string {
	title := ""
	if video != nil {
		title = video.Title
	}
	ext := f.Container
	if ext == "" {
		ext = mimeext.ExtFromMime(f.MimeType)
	}
	if f.Container == "mp4" && f.HasAudio && !f.HasVideo {
		ext = mimeext.ExtM4A
	}
	return sanitize.ToSafeFilename(title, ext)
}

// shouldChunk reports whether the stream is pulled with bounded range
// requests. Muxed streams are served without throttling and stream in one
// request; unmuxed audio-only or video-only streams are chunked.
func (d *Downloader) shouldChunk(f *types.Format) bool {
	return d.chunkSize > 0 && (!f.HasAudio || !f.HasVideo)
}

// Download fetches format f into outputPath. A partial previous attempt left
// at outputPath + ".tmp" is resumed, and a response body that drops mid-copy
// is picked up again from the last written offset. Live, HLS and DASH
// formats are not direct media resources and are rejected.
func (d *Downloader) Download(ctx context.Context, f *types.Format, outputPath string) error {
	if f.URL == "" {
		return fmt.Errorf("format %d has no resolved url", f.Itag)
	}
	if f.IsHLS || f.IsDashMPD {
		return fmt.Errorf("itag %d: %w", f.Itag, ErrManifestFormat)
	}
	if f.IsLive {
		return fmt.Errorf("itag %d is a live stream and cannot be saved to a file", f.Itag)
	}

	tmpPath := outputPath + temporaryFileSuffix
	outFile, downloaded, err := openOutput(tmpPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	window := d.window()
	downloaded += window.Start
	totalSize := d.totalSize(ctx, f, window)

	dlog().Info("starting download", map[string]interface{}{
		"itag":    f.Itag,
		"output":  outputPath,
		"resume":  downloaded - window.Start,
		"total":   totalSize,
		"chunked": d.shouldChunk(f),
	})

	interrupts := 0
	for {
		end := int64(0)
		if d.shouldChunk(f) {
			end = downloaded + d.chunkSize - 1
		}
		if totalSize > 0 && (end == 0 || end >= totalSize-1) {
			end = totalSize - 1
		}

		n, err := d.fetchRange(ctx, f.URL, downloaded, end, outFile, totalSize, window.Start)
		downloaded += n
		if err != nil {
			var se *streamError
			if errors.As(err, &se) {
				// An interruption that still delivered bytes is progress
				// and does not count against the retry budget.
				if n > 0 {
					interrupts = 0
				}
				if interrupts < d.maxRetries {
					interrupts++
					dlog().Debug("resuming interrupted stream", map[string]interface{}{
						"offset": downloaded,
						"error":  se.Error(),
					})
					continue
				}
			}
			return err
		}
		interrupts = 0
		if totalSize > 0 && downloaded >= totalSize {
			break
		}
		if totalSize == 0 && n == 0 {
			// Unknown size and the server sent nothing back: the stream
			// is done.
			break
		}
		if !d.shouldChunk(f) {
			break
		}
	}

	if err := outFile.Close(); err != nil {
		return err
	}
	if downloaded-window.Start == 0 {
		os.Remove(tmpPath)
		return errors.New("empty download: 0 bytes written")
	}
	return os.Rename(tmpPath, outputPath)
}

// openOutput opens the temp file for append when a previous attempt exists,
// returning the number of bytes already present.
func openOutput(tmpPath string) (*os.File, int64, error) {
	if fi, err := os.Stat(tmpPath); err == nil {
		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, 0, fmt.Errorf("open temp file for resume: %w", err)
		}
		return f, fi.Size(), nil
	}
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, 0, fmt.Errorf("create output file: %w", err)
	}
	return f, 0, nil
}

// window normalizes the optional byte range. End 0 means open-ended.
func (d *Downloader) window() types.Range {
	if d.byteRange == nil {
		return types.Range{}
	}
	return *d.byteRange
}

// totalSize resolves the absolute end offset of the download: the caller's
// range end when set, the format's content length, or a range probe against
// the stream as a last resort.
func (d *Downloader) totalSize(ctx context.Context, f *types.Format, window types.Range) int64 {
	if window.End > 0 {
		return window.End + 1
	}
	if f.ContentLength > 0 {
		return f.ContentLength
	}
	size, err := d.probeSize(ctx, f.URL)
	if err != nil {
		dlog().Debug("could not determine total size", map[string]interface{}{
			"itag":  f.Itag,
			"error": err.Error(),
		})
		return 0
	}
	return size
}

// probeSize asks for the first two bytes and reads the full size off the
// Content-Range header.
func (d *Downloader) probeSize(ctx context.Context, rawURL string) (int64, error) {
	resp, err := d.client.GetWithHeaders(ctx, rawURL, map[string]string{
		"Range":           "bytes=0-1",
		"Accept-Encoding": "identity",
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if cr := resp.Header.Get("Content-Range"); cr != "" {
		if i := strings.LastIndexByte(cr, '/'); i >= 0 {
			if v, err := strconv.ParseInt(cr[i+1:], 10, 64); err == nil && v > 0 {
				return v, nil
			}
		}
	}
	if resp.StatusCode == http.StatusOK && resp.ContentLength > 0 {
		return resp.ContentLength, nil
	}
	return 0, errors.New("no content range in response")
}

// fetchRange downloads bytes [start, end] into w, retrying the whole range
// with doubled backoff on transient failures. end 0 means to the end of the
// stream. Returns the number of bytes written.
func (d *Downloader) fetchRange(ctx context.Context, rawURL string, start, end int64, w io.Writer, totalSize, base int64) (int64, error) {
	headers := map[string]string{"Accept-Encoding": "identity"}
	if start > 0 || end > 0 {
		if end > 0 {
			headers["Range"] = fmt.Sprintf("bytes=%d-%d", start, end)
		} else {
			headers["Range"] = fmt.Sprintf("bytes=%d-", start)
		}
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < d.maxRetries; attempt++ {
		if attempt > 0 {
			dlog().Debug("retrying chunk", map[string]interface{}{
				"range":   headers["Range"],
				"attempt": attempt,
			})
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		resp, err := d.client.GetWithHeaders(ctx, rawURL, headers)
		if err != nil {
			var statusErr *errs.StatusError
			if errors.As(err, &statusErr) && statusErr.Code == http.StatusRequestedRangeNotSatisfiable {
				// The previous chunk consumed the stream.
				return 0, nil
			}
			lastErr = err
			continue
		}
		n, err := d.copyBody(resp.Body, w, start, totalSize, base)
		resp.Body.Close()
		if err != nil {
			// Partial bytes are on disk; retrying the same range here
			// would duplicate them. The caller restarts from the new
			// offset instead.
			return n, &streamError{rangeSpec: headers["Range"], err: err}
		}
		return n, nil
	}
	return 0, fmt.Errorf("download chunk failed: %w", lastErr)
}

// copyBody streams the response body to w, reporting progress and pacing
// writes when a rate limit is set.
func (d *Downloader) copyBody(r io.Reader, w io.Writer, start, totalSize, base int64) (int64, error) {
	buf := make([]byte, copyBufferSize)
	written := int64(0)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if d.progressFunc != nil {
				p := Progress{
					TotalSize:      totalSize - base,
					DownloadedSize: start + written - base,
				}
				if p.TotalSize > 0 {
					p.Percent = float64(p.DownloadedSize) / float64(p.TotalSize) * 100
				}
				d.progressFunc(p)
			}
			d.sleepForRate(int64(n))
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// sleepForRate enforces a simple rate limit based on bytes just written.
func (d *Downloader) sleepForRate(written int64) {
	if d.rateLimitBps <= 0 || written <= 0 {
		return
	}
	dur := time.Duration(int64(time.Second) * written / d.rateLimitBps)
	if dur > 0 {
		time.Sleep(dur)
	}
}
