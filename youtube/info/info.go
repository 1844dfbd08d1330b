// Package info resolves video metadata and formats by walking the platform's
// metadata endpoints in order until one yields a playable response.
package info

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DjDeveloperr/ytdl-core/client"
	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/internal/cache"
	"github.com/DjDeveloperr/ytdl-core/internal/logger"
	"github.com/DjDeveloperr/ytdl-core/types"
	"github.com/DjDeveloperr/ytdl-core/youtube/cipher"
	"github.com/DjDeveloperr/ytdl-core/youtube/formats"
	"github.com/DjDeveloperr/ytdl-core/youtube/urlutil"
)

// Backoff describes capped linear retry growth: attempt n waits n*Inc, never
// more than Max.
type Backoff struct {
	Inc time.Duration
	Max time.Duration
}

// RetryOptions bounds retries for one endpoint of the pipeline.
type RetryOptions struct {
	MaxRetries int
	Backoff    Backoff
}

// Options configures a Pipeline. Zero values pick the defaults.
type Options struct {
	Retry        RetryOptions
	WatchPageTTL time.Duration
	CookieTTL    time.Duration
	// ScriptTTL bounds the player-script token cache.
	ScriptTTL time.Duration
}

const (
	defaultWatchPageTTL = time.Second
	defaultCookieTTL    = 24 * time.Hour
)

var defaultRetry = RetryOptions{
	MaxRetries: 1,
	Backoff:    Backoff{Inc: 500 * time.Millisecond, Max: 5 * time.Second},
}

// Pipeline resolves metadata through the watch HTML page, the watch JSON
// variant, and the get_video_info endpoint, merging partial results until
// one validates.
type Pipeline struct {
	client      *client.Client
	cipher      *cipher.Extractor
	retry       RetryOptions
	watchCache  *cache.Cache[string]
	cookieCache *cache.Cache[string]

	watchBase     string
	embedBase     string
	videoInfoBase string
}

// New creates a Pipeline on top of c.
func New(c *client.Client, opts Options) *Pipeline {
	retry := opts.Retry
	if retry.Backoff.Inc <= 0 {
		retry.Backoff = defaultRetry.Backoff
	}
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = defaultRetry.MaxRetries
	}
	watchTTL := opts.WatchPageTTL
	if watchTTL <= 0 {
		watchTTL = defaultWatchPageTTL
	}
	cookieTTL := opts.CookieTTL
	if cookieTTL <= 0 {
		cookieTTL = defaultCookieTTL
	}
	return &Pipeline{
		client:        c,
		cipher:        cipher.NewExtractor(c, opts.ScriptTTL),
		retry:         retry,
		watchCache:    cache.New[string](watchTTL),
		cookieCache:   cache.New[string](cookieTTL),
		watchBase:     watchBaseURL,
		embedBase:     embedBaseURL,
		videoInfoBase: videoInfoURL,
	}
}

// Info carries a resolved video plus the raw material GetInfo needs to
// finish format resolution.
type Info struct {
	Video      *types.VideoInfo
	RawFormats []types.Format

	PlayerResponse Record
	Response       Record
	HTML5Player    string

	DashManifestURL string
	HLSManifestURL  string
}

func plog() *logger.ComponentLogger { return logger.WithComponent(logger.ComponentPipeline) }

// retryFetch runs fn until it succeeds, the error turns terminal, or the
// retry budget is spent.
func (p *Pipeline) retryFetch(ctx context.Context, fn func() (*pageInfo, error)) (*pageInfo, error) {
	for attempt := 0; ; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !errs.IsRetryable(err) || attempt >= p.retry.MaxRetries {
			return nil, err
		}
		wait := time.Duration(attempt+1) * p.retry.Backoff.Inc
		if wait > p.retry.Backoff.Max {
			wait = p.retry.Backoff.Max
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// resolvePages walks the endpoints, merging each partial result, until the
// accumulated info validates. Unrecoverable playability errors abort
// immediately; other failures fall through to the next endpoint.
func (p *Pipeline) resolvePages(ctx context.Context, id string) (*pageInfo, error) {
	endpoints := []struct {
		name  string
		fetch func(context.Context, string) (*pageInfo, error)
	}{
		{"watch.html", p.fetchWatchHTML},
		{"watch.json", p.fetchWatchJSON},
		{"get_video_info", p.fetchVideoInfo},
	}

	var acc *pageInfo
	for i, ep := range endpoints {
		out, err := p.retryFetch(ctx, func() (*pageInfo, error) { return ep.fetch(ctx, id) })
		if err != nil {
			if errs.IsUnrecoverable(err) || i == len(endpoints)-1 {
				return nil, err
			}
			plog().Debug("endpoint failed, trying next", map[string]interface{}{
				"endpoint": ep.name,
				"error":    err.Error(),
			})
			continue
		}

		acc = mergePages(acc, out)
		if err := playabilityError(acc.playerResponse); err != nil {
			return nil, err
		}
		if validInfo(acc) {
			break
		}
	}
	if acc == nil {
		return nil, errs.ErrNoMetadata
	}
	return acc, nil
}

func mergePages(acc, next *pageInfo) *pageInfo {
	if acc == nil {
		return next
	}
	if next.playerResponse != nil {
		details := merge(acc.playerResponse.Map("videoDetails"), next.playerResponse.Map("videoDetails"))
		acc.playerResponse = merge(acc.playerResponse, next.playerResponse)
		if details != nil {
			acc.playerResponse["videoDetails"] = map[string]any(details)
		}
	}
	acc.response = merge(acc.response, next.response)
	if next.html5Player != "" {
		acc.html5Player = next.html5Player
	}
	acc.page = next.page
	return acc
}

// playabilityError maps terminal playability statuses to unrecoverable
// errors.
func playabilityError(playerResponse Record) error {
	playability := playerResponse.Map("playabilityStatus")
	if playability == nil {
		return nil
	}
	reason := playability.String("reason")
	if reason == "" {
		if msgs := playability.Slice("messages"); len(msgs) > 0 {
			reason, _ = msgs[0].(string)
		}
	}
	lower := strings.ToLower(reason)
	switch playability.String("status") {
	case "ERROR":
		if strings.Contains(lower, "geograph") || strings.Contains(lower, "available in your country") {
			return errs.Unrecoverable(errs.ErrGeoBlocked, reason)
		}
		if strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota") {
			return errs.Unrecoverable(errs.ErrRateLimited, reason)
		}
		return errs.Unrecoverable(errs.ErrVideoUnavailable, reason)
	case "LOGIN_REQUIRED":
		for _, m := range playability.Slice("messages") {
			if s, ok := m.(string); ok && strings.Contains(s, "This is a private video") {
				if reason == "" {
					reason = s
				}
				return errs.Unrecoverable(errs.ErrPrivate, reason)
			}
		}
		if strings.Contains(lower, "confirm your age") || strings.Contains(lower, "age-restricted") {
			return errs.Unrecoverable(errs.ErrAgeRestricted, reason)
		}
	}
	return nil
}

// validInfo accepts a response that has streaming data, or is a rental or a
// not-yet-started broadcast (both legitimately carry no streams).
func validInfo(page *pageInfo) bool {
	pr := page.playerResponse
	if pr == nil {
		return false
	}
	if pr.Map("streamingData") != nil {
		return true
	}
	playability := pr.Map("playabilityStatus")
	if playability.String("status") == "UNPLAYABLE" &&
		playability.Map("errorScreen", "playerLegacyDesktopYpcOfferRenderer") != nil {
		return true
	}
	return playability.String("status") == "LIVE_STREAM_OFFLINE"
}

var ageRestrictedURLs = []string{
	"support.google.com/youtube/?p=age_restrictions",
	"youtube.com/t/community_guidelines",
}

// GetBasicInfo resolves metadata without touching the player script: the
// returned raw formats still carry cipher blobs and untransformed URLs.
func (p *Pipeline) GetBasicInfo(ctx context.Context, idOrURL string) (*Info, error) {
	id, err := urlutil.GetVideoID(idOrURL)
	if err != nil {
		return nil, err
	}

	page, err := p.resolvePages(ctx, id)
	if err != nil {
		return nil, err
	}

	pr := page.playerResponse
	streaming := pr.Map("streamingData")

	out := &Info{
		PlayerResponse:  pr,
		Response:        page.response,
		HTML5Player:     page.html5Player,
		DashManifestURL: streaming.String("dashManifestUrl"),
		HLSManifestURL:  streaming.String("hlsManifestUrl"),
	}

	for _, list := range [][]any{streaming.Slice("formats"), streaming.Slice("adaptiveFormats")} {
		for _, raw := range list {
			if m, ok := raw.(map[string]any); ok {
				out.RawFormats = append(out.RawFormats, parseRawFormat(Record(m)))
			}
		}
	}

	out.Video = p.buildVideoInfo(id, pr, page.response)
	out.Video.Formats = out.RawFormats
	return out, nil
}

func parseRawFormat(m Record) types.Format {
	f := types.Format{
		Itag:            int(m.Float("itag")),
		URL:             m.String("url"),
		MimeType:        m.String("mimeType"),
		Quality:         m.String("quality"),
		QualityLabel:    m.String("qualityLabel"),
		Bitrate:         int(m.Float("bitrate")),
		Width:           int(m.Float("width")),
		Height:          int(m.Float("height")),
		FPS:             int(m.Float("fps")),
		AudioSampleRate: m.String("audioSampleRate"),
		AudioChannels:   int(m.Float("audioChannels")),
		SignatureCipher: m.String("signatureCipher"),
	}
	if f.SignatureCipher == "" {
		f.SignatureCipher = m.String("cipher")
	}
	if cl := m.String("contentLength"); cl != "" {
		f.ContentLength, _ = strconv.ParseInt(cl, 10, 64)
	}
	return f
}

func (p *Pipeline) buildVideoInfo(id string, pr, response Record) *types.VideoInfo {
	details := pr.Map("videoDetails")
	micro := pr.Map("microformat", "playerMicroformatRenderer")

	video := &types.VideoInfo{
		ID:          id,
		Title:       details.String("title"),
		Description: details.String("shortDescription"),
		Category:    micro.String("category"),
		PublishDate: micro.String("publishDate"),
		UploadDate:  micro.String("uploadDate"),
		VideoURL:    watchBaseURL + id,
		IsPrivate:   details.Bool("isPrivate"),
		IsUnlisted:  micro.Bool("isUnlisted"),
	}
	if video.Title == "" {
		video.Title = text(micro["title"])
	}
	if video.Description == "" {
		video.Description = text(micro["description"])
	}

	// The microformat length is more reliable than the one in videoDetails.
	if n, err := strconv.Atoi(micro.String("lengthSeconds")); err == nil {
		video.LengthSeconds = n
	} else if n, err := strconv.Atoi(details.String("lengthSeconds")); err == nil {
		video.LengthSeconds = n
	}
	if n, err := strconv.ParseInt(details.String("viewCount"), 10, 64); err == nil {
		video.ViewCount = n
	}
	for _, kw := range details.Slice("keywords") {
		if s, ok := kw.(string); ok {
			video.Keywords = append(video.Keywords, s)
		}
	}
	video.Thumbnails = parseThumbnails(details.Slice("thumbnail", "thumbnails"))
	video.IsLiveContent = details.Bool("isLiveContent")

	video.Author = getAuthor(pr, response)
	video.Media = getMedia(response)
	video.Likes = getLikes(response)
	video.Dislikes = getDislikes(response)
	video.Storyboards = getStoryboards(pr)
	video.RelatedVideos = getRelatedVideos(response)

	if notice := video.Media["notice_url"]; notice != "" {
		for _, marker := range ageRestrictedURLs {
			if strings.Contains(notice, marker) {
				video.AgeRestricted = true
				break
			}
		}
	}
	return video
}

// GetInfo is GetBasicInfo plus format resolution: signatures deciphered, n
// parameters transformed, manifest variants folded in, formats sorted best
// first.
func (p *Pipeline) GetInfo(ctx context.Context, idOrURL string) (*types.VideoInfo, error) {
	basic, err := p.GetBasicInfo(ctx, idOrURL)
	if err != nil {
		return nil, err
	}

	var tokens cipher.Tokens
	if len(basic.RawFormats) > 0 {
		scriptURL, err := p.playerScriptURL(ctx, basic)
		if err != nil {
			return nil, err
		}
		tokens, err = p.cipher.Tokens(ctx, scriptURL)
		if err != nil {
			return nil, err
		}
	}

	type result struct {
		formats map[string]types.Format
		err     error
	}
	var wg sync.WaitGroup
	results := make([]result, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		resolved, err := formats.Normalize(basic.RawFormats, tokens)
		if err != nil {
			results[0] = result{err: err}
			return
		}
		byURL := make(map[string]types.Format, len(resolved))
		for _, f := range resolved {
			byURL[f.URL] = f
		}
		results[0] = result{formats: byURL}
	}()

	if basic.DashManifestURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fs, err := p.fetchDashFormats(ctx, basic.DashManifestURL)
			results[1] = result{formats: fs, err: err}
		}()
	}
	if basic.HLSManifestURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fs, err := p.fetchHLSFormats(ctx, basic.HLSManifestURL)
			results[2] = result{formats: fs, err: err}
		}()
	}
	wg.Wait()

	// A decipher failure is terminal: every ciphered format is unusable.
	// Manifest fetches are best effort and only cost their own variants.
	if err := results[0].err; err != nil {
		return nil, err
	}

	merged := make(map[string]types.Format)
	for _, res := range results {
		if res.err != nil {
			plog().Warn("manifest fetch failed", map[string]interface{}{"error": res.err.Error()})
			continue
		}
		for url, f := range res.formats {
			merged[url] = f
		}
	}

	video := basic.Video
	video.Formats = video.Formats[:0]
	for _, f := range merged {
		formats.AddMeta(&f)
		video.Formats = append(video.Formats, f)
	}
	formats.SortFormats(video.Formats)

	if len(video.Formats) == 0 && len(basic.RawFormats) > 0 {
		return nil, errs.ErrNoFormats
	}

	if readahead := basic.PlayerResponse.Float("streamingData", "liveChunkReadahead"); readahead > 0 {
		video.LiveChunkReadahead = int(readahead)
	}
	return video, nil
}

// playerScriptURL locates the player script, falling back to a fresh watch
// page and then the embed page.
func (p *Pipeline) playerScriptURL(ctx context.Context, basic *Info) (string, error) {
	path := basic.HTML5Player
	if path == "" {
		if body, err := p.watchPageBody(ctx, basic.Video.ID); err == nil {
			path = html5Player(body)
		}
	}
	if path == "" {
		if body, err := p.embedPageBody(ctx, basic.Video.ID); err == nil {
			path = html5Player(body)
		}
	}
	if path == "" {
		return "", errs.ErrNoPlayerScript
	}
	return absoluteURL(path), nil
}
