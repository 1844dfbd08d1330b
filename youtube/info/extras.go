package info

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/internal/textscan"
	"github.com/DjDeveloperr/ytdl-core/types"
)

// Every extractor in this file is best effort: the watch page reshuffles its
// renderers often, and a miss yields a zero value instead of an error.

var digitsRe = regexp.MustCompile(`\D+`)

func absoluteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	base, _ := url.Parse(watchBaseURL)
	return base.ResolveReference(u).String()
}

func watchNextContents(response Record) []any {
	return response.Slice("contents", "twoColumnWatchNextResults", "results", "results", "contents")
}

func findRenderer(contents []any, name string) Record {
	for _, c := range contents {
		if rec, ok := c.(map[string]any); ok {
			if _, found := rec[name]; found {
				return Record(rec)
			}
		}
	}
	return nil
}

func parseThumbnails(list []any) []types.Thumbnail {
	out := make([]types.Thumbnail, 0, len(list))
	for _, item := range list {
		t, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := Record(t)
		out = append(out, types.Thumbnail{
			URL:    absoluteURL(rec.String("url")),
			Width:  int(rec.Float("width")),
			Height: int(rec.Float("height")),
		})
	}
	return out
}

func isVerified(badges []any) bool {
	for _, b := range badges {
		if rec, ok := b.(map[string]any); ok {
			if Record(rec).String("metadataBadgeRenderer", "tooltip") == "Verified" {
				return true
			}
		}
	}
	return false
}

// getAuthor builds channel info from the watch-page owner renderer and the
// player response microformat.
func getAuthor(playerResponse, response Record) types.Author {
	var author types.Author

	if owner := extractOwner(response); owner != nil {
		author.ID = owner.String("navigationEndpoint", "browseEndpoint", "browseId")
		author.Thumbnails = parseThumbnails(owner.Slice("thumbnail", "thumbnails"))
		if n, ok := textscan.ParseAbbreviatedNumber(text(owner["subscriberCountText"])); ok {
			author.SubscriberCount = n
		}
		author.Verified = isVerified(owner.Slice("badges"))
	}

	micro := playerResponse.Map("microformat", "playerMicroformatRenderer")
	details := playerResponse.Map("videoDetails")
	if id := micro.String("channelId"); id != "" {
		author.ID = id
	} else if author.ID == "" {
		author.ID = details.String("channelId")
	}
	if author.ID == "" && micro == nil && details == nil {
		return author
	}

	if name := micro.String("ownerChannelName"); name != "" {
		author.Name = name
	} else {
		author.Name = details.String("author")
	}
	if profile := micro.String("ownerProfileUrl"); profile != "" {
		parts := strings.Split(profile, "/")
		author.User = parts[len(parts)-1]
		author.UserURL = absoluteURL(profile)
	}
	author.ChannelURL = "https://www.youtube.com/channel/" + author.ID
	if ext := micro.String("externalChannelId"); ext != "" {
		author.ExternalChannelURL = "https://www.youtube.com/channel/" + ext
	}
	return author
}

func extractOwner(response Record) Record {
	for _, c := range watchNextContents(response) {
		rec, ok := c.(map[string]any)
		if !ok {
			continue
		}
		owner := Record(rec).Map("videoSecondaryInfoRenderer", "owner", "videoOwnerRenderer")
		if owner != nil {
			return owner
		}
	}
	return nil
}

// getMedia collects the metadata rows shown under the video: song, artist,
// game, category and their links.
func getMedia(response Record) types.Media {
	media := types.Media{}
	result := findRenderer(watchNextContents(response), "videoSecondaryInfoRenderer")
	if result == nil {
		return media
	}
	container := result.Map("metadataRowContainer")
	if container == nil {
		container = result.Map("videoSecondaryInfoRenderer", "metadataRowContainer")
	}
	rows := container.Slice("metadataRowContainerRenderer", "rows")
	for _, r := range rows {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		row := Record(rec).Map("metadataRowRenderer")
		if row == nil {
			continue
		}
		title := strings.ToLower(text(row["title"]))
		if title == "" {
			continue
		}
		contents := row.Slice("contents")
		if len(contents) == 0 {
			continue
		}
		media[title] = text(contents[0])
		if content, ok := contents[0].(map[string]any); ok {
			runs := Record(content).Slice("runs")
			if len(runs) > 0 {
				if run, ok := runs[0].(map[string]any); ok {
					link := Record(run).String("navigationEndpoint", "commandMetadata", "webCommandMetadata", "url")
					if link != "" {
						media[title+"_url"] = absoluteURL(link)
					}
				}
			}
		}
		if title == "song" {
			media["category"] = "Music"
			media["category_url"] = "https://music.youtube.com/"
		}
	}
	return media
}

// toggleButtonCount reads the accessibility label of a like or dislike
// button.
func toggleButtonCount(response Record, iconType string) int64 {
	video := findRenderer(watchNextContents(response), "videoPrimaryInfoRenderer")
	if video == nil {
		return 0
	}
	buttons := video.Slice("videoPrimaryInfoRenderer", "videoActions", "menuRenderer", "topLevelButtons")
	for _, b := range buttons {
		rec, ok := b.(map[string]any)
		if !ok {
			continue
		}
		btn := Record(rec).Map("toggleButtonRenderer")
		if btn == nil || btn.String("defaultIcon", "iconType") != iconType {
			continue
		}
		label := btn.String("defaultText", "accessibility", "accessibilityData", "label")
		digits := digitsRe.ReplaceAllString(label, "")
		if digits == "" {
			return 0
		}
		n, _ := strconv.ParseInt(digits, 10, 64)
		return n
	}
	return 0
}

func getLikes(response Record) int64    { return toggleButtonCount(response, "LIKE") }
func getDislikes(response Record) int64 { return toggleButtonCount(response, "DISLIKE") }

// getStoryboards parses the seek-preview spec string into per-tier
// storyboard descriptions.
func getStoryboards(playerResponse Record) []types.Storyboard {
	spec := playerResponse.String("storyboards", "playerStoryboardSpecRenderer", "spec")
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, "|")
	base, err := url.Parse(parts[0])
	if err != nil {
		return nil
	}
	parts = parts[1:]

	out := make([]types.Storyboard, 0, len(parts))
	for i, part := range parts {
		fields := strings.Split(part, "#")
		if len(fields) < 8 {
			continue
		}
		width, _ := strconv.Atoi(fields[0])
		height, _ := strconv.Atoi(fields[1])
		count, _ := strconv.Atoi(fields[2])
		columns, _ := strconv.Atoi(fields[3])
		rows, _ := strconv.Atoi(fields[4])
		interval, _ := strconv.Atoi(fields[5])
		nameReplacement := fields[6]
		sigh := fields[7]

		u := *base
		q := u.Query()
		q.Set("sigh", sigh)
		u.RawQuery = q.Encode()

		perBoard := columns * rows
		boards := 0
		if perBoard > 0 {
			boards = (count + perBoard - 1) / perBoard
		}

		templateURL := strings.Replace(u.String(), "$L", strconv.Itoa(i), 1)
		templateURL = strings.Replace(templateURL, "$N", nameReplacement, 1)

		out = append(out, types.Storyboard{
			TemplateURL:     templateURL,
			ThumbnailWidth:  width,
			ThumbnailHeight: height,
			ThumbnailCount:  count,
			Interval:        interval,
			Columns:         columns,
			Rows:            rows,
			StoryboardCount: boards,
		})
	}
	return out
}

// getRelatedVideos walks the secondary results rail.
func getRelatedVideos(response Record) []types.RelatedVideo {
	results := response.Slice("contents", "twoColumnWatchNextResults", "secondaryResults", "secondaryResults", "results")
	var videos []types.RelatedVideo
	for _, r := range results {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if details := Record(rec).Map("compactVideoRenderer"); details != nil {
			if v, ok := parseRelatedVideo(details); ok {
				videos = append(videos, v)
			}
			continue
		}
		section := Record(rec).Map("compactAutoplayRenderer")
		if section == nil {
			section = Record(rec).Map("itemSectionRenderer")
		}
		for _, c := range section.Slice("contents") {
			inner, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if details := Record(inner).Map("compactVideoRenderer"); details != nil {
				if v, ok := parseRelatedVideo(details); ok {
					videos = append(videos, v)
				}
			}
		}
	}
	return videos
}

func parseRelatedVideo(details Record) (types.RelatedVideo, bool) {
	id := details.String("videoId")
	if id == "" {
		return types.RelatedVideo{}, false
	}

	viewCount := text(details["viewCountText"])
	shortViewCount := text(details["shortViewCountText"])
	if !startsWithDigit(shortViewCount) {
		shortViewCount = ""
	}
	if !startsWithDigit(viewCount) {
		viewCount = shortViewCount
	}
	viewCount = strings.ReplaceAll(firstWord(viewCount), ",", "")

	browse := details.Map("shortBylineText")
	var author types.Author
	if runs := browse.Slice("runs"); len(runs) > 0 {
		if run, ok := runs[0].(map[string]any); ok {
			endpoint := Record(run).Map("navigationEndpoint", "browseEndpoint")
			author.ID = endpoint.String("browseId")
			author.Name = text(details["shortBylineText"])
			canonical := endpoint.String("canonicalBaseUrl")
			parts := strings.Split(canonical, "/")
			author.User = parts[len(parts)-1]
			author.ChannelURL = "https://www.youtube.com/channel/" + author.ID
			if author.User != "" {
				author.UserURL = "https://www.youtube.com/user/" + author.User
			}
		}
	}
	author.Thumbnails = parseThumbnails(details.Slice("channelThumbnail", "thumbnails"))
	author.Verified = isVerified(details.Slice("ownerBadges"))

	length := 0
	if lt := text(details["lengthText"]); lt != "" {
		length = parseTimestampSeconds(lt)
	}

	isLive := false
	for _, b := range details.Slice("badges") {
		if rec, ok := b.(map[string]any); ok {
			if Record(rec).String("metadataBadgeRenderer", "label") == "LIVE NOW" {
				isLive = true
			}
		}
	}

	return types.RelatedVideo{
		ID:             id,
		Title:          text(details["title"]),
		Published:      text(details["publishedTimeText"]),
		Author:         author,
		ShortViewCount: firstWord(shortViewCount),
		ViewCount:      viewCount,
		LengthSeconds:  length,
		Thumbnails:     parseThumbnails(details.Slice("thumbnail", "thumbnails")),
		IsLive:         isLive,
	}, true
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// parseTimestampSeconds converts "1:23:45" style durations to seconds.
func parseTimestampSeconds(ts string) int {
	total := 0
	for _, part := range strings.Split(ts, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
