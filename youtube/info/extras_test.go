package info

import (
	"reflect"
	"strings"
	"testing"
)

// watchNextResponse wraps primary-column renderers into the watch-next shape
// the extractors walk.
func watchNextResponse(contents ...any) Record {
	return Record{
		"contents": map[string]any{
			"twoColumnWatchNextResults": map[string]any{
				"results": map[string]any{
					"results": map[string]any{
						"contents": contents,
					},
				},
			},
		},
	}
}

func ownerRenderer() map[string]any {
	return map[string]any{
		"videoSecondaryInfoRenderer": map[string]any{
			"owner": map[string]any{
				"videoOwnerRenderer": map[string]any{
					"navigationEndpoint": map[string]any{
						"browseEndpoint": map[string]any{"browseId": "UCabc123"},
					},
					"thumbnail": map[string]any{
						"thumbnails": []any{
							map[string]any{"url": "//yt3.ggpht.com/avatar.jpg", "width": float64(48), "height": float64(48)},
						},
					},
					"subscriberCountText": map[string]any{"simpleText": "1.2M subscribers"},
					"badges": []any{
						map[string]any{"metadataBadgeRenderer": map[string]any{"tooltip": "Verified"}},
					},
				},
			},
		},
	}
}

func TestGetAuthor(t *testing.T) {
	playerResponse := Record{
		"microformat": map[string]any{
			"playerMicroformatRenderer": map[string]any{
				"channelId":         "UCabc123",
				"ownerChannelName":  "Some Channel",
				"ownerProfileUrl":   "http://www.youtube.com/user/somechannel",
				"externalChannelId": "UCext456",
			},
		},
		"videoDetails": map[string]any{"author": "Fallback Name", "channelId": "UCfallback"},
	}
	response := watchNextResponse(ownerRenderer())

	author := getAuthor(playerResponse, response)

	if author.ID != "UCabc123" {
		t.Errorf("ID = %q, want UCabc123", author.ID)
	}
	if author.Name != "Some Channel" {
		t.Errorf("Name = %q, want Some Channel", author.Name)
	}
	if author.User != "somechannel" {
		t.Errorf("User = %q, want somechannel", author.User)
	}
	if author.ChannelURL != "https://www.youtube.com/channel/UCabc123" {
		t.Errorf("ChannelURL = %q", author.ChannelURL)
	}
	if author.ExternalChannelURL != "https://www.youtube.com/channel/UCext456" {
		t.Errorf("ExternalChannelURL = %q", author.ExternalChannelURL)
	}
	if author.SubscriberCount != 1200000 {
		t.Errorf("SubscriberCount = %d, want 1200000", author.SubscriberCount)
	}
	if !author.Verified {
		t.Error("Verified = false, want true")
	}
	if len(author.Thumbnails) != 1 || !strings.HasPrefix(author.Thumbnails[0].URL, "https://") {
		t.Errorf("Thumbnails = %+v, want one absolute URL", author.Thumbnails)
	}
}

func TestGetAuthor_DetailsFallback(t *testing.T) {
	playerResponse := Record{
		"videoDetails": map[string]any{"author": "Fallback Name", "channelId": "UCfallback"},
	}

	author := getAuthor(playerResponse, nil)

	if author.ID != "UCfallback" {
		t.Errorf("ID = %q, want UCfallback", author.ID)
	}
	if author.Name != "Fallback Name" {
		t.Errorf("Name = %q, want Fallback Name", author.Name)
	}
}

func TestGetMedia(t *testing.T) {
	row := func(title string, content map[string]any) any {
		return map[string]any{
			"metadataRowRenderer": map[string]any{
				"title":    map[string]any{"simpleText": title},
				"contents": []any{content},
			},
		}
	}
	response := watchNextResponse(map[string]any{
		"videoSecondaryInfoRenderer": map[string]any{},
		"metadataRowContainer": map[string]any{
			"metadataRowContainerRenderer": map[string]any{
				"rows": []any{
					row("Song", map[string]any{
						"runs": []any{
							map[string]any{
								"text": "Never Gonna Give You Up",
								"navigationEndpoint": map[string]any{
									"commandMetadata": map[string]any{
										"webCommandMetadata": map[string]any{"url": "/watch?v=dQw4w9WgXcQ"},
									},
								},
							},
						},
					}),
					row("Artist", map[string]any{"simpleText": "Rick Astley"}),
				},
			},
		},
	})

	media := getMedia(response)

	if media["song"] != "Never Gonna Give You Up" {
		t.Errorf("song = %q", media["song"])
	}
	if media["song_url"] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("song_url = %q", media["song_url"])
	}
	if media["artist"] != "Rick Astley" {
		t.Errorf("artist = %q", media["artist"])
	}
	if media["category"] != "Music" {
		t.Errorf("category = %q, want Music", media["category"])
	}
}

func TestGetLikesAndDislikes(t *testing.T) {
	button := func(icon, label string) any {
		return map[string]any{
			"toggleButtonRenderer": map[string]any{
				"defaultIcon": map[string]any{"iconType": icon},
				"defaultText": map[string]any{
					"accessibility": map[string]any{
						"accessibilityData": map[string]any{"label": label},
					},
				},
			},
		}
	}
	response := watchNextResponse(map[string]any{
		"videoPrimaryInfoRenderer": map[string]any{
			"videoActions": map[string]any{
				"menuRenderer": map[string]any{
					"topLevelButtons": []any{
						button("LIKE", "1,234,567 likes"),
						button("DISLIKE", "890 dislikes"),
					},
				},
			},
		},
	})

	if got := getLikes(response); got != 1234567 {
		t.Errorf("getLikes() = %d, want 1234567", got)
	}
	if got := getDislikes(response); got != 890 {
		t.Errorf("getDislikes() = %d, want 890", got)
	}
	if got := getLikes(watchNextResponse()); got != 0 {
		t.Errorf("getLikes() on empty response = %d, want 0", got)
	}
}

func TestGetStoryboards(t *testing.T) {
	spec := "https://i.ytimg.com/sb/VIDEOID/storyboard3_L$L/$N.jpg" +
		"|48#27#100#10#10#0#default#sigA" +
		"|80#45#95#10#10#10000#M$M#sigB"
	playerResponse := Record{
		"storyboards": map[string]any{
			"playerStoryboardSpecRenderer": map[string]any{"spec": spec},
		},
	}

	boards := getStoryboards(playerResponse)
	if len(boards) != 2 {
		t.Fatalf("got %d storyboards, want 2", len(boards))
	}

	first := boards[0]
	if first.ThumbnailWidth != 48 || first.ThumbnailHeight != 27 {
		t.Errorf("first tier geometry = %dx%d", first.ThumbnailWidth, first.ThumbnailHeight)
	}
	if first.ThumbnailCount != 100 || first.Columns != 10 || first.Rows != 10 {
		t.Errorf("first tier layout = %+v", first)
	}
	if first.StoryboardCount != 1 {
		t.Errorf("first StoryboardCount = %d, want 1", first.StoryboardCount)
	}
	if !strings.Contains(first.TemplateURL, "storyboard3_L0/default.jpg") {
		t.Errorf("first TemplateURL = %q, want $L and $N replaced", first.TemplateURL)
	}
	if !strings.Contains(first.TemplateURL, "sigh=sigA") {
		t.Errorf("first TemplateURL = %q, missing sigh param", first.TemplateURL)
	}

	second := boards[1]
	if second.Interval != 10000 {
		t.Errorf("second Interval = %d, want 10000", second.Interval)
	}
	if !strings.Contains(second.TemplateURL, "storyboard3_L1/M$M.jpg") {
		t.Errorf("second TemplateURL = %q", second.TemplateURL)
	}

	if got := getStoryboards(Record{}); got != nil {
		t.Errorf("getStoryboards() without spec = %v, want nil", got)
	}
}

func compactVideo(id, title string) map[string]any {
	return map[string]any{
		"videoId":            id,
		"title":              map[string]any{"simpleText": title},
		"publishedTimeText":  map[string]any{"simpleText": "3 years ago"},
		"viewCountText":      map[string]any{"simpleText": "1,234,567 views"},
		"shortViewCountText": map[string]any{"simpleText": "1.2M views"},
		"lengthText":         map[string]any{"simpleText": "3:33"},
		"shortBylineText": map[string]any{
			"runs": []any{
				map[string]any{
					"text": "Channel Name",
					"navigationEndpoint": map[string]any{
						"browseEndpoint": map[string]any{
							"browseId":         "UCrel",
							"canonicalBaseUrl": "/user/relchannel",
						},
					},
				},
			},
		},
		"thumbnail": map[string]any{
			"thumbnails": []any{map[string]any{"url": "https://i.ytimg.com/vi/x/hq.jpg", "width": float64(336), "height": float64(188)}},
		},
	}
}

func TestGetRelatedVideos(t *testing.T) {
	response := Record{
		"contents": map[string]any{
			"twoColumnWatchNextResults": map[string]any{
				"secondaryResults": map[string]any{
					"secondaryResults": map[string]any{
						"results": []any{
							map[string]any{
								"compactAutoplayRenderer": map[string]any{
									"contents": []any{
										map[string]any{"compactVideoRenderer": compactVideo("autoplay1", "Up Next")},
									},
								},
							},
							map[string]any{"compactVideoRenderer": compactVideo("plain1", "Plain Video")},
							map[string]any{
								"itemSectionRenderer": map[string]any{
									"contents": []any{
										map[string]any{"compactVideoRenderer": compactVideo("section1", "Sectioned")},
									},
								},
							},
							map[string]any{"continuationItemRenderer": map[string]any{}},
						},
					},
				},
			},
		},
	}

	videos := getRelatedVideos(response)
	if len(videos) != 3 {
		t.Fatalf("got %d related videos, want 3", len(videos))
	}

	ids := []string{videos[0].ID, videos[1].ID, videos[2].ID}
	want := []string{"autoplay1", "plain1", "section1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	v := videos[1]
	if v.Title != "Plain Video" {
		t.Errorf("Title = %q", v.Title)
	}
	if v.ViewCount != "1234567" {
		t.Errorf("ViewCount = %q, want 1234567", v.ViewCount)
	}
	if v.ShortViewCount != "1.2M" {
		t.Errorf("ShortViewCount = %q, want 1.2M", v.ShortViewCount)
	}
	if v.LengthSeconds != 213 {
		t.Errorf("LengthSeconds = %d, want 213", v.LengthSeconds)
	}
	if v.Author.ID != "UCrel" || v.Author.User != "relchannel" {
		t.Errorf("Author = %+v", v.Author)
	}
	if v.Author.UserURL != "https://www.youtube.com/user/relchannel" {
		t.Errorf("Author.UserURL = %q", v.Author.UserURL)
	}
}

func TestParseTimestampSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0:45", 45},
		{"3:33", 213},
		{"1:02:03", 3723},
		{"bogus", 0},
	}
	for _, tt := range tests {
		if got := parseTimestampSeconds(tt.in); got != tt.want {
			t.Errorf("parseTimestampSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
