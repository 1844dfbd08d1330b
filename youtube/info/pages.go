package info

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/internal/textscan"
)

const (
	watchBaseURL = "https://www.youtube.com/watch?v="
	embedBaseURL = "https://www.youtube.com/embed/"
	videoEURL    = "https://youtube.googleapis.com/v/"
	videoInfoURL = "https://www.youtube.com/get_video_info"

	jsonClientName    = "1"
	jsonClientVersion = "2.20201203.06.00"
)

var (
	playerResponseRe = regexp.MustCompile(`\bytInitialPlayerResponse\s*=\s*\{`)
	playerConfigRe   = regexp.MustCompile(`\bytplayer\.config\s*=\s*\{`)
	initialDataRe    = regexp.MustCompile(`\bytInitialData("\])?\s*=\s*\{`)
	html5PlayerRe    = regexp.MustCompile(`<script\s+src="([^"]+)"(?:\s+type="text/javascript")?\s+name="player_ias/base"\s*>`)
	jsURLPrefixRe    = regexp.MustCompile(`"jsUrl"\s*:\s*"`)
	identityTokenRe  = regexp.MustCompile(`["']ID_TOKEN["'][:,]\s?"([^"]+)"`)
	jsonPrefixRe     = regexp.MustCompile(`^[)\]}'\s]+`)
)

// pageInfo is the partial result one endpoint produced.
type pageInfo struct {
	page           string
	playerResponse Record
	response       Record
	html5Player    string
}

func (p *Pipeline) watchHTMLURL(id string) string {
	return p.watchBase + id + "&hl=" + p.langOrDefault()
}

func (p *Pipeline) langOrDefault() string {
	if p.client.Lang != "" {
		return p.client.Lang
	}
	return "en"
}

// watchPageBody fetches the watch HTML page, reusing a recent copy so the
// endpoint pipeline and the player-script lookup share one request.
func (p *Pipeline) watchPageBody(ctx context.Context, id string) (string, error) {
	pageURL := p.watchHTMLURL(id)
	return p.watchCache.GetOrSet(pageURL, func() (string, error) {
		body, err := p.client.GetBody(ctx, pageURL)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
}

func (p *Pipeline) embedPageBody(ctx context.Context, id string) (string, error) {
	body, err := p.client.GetBody(ctx, p.embedBase+id+"?hl="+p.langOrDefault())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// html5Player pulls the player script path out of a page body: the script
// tag on older page revisions, the jsUrl config key on current ones.
func html5Player(body string) string {
	if m := html5PlayerRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return textscan.BetweenRegex(body, jsURLPrefixRe, `"`)
}

// findJSON cuts the JSON object that starts at the opening brace the pattern
// consumed.
func findJSON(body string, re *regexp.Regexp) (Record, error) {
	loc := re.FindStringIndex(body)
	if loc == nil {
		return nil, fmt.Errorf("pattern %q not found", re)
	}
	raw, err := textscan.CutAfterJSON(body[loc[1]-1:])
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("parse embedded json: %w", err)
	}
	return rec, nil
}

// parseJSONValue accepts a value that is either already an object or a JSON
// string, optionally prefixed with anti-hijacking garbage.
func parseJSONValue(v any) (Record, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return Record(t), nil
	case string:
		t = jsonPrefixRe.ReplaceAllString(t, "")
		var rec Record
		if err := json.Unmarshal([]byte(t), &rec); err != nil {
			return nil, fmt.Errorf("parse player response: %w", err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unexpected player response type %T", v)
	}
}

// findPlayerResponse resolves the player response from the key variants the
// endpoints use.
func findPlayerResponse(rec Record) (Record, error) {
	candidates := []any{
		rec.Map("args")["player_response"],
		rec["player_response"],
		rec["playerResponse"],
		rec["embedded_player_response"],
	}
	for _, c := range candidates {
		if c != nil {
			return parseJSONValue(c)
		}
	}
	return nil, nil
}

// fetchWatchHTML resolves metadata from the watch page HTML.
func (p *Pipeline) fetchWatchHTML(ctx context.Context, id string) (*pageInfo, error) {
	body, err := p.watchPageBody(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &pageInfo{page: "watch.html", html5Player: html5Player(body)}

	out.playerResponse, err = findJSON(body, playerResponseRe)
	if err != nil {
		// Older page revisions embed the player config instead.
		args, cfgErr := findJSON(body, playerConfigRe)
		if cfgErr != nil {
			return nil, fmt.Errorf("player response not found in watch page: %w", err)
		}
		out.playerResponse, err = findPlayerResponse(args)
		if err != nil {
			return nil, err
		}
	}
	out.response, _ = findJSON(body, initialDataRe)
	return out, nil
}

// fetchWatchJSON resolves metadata from the watch page's JSON variant. An
// identity token is required when the caller supplied cookies.
func (p *Pipeline) fetchWatchJSON(ctx context.Context, id string) (*pageInfo, error) {
	headers := map[string]string{
		"x-youtube-client-name":    jsonClientName,
		"x-youtube-client-version": jsonClientVersion,
	}
	cookie := p.cookieHeader()
	tokenKey := "browser"
	if cookie != "" {
		tokenKey = cookie
	}
	if token, ok := p.cookieCache.Get(tokenKey); ok {
		headers["x-youtube-identity-token"] = token
	} else if cookie != "" {
		token, err := p.identityToken(ctx, id, tokenKey, true)
		if err != nil {
			return nil, err
		}
		headers["x-youtube-identity-token"] = token
	}

	body, err := p.client.GetBodyWithHeaders(ctx, p.watchHTMLURL(id)+"&pbj=1", headers)
	if err != nil {
		return nil, err
	}

	trimmed := jsonPrefixRe.ReplaceAllString(string(body), "")
	var parts []map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parts); err != nil {
		// A reload response means the session needs an identity token; the
		// next attempt picks it up from the cache.
		if strings.Contains(trimmed, `"reload"`) {
			if _, terr := p.identityToken(ctx, id, "browser", false); terr != nil {
				return nil, terr
			}
		}
		return nil, fmt.Errorf("%w in watch.json", errs.ErrNoMetadata)
	}

	rec := Record{}
	for _, part := range parts {
		rec = merge(rec, Record(part))
	}
	out := &pageInfo{page: "watch.json"}
	out.playerResponse, err = findPlayerResponse(rec)
	if err != nil {
		return nil, err
	}
	out.response = rec.Map("response")
	out.html5Player = rec.String("player", "assets", "js")
	return out, nil
}

// identityToken extracts the session identity token from the watch page and
// caches it by cookie.
func (p *Pipeline) identityToken(ctx context.Context, id, key string, required bool) (string, error) {
	return p.cookieCache.GetOrSet(key, func() (string, error) {
		body, err := p.watchPageBody(ctx, id)
		if err != nil {
			return "", err
		}
		m := identityTokenRe.FindStringSubmatch(body)
		if m == nil {
			if required {
				return "", errs.NewUnrecoverable("cookie header used in request, but unable to find identity token")
			}
			return "", nil
		}
		return m[1], nil
	})
}

func (p *Pipeline) cookieHeader() string {
	for k, v := range p.client.Headers {
		if strings.EqualFold(k, "cookie") {
			return v
		}
	}
	return ""
}

// fetchVideoInfo resolves metadata from the get_video_info endpoint.
func (p *Pipeline) fetchVideoInfo(ctx context.Context, id string) (*pageInfo, error) {
	u, err := url.Parse(p.videoInfoBase)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("video_id", id)
	q.Set("eurl", videoEURL+id)
	q.Set("ps", "default")
	q.Set("gl", "US")
	q.Set("hl", p.langOrDefault())
	q.Set("html5", "1")
	u.RawQuery = q.Encode()

	body, err := p.client.GetBody(ctx, u.String())
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse get_video_info response: %w", err)
	}

	rec := Record{}
	for key := range values {
		rec[key] = values.Get(key)
	}
	out := &pageInfo{page: "get_video_info"}
	out.playerResponse, err = findPlayerResponse(rec)
	if err != nil {
		return nil, err
	}
	out.html5Player = rec.String("html5player")
	return out, nil
}
