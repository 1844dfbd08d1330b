package info

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/DjDeveloperr/ytdl-core/types"
)

var hlsItagRe = regexp.MustCompile(`/itag/(\d+)/`)

// fetchDashFormats streams the DASH manifest and emits one format per
// representation. Every representation shares the manifest URL, so the merge
// keys carry the itag to keep variants from overwriting each other.
func (p *Pipeline) fetchDashFormats(ctx context.Context, manifestURL string) (map[string]types.Format, error) {
	resp, err := p.client.Get(ctx, absoluteURL(manifestURL))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseDashManifest(resp.Body, manifestURL)
}

// parseDashManifest walks the MPD document with a streaming decoder. The
// adaptation set carries the MIME type; each representation contributes the
// codec, bandwidth and either video geometry or an audio sample rate.
func parseDashManifest(r io.Reader, manifestURL string) (map[string]types.Format, error) {
	formats := make(map[string]types.Format)
	dec := xml.NewDecoder(r)

	var adaptationMime string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse dash manifest: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch strings.ToLower(start.Name.Local) {
		case "adaptationset":
			adaptationMime = dashAttr(start, "mimeType")
		case "representation":
			itag, err := strconv.Atoi(dashAttr(start, "id"))
			if err != nil {
				continue
			}
			bitrate, _ := strconv.Atoi(dashAttr(start, "bandwidth"))
			f := types.Format{
				Itag:     itag,
				URL:      manifestURL,
				Bitrate:  bitrate,
				MimeType: fmt.Sprintf("%s; codecs=%q", adaptationMime, dashAttr(start, "codecs")),
			}
			if h := dashAttr(start, "height"); h != "" {
				f.Height, _ = strconv.Atoi(h)
				f.Width, _ = strconv.Atoi(dashAttr(start, "width"))
				f.FPS, _ = strconv.Atoi(dashAttr(start, "frameRate"))
				f.QualityLabel = fmt.Sprintf("%dp", f.Height)
			} else {
				f.AudioSampleRate = dashAttr(start, "audioSamplingRate")
			}
			formats[fmt.Sprintf("%s#%d", manifestURL, itag)] = f
		}
	}
	return formats, nil
}

func dashAttr(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value
		}
	}
	return ""
}

// fetchHLSFormats reads the master playlist and emits one format per variant
// line, keyed by variant URL.
func (p *Pipeline) fetchHLSFormats(ctx context.Context, manifestURL string) (map[string]types.Format, error) {
	body, err := p.client.GetBody(ctx, absoluteURL(manifestURL))
	if err != nil {
		return nil, err
	}
	return parseHLSManifest(string(body)), nil
}

func parseHLSManifest(body string) map[string]types.Format {
	formats := make(map[string]types.Format)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			continue
		}
		m := hlsItagRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		itag, _ := strconv.Atoi(m[1])
		formats[line] = types.Format{Itag: itag, URL: line}
	}
	return formats
}
