package cipher

import (
	"context"
	"fmt"
	"time"

	"github.com/DjDeveloperr/ytdl-core/internal/cache"
)

// DefaultScriptTTL bounds how long extracted tokens are reused before the
// player script is fetched and parsed again.
const DefaultScriptTTL = 10 * time.Minute

// Fetcher retrieves the body of a player script by URL.
type Fetcher interface {
	GetBody(ctx context.Context, url string) ([]byte, error)
}

// Extractor fetches player scripts and caches the token sequences extracted
// from them, keyed by script URL. Concurrent requests for the same script
// resolve through a single fetch.
type Extractor struct {
	fetcher Fetcher
	cache   *cache.Cache[Tokens]
}

// NewExtractor returns an Extractor backed by f. A non-positive ttl selects
// DefaultScriptTTL.
func NewExtractor(f Fetcher, ttl time.Duration) *Extractor {
	if ttl <= 0 {
		ttl = DefaultScriptTTL
	}
	return &Extractor{
		fetcher: f,
		cache:   cache.New[Tokens](ttl),
	}
}

// Tokens returns the transform tokens for the script at scriptURL, fetching
// and extracting on a cache miss. A script from which nothing could be
// extracted is cached as an empty Tokens value; fetch failures are not
// cached, so the next call retries.
func (e *Extractor) Tokens(ctx context.Context, scriptURL string) (Tokens, error) {
	return e.cache.GetOrSet(scriptURL, func() (Tokens, error) {
		body, err := e.fetcher.GetBody(ctx, scriptURL)
		if err != nil {
			return Tokens{}, fmt.Errorf("fetch player script %s: %w", scriptURL, err)
		}
		return Extract(string(body)), nil
	})
}
