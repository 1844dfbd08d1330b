package cipher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubFetcher struct {
	calls int32
	body  []byte
	err   error
}

func (f *stubFetcher) GetBody(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func TestExtractorCachesPerScriptURL(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(playerScript)}
	ex := NewExtractor(fetcher, time.Minute)

	first, err := ex.Tokens(context.Background(), "https://example.com/base.js")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if first.Empty() {
		t.Fatal("expected tokens from player script")
	}

	second, err := ex.Tokens(context.Background(), "https://example.com/base.js")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if len(second.Decipher) != len(first.Decipher) {
		t.Errorf("cached tokens differ: %d vs %d ops", len(second.Decipher), len(first.Decipher))
	}
	if n := atomic.LoadInt32(&fetcher.calls); n != 1 {
		t.Errorf("fetcher called %d times, want 1", n)
	}

	if _, err := ex.Tokens(context.Background(), "https://example.com/other.js"); err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if n := atomic.LoadInt32(&fetcher.calls); n != 2 {
		t.Errorf("fetcher called %d times after second URL, want 2", n)
	}
}

func TestExtractorFetchErrorNotCached(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	ex := NewExtractor(fetcher, time.Minute)

	if _, err := ex.Tokens(context.Background(), "https://example.com/base.js"); err == nil {
		t.Fatal("expected fetch error")
	}

	fetcher.err = nil
	fetcher.body = []byte(playerScript)
	got, err := ex.Tokens(context.Background(), "https://example.com/base.js")
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if got.Empty() {
		t.Fatal("expected tokens on retry")
	}
	if n := atomic.LoadInt32(&fetcher.calls); n != 2 {
		t.Errorf("fetcher called %d times, want 2", n)
	}
}

func TestExtractorDefaultTTL(t *testing.T) {
	ex := NewExtractor(&stubFetcher{}, 0)
	if ex.cache == nil {
		t.Fatal("cache not initialized")
	}
}
