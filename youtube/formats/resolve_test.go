package formats

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/types"
	"github.com/DjDeveloperr/ytdl-core/youtube/cipher"
)

var testTokens = cipher.Tokens{
	Decipher:   []cipher.Token{{Op: cipher.OpReverse}},
	NTransform: []cipher.Token{{Op: cipher.OpSwap, Arg: 1}},
}

func TestResolveURLFromCipher(t *testing.T) {
	blob := url.Values{
		"s":   {"abc"},
		"sp":  {"sig"},
		"url": {"https://host/videoplayback?id=1"},
	}.Encode()
	f := types.Format{Itag: 137, SignatureCipher: blob}

	if err := ResolveURL(&f, testTokens); err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	u, err := url.Parse(f.URL)
	if err != nil {
		t.Fatalf("parse resolved url: %v", err)
	}
	q := u.Query()
	if got := q.Get("sig"); got != "cba" {
		t.Errorf("sig = %q, want deciphered %q", got, "cba")
	}
	if q.Get("ratebypass") != "yes" || q.Get("alr") != "yes" {
		t.Errorf("bypass flags not set: %s", f.URL)
	}
	if f.SignatureCipher != "" {
		t.Error("cipher blob should be cleared after resolution")
	}
}

func TestResolveURLDefaultSignatureParam(t *testing.T) {
	blob := url.Values{
		"s":   {"xy"},
		"url": {"https://host/videoplayback?id=2"},
	}.Encode()
	f := types.Format{Itag: 18, SignatureCipher: blob}

	if err := ResolveURL(&f, testTokens); err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if !strings.Contains(f.URL, "signature=yx") {
		t.Errorf("default signature param missing: %s", f.URL)
	}
}

func TestResolveURLNTransform(t *testing.T) {
	f := types.Format{Itag: 251, URL: "https://host/videoplayback?n=ab&id=3"}

	if err := ResolveURL(&f, testTokens); err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	u, _ := url.Parse(f.URL)
	if got := u.Query().Get("n"); got != "ba" {
		t.Errorf("n = %q, want transformed %q", got, "ba")
	}
}

func TestResolveURLMissingTokens(t *testing.T) {
	blob := url.Values{
		"s":   {"abc"},
		"url": {"https://host/videoplayback?id=4"},
	}.Encode()
	f := types.Format{Itag: 137, SignatureCipher: blob}

	err := ResolveURL(&f, cipher.Tokens{})
	if !errors.Is(err, cipher.ErrNoTokens) {
		t.Fatalf("want ErrNoTokens, got %v", err)
	}
}

func TestResolveURLPlainWithoutNTokens(t *testing.T) {
	// A plain URL resolves even when no tokens exist; the n parameter is
	// left as shipped.
	f := types.Format{Itag: 18, URL: "https://host/videoplayback?n=ab"}
	if err := ResolveURL(&f, cipher.Tokens{}); err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	u, _ := url.Parse(f.URL)
	if got := u.Query().Get("n"); got != "ab" {
		t.Errorf("n = %q, should be untouched without tokens", got)
	}
}

func TestResolveURLErrors(t *testing.T) {
	tests := []struct {
		name string
		f    types.Format
	}{
		{"empty format", types.Format{Itag: 1}},
		{"cipher missing url", types.Format{Itag: 2, SignatureCipher: "s=abc"}},
		{"cipher missing s", types.Format{Itag: 3, SignatureCipher: "url=https%3A%2F%2Fhost%2Fv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ResolveURL(&tt.f, testTokens); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := []types.Format{
		{Itag: 18, URL: "https://host/videoplayback?id=a"},
		{Itag: 137, SignatureCipher: "s=abc&url=https%3A%2F%2Fhost%2Fvideoplayback%3Fid%3Db"},
	}

	got, err := Normalize(raw, testTokens)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("with tokens both formats should survive, got %d", len(got))
	}
	for _, f := range got {
		if f.URL == "" || f.SignatureCipher != "" {
			t.Errorf("format %d not fully resolved: %+v", f.Itag, f)
		}
		if f.Container == "" {
			t.Errorf("format %d missing derived meta", f.Itag)
		}
	}
}

func TestNormalizeFailsWithoutDecipherTokens(t *testing.T) {
	raw := []types.Format{
		{Itag: 18, URL: "https://host/videoplayback?id=a"},
		{Itag: 137, SignatureCipher: "s=abc&url=https%3A%2F%2Fhost%2Fvideoplayback%3Fid%3Db"},
	}

	_, err := Normalize(raw, cipher.Tokens{})
	if !errors.Is(err, cipher.ErrNoTokens) {
		t.Fatalf("want ErrNoTokens, got %v", err)
	}
	if !errors.Is(err, errs.ErrCipherFailed) {
		t.Fatalf("want ErrCipherFailed in the chain, got %v", err)
	}
}

func TestNormalizeDropsMalformed(t *testing.T) {
	raw := []types.Format{
		{Itag: 18, URL: "https://host/videoplayback?id=a"},
		{Itag: 2, SignatureCipher: "s=abc"},
	}

	got, err := Normalize(raw, testTokens)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 1 || got[0].Itag != 18 {
		t.Fatalf("want only the plain-url format to survive, got %+v", got)
	}
}
