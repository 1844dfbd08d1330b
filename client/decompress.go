package client

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

const acceptEncodings = "gzip, deflate, br"

type decompressedBody struct {
	io.Reader
	underlying io.Closer
	closer     io.Closer
}

func (b *decompressedBody) Close() error {
	if b.closer != nil {
		b.closer.Close()
	}
	return b.underlying.Close()
}

// decompressResponse swaps resp.Body for a reader that decodes the declared
// Content-Encoding. Identity responses pass through untouched.
func decompressResponse(resp *http.Response) error {
	encoding := resp.Header.Get("Content-Encoding")
	switch encoding {
	case "", "identity":
		return nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("gzip response: %w", err)
		}
		resp.Body = &decompressedBody{Reader: gz, underlying: resp.Body, closer: gz}
	case "deflate":
		fl := flate.NewReader(resp.Body)
		resp.Body = &decompressedBody{Reader: fl, underlying: resp.Body, closer: fl}
	case "br":
		resp.Body = &decompressedBody{Reader: brotli.NewReader(resp.Body), underlying: resp.Body}
	default:
		return fmt.Errorf("unsupported content encoding %q", encoding)
	}
	resp.Header.Del("Content-Encoding")
	resp.ContentLength = -1
	return nil
}
