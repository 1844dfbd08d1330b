package formats

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/DjDeveloperr/ytdl-core/errs"
	"github.com/DjDeveloperr/ytdl-core/internal/logger"
	"github.com/DjDeveloperr/ytdl-core/types"
	"github.com/DjDeveloperr/ytdl-core/youtube/cipher"
)

func flog() *logger.ComponentLogger { return logger.WithComponent(logger.ComponentFormat) }

// ResolveURL turns a raw format into one with a final, directly fetchable
// URL. Cipher-protected formats have their signature deciphered and written
// back under the parameter name the cipher blob dictates; URLs carrying an n
// parameter get the transformed value when n tokens are available. The rate
// limit bypass and alternate-host redirect flags are always set.
//
// A format whose signature cannot be deciphered is unusable; the returned
// error wraps errs.ErrCipherFailed and cipher.ErrNoTokens so callers can
// tell the condition apart from a malformed format.
func ResolveURL(f *types.Format, tokens cipher.Tokens) error {
	rawURL := f.URL
	sig, sp := "", "signature"

	if rawURL == "" {
		if f.SignatureCipher == "" {
			return fmt.Errorf("format %d has no url or signature cipher", f.Itag)
		}
		vals, err := url.ParseQuery(f.SignatureCipher)
		if err != nil {
			return fmt.Errorf("parse signature cipher for itag %d: %w", f.Itag, err)
		}
		rawURL = vals.Get("url")
		sig = vals.Get("s")
		if v := vals.Get("sp"); v != "" {
			sp = v
		}
		if rawURL == "" || sig == "" {
			return fmt.Errorf("signature cipher for itag %d is missing url or s", f.Itag)
		}
	}

	if sig != "" && len(tokens.Decipher) == 0 {
		return fmt.Errorf("itag %d: %w: %w", f.Itag, errs.ErrCipherFailed, cipher.ErrNoTokens)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url for itag %d: %w", f.Itag, err)
	}
	q := u.Query()
	if sig != "" {
		q.Set(sp, cipher.Apply(tokens.Decipher, sig))
	}
	if n := q.Get("n"); n != "" && len(tokens.NTransform) > 0 {
		q.Set("n", cipher.Apply(tokens.NTransform, n))
	}
	q.Set("ratebypass", "yes")
	if q.Get("alr") == "" {
		q.Set("alr", "yes")
	}
	u.RawQuery = q.Encode()

	f.URL = u.String()
	f.SignatureCipher = ""
	return nil
}

// Normalize resolves and enriches every format in raw. Formats that fail for
// a reason local to themselves, such as a malformed cipher blob, are dropped;
// a format that needed deciphering while no decipher tokens exist fails the
// whole batch, since every ciphered sibling would fail the same way.
func Normalize(raw []types.Format, tokens cipher.Tokens) ([]types.Format, error) {
	out := make([]types.Format, 0, len(raw))
	for _, f := range raw {
		if err := ResolveURL(&f, tokens); err != nil {
			if errors.Is(err, cipher.ErrNoTokens) {
				return nil, err
			}
			flog().Debug("dropping unresolvable format", map[string]interface{}{
				"itag":  f.Itag,
				"error": err.Error(),
			})
			continue
		}
		AddMeta(&f)
		out = append(out, f)
	}
	return out, nil
}
