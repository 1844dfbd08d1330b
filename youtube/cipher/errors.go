package cipher

import "errors"

// ErrNoTokens is returned by callers that require a signature transform when
// extraction produced none for the script in hand.
var ErrNoTokens = errors.New("could not extract cipher functions")
