package gateway

import (
	"net/url"
	"strings"
)

// CleanURL percent-decodes a raw path remainder and validates it as
// an absolute HTTP(S) URL. The decoded string is returned as given,
// not re-serialized, so it doubles as the cache key input.
func CleanURL(raw string) (string, *Error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Detail: "Invalid URL format", Cause: err}
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Detail: "Invalid URL format", Cause: err}
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{Kind: KindInvalidURL, Detail: "Invalid URL format"}
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", &Error{Kind: KindInvalidURL, Detail: "Only HTTP(S) URLs are supported"}
	}

	// The transport matches schemes case-sensitively.
	if scheme := decoded[:len(parsed.Scheme)]; scheme != strings.ToLower(scheme) {
		decoded = strings.ToLower(scheme) + decoded[len(parsed.Scheme):]
	}

	return decoded, nil
}
