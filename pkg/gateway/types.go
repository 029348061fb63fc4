package gateway

// Variant selects the output representation for a conversion.
type Variant string

const (
	// VariantMarkdown renders the page as a linear markdown document.
	VariantMarkdown Variant = "markdown"

	// VariantJSON renders the page as a structured JSON document with
	// title, content, and links.
	VariantJSON Variant = "json"
)

// ParseVariant validates a format query value. Empty input defaults
// to markdown; anything outside the enumerated set is a client error.
func ParseVariant(raw string) (Variant, error) {
	switch raw {
	case "", string(VariantMarkdown):
		return VariantMarkdown, nil
	case string(VariantJSON):
		return VariantJSON, nil
	default:
		return "", &Error{
			Kind:   KindInvalidURL,
			Detail: "Invalid format: must be 'markdown' or 'json'",
		}
	}
}

// ContentType returns the response media type for the variant.
func (v Variant) ContentType() string {
	if v == VariantJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Request describes one inbound conversion call. It is created per
// request and never mutated.
type Request struct {
	// RawURL is the undecoded path remainder naming the target URL.
	RawURL string

	// Variant is the requested output representation.
	Variant Variant

	// DirectIP is the transport-layer peer address.
	DirectIP string

	// ForwardedHeader is the raw Forwarded header value, if any.
	ForwardedHeader string
}

// Result is a successful conversion outcome.
type Result struct {
	// Payload is the serialized response body.
	Payload []byte

	// ContentType is the media type matching the variant.
	ContentType string

	// CacheHit reports whether the payload came from the cache.
	CacheHit bool
}
