package forwarded

import "strings"

// HeaderName is the canonical name of the RFC 7239 header.
const HeaderName = "Forwarded"

// Hop holds the directives of one forwarded element, keyed by
// lowercased directive name.
type Hop map[string]string

// Parse splits a Forwarded header into its hops. Hops are separated by
// commas, directives within a hop by semicolons, and each directive is
// split on its first "=". Directive names are trimmed and lowercased;
// fragments without "=" are skipped. Values of "for" and "by" have
// everything after the last colon removed, so "203.0.113.7:60677"
// becomes "203.0.113.7". Hops that yield no directives are dropped.
func Parse(header string) []Hop {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	var hops []Hop
	for _, element := range strings.Split(header, ",") {
		hop := Hop{}
		for _, pair := range strings.Split(element, ";") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			name = strings.ToLower(strings.TrimSpace(name))
			if (name == "for" || name == "by") && strings.Contains(value, ":") {
				value = value[:strings.LastIndex(value, ":")]
			}
			hop[name] = strings.TrimSpace(value)
		}
		if len(hop) > 0 {
			hops = append(hops, hop)
		}
	}
	return hops
}
