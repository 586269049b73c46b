package feed

import (
	"net/url"
	"strings"
)

// Tracking parameters stripped during canonicalization, besides the utm_
// prefix family.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"mc_eid": true,
}

// Normalize canonicalizes an article URL so identical articles compare equal
// regardless of query-string noise: tracking parameters are removed and a
// single trailing slash is stripped from a non-root path. The input is
// returned unchanged when it does not parse as an absolute URL. Normalize is
// idempotent.
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return raw
	}

	query := u.Query()
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), "utm_") || trackingParams[key] {
			query.Del(key)
		}
	}
	u.RawQuery = query.Encode()

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	}

	return u.String()
}
