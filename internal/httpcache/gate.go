package httpcache

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/bytebank/ledgerkit/internal/logging"
)

// SkipHeader marks a request that must never interact with the read
// cache, regardless of its URL.
const SkipHeader = "X-Skip-Cache"

// cacheablePattern whitelists the read URLs eligible for caching. A GET
// outside these domain keywords always goes to the network.
var cacheablePattern = regexp.MustCompile(`(?i)api|account|transaction|balance`)

// Gate wraps an http.RoundTripper with the response cache. Reads are
// served from the store when a fresh entry exists; writes invalidate the
// entries they touch before their response reaches the caller.
type Gate struct {
	base     http.RoundTripper
	store    *Store
	excluded []string
	reads    bool
}

// NewGate builds a Gate over base (http.DefaultTransport when nil).
// excluded lists URL fragments bypassing the read cache; readCaching
// false disables serving and storing reads while keeping write
// invalidation active.
func NewGate(base http.RoundTripper, store *Store, excluded []string, readCaching bool) *Gate {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Gate{base: base, store: store, excluded: excluded, reads: readCaching}
}

// RoundTrip implements http.RoundTripper.
func (g *Gate) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return g.roundTripWrite(req)
	}
	return g.roundTripRead(req)
}

// roundTripWrite forwards a non-read request and, on a 2xx response,
// synchronously invalidates every cached entry referencing the target
// URL. The invalidation happens before the response is returned, so no
// stale read can be observed after the write is acknowledged.
func (g *Gate) roundTripWrite(req *http.Request) (*http.Response, error) {
	log := logging.FromContext(req.Context())

	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		target := urlWithoutQuery(req)
		removed := g.store.InvalidateURL(target)
		log.Debug().
			Str("component", "cache").
			Str("method", req.Method).
			Str("url", target).
			Int("invalidated", removed).
			Msg("cache invalidated after write")
	}

	return resp, nil
}

// roundTripRead applies, in order: bypass rules, cache lookup, forward
// and conditional store.
func (g *Gate) roundTripRead(req *http.Request) (*http.Response, error) {
	log := logging.FromContext(req.Context())
	url := req.URL.String()

	if req.Header.Get(SkipHeader) != "" || g.isExcluded(url) {
		log.Debug().Str("component", "cache").Str("url", url).Msg("cache bypass")
		return g.base.RoundTrip(req)
	}

	if !g.reads || !cacheablePattern.MatchString(url) {
		return g.base.RoundTrip(req)
	}

	if cached, ok := g.store.Get(req); ok {
		log.Debug().Str("component", "cache").Str("url", url).Msg("cache hit")
		return replay(req, cached), nil
	}
	log.Debug().Str("component", "cache").Str("url", url).Msg("cache miss")

	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Buffer the body so it can be both stored and handed to the caller.
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	stored := Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if stored.IsSuccess() {
		g.store.Set(req, stored)
		log.Debug().
			Str("component", "cache").
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("cache store")
	}

	return resp, nil
}

// isExcluded reports whether the URL contains any configured excluded
// fragment.
func (g *Gate) isExcluded(url string) bool {
	for _, p := range g.excluded {
		if p != "" && strings.Contains(url, p) {
			return true
		}
	}
	return false
}

// urlWithoutQuery renders the request URL with query and fragment
// stripped, the scope used for write invalidation.
func urlWithoutQuery(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// replay materializes a cached Response as an *http.Response for req.
func replay(req *http.Request, cached Response) *http.Response {
	return &http.Response{
		Status:        http.StatusText(cached.StatusCode),
		StatusCode:    cached.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        cached.Header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}
}
