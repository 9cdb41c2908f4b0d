package httpcache

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the lifetime of a cached response unless the caller
// overrides it.
const DefaultTTL = 60 * time.Second

// TokenSource supplies the caller-identity token mixed into every cache
// key. It is read at lookup time so a re-login immediately stops
// matching the previous user's entries.
type TokenSource func() string

// Store is the in-memory TTL response cache. All methods are safe for
// concurrent use; lookups, stores, and invalidation serialize behind one
// mutex so an invalidation can never interleave with a read and leak a
// stale entry.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	tokens  TokenSource

	// now is the clock; tests substitute it to drive expiry.
	now func() time.Time
}

// NewStore creates a Store with the given default TTL (DefaultTTL when
// ttl <= 0) and identity token source (may be nil when requests are
// unauthenticated).
func NewStore(ttl time.Duration, tokens TokenSource) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
		tokens:  tokens,
		now:     time.Now,
	}
}

// Key builds the cache fingerprint for a request:
// METHOD|url-with-query-params|identity-token.
func (s *Store) Key(req *http.Request) string {
	token := ""
	if s.tokens != nil {
		token = s.tokens()
	}
	return req.Method + "|" + req.URL.String() + "|" + token
}

// Get returns the cached response for req, if a non-expired entry
// exists. An expired entry is evicted on the spot and reported as a
// miss; a miss is a normal outcome, not an error.
func (s *Store) Get(req *http.Request) (Response, bool) {
	key := s.Key(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Response{}, false
	}
	if entry.Expired(s.now()) {
		delete(s.entries, key)
		return Response{}, false
	}
	return entry.Response.Clone(), true
}

// Set stores resp for req under the default TTL, overwriting any
// previous entry under the same key.
func (s *Store) Set(req *http.Request, resp Response) {
	s.SetWithTTL(req, resp, s.ttl)
}

// SetWithTTL stores resp for req with an explicit lifetime.
func (s *Store) SetWithTTL(req *http.Request, resp Response, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	key := s.Key(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		URL:       req.URL.String(),
		Response:  resp.Clone(),
		ExpiresAt: s.now().Add(ttl),
	}
}

// InvalidateURL removes every entry whose stored URL contains fragment
// as a substring and returns how many were dropped. The match is
// deliberately coarse: writing to a parent resource clears all cached
// list and detail variants derived from it.
func (s *Store) InvalidateURL(fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if strings.Contains(entry.URL, fragment) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Clear drops every entry. Called on logout so the next user starts
// from an empty cache.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// Len returns the current number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
