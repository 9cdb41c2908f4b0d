package httpcache

import (
	"net/http"
	"time"
)

// Response is the cached portion of an HTTP response: status, headers,
// and the fully buffered body. It is decoupled from http.Response so an
// entry can be replayed any number of times.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Clone returns a deep copy so callers can mutate headers or consume the
// body without touching the cached original.
func (r Response) Clone() Response {
	header := make(http.Header, len(r.Header))
	for k, v := range r.Header {
		header[k] = append([]string(nil), v...)
	}
	body := append([]byte(nil), r.Body...)
	return Response{StatusCode: r.StatusCode, Header: header, Body: body}
}

// IsSuccess reports whether the status is in the 2xx range. Only
// successful responses are ever stored; caching an auth or server
// failure would keep serving it for the full TTL.
func (r Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Entry is a single cached response. URL keeps the full
// url-with-query-params it was stored under; invalidation matches
// against it by substring.
type Entry struct {
	URL       string
	Response  Response
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer visible at now. An
// entry expires exactly at its deadline: a read at ExpiresAt behaves as
// a miss.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
