// Package httpcache provides the in-memory TTL response cache that sits
// in front of every backend call, plus the Gate, an http.RoundTripper
// that decides per request whether to bypass, serve from cache, or
// forward and store.
//
// Cache keys are METHOD|url-with-query|identity-token, so responses are
// never shared across users within one process. Write requests
// invalidate every entry whose URL contains the written resource's URL,
// before the write's response is handed back to the caller.
package httpcache
