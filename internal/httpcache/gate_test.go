package httpcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateFixture wires a Gate in front of a counting test backend.
type gateFixture struct {
	server *httptest.Server
	store  *Store
	client *http.Client
	hits   *atomic.Int64
}

func newGateFixture(t *testing.T, handler http.HandlerFunc, excluded []string) *gateFixture {
	t.Helper()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	store := NewStore(time.Minute, func() string { return "tok" })
	gate := NewGate(server.Client().Transport, store, excluded, true)
	return &gateFixture{
		server: server,
		store:  store,
		client: &http.Client{Transport: gate},
		hits:   &hits,
	}
}

func (f *gateFixture) do(t *testing.T, method, path string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func jsonOK(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestGateServesSecondReadFromCache(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{"result":{"balance":42}}`)
	}, nil)

	first := f.do(t, http.MethodGet, "/account/balance", nil)
	assert.Equal(t, `{"result":{"balance":42}}`, readBody(t, first))

	second := f.do(t, http.MethodGet, "/account/balance", nil)
	assert.Equal(t, `{"result":{"balance":42}}`, readBody(t, second))
	assert.Equal(t, http.StatusOK, second.StatusCode)

	assert.Equal(t, int64(1), f.hits.Load(), "second read must be served from cache")
	assert.Equal(t, 1, f.store.Len())
}

func TestGateNonWhitelistedReadNotCached(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, nil)

	// No domain keyword in the URL: always forwarded.
	f.do(t, http.MethodGet, "/healthz", nil).Body.Close()
	f.do(t, http.MethodGet, "/healthz", nil).Body.Close()

	assert.Equal(t, int64(2), f.hits.Load())
	assert.Equal(t, 0, f.store.Len())
}

func TestGateSkipHeaderBypasses(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, nil)

	headers := map[string]string{SkipHeader: "1"}
	f.do(t, http.MethodGet, "/account/balance", headers).Body.Close()
	f.do(t, http.MethodGet, "/account/balance", headers).Body.Close()

	assert.Equal(t, int64(2), f.hits.Load())
	assert.Equal(t, 0, f.store.Len())
}

func TestGateExcludedPathBypasses(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, []string{"/account/transaction"})

	f.do(t, http.MethodGet, "/account/transaction/5", nil).Body.Close()
	f.do(t, http.MethodGet, "/account/transaction/5", nil).Body.Close()

	assert.Equal(t, int64(2), f.hits.Load())
	assert.Equal(t, 0, f.store.Len())
}

func TestGateNeverStoresErrors(t *testing.T) {
	var status atomic.Int64
	status.Store(http.StatusInternalServerError)
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
		jsonOK(w, `{}`)
	}, nil)

	errResp := f.do(t, http.MethodGet, "/account/balance", nil)
	errResp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, errResp.StatusCode)
	assert.Equal(t, 0, f.store.Len(), "5xx must not be cached")

	// Backend recovers; the next read must reach it, not a cached error.
	status.Store(http.StatusOK)
	okResp := f.do(t, http.MethodGet, "/account/balance", nil)
	okResp.Body.Close()
	assert.Equal(t, http.StatusOK, okResp.StatusCode)
	assert.Equal(t, int64(2), f.hits.Load())
	assert.Equal(t, 1, f.store.Len())
}

func TestGateWriteInvalidatesMatchingEntries(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, nil)

	// Prime the cache.
	f.do(t, http.MethodGet, "/account/balance", nil).Body.Close()
	require.Equal(t, 1, f.store.Len())

	// A write to the same resource drops the cached read before the
	// response is observed.
	f.do(t, http.MethodPost, "/account/balance", nil).Body.Close()
	assert.Equal(t, 0, f.store.Len())

	// The next read goes back to the network.
	f.do(t, http.MethodGet, "/account/balance", nil).Body.Close()
	assert.Equal(t, int64(3), f.hits.Load())
}

func TestGateWriteLeavesUnrelatedEntries(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, nil)

	f.do(t, http.MethodGet, "/account/balance", nil).Body.Close()
	require.Equal(t, 1, f.store.Len())

	f.do(t, http.MethodPost, "/api/session", nil).Body.Close()
	assert.Equal(t, 1, f.store.Len(), "write must only invalidate entries matching its URL")
}

func TestGateWriteNeverServedFromCache(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		jsonOK(w, `{}`)
	}, nil)

	f.do(t, http.MethodPost, "/account/transaction", nil).Body.Close()
	f.do(t, http.MethodPost, "/account/transaction", nil).Body.Close()

	assert.Equal(t, int64(2), f.hits.Load())
	assert.Equal(t, 0, f.store.Len())
}

func TestGateFailedWriteDoesNotInvalidate(t *testing.T) {
	var failWrites atomic.Bool
	failWrites.Store(true)
	f := newGateFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && failWrites.Load() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		jsonOK(w, `{}`)
	}, nil)

	f.do(t, http.MethodGet, "/account/balance", nil).Body.Close()
	require.Equal(t, 1, f.store.Len())

	resp := f.do(t, http.MethodPost, "/account/balance", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, f.store.Len(), "a rejected write acknowledges nothing, so nothing is invalidated")
}

func TestGateReadCachingDisabled(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		jsonOK(w, `{}`)
	}))
	defer server.Close()

	store := NewStore(time.Minute, nil)
	gate := NewGate(server.Client().Transport, store, nil, false)
	client := &http.Client{Transport: gate}

	for range 2 {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/account/balance", nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, int64(2), hits.Load())
	assert.Equal(t, 0, store.Len())
}
