// Package api implements the backend adapter: a typed HTTP client for
// the ledger REST surface. All requests go through the caller-provided
// http.Client, which is expected to carry the httpcache.Gate transport;
// this package itself knows nothing about caching.
//
// Response bodies arrive wrapped in a {"message", "result"} envelope and
// are decoded exactly once here; nothing above this boundary sees raw
// JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytebank/ledgerkit/internal/httpcache"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/logging"
)

// Session carries the opaque per-user credentials: the bearer token
// scoping cache keys and requests, and the owner ID scoping the
// statement listing. Both come from the authentication layer and are
// never interpreted here.
type Session struct {
	Token  string
	UserID string
}

// Client is the REST adapter for the ledger backend.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

// New creates a Client for the backend at baseURL. httpClient may be nil,
// in which case http.DefaultClient is used (tests mostly do this with an
// httptest server).
func New(baseURL string, httpClient *http.Client, session Session) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// envelope is the backend's uniform response wrapper.
type envelope[T any] struct {
	Message string `json:"message"`
	Result  T      `json:"result"`
}

// listResult is the wire shape of a statement page.
type listResult struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Pagination   ledger.Pagination    `json:"pagination"`
}

// balanceResult is the wire shape of the balance payload.
type balanceResult struct {
	Balance float64 `json:"balance"`
}

// suggestionsResult is the wire shape of the category suggestion payload.
type suggestionsResult struct {
	Suggestions []string `json:"suggestions"`
}

// ListTransactions fetches one page of the owner's statement.
func (c *Client) ListTransactions(ctx context.Context, params ledger.ListParams) (*ledger.PagedResult, error) {
	owner := params.OwnerID
	if owner == "" {
		owner = c.session.UserID
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("sort", params.Sort)
	query.Set("order", params.Order)

	target := fmt.Sprintf("%s/user/%s/statement?%s", c.baseURL, url.PathEscape(owner), query.Encode())
	result, err := doJSON[listResult](ctx, c, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, err
	}

	return &ledger.PagedResult{
		Items:      result.Transactions,
		Pagination: result.Pagination,
	}, nil
}

// CreateTransaction posts a new transaction and returns the record as
// the backend stored it, server-assigned ID included.
func (c *Client) CreateTransaction(ctx context.Context, tx ledger.Transaction) (*ledger.Transaction, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}

	target := c.baseURL + "/account/transaction"
	created, err := doJSON[ledger.Transaction](ctx, c, http.MethodPost, target, bytes.NewReader(body), jsonHeader())
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction applies a partial update to the transaction with the
// given ID.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, patch ledger.TransactionPatch) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encoding transaction patch: %w", err)
	}

	target := fmt.Sprintf("%s/account/transaction/%d", c.baseURL, id)
	_, err = doJSON[json.RawMessage](ctx, c, http.MethodPut, target, bytes.NewReader(body), jsonHeader())
	return err
}

// DeleteTransaction removes the transaction with the given ID.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	target := fmt.Sprintf("%s/account/transaction/%d", c.baseURL, id)
	_, err := doJSON[json.RawMessage](ctx, c, http.MethodDelete, target, nil, nil)
	return err
}

// UploadAttachment sends file as a multipart upload attached to the
// transaction with the given ID.
func (c *Client) UploadAttachment(ctx context.Context, id int64, file ledger.File) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}

	target := fmt.Sprintf("%s/account/transaction/%d/attachment", c.baseURL, id)
	headers := http.Header{}
	headers.Set("Content-Type", writer.FormDataContentType())
	_, err = doJSON[json.RawMessage](ctx, c, http.MethodPost, target, &buf, headers)
	return err
}

// DownloadAttachment fetches the binary content of a stored attachment.
// Binary payloads are never cached, so the request carries the cache
// skip marker.
func (c *Client) DownloadAttachment(ctx context.Context, filename string) ([]byte, error) {
	target := c.baseURL + "/attachment/" + url.PathEscape(filename)
	req, err := c.newRequest(ctx, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(httpcache.SkipHeader, "1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading attachment %s: %w", filename, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{StatusCode: resp.StatusCode, URL: target}
	}
	return io.ReadAll(resp.Body)
}

// GetBalance fetches the current account balance. The balance is always
// replaced wholesale by the caller, never patched.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	target := c.baseURL + "/account/balance"
	result, err := doJSON[balanceResult](ctx, c, http.MethodGet, target, nil, nil)
	if err != nil {
		return 0, err
	}
	return result.Balance, nil
}

// GetCategorySuggestions asks the backend for category suggestions
// matching a description and transaction type.
func (c *Client) GetCategorySuggestions(
	ctx context.Context,
	description string,
	txType ledger.TransactionType,
) ([]string, error) {
	query := url.Values{}
	query.Set("description", description)
	query.Set("type", string(txType))

	target := c.baseURL + "/account/category-suggestions?" + query.Encode()
	result, err := doJSON[suggestionsResult](ctx, c, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, err
	}
	return result.Suggestions, nil
}

// newRequest builds a request with the session bearer token attached.
func (c *Client) newRequest(
	ctx context.Context,
	method, target string,
	body io.Reader,
	headers http.Header,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	return req, nil
}

// doJSON performs a request and decodes the enveloped result into T.
// Non-2xx responses become *Error with the backend message when one is
// present.
func doJSON[T any](
	ctx context.Context,
	c *Client,
	method, target string,
	body io.Reader,
	headers http.Header,
) (T, error) {
	var zero T

	req, err := c.newRequest(ctx, method, target, body, headers)
	if err != nil {
		return zero, err
	}

	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "api").
		Str("method", method).
		Str("url", target).
		Msg("backend request")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("reading response for %s: %w", target, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &Error{StatusCode: resp.StatusCode, URL: target}
		var env envelope[json.RawMessage]
		if json.Unmarshal(payload, &env) == nil {
			apiErr.Message = env.Message
		}
		return zero, apiErr
	}

	if len(payload) == 0 {
		return zero, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(payload, &env); err != nil {
		return zero, fmt.Errorf("decoding response for %s: %w", target, err)
	}
	return env.Result, nil
}

// jsonHeader returns the Content-Type header for JSON request bodies.
func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}
