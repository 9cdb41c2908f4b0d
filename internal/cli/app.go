package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bytebank/ledgerkit/internal/api"
	"github.com/bytebank/ledgerkit/internal/config"
	"github.com/bytebank/ledgerkit/internal/httpcache"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/store"
)

type contextKey string

// configKey carries the loaded config through the command context.
const configKey contextKey = "ledgerkit-config"

// setConfig stores the loaded config in the command's context.
func setConfig(cmd *cobra.Command, cfg *config.Config) {
	cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
}

// getConfig retrieves the loaded config from the command's context.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// app bundles the wired data layer for one command invocation.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *store.Store
	facade *store.Facade
}

// newApp wires the response cache, its gate, the API client and the
// action pipeline from the loaded config.
func newApp(cmd *cobra.Command) *app {
	cfg := getConfig(cmd)

	cache := httpcache.NewStore(cfg.CacheTTL(), func() string {
		return cfg.Session.Token
	})
	gate := httpcache.NewGate(http.DefaultTransport, cache, cfg.Cache.ExcludedPaths, cfg.Cache.Enabled)

	httpClient := &http.Client{
		Transport: gate,
		Timeout:   cfg.Timeout(),
	}

	client := api.New(cfg.API.BaseURL, httpClient, api.Session{
		Token:  cfg.Session.Token,
		UserID: cfg.Session.UserID,
	})

	s := store.New(cmd.Context(), client)
	return &app{
		cfg:    cfg,
		client: client,
		store:  s,
		facade: store.NewFacade(s, client),
	}
}

// close shuts the pipeline down.
func (a *app) close() {
	a.store.Close()
}

// listParams builds statement paging parameters from config defaults and
// the given overrides.
func (a *app) listParams(page, limit int, sort, order string) ledger.ListParams {
	params := ledger.ListParams{
		Page:  page,
		Limit: limit,
		Sort:  sort,
		Order: order,
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = a.cfg.List.PageSize
	}
	if params.Sort == "" {
		params.Sort = a.cfg.List.SortField
	}
	if params.Order == "" {
		params.Order = a.cfg.List.SortOrder
	}
	return params
}
