package solrdex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/transport"
)

// CoreAdmin drives Solr's core admin handler (usually
// http://host:8983/solr/admin/cores): status, create, reload, rename,
// swap and unload. Each operation is a plain action-to-querystring
// mapping; responses come back as the raw body text.
type CoreAdmin struct {
	url      string
	dispatch *transport.Dispatcher
}

// NewCoreAdmin creates a core admin client for the given handler URL.
// Accepts the same options as New; decoder and results options are
// irrelevant here and ignored.
func NewCoreAdmin(adminURL string, opts ...Option) *CoreAdmin {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	return &CoreAdmin{
		url:      adminURL,
		dispatch: transport.New(adminURL, cfg.timeout, cfg.httpClient, cfg.logger),
	}
}

// Status reports core status. An empty core name reports all cores.
func (a *CoreAdmin) Status(ctx context.Context, core string) (string, error) {
	params := url.Values{"action": {"STATUS"}}
	if core != "" {
		params.Set("core", core)
	}
	return a.send(ctx, params)
}

// Create registers a new core. Empty instanceDir defaults to the core
// name; empty config and schema default to solrconfig.xml and schema.xml.
func (a *CoreAdmin) Create(ctx context.Context, name, instanceDir, config, schema string) (string, error) {
	if instanceDir == "" {
		instanceDir = name
	}
	if config == "" {
		config = "solrconfig.xml"
	}
	if schema == "" {
		schema = "schema.xml"
	}
	return a.send(ctx, url.Values{
		"action":      {"CREATE"},
		"name":        {name},
		"instanceDir": {instanceDir},
		"config":      {config},
		"schema":      {schema},
	})
}

// Reload reloads a core, picking up config and schema changes.
func (a *CoreAdmin) Reload(ctx context.Context, core string) (string, error) {
	return a.send(ctx, url.Values{"action": {"RELOAD"}, "core": {core}})
}

// Rename renames a core.
func (a *CoreAdmin) Rename(ctx context.Context, core, other string) (string, error) {
	return a.send(ctx, url.Values{"action": {"RENAME"}, "core": {core}, "other": {other}})
}

// Swap atomically swaps two cores.
func (a *CoreAdmin) Swap(ctx context.Context, core, other string) (string, error) {
	return a.send(ctx, url.Values{"action": {"SWAP"}, "core": {core}, "other": {other}})
}

// Unload removes a core from the running server.
func (a *CoreAdmin) Unload(ctx context.Context, core string) (string, error) {
	return a.send(ctx, url.Values{"action": {"UNLOAD"}, "core": {core}})
}

// Load is unsupported by the core admin handler.
func (a *CoreAdmin) Load(ctx context.Context, core string) (string, error) {
	return "", fmt.Errorf("core admin load: %w", domain.ErrNotImplemented)
}

func (a *CoreAdmin) send(ctx context.Context, params url.Values) (string, error) {
	return a.dispatch.Send(ctx, http.MethodGet, "?"+params.Encode(), nil, nil)
}
