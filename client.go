package solrdex

import (
	"log/slog"
	"time"

	"github.com/kailas-cloud/solrdex/internal/transport"
)

const defaultTimeout = 60 * time.Second

// Client is the solrdex entry point, bound to one Solr core URL
// (e.g. http://localhost:8983/solr). It is safe for concurrent use:
// configuration is read-only after construction and every operation is
// independent of every other.
type Client struct {
	url      string
	dispatch *transport.Dispatcher
	decoder  Decoder
	results  ResultsFactory
	obs      *observer
	log      *slog.Logger
}

// New creates a client for the given base URL. No connection is made
// until the first operation.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	if cfg.decoder == nil {
		cfg.decoder = jsonDecoder{}
	}
	if cfg.resultsFn == nil {
		cfg.resultsFn = NewResults
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Client{
		url:      baseURL,
		dispatch: transport.New(baseURL, cfg.timeout, cfg.httpClient, cfg.logger),
		decoder:  cfg.decoder,
		results:  cfg.resultsFn,
		obs:      obs,
		log:      log,
	}, nil
}

// URL returns the configured base URL.
func (c *Client) URL() string {
	return c.url
}
