package solrdex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	decoder    Decoder
	resultsFn  ResultsFactory

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithTimeout sets the per-request timeout. Default: 60s. Zero disables
// the deadline; context cancellation still applies.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient supplies the underlying HTTP client, for callers that
// manage their own transport (connection pool, TLS, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithDecoder replaces the JSON decoder used on read paths.
func WithDecoder(d Decoder) Option {
	return optionFunc(func(c *clientConfig) {
		c.decoder = d
	})
}

// WithResultsFactory replaces the constructor for search result views.
func WithResultsFactory(f ResultsFactory) Option {
	return optionFunc(func(c *clientConfig) {
		c.resultsFn = f
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
