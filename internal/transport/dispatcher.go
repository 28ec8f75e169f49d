// Package transport issues HTTP requests against a Solr base URL and
// classifies every failure into the client's unified error taxonomy.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/scrape"
)

// maxURLLen guards the request line against servlet container limits.
const maxURLLen = 8 << 10

// previewLen bounds the payload preview written to debug logs.
const previewLen = 10

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

// Dispatcher sends requests below one base URL. It holds no per-request
// state; concurrent Sends share only the HTTP client's connection pool.
type Dispatcher struct {
	base    string
	timeout time.Duration
	client  *http.Client
	log     *slog.Logger
}

// New creates a dispatcher. client may be nil for http.DefaultClient,
// log may be nil for no logging, timeout of zero disables the
// per-request deadline.
func New(base string, timeout time.Duration, client *http.Client, log *slog.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{base: base, timeout: timeout, client: client, log: log}
}

// JoinURL combines a base URL and a path with exactly one separating
// slash, whatever the slash situation on either side. An empty path
// returns the base unchanged.
func JoinURL(base, path string) string {
	if len(path) == 0 {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Send issues one request and returns the response body text. Failures
// come back as *domain.Error; the raw transport error never reaches the
// caller directly.
func (d *Dispatcher) Send(ctx context.Context, method, path string, body []byte, header http.Header) (string, error) {
	url := JoinURL(d.base, path)
	method = strings.ToUpper(method)

	if _, ok := allowedMethods[method]; !ok {
		return "", domain.NewUnknownMethod(method)
	}
	if u, err := neturl.Parse(url); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return "", domain.NewBadURL(url)
	}
	if len(url) > maxURLLen {
		return "", domain.NewURLTooLong(url)
	}

	d.log.Debug("starting request",
		"url", url, "method", method, "body_preview", preview(body))
	start := time.Now()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", domain.NewBadURL(url)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", classify(url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewConnectionFailure(url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason, detail := scrape.Scrape(resp.Header, data)
		serr := domain.NewHTTPStatus(resp.StatusCode, reason, detail)
		d.log.Error("request failed",
			"url", url, "method", method, "status", resp.StatusCode, "error", serr)
		return "", serr
	}

	d.log.Debug("finished request",
		"url", url, "method", method,
		"body_preview", preview(body), "elapsed", time.Since(start))
	return string(data), nil
}

// classify maps a transport failure onto the unified taxonomy by its
// error category, never by its message text.
func classify(url string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.NewDNSFailure(url, err)
	}
	return domain.NewConnectionFailure(url, err)
}

func preview(body []byte) string {
	if len(body) > previewLen {
		body = body[:previewLen]
	}
	return string(body)
}
