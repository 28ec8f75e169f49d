package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	solrdex "github.com/kailas-cloud/solrdex"
	"github.com/kailas-cloud/solrdex/internal/config"
	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
)

// gateway holds the handler dependencies.
type gateway struct {
	solr   *solrdex.Client
	admin  *solrdex.CoreAdmin
	cache  *searchCache
	cfg    config.SolrConfig
	logger *zap.Logger
}

type searchResponse struct {
	Hits           int              `json:"hits"`
	QTime          int              `json:"qtime"`
	Docs           []map[string]any `json:"docs"`
	Facets         map[string]any   `json:"facets,omitempty"`
	Highlighting   map[string]any   `json:"highlighting,omitempty"`
	NextCursorMark string           `json:"next_cursor_mark,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleSearch proxies GET /search?q=...&rows=...&start=...&fq=...&sort=...
// to the select handler. Responses are cached by their full parameter
// set when the cache is enabled.
func (g *gateway) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query parameter q is required")
		return
	}

	params := url.Values{}
	for _, fq := range r.URL.Query()["fq"] {
		params.Add("fq", fq)
	}
	if fl := r.URL.Query().Get("fl"); fl != "" {
		params.Set("fl", fl)
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		params.Set("sort", sort)
	}
	if start := r.URL.Query().Get("start"); start != "" {
		params.Set("start", start)
	}
	if cursor := r.URL.Query().Get("cursorMark"); cursor != "" {
		params.Set("cursorMark", cursor)
	}
	if g.cfg.DefaultField != "" {
		params.Set("df", g.cfg.DefaultField)
	}
	params.Set("rows", strconv.Itoa(g.rows(r)))
	params.Set("q", q)

	cacheKey := params.Encode()
	if cached, ok := g.cache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(cached)
		return
	}

	res, err := g.solr.Search(r.Context(), q, params)
	if err != nil {
		g.writeUpstreamError(w, r, err)
		return
	}

	payload, err := json.Marshal(searchResponse{
		Hits:           res.Hits,
		QTime:          res.QTime,
		Docs:           res.Docs,
		Facets:         nonEmpty(res.Facets),
		Highlighting:   nonEmpty(res.Highlighting),
		NextCursorMark: res.NextCursorMark,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "encode response")
		return
	}

	g.cache.Set(r.Context(), cacheKey, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(payload)
}

// handleTerms proxies GET /terms?fl=field&prefix=... to the terms handler.
func (g *gateway) handleTerms(w http.ResponseWriter, r *http.Request) {
	fields := r.URL.Query()["fl"]
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "query parameter fl is required")
		return
	}
	prefix := r.URL.Query().Get("prefix")

	terms, err := g.solr.SuggestTerms(r.Context(), fields, prefix, nil)
	if err != nil {
		g.writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"terms": terms})
}

// handleHealth reports gateway liveness. With an admin URL configured it
// also checks that Solr answers a core STATUS request.
func (g *gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	if g.admin != nil {
		if _, err := g.admin.Status(r.Context(), ""); err != nil {
			g.logger.Warn("health check: solr unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rows clamps the requested page size to the configured maximum.
func (g *gateway) rows(r *http.Request) int {
	rows := g.cfg.DefaultRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			rows = n
		}
	}
	if rows > g.cfg.MaxRows {
		rows = g.cfg.MaxRows
	}
	return rows
}

// writeUpstreamError maps client library failures onto gateway status
// codes: caller mistakes are 400, everything upstream is 502.
func (g *gateway) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, solrdex.ErrValidation) {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	logpkg.FromContext(r.Context()).Error("solr request failed", zap.Error(err))

	var serr *solrdex.Error
	if errors.As(err, &serr) {
		writeError(w, http.StatusBadGateway, "upstream_error", serr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_error", "solr request failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func nonEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
