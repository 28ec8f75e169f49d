package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	solrdex "github.com/kailas-cloud/solrdex"
	"github.com/kailas-cloud/solrdex/internal/config"
)

func newTestGateway(t *testing.T, upstream http.HandlerFunc) *gateway {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	solr, err := solrdex.New(ts.URL + "/solr/core0")
	if err != nil {
		t.Fatalf("solrdex.New: %v", err)
	}

	return &gateway{
		solr: solr,
		cfg: config.SolrConfig{
			URL:         ts.URL + "/solr/core0",
			DefaultRows: 10,
			MaxRows:     50,
		},
		logger: zap.NewNop(),
	}
}

func TestHandleSearch(t *testing.T) {
	var gotQuery map[string][]string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"responseHeader": {"status": 0, "QTime": 3},
			"response": {"numFound": 1, "start": 0, "docs": [{"id": "1", "title": "one"}]}
		}`))
	})

	req := httptest.NewRequest("GET", "/search?q=title:one&rows=5&fq=lang:en", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleSearch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := gotQuery["rows"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("rows = %v", got)
	}
	if got := gotQuery["fq"]; len(got) != 1 || got[0] != "lang:en" {
		t.Errorf("fq = %v", got)
	}

	var resp searchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Hits != 1 || resp.QTime != 3 || len(resp.Docs) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	req := httptest.NewRequest("GET", "/search", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleSearch(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestHandleSearch_RowsClamped(t *testing.T) {
	var gotRows string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotRows = r.URL.Query().Get("rows")
		_, _ = w.Write([]byte(`{"responseHeader": {"status": 0}, "response": {"numFound": 0, "docs": []}}`))
	})

	req := httptest.NewRequest("GET", "/search?q=*:*&rows=9999", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleSearch(rr, req)

	if gotRows != "50" {
		t.Errorf("rows = %q, want clamped to max", gotRows)
	}
}

func TestHandleSearch_UpstreamError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<?xml version="1.0"?><response><lst name="error"><str name="msg">badly broken</str></lst></response>`))
	})

	req := httptest.NewRequest("GET", "/search?q=*:*", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleSearch(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "upstream_error" {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestHandleTerms(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseHeader": {"status": 0}, "terms": {"color": ["red", 5]}}`))
	})

	req := httptest.NewRequest("GET", "/terms?fl=color", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleTerms(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Terms map[string][]struct {
			Term  string `json:"Term"`
			Count int    `json:"Count"`
		} `json:"terms"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Terms["color"]) != 1 || resp.Terms["color"][0].Term != "red" {
		t.Errorf("terms = %v", resp.Terms)
	}
}

func TestHandleTerms_MissingField(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	req := httptest.NewRequest("GET", "/terms", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleTerms(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestHandleHealth_NoAdmin(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	gw.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	handler := bearerAuthMiddleware([]string{"secret"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/search", "", http.StatusUnauthorized},
		{"wrong scheme", "/search", "Basic secret", http.StatusUnauthorized},
		{"bad key", "/search", "Bearer nope", http.StatusUnauthorized},
		{"good key", "/search", "Bearer secret", http.StatusOK},
		{"health exempt", "/healthz", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestBearerAuthMiddleware_Disabled(t *testing.T) {
	handler := bearerAuthMiddleware(nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest("GET", "/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}
