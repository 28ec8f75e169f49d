package solrdex

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

const updateOK = `<response><lst name="responseHeader"><int name="status">0</int></lst></response>`

type capturedRequest struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
}

func newUpdateClient(t *testing.T, captured *capturedRequest) *Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		}
		_, _ = w.Write([]byte(updateOK))
	})
}

func TestAdd(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	doc := NewDocument().Set("id", "doc_1").Set("title", "A test document")
	if _, err := c.Add(context.Background(), []*Document{doc}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if req.method != http.MethodPost {
		t.Errorf("method = %q", req.method)
	}
	if req.path != "/solr/update/" {
		t.Errorf("path = %q", req.path)
	}
	if req.contentType != "text/xml; charset=utf-8" {
		t.Errorf("content type = %q", req.contentType)
	}
	if req.query != "commit=true" {
		t.Errorf("query = %q, want commit by default", req.query)
	}
	want := `<add><doc><field name="id">doc_1</field><field name="title">A test document</field></doc></add>`
	if req.body != want {
		t.Errorf("body = %q\nwant   %q", req.body, want)
	}
}

func TestAdd_SanitizesControlBytes(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	doc := NewDocument().Set("id", "doc_1").Set("title", "Haystack test \x00 document")
	if _, err := c.Add(context.Background(), []*Document{doc}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if strings.ContainsRune(req.body, 0x00) {
		t.Errorf("body still carries a control byte: %q", req.body)
	}
	if !strings.Contains(req.body, "Haystack test  document") {
		t.Errorf("body = %q", req.body)
	}
}

func TestAdd_Options(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	doc := NewDocument().Set("id", "doc_1").Set("views", 10)
	_, err := c.Add(context.Background(), []*Document{doc},
		WithSoftCommit(true),
		WithWaitSearcher(false),
		WithCommitWithin(5000),
		WithBoosts(map[string]float64{"id": 2}),
		WithFieldUpdates(map[string]string{"views": "inc"}),
	)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !strings.Contains(req.query, "softCommit=true") {
		t.Errorf("query = %q", req.query)
	}
	if strings.Contains(req.query, "commit=") && !strings.Contains(req.query, "softCommit=") {
		t.Errorf("hard commit emitted alongside soft commit: %q", req.query)
	}
	if !strings.Contains(req.query, "waitSearcher=false") {
		t.Errorf("query = %q", req.query)
	}
	if !strings.Contains(req.body, `<add commitWithin="5000">`) {
		t.Errorf("body = %q", req.body)
	}
	if !strings.Contains(req.body, `<field name="views" update="inc">10</field>`) {
		t.Errorf("body = %q", req.body)
	}
	if !strings.Contains(req.body, `boost="2"`) {
		t.Errorf("body = %q", req.body)
	}
}

func TestAdd_CommitWinsOverSoftCommit(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	doc := NewDocument().Set("id", "doc_1")
	if _, err := c.Add(context.Background(), []*Document{doc}, WithCommit(true), WithSoftCommit(true)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.Contains(req.query, "commit=true") || strings.Contains(req.query, "softCommit") {
		t.Errorf("query = %q, hard commit should take precedence", req.query)
	}
}

func TestDelete_ByID(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	if _, err := c.Delete(context.Background(), "doc_12", "", WithCommit(false)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if req.body != "<delete><id>doc_12</id></delete>" {
		t.Errorf("body = %q", req.body)
	}
	if req.query != "commit=false" {
		t.Errorf("query = %q", req.query)
	}
}

func TestDelete_ByQuery(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	if _, err := c.Delete(context.Background(), "", "price:[0 TO 15]"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if req.body != "<delete><query>price:[0 TO 15]</query></delete>" {
		t.Errorf("body = %q", req.body)
	}
}

func TestDelete_ArgumentValidation(t *testing.T) {
	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(updateOK))
	})

	if _, err := c.Delete(context.Background(), "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("neither argument: err = %v", err)
	}
	if _, err := c.Delete(context.Background(), "doc_12", "type:book"); !errors.Is(err, ErrValidation) {
		t.Errorf("both arguments: err = %v", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want none", requests)
	}
}

func TestCommit(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	if _, err := c.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if req.body != "<commit></commit>" {
		t.Errorf("body = %q", req.body)
	}
	if req.query != "" {
		t.Errorf("query = %q, want no commit vars on an explicit commit", req.query)
	}

	if _, err := c.Commit(context.Background(), WithExpungeDeletes(true)); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if req.body != `<commit expungeDeletes="true"></commit>` {
		t.Errorf("body = %q", req.body)
	}
}

func TestOptimize(t *testing.T) {
	var req capturedRequest
	c := newUpdateClient(t, &req)

	if _, err := c.Optimize(context.Background(), WithMaxSegments(4)); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if req.body != `<optimize maxSegments="4"></optimize>` {
		t.Errorf("body = %q", req.body)
	}
}

func TestExtract_NotImplemented(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("extract must not reach the server")
	})

	_, err := c.Extract(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("err = %v", err)
	}
}
