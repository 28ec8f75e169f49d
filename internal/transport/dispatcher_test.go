package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/solrdex/internal/domain"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://host/solr/", "select/?q=*", "http://host/solr/select/?q=*"},
		{"http://host/solr", "select/?q=*", "http://host/solr/select/?q=*"},
		{"http://host/solr/", "/select/?q=*", "http://host/solr/select/?q=*"},
		{"http://host/solr", "/select/?q=*", "http://host/solr/select/?q=*"},
		{"http://host/solr/", "", "http://host/solr/"},
		{"http://host/solr", "", "http://host/solr"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestSend_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/select/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"responseHeader":{"status":0}}`))
	}))
	defer ts.Close()

	d := New(ts.URL, 0, nil, nil)
	body, err := d.Send(context.Background(), "get", "select/", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "responseHeader") {
		t.Errorf("body = %q", body)
	}
}

func TestSend_PostBodyAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/xml; charset=utf-8" {
			t.Errorf("content type = %q", ct)
		}
	}))
	defer ts.Close()

	d := New(ts.URL, 0, nil, nil)
	header := http.Header{}
	header.Set("Content-Type", "text/xml; charset=utf-8")
	if _, err := d.Send(context.Background(), "POST", "update/", []byte("<commit></commit>"), header); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSend_UnknownMethod(t *testing.T) {
	d := New("http://localhost:8983/solr", 0, nil, nil)
	_, err := d.Send(context.Background(), "FETCH", "select/", nil, nil)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindUnknownMethod {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(derr.Message, "FETCH") {
		t.Errorf("message does not name the method: %q", derr.Message)
	}
}

func TestSend_MissingScheme(t *testing.T) {
	for _, base := range []string{"", "localhost:8983/solr", "ftp://host/solr"} {
		d := New(base, 0, nil, nil)
		_, err := d.Send(context.Background(), "GET", "select/", nil, nil)

		var derr *domain.Error
		if !errors.As(err, &derr) || derr.Kind != domain.KindBadURL {
			t.Fatalf("base %q: err = %v", base, err)
		}
	}
}

func TestSend_URLTooLong(t *testing.T) {
	d := New("http://localhost:8983/solr", 0, nil, nil)
	path := "select/?q=" + strings.Repeat("x", maxURLLen)
	_, err := d.Send(context.Background(), "GET", path, nil, nil)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindURLTooLong {
		t.Fatalf("err = %v", err)
	}
}

func TestSend_NonOKStatusScraped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "Jetty(9.4.14)")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<html><body><pre>Problem accessing /solr/select. Reason: bad request</pre></body></html>`))
	}))
	defer ts.Close()

	d := New(ts.URL, 0, nil, nil)
	_, err := d.Send(context.Background(), "GET", "select/", nil, nil)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindHTTPStatus {
		t.Fatalf("err = %v", err)
	}
	if derr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", derr.StatusCode)
	}
	if !strings.Contains(derr.Message, "Problem accessing /solr/select") {
		t.Errorf("message lacks scraped reason: %q", derr.Message)
	}
}

func TestSend_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	d := New(ts.URL, 0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := d.Send(ctx, "GET", "select/", nil, nil)
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindConnection {
		t.Fatalf("err = %v", err)
	}
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	d := New(ts.URL, 30*time.Millisecond, nil, nil)
	_, err := d.Send(context.Background(), "GET", "select/", nil, nil)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindConnection {
		t.Fatalf("err = %v", err)
	}
}

func TestClassify(t *testing.T) {
	dns := &net.DNSError{Err: "no such host", Name: "sorl.example"}
	err := classify("http://sorl.example/solr", dns)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindDNS {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(derr.Message, "http://sorl.example/solr") {
		t.Errorf("message lacks URL: %q", derr.Message)
	}
	if !errors.Is(err, dns) {
		t.Error("cause not unwrappable")
	}

	err = classify("http://host/solr", errors.New("broken pipe"))
	if !errors.As(err, &derr) || derr.Kind != domain.KindConnection {
		t.Fatalf("err = %v", err)
	}
}
