package solrdex

import (
	"context"
	"net/http"
	"reflect"
	"testing"
)

func TestSuggestTerms(t *testing.T) {
	var gotPath string
	var gotValues map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotValues = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"responseHeader": {"status": 0, "QTime": 2},
			"terms": {"color": ["red", 5, "blue", 3]}
		}`))
	})

	res, err := c.SuggestTerms(context.Background(), []string{"color"}, "", nil)
	if err != nil {
		t.Fatalf("SuggestTerms: %v", err)
	}
	if gotPath != "/solr/terms/" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gotValues["terms.fl"]; len(got) != 1 || got[0] != "color" {
		t.Errorf("terms.fl = %v", got)
	}
	want := map[string][]TermCount{
		"color": {{Term: "red", Count: 5}, {Term: "blue", Count: 3}},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("res = %v, want %v", res, want)
	}
}

// Older Solr versions return terms as a flat list alternating field name
// and value list rather than a map. Both shapes normalize identically.
func TestSuggestTerms_ListForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"responseHeader": {"status": 0, "QTime": 2},
			"terms": ["color", ["red", 5, "blue", 3]]
		}`))
	})

	res, err := c.SuggestTerms(context.Background(), []string{"color"}, "", nil)
	if err != nil {
		t.Fatalf("SuggestTerms: %v", err)
	}
	want := map[string][]TermCount{
		"color": {{Term: "red", Count: 5}, {Term: "blue", Count: 3}},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("res = %v, want %v", res, want)
	}
}

func TestSuggestTerms_MultipleFieldsAndPrefix(t *testing.T) {
	var gotValues map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotValues = r.URL.Query()
		_, _ = w.Write([]byte(`{"responseHeader": {"status": 0}, "terms": {}}`))
	})

	if _, err := c.SuggestTerms(context.Background(), []string{"color", "size"}, "re", nil); err != nil {
		t.Fatalf("SuggestTerms: %v", err)
	}
	if got := gotValues["terms.fl"]; len(got) != 2 {
		t.Errorf("terms.fl = %v", got)
	}
	if got := gotValues["terms.prefix"]; len(got) != 1 || got[0] != "re" {
		t.Errorf("terms.prefix = %v", got)
	}
}
