package solrdex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kailas-cloud/solrdex/internal/codec"
)

// SuggestTerms returns term completions for a prefix, keyed by field
// name. Requires Solr's terms component.
//
// The terms response format changed between Solr versions: 1.x returns a
// flat alternating list ["field", [...]], later versions a map
// {"field": [...]}. Both normalize to the same result shape.
func (c *Client) SuggestTerms(ctx context.Context, fields []string, prefix string, params url.Values) (res map[string][]TermCount, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest_terms", start, err) }()

	p := cloneValues(params)
	for _, f := range fields {
		p.Add("terms.fl", f)
	}
	p.Set("terms.prefix", prefix)
	p.Set("wt", "json")

	body, err := c.dispatch.Send(ctx, http.MethodGet, "terms/?"+encodeParams(p), nil, nil)
	if err != nil {
		return nil, err
	}
	decoded, err := c.decoder.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode terms response: %w", err)
	}

	res = normalizeTerms(decoded["terms"])

	total := 0
	for _, pairs := range res {
		total += len(pairs)
	}
	c.log.Debug("term suggestions", "total", total)
	return res, nil
}

// normalizeTerms folds both wire forms of the terms section into
// field -> ordered (term, count) pairs.
func normalizeTerms(raw any) map[string][]TermCount {
	res := map[string][]TermCount{}

	switch terms := raw.(type) {
	case []any:
		for i := 0; i+1 < len(terms); i += 2 {
			name, ok := terms[i].(string)
			if !ok {
				continue
			}
			values, _ := terms[i+1].([]any)
			res[name] = termPairs(values)
		}
	case map[string]any:
		for name, v := range terms {
			values, _ := v.([]any)
			res[name] = termPairs(values)
		}
	}
	return res
}

// termPairs converts a flat [term, count, term, count, ...] sequence.
// Terms pass through the value codec since the wire carries them
// untyped.
func termPairs(values []any) []TermCount {
	pairs := make([]TermCount, 0, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		term := fmt.Sprintf("%v", codec.Decode(values[i]))
		count := 0
		switch n := values[i+1].(type) {
		case float64:
			count = int(n)
		case int:
			count = n
		case int64:
			count = int(n)
		}
		pairs = append(pairs, TermCount{Term: term, Count: count})
	}
	return pairs
}
