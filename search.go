package solrdex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxGetQueryLen is the boundary above which select queries switch from
// GET to a form-encoded POST, well under typical request line limits.
const maxGetQueryLen = 1024

// Search runs a query against the select handler and returns the
// decoded results.
//
// params carries any additional Solr parameters (fq, fl, hl, sort, rows,
// ...) and may be nil. Setting a default field with df is strongly
// recommended. See Query for a fluent alternative.
func (c *Client) Search(ctx context.Context, query string, params url.Values) (res *Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	p := cloneValues(params)
	p.Set("q", query)

	body, err := c.doSelect(ctx, p)
	if err != nil {
		return nil, err
	}
	decoded, err := c.decoder.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	res = c.results(decoded)
	c.log.Debug("search results", "hits", res.Hits)
	return res, nil
}

// MoreLikeThis finds documents similar to those matched by query, using
// the fields named in mltFields for similarity. Requires Solr's MLT
// handler to be enabled.
func (c *Client) MoreLikeThis(ctx context.Context, query, mltFields string, params url.Values) (res *Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("more_like_this", start, err) }()

	p := cloneValues(params)
	p.Set("q", query)
	p.Set("mlt.fl", mltFields)
	p.Set("wt", "json")

	body, err := c.dispatch.Send(ctx, http.MethodGet, "mlt/?"+encodeParams(p), nil, nil)
	if err != nil {
		return nil, err
	}
	decoded, err := c.decoder.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode mlt response: %w", err)
	}

	res = c.results(decoded)
	c.log.Debug("mlt results", "hits", res.Hits)
	return res, nil
}

// doSelect routes a select query: GET for typical query strings, POST
// with a form body once the encoding would overflow request line limits.
func (c *Client) doSelect(ctx context.Context, params url.Values) (string, error) {
	params.Set("wt", "json")
	encoded := encodeParams(params)

	if len(encoded) < maxGetQueryLen {
		return c.dispatch.Send(ctx, http.MethodGet, "select/?"+encoded, nil, nil)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	return c.dispatch.Send(ctx, http.MethodPost, "select/", []byte(encoded), header)
}

// encodeParams url-encodes params with deterministic key order.
func encodeParams(params url.Values) string {
	return params.Encode()
}

func cloneValues(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// joinFields renders a field list the way Solr's comma-separated
// parameters expect.
func joinFields(fields []string) string {
	return strings.Join(fields, ",")
}
