package solrdex

import (
	"context"
	"net/url"
	"strconv"
)

// QueryBuilder is a fluent builder for select queries. Build one with
// Client.Query; every method returns the builder for chaining and Do
// executes the search.
type QueryBuilder struct {
	client *Client
	query  string
	params url.Values
}

// Query starts a fluent search for q.
func (c *Client) Query(q string) *QueryBuilder {
	return &QueryBuilder{client: c, query: q, params: url.Values{}}
}

// Filter adds a filter query (fq). Repeatable; filters combine as AND.
func (b *QueryBuilder) Filter(fq string) *QueryBuilder {
	b.params.Add("fq", fq)
	return b
}

// Fields restricts the returned fields (fl).
func (b *QueryBuilder) Fields(fields ...string) *QueryBuilder {
	b.params.Set("fl", joinFields(fields))
	return b
}

// Sort sets the sort specification, e.g. "score desc, id asc".
func (b *QueryBuilder) Sort(spec string) *QueryBuilder {
	b.params.Set("sort", spec)
	return b
}

// Rows caps the number of returned documents.
func (b *QueryBuilder) Rows(n int) *QueryBuilder {
	b.params.Set("rows", strconv.Itoa(n))
	return b
}

// Start sets the result offset for pagination.
func (b *QueryBuilder) Start(n int) *QueryBuilder {
	b.params.Set("start", strconv.Itoa(n))
	return b
}

// DefaultField sets the default search field (df).
func (b *QueryBuilder) DefaultField(field string) *QueryBuilder {
	b.params.Set("df", field)
	return b
}

// Highlight enables highlighting on the given fields.
func (b *QueryBuilder) Highlight(fields ...string) *QueryBuilder {
	b.params.Set("hl", "true")
	if len(fields) > 0 {
		b.params.Set("hl.fl", joinFields(fields))
	}
	return b
}

// Facet enables faceting on the given fields.
func (b *QueryBuilder) Facet(fields ...string) *QueryBuilder {
	b.params.Set("facet", "true")
	for _, f := range fields {
		b.params.Add("facet.field", f)
	}
	return b
}

// Param sets an arbitrary Solr parameter for anything the builder does
// not cover.
func (b *QueryBuilder) Param(key, value string) *QueryBuilder {
	b.params.Set(key, value)
	return b
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (*Results, error) {
	return b.client.Search(ctx, b.query, b.params)
}
