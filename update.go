package solrdex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/solrdex/internal/codec"
	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/xmlmsg"
)

// UpdateOption configures one update operation (Add, Delete, Commit,
// Optimize). Options not applicable to an operation are ignored.
type UpdateOption interface {
	applyUpdate(*updateConfig)
}

type updateOptionFunc func(*updateConfig)

func (f updateOptionFunc) applyUpdate(c *updateConfig) { f(c) }

type updateConfig struct {
	commit         *bool
	softCommit     *bool
	waitFlush      *bool
	waitSearcher   *bool
	commitWithin   int
	expungeDeletes *bool
	maxSegments    int

	boosts       map[string]float64
	fieldUpdates map[string]string
	noSanitize   bool
}

// WithCommit controls the commit flag on the update URL. Add and Delete
// default to an immediate commit; pass false to defer it.
func WithCommit(commit bool) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.commit = &commit })
}

// WithSoftCommit requests a soft commit instead of a hard one. Only
// emitted when WithCommit is not set; an explicit commit flag wins.
func WithSoftCommit(soft bool) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.softCommit = &soft })
}

// WithWaitFlush makes Solr block until index changes are flushed to disk.
func WithWaitFlush(wait bool) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.waitFlush = &wait })
}

// WithWaitSearcher makes Solr block until a new searcher is opened.
func WithWaitSearcher(wait bool) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.waitSearcher = &wait })
}

// WithCommitWithin asks Solr to commit within the given number of
// milliseconds (the commitWithin attribute on the add envelope).
func WithCommitWithin(ms int) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.commitWithin = ms })
}

// WithExpungeDeletes asks a commit to merge away deleted documents.
func WithExpungeDeletes(expunge bool) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.expungeDeletes = &expunge })
}

// WithMaxSegments caps the segment count for Optimize.
func WithMaxSegments(n int) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.maxSegments = n })
}

// WithBoosts applies per-field index-time boosts by field name.
func WithBoosts(boosts map[string]float64) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.boosts = boosts })
}

// WithFieldUpdates marks fields for atomic update ("set", "add", "inc")
// instead of full document replacement.
func WithFieldUpdates(updates map[string]string) UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.fieldUpdates = updates })
}

// WithoutSanitize skips the control-character sweep over the outgoing
// payload. Only for callers certain their data is already XML-clean.
func WithoutSanitize() UpdateOption {
	return updateOptionFunc(func(c *updateConfig) { c.noSanitize = true })
}

func buildUpdateConfig(opts []UpdateOption) *updateConfig {
	cfg := &updateConfig{}
	for _, o := range opts {
		o.applyUpdate(cfg)
	}
	return cfg
}

// Add indexes or replaces documents and returns Solr's raw response
// body. Commits immediately unless configured otherwise.
func (c *Client) Add(ctx context.Context, docs []*Document, opts ...UpdateOption) (body string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add", start, err) }()

	cfg := buildUpdateConfig(opts)
	if cfg.commit == nil && cfg.softCommit == nil {
		commit := true
		cfg.commit = &commit
	}

	buildStart := time.Now()
	message, err := xmlmsg.BuildAdd(docs, cfg.boosts, cfg.fieldUpdates, cfg.commitWithin)
	if err != nil {
		return "", err
	}
	c.log.Debug("built add request",
		"docs", len(docs), "build_time", time.Since(buildStart))

	return c.doUpdate(ctx, message, cfg)
}

// Delete removes documents by id or by query — exactly one must be
// given. Commits immediately unless configured otherwise.
func (c *Client) Delete(ctx context.Context, id, query string, opts ...UpdateOption) (body string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	if (id == "") == (query == "") {
		return "", fmt.Errorf("delete: specify exactly one of id and query: %w", domain.ErrValidation)
	}

	cfg := buildUpdateConfig(opts)
	if cfg.commit == nil && cfg.softCommit == nil {
		commit := true
		cfg.commit = &commit
	}

	message, err := xmlmsg.BuildDelete(id, query)
	if err != nil {
		return "", err
	}
	return c.doUpdate(ctx, message, cfg)
}

// Commit forces Solr to write pending index changes.
func (c *Client) Commit(ctx context.Context, opts ...UpdateOption) (body string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("commit", start, err) }()

	cfg := buildUpdateConfig(opts)
	message, err := xmlmsg.BuildCommit(cfg.expungeDeletes)
	if err != nil {
		return "", err
	}
	return c.doUpdate(ctx, message, cfg)
}

// Optimize asks Solr to merge index segments, essentially a
// defragmentation pass.
func (c *Client) Optimize(ctx context.Context, opts ...UpdateOption) (body string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("optimize", start, err) }()

	cfg := buildUpdateConfig(opts)
	message, err := xmlmsg.BuildOptimize(cfg.maxSegments)
	if err != nil {
		return "", err
	}
	return c.doUpdate(ctx, message, cfg)
}

// Extract would post a file to Solr's ExtractingRequestHandler for Tika
// content extraction. Not implemented.
func (c *Client) Extract(ctx context.Context, filename string, r io.Reader, opts ...UpdateOption) (string, error) {
	return "", fmt.Errorf("extract: %w", domain.ErrNotImplemented)
}

// doUpdate posts an XML envelope to the update handler, sanitized by
// default so stray control characters cannot break Solr's XML parse.
func (c *Client) doUpdate(ctx context.Context, message string, cfg *updateConfig) (string, error) {
	path := "update/"
	if qs := updateQuery(cfg); qs != "" {
		path += "?" + qs
	}

	if !cfg.noSanitize {
		message = codec.Sanitize(message)
	}

	header := http.Header{}
	header.Set("Content-Type", "text/xml; charset=utf-8")
	return c.dispatch.Send(ctx, http.MethodPost, path, []byte(message), header)
}

// updateQuery renders the commit-control query variables. An explicit
// commit flag suppresses softCommit, mirroring Solr's own precedence.
func updateQuery(cfg *updateConfig) string {
	var vars []string
	if cfg.commit != nil {
		vars = append(vars, "commit="+strconv.FormatBool(*cfg.commit))
	} else if cfg.softCommit != nil {
		vars = append(vars, "softCommit="+strconv.FormatBool(*cfg.softCommit))
	}
	if cfg.waitFlush != nil {
		vars = append(vars, "waitFlush="+strconv.FormatBool(*cfg.waitFlush))
	}
	if cfg.waitSearcher != nil {
		vars = append(vars, "waitSearcher="+strconv.FormatBool(*cfg.waitSearcher))
	}
	return strings.Join(vars, "&")
}
