// Package compile turns declarative filter and projection expressions into
// executable processor artifacts, and caches row-oriented artifacts so that
// structurally identical expression sets compiled in different invocations
// are compiled at most once.
package compile

import (
	"errors"
	"slices"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vireodb/vireo/pkg/expr"
)

// Params holds the dependencies and configuration of a [Compiler].
type Params struct {
	Config

	// Logger for compile events. If nil, a no-op logger is used.
	Logger log.Logger
	// Registerer to register compiler metrics with. May be nil.
	Registerer prometheus.Registerer

	// CursorBackend generates row-oriented artifacts. Required.
	CursorBackend CursorBackend
	// PageBackend generates column-oriented artifacts. Required.
	PageBackend PageBackend
}

func (p *Params) validate() error {
	if p.Logger == nil {
		p.Logger = log.NewNopLogger()
	}
	if p.CursorBackend == nil {
		return errors.New("compile: cursor backend is required")
	}
	if p.PageBackend == nil {
		return errors.New("compile: page backend is required")
	}
	return nil
}

// Compiler compiles filter and projection expressions into processor
// factories. It owns the artifact cache: callers share one Compiler per
// process (or per isolation domain) rather than a global. A Compiler is
// safe for concurrent use.
type Compiler struct {
	logger log.Logger

	cursor  CursorBackend
	page    PageBackend
	cache   *artifactCache
	metrics *metrics
}

// New creates a new Compiler.
func New(params Params) (*Compiler, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	cache, err := newArtifactCache(params.MaxCacheEntries)
	if err != nil {
		return nil, err
	}

	return &Compiler{
		logger:  params.Logger,
		cursor:  params.CursorBackend,
		page:    params.PageBackend,
		cache:   cache,
		metrics: newMetrics(params.Registerer, cache),
	}, nil
}

// CompileCursorProcessor resolves or compiles the row-oriented artifact for
// the given filter and projections and returns a factory producing
// independent processor instances from it.
//
// A nil filter is treated as the constant TRUE predicate: projections still
// run and no rows are filtered out. The discriminator forces distinct cache
// entries for structurally identical expression sets; like a map key, it
// must be comparable, and it is compared with Go equality.
//
// Concurrent calls with equal keys block on a single compilation and
// observe the same artifact or the same *CompileError.
func (c *Compiler) CompileCursorProcessor(filter expr.Expression, projections []expr.Expression, discriminator any) (*CursorProcessorFactory, error) {
	filter = normalizeFilter(filter)
	projections = slices.Clone(projections)
	key := newCacheKey(filter, projections, discriminator)

	artifact, err := c.cache.getOrCompile(key, func() (CursorArtifact, error) {
		start := time.Now()
		artifact, genErr := c.cursor.GenerateCursorProcessor(filter, projections)
		duration := time.Since(start)

		c.metrics.compileSeconds.WithLabelValues(modelCursor).Observe(duration.Seconds())
		if genErr != nil {
			c.metrics.compilationsTotal.WithLabelValues(modelCursor, statusError).Inc()
			level.Warn(c.logger).Log("msg", "cursor processor compilation failed", "key", key.fingerprint(), "err", genErr)
			return nil, newCompileError(filter, projections, genErr)
		}

		c.metrics.compilationsTotal.WithLabelValues(modelCursor, statusSuccess).Inc()
		level.Debug(c.logger).Log("msg", "compiled cursor processor", "key", key.fingerprint(), "duration", duration)
		return artifact, nil
	})
	if err != nil {
		return nil, err
	}

	return &CursorProcessorFactory{artifact: artifact}, nil
}

// CompilePageProcessor compiles the filter (if present) into one column
// filter artifact and each projection into one column projection artifact,
// eagerly and independently, and returns a factory composing fresh
// instances of them into page processors.
//
// Page artifacts are not cached: they are cheaper and more granular than
// row artifacts and are reused through the returned factory, which the
// caller retains. Any single generation failure aborts the whole call with
// a *CompileError.
func (c *Compiler) CompilePageProcessor(filter expr.Expression, projections []expr.Expression) (*PageProcessorFactory, error) {
	projections = slices.Clone(projections)

	factory := &PageProcessorFactory{
		projections: make([]PageProjectionArtifact, len(projections)),
	}

	start := time.Now()

	var g errgroup.Group
	if filter != nil {
		g.Go(func() error {
			artifact, err := c.page.GeneratePageFilter(filter)
			if err != nil {
				return err
			}
			factory.filter = artifact
			return nil
		})
	}
	for i, projection := range projections {
		g.Go(func() error {
			artifact, err := c.page.GeneratePageProjection(projection)
			if err != nil {
				return err
			}
			factory.projections[i] = artifact
			return nil
		})
	}

	err := g.Wait()
	duration := time.Since(start)
	c.metrics.compileSeconds.WithLabelValues(modelPage).Observe(duration.Seconds())

	if err != nil {
		c.metrics.compilationsTotal.WithLabelValues(modelPage, statusError).Inc()
		level.Warn(c.logger).Log("msg", "page processor compilation failed", "err", err)
		return nil, newCompileError(filter, projections, err)
	}

	c.metrics.compilationsTotal.WithLabelValues(modelPage, statusSuccess).Inc()
	level.Debug(c.logger).Log("msg", "compiled page processor", "projections", len(projections), "duration", duration)
	return factory, nil
}

// CacheStats returns a snapshot of the cumulative artifact cache counters.
func (c *Compiler) CacheStats() CacheStats {
	return c.cache.stats()
}

// CacheLen returns the current number of cached artifacts.
func (c *Compiler) CacheLen() int {
	return c.cache.len()
}

// normalizeFilter replaces an absent filter with the constant TRUE
// predicate, so keying and generation always see a total predicate.
func normalizeFilter(filter expr.Expression) expr.Expression {
	if filter == nil {
		return expr.NewLiteral(true)
	}
	return filter
}
