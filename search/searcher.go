package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/relevance/backend"
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
)

const (
	// DefaultLimit caps the result set when the request does not.
	DefaultLimit = 10

	// DefaultTimeout bounds one backend round trip when the request does
	// not.
	DefaultTimeout = 2 * time.Second
)

// Request describes one search: an entity kind, optional query text and
// embedding, an optional filter, and an optional ranking expression. A nil
// RankBy selects the kind's built-in formula.
type Request struct {
	Kind   core.EntityKind
	Query  string
	Filter *filter.Node
	RankBy *rank.Expr
	Vector []float32
	Limit  int

	// Timeout bounds the backend round trip. On expiry the search fails
	// with a retryable backend timeout; no partial results are returned.
	Timeout time.Duration
}

// Searcher executes ranked, filtered searches against one backend. It
// normalizes the filter, compiles the ranking expression against the
// backend's capabilities, and evaluates whatever could not be pushed down
// over the candidate set. Safe for concurrent use.
type Searcher struct {
	backend  backend.Backend
	registry *schema.Registry
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithPoolSize sets the worker pool size for client-side scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(b backend.Backend, registry *schema.Registry, opts ...Option) (*Searcher, error) {
	if b == nil {
		return nil, ErrBackendRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		backend:  b,
		registry: registry,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release frees the scoring pool. The searcher falls back to inline
// scoring afterwards, so in-flight searches still complete.
func (s *Searcher) Release() {
	s.pool.Release()
}

// Search executes a request and returns up to Limit results ordered by
// descending score, ties broken by ascending document ID.
func (s *Searcher) Search(ctx context.Context, req *Request) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor executes a request with monitoring. The monitor
// receives callbacks at each stage of query execution.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req *Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if req == nil {
		return nil, ErrNilRequest
	}

	monitor.Start(req.Kind, req.Query)

	sch, ok := s.registry.Schema(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// 1. Normalize the filter against the kind's schema.
	var node *filter.Node
	if req.Filter != nil {
		var err error
		node, err = filter.Normalize(req.Filter, sch)
		if err != nil {
			s.logger.Error("filter rejected", "kind", req.Kind, "err", err)
			return nil, err
		}
		monitor.AfterNormalize(node)
	}

	// 2. Resolve and validate the ranking expression.
	expr := req.RankBy
	if expr == nil {
		expr = rank.DefaultExpression(req.Kind, req.Query)
	} else if err := rank.Validate(expr, sch); err != nil {
		s.logger.Error("expression rejected", "kind", req.Kind, "err", err)
		return nil, err
	}

	// 3. Compile against the backend's native capabilities.
	compiled := compile.Expression(expr, s.backend.Capabilities(req.Kind))
	monitor.AfterCompile(compiled)

	// 4. Execute the native portion. The backend limit is only safe when
	// native ordering is already final: any residual scoring or advisory
	// filtering can reorder or drop candidates, so those scans stay
	// unbounded and the cap is applied after full scoring.
	backendLimit := 0
	if compiled.FullyNative() && len(req.Vector) == 0 {
		backendLimit = limit
	}

	searchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.backend.Search(searchCtx, &backend.Query{
		Kind:   req.Kind,
		Filter: node,
		RankBy: compiled.Native,
		Vector: req.Vector,
		Limit:  backendLimit,
	})
	if err != nil {
		err = backend.Classify(err)
		s.logger.Error("backend search failed", "kind", req.Kind, "err", err)
		return nil, err
	}
	monitor.AfterBackendSearch(len(res.Docs), res.FilterAdvisory)

	// 5. Re-check the filter when the backend only treated it as a hint.
	docs := res.Docs
	if res.FilterAdvisory && node != nil {
		kept := docs[:0:len(docs)]
		for _, doc := range docs {
			if filter.Eval(node, doc) {
				kept = append(kept, doc)
			}
		}
		docs = kept
		monitor.AfterPostFilter(len(docs))
	}

	// 6. Score the residual over the candidates, under the backend's
	// corpus statistics when it supplied them.
	stats := res.Stats
	if stats == nil {
		stats = rank.StatsFromDocuments(docs)
	}
	results := s.scoreCandidates(docs, res.NativeScores, compiled, stats)

	// 7. Final ordering: score descending, document ID ascending on ties.
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Document.Id < b.Document.Id {
			return -1
		}
		if a.Document.Id > b.Document.Id {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}

	monitor.Finish(results)
	return results, nil
}

// scoreCandidates combines native and residual scores for every candidate.
// Documents score independently, so the work fans out over the pool.
func (s *Searcher) scoreCandidates(docs []*core.Document, native map[core.ID]float64, compiled *compile.CompiledQuery, stats *rank.Stats) []*core.SearchResult {
	results := make([]*core.SearchResult, len(docs))
	scorer := rank.NewScorer(stats)

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			nativeScore := native[doc.Id]
			var residual float64
			if compiled.Residual != nil {
				residual = scorer.Score(compiled.Residual, doc)
			}
			results[i] = &core.SearchResult{
				Document:    doc,
				NativeScore: nativeScore,
				Score:       compiled.Combine(nativeScore, residual),
			}
		}
		if err := s.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return results
}
