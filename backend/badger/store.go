package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/relevance/backend"
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
)

// Store is the BadgerDB reference backend. It persists documents per
// entity kind, maintains the corpus statistics BM25 needs, and executes
// compiled queries natively. Per-kind capability sets are configuration,
// so a Store can stand in for stores with narrower native support.
type Store struct {
	db       *badger.DB
	registry *schema.Registry
	logger   *slog.Logger
	caps     map[core.EntityKind]compile.Capabilities
}

var _ backend.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger used by the store and the underlying BadgerDB.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithCapabilities overrides the native capability set advertised for one
// entity kind.
func WithCapabilities(kind core.EntityKind, caps compile.Capabilities) Option {
	return func(s *Store) error {
		s.caps[kind] = caps
		return nil
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed store at the specified path, creating the
// directory if it doesn't exist. An empty path with inMemory set opens a
// transient store. Kinds with any full-text searchable field default to
// lexical capabilities; the rest default to vector capabilities.
func Open(filePath string, inMemory bool, registry *schema.Registry, opts ...Option) (*Store, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	store := &Store{
		registry: registry,
		logger:   slog.Default(),
		caps:     defaultCapabilities(registry),
	}
	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: store.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	store.db = db

	return store, nil
}

func defaultCapabilities(registry *schema.Registry) map[core.EntityKind]compile.Capabilities {
	caps := make(map[core.EntityKind]compile.Capabilities)
	for _, kind := range registry.Kinds() {
		sch, _ := registry.Schema(kind)
		lexical := false
		for _, name := range sch.FieldNames() {
			fd, _ := sch.Field(name)
			if fd.FullTextSearchable {
				lexical = true
				break
			}
		}
		if lexical {
			caps[kind] = compile.FullText()
		} else {
			caps[kind] = compile.Vector()
		}
	}
	return caps
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsClosed returns true if the database is closed.
func (s *Store) IsClosed() bool {
	return s.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Capabilities returns the native capability set for an entity kind.
// Unknown kinds advertise no native scoring.
func (s *Store) Capabilities(kind core.EntityKind) compile.Capabilities {
	if caps, ok := s.caps[kind]; ok {
		return caps
	}
	return compile.None()
}

// AddDocuments stores documents and folds them into the per-kind corpus
// statistics. Documents without an ID get a content-based one. A document
// whose ID already exists for its kind is rejected.
func (s *Store) AddDocuments(ctx context.Context, docs ...*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	statsByKind := make(map[core.EntityKind]*rank.Stats)

	err := s.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}
			if _, ok := s.registry.Schema(doc.Kind); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownKind, doc.Kind)
			}

			if doc.Id == 0 {
				doc.Id = core.IDFromContent(string(doc.Kind) + ":" + attrsJSON(doc.Attrs))
			}

			key := makeDocumentKey(doc.Kind, doc.Id)
			if _, err := tx.Get(key); err == nil {
				return fmt.Errorf("%w: %s/%d", ErrDuplicateDocument, doc.Kind, doc.Id)
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Set(key, MarshalDocument(doc)); err != nil {
				return err
			}

			stats, ok := statsByKind[doc.Kind]
			if !ok {
				var err error
				stats, err = readStats(tx, doc.Kind)
				if err != nil {
					return err
				}
				statsByKind[doc.Kind] = stats
			}
			stats.AddDocument(doc)
		}

		for kind, stats := range statsByKind {
			value, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			if err := tx.Set(makeStatsKey(kind), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Debug("added documents", "count", len(docs))
	return nil
}

// Documents returns every stored document of a kind in ascending ID
// order.
func (s *Store) Documents(ctx context.Context, kind core.EntityKind) ([]*core.Document, error) {
	if _, ok := s.registry.Schema(kind); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	var docs []*core.Document
	err := s.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(kind)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// SetVectors replaces the embedding vectors of existing documents.
// Attributes and corpus statistics are untouched, so this is safe to run
// while the store serves searches. Every referenced ID must exist.
func (s *Store) SetVectors(ctx context.Context, kind core.EntityKind, vectors map[core.ID][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	if _, ok := s.registry.Schema(kind); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	err := s.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := makeDocumentKey(kind, id)
			item, err := tx.Get(key)
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %s/%d", ErrDocumentNotFound, kind, id)
			}
			if err != nil {
				return err
			}

			var doc *core.Document
			err = item.Value(func(val []byte) error {
				var err error
				doc, err = UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}

			doc.Vector = vector
			if err := tx.Set(key, MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Debug("updated document vectors", "kind", kind, "count", len(vectors))
	return nil
}

// Search executes a compiled query. The filter is applied as a hard
// constraint except on vector searches, where it is advisory and the
// caller must post-filter. Native scores are the value of q.RankBy under
// the returned corpus statistics.
func (s *Store) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q == nil {
		return nil, fmt.Errorf("query cannot be nil")
	}
	if _, ok := s.registry.Schema(q.Kind); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, q.Kind)
	}

	advisory := len(q.Vector) > 0
	result := &backend.Result{FilterAdvisory: advisory}

	err := s.WithTx(func(tx *badger.Txn) error {
		stats, err := readStats(tx, q.Kind)
		if err != nil {
			return err
		}
		result.Stats = stats
		scorer := rank.NewScorer(stats)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(q.Kind)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}

			if advisory {
				injectSimilarity(doc, q.Vector)
			} else if !filter.Eval(q.Filter, doc) {
				continue
			}

			if q.RankBy != nil {
				if result.NativeScores == nil {
					result.NativeScores = make(map[core.ID]float64)
				}
				result.NativeScores[doc.Id] = scorer.Score(q.RankBy, doc)
			}
			result.Docs = append(result.Docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, backend.Classify(err)
	}

	// Keys iterate in ascending ID order, so the sort below only needs to
	// move scored documents; unscored candidates stay ID-ordered.
	if q.RankBy != nil {
		slices.SortStableFunc(result.Docs, func(a, b *core.Document) int {
			sa, sb := result.NativeScores[a.Id], result.NativeScores[b.Id]
			if sa > sb {
				return -1
			}
			if sa < sb {
				return 1
			}
			return 0
		})
	}
	if q.Limit > 0 && len(result.Docs) > q.Limit {
		result.Docs = result.Docs[:q.Limit]
	}

	return result, nil
}

// injectSimilarity surfaces the dot product of the query and document
// vectors under the reserved similarity attribute.
func injectSimilarity(doc *core.Document, vector []float32) {
	if doc.Attrs == nil {
		doc.Attrs = make(map[string]any)
	}
	doc.Attrs[rank.AttrSimilarity] = float64(dotProduct(vector, doc.Vector))
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func readStats(tx *badger.Txn, kind core.EntityKind) (*rank.Stats, error) {
	item, err := tx.Get(makeStatsKey(kind))
	if err == badger.ErrKeyNotFound {
		return rank.NewStats(), nil
	}
	if err != nil {
		return nil, err
	}

	stats := rank.NewStats()
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
