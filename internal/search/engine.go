package search

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"partfinder/internal/adapter/store"
	"partfinder/internal/domain"
	"partfinder/internal/port"
)

var (
	// ErrEmbedderUnavailable reports that no embedding backend is
	// configured or reachable; the engine stays in degraded mode.
	ErrEmbedderUnavailable = errors.New("embedding backend unavailable")

	// ErrNoDocuments reports a build attempt over an empty document set.
	ErrNoDocuments = errors.New("no documents to index")
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.25

	defaultBrowseLimit = 20
	snippetLength      = 200
)

// Params tunes retrieval behavior.
type Params struct {
	TopK      int     // default result count for Search
	Threshold float64 // minimum similarity a hit must exceed
}

func DefaultParams() Params {
	return Params{TopK: DefaultTopK, Threshold: DefaultThreshold}
}

// Engine owns the semantic index over a document set and answers the three
// query shapes against it: free-text search, exact reference lookup, and
// category browse. Reads are safe for concurrent callers once Build has
// returned; Build itself is serialized per cache path by an advisory file
// lock.
type Engine struct {
	embedder port.Embedder
	cache    *store.IndexCache
	params   Params
	log      *slog.Logger

	mu      sync.RWMutex
	docs    []domain.SearchableDocument
	vectors [][]float32
}

func NewEngine(embedder port.Embedder, cache *store.IndexCache, params Params, log *slog.Logger) *Engine {
	if params.TopK <= 0 {
		params.TopK = DefaultTopK
	}
	if params.Threshold == 0 {
		params.Threshold = DefaultThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		embedder: embedder,
		cache:    cache,
		params:   params,
		log:      log,
	}
}

// Build indexes the document set, reusing the persisted index when its
// fingerprint matches. On any failure the previously built index, if one
// exists, stays in place.
func (e *Engine) Build(ctx context.Context, docs []domain.SearchableDocument) error {
	if len(docs) == 0 {
		return ErrNoDocuments
	}
	if e.embedder == nil {
		return ErrEmbedderUnavailable
	}

	lock := store.NewBuildLock(e.cache.Path())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	fp := Fingerprint(docs)

	if snap, ok := e.cache.Load(fp); ok {
		e.log.Info("loaded search index from cache",
			"documents", len(snap.Documents), "fingerprint", fp)
		e.install(snap.Documents, snap.Vectors)
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbedderUnavailable, err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}
	for _, v := range vectors {
		l2Normalize(v)
	}

	snap := &store.Snapshot{Fingerprint: fp, Documents: docs, Vectors: vectors}
	if err := e.cache.Save(snap); err != nil {
		// A write failure leaves a fully usable in-memory index; the next
		// run just pays the embedding cost again.
		e.log.Warn("failed to persist search index", "error", err)
	}

	e.install(docs, vectors)
	e.log.Info("search index built", "documents", len(docs), "dimension", e.embedder.Dimension())
	return nil
}

func (e *Engine) install(docs []domain.SearchableDocument, vectors [][]float32) {
	e.mu.Lock()
	e.docs = docs
	e.vectors = vectors
	e.mu.Unlock()
}

// Search answers a free-text query. A missing index, missing embedder or
// query-time embedding failure yields an empty result set, never an error;
// "no results" is a valid terminal answer and readiness is visible through
// Stats.
func (e *Engine) Search(ctx context.Context, query string, topK int, category string) []domain.SearchResult {
	e.mu.RLock()
	docs, vectors := e.docs, e.vectors
	e.mu.RUnlock()

	if len(docs) == 0 || e.embedder == nil {
		return nil
	}

	if topK <= 0 {
		topK = e.params.TopK
	}

	embedded, err := e.embedder.Embed(ctx, []string{query})
	if err != nil || len(embedded) == 0 {
		e.log.Warn("query embedding failed", "error", err)
		return nil
	}
	queryVec := embedded[0]
	l2Normalize(queryVec)

	// Over-fetch so that threshold and category filtering still leave
	// enough survivors.
	searchK := topK * 2
	if category != "" {
		searchK = topK * 3
	}
	if searchK > len(docs) {
		searchK = len(docs)
	}

	var results []domain.SearchResult
	for _, c := range topCandidates(vectors, queryVec, searchK) {
		if c.score <= e.params.Threshold {
			continue
		}
		doc := docs[c.index]
		if category != "" && !strings.EqualFold(doc.Metadata.Category, category) {
			continue
		}
		results = append(results, domain.SearchResult{
			Product:  doc.Product,
			Score:    c.score,
			Metadata: doc.Metadata,
			Snippet:  snippet(doc.Content),
		})
	}

	// Candidate order is score-descending already, but filtering must not
	// be trusted to preserve it.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// SearchByReference finds a product by exact, case-insensitive reference
// match. The score is fixed at 1.0.
func (e *Engine) SearchByReference(reference string) (domain.SearchResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, doc := range e.docs {
		if strings.EqualFold(doc.Metadata.Reference, reference) {
			return domain.SearchResult{
				Product:  doc.Product,
				Score:    1.0,
				Metadata: doc.Metadata,
				Snippet:  snippet(doc.Content),
			}, true
		}
	}
	return domain.SearchResult{}, false
}

// ProductsByCategory returns products of one category in index order, up to
// limit. Browse results are not relevance-ranked; every score is 1.0.
func (e *Engine) ProductsByCategory(category string, limit int) []domain.SearchResult {
	if limit <= 0 {
		limit = defaultBrowseLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []domain.SearchResult
	for _, doc := range e.docs {
		if !strings.EqualFold(doc.Metadata.Category, category) {
			continue
		}
		results = append(results, domain.SearchResult{
			Product:  doc.Product,
			Score:    1.0,
			Metadata: doc.Metadata,
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// Stats reports engine readiness and index composition.
func (e *Engine) Stats() domain.EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := domain.EngineStats{
		Ready:          len(e.docs) > 0 && e.embedder != nil,
		TotalDocuments: len(e.docs),
		IndexSize:      len(e.vectors),
		CacheExists:    e.cache != nil && e.cache.Exists(),
	}
	if e.embedder != nil {
		stats.Dimension = e.embedder.Dimension()
	}
	if len(e.docs) > 0 {
		stats.Categories = make(map[string]int)
		for _, doc := range e.docs {
			stats.Categories[doc.Metadata.Category]++
		}
	}
	return stats
}

// Fingerprint computes the cache-validity hash of a document set: document
// count plus the leading content of the first and last documents. Interior
// edits that leave those boundaries alone go undetected; that trade-off is
// accepted in exchange for never re-reading the full set, and a full rebuild
// can always be forced by deleting the cache file.
func Fingerprint(docs []domain.SearchableDocument) string {
	if len(docs) == 0 {
		return ""
	}

	input := fmt.Sprintf("%d%s%s",
		len(docs),
		leadingRunes(docs[0].Content, 100),
		leadingRunes(docs[len(docs)-1].Content, 100),
	)
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

func leadingRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}
