package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"partfinder/config"
	"partfinder/internal/adapter/embedding"
	"partfinder/internal/adapter/extractor"
	"partfinder/internal/adapter/purchases"
	"partfinder/internal/adapter/responder"
	"partfinder/internal/adapter/source"
	"partfinder/internal/adapter/store"
	"partfinder/internal/domain"
	"partfinder/internal/port"
	"partfinder/internal/recommend"
	"partfinder/internal/search"
)

// Status describes what the session can currently do. Degraded capabilities
// show up here instead of as errors on the query path.
type Status struct {
	Initialized              bool   `json:"initialized"`
	ProductsLoaded           int    `json:"products_loaded"`
	CatalogsProcessed        int    `json:"catalogs_processed"`
	SearchReady              bool   `json:"search_ready"`
	RecommendationsAvailable bool   `json:"recommendations_available"`
	ResponderModel           string `json:"responder_model"`
	Warnings                 []string `json:"warnings,omitempty"`
}

// Session owns the pipeline components for one running instance: extracted
// products, the search engine, the recommender and the responder. It is
// constructed once at startup and passed to whatever serves queries.
type Session struct {
	cfg *config.Config
	log *slog.Logger

	products    []domain.Product
	engine      *search.Engine
	recommender *recommend.Recommender
	query       *QueryUseCase

	initialized bool
	warnings    []string
}

func NewSession(cfg *config.Config, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{cfg: cfg, log: log}
}

// Init runs the full pipeline: catalog ingest, index build, purchase-data
// load and responder selection. Degraded capabilities are recorded as
// warnings; Init only fails when nothing at all could be set up.
func (s *Session) Init(ctx context.Context, progress func(processed, total int)) error {
	ingest := NewIngestUseCase(source.NewTextSource(), extractor.NewHeuristic())

	catalogs := make([]Catalog, len(s.cfg.Catalogs))
	for i, c := range s.cfg.Catalogs {
		catalogs[i] = Catalog{Name: c.Name, Category: c.Category, Path: c.Path}
	}

	result, err := ingest.Ingest(ctx, catalogs, progress)
	if err != nil {
		return fmt.Errorf("catalog ingest failed: %w", err)
	}
	s.products = result.Products
	s.warnings = append(s.warnings, result.Errors...)
	s.log.Info("catalogs processed",
		"catalogs", len(catalogs), "pages", result.PagesProcessed, "products", len(s.products))

	embedder := s.buildEmbedder()
	s.engine = search.NewEngine(
		embedder,
		store.NewIndexCache(s.cfg.IndexCachePath()),
		search.Params{TopK: s.cfg.Search.TopK, Threshold: s.cfg.Search.SimilarityThreshold},
		s.log,
	)

	if docs := domain.BuildDocuments(s.products); len(docs) > 0 {
		if err := s.engine.Build(ctx, docs); err != nil {
			s.degrade(fmt.Sprintf("search disabled: %v", err))
		}
	}

	s.recommender = recommend.NewRecommender(recommend.Params{
		TopN:     s.cfg.Recommend.TopN,
		MinScore: s.cfg.Recommend.MinScore,
	})
	if table, err := purchases.ReadFile(s.cfg.Data.PurchasesFile); err != nil {
		s.degrade(fmt.Sprintf("recommendations disabled: %v", err))
	} else if err := s.recommender.Load(table); err != nil {
		s.degrade(fmt.Sprintf("recommendations disabled: %v", err))
	}

	enhanced := s.buildResponder()
	s.query = NewQueryUseCase(s.engine, s.recommender, enhanced, responder.NewTemplateResponder(), s.products, s.log)

	s.initialized = true
	return nil
}

func (s *Session) buildEmbedder() port.Embedder {
	cfg := s.cfg.Embedding
	switch cfg.Provider {
	case "openai":
		embedder, err := embedding.NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BatchSize)
		if err != nil {
			s.degrade(fmt.Sprintf("embedder unavailable: %v", err))
			return nil
		}
		return embedder
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Model, cfg.BaseURL, cfg.BatchSize)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimension)
	default:
		s.degrade(fmt.Sprintf("unsupported embedding provider: %s", cfg.Provider))
		return nil
	}
}

func (s *Session) buildResponder() port.Responder {
	if s.cfg.Responder.Provider != "openai" {
		return nil
	}
	enhanced, err := responder.NewOpenAIResponder(s.cfg.Responder.APIKeyEnv, s.cfg.Responder.Model)
	if err != nil {
		s.degrade(fmt.Sprintf("AI responses disabled: %v", err))
		return nil
	}
	return enhanced
}

func (s *Session) degrade(msg string) {
	s.warnings = append(s.warnings, msg)
	s.log.Warn(msg)
}

// Process answers one customer query.
func (s *Session) Process(ctx context.Context, query string) *QueryResult {
	return s.query.Process(ctx, query)
}

// Engine exposes the retrieval engine for direct search commands.
func (s *Session) Engine() *search.Engine {
	return s.engine
}

// Recommender exposes the association recommender.
func (s *Session) Recommender() *recommend.Recommender {
	return s.recommender
}

// Products returns the extracted product set in extraction order.
func (s *Session) Products() []domain.Product {
	return s.products
}

// Status reports session readiness and degraded capabilities.
func (s *Session) Status() Status {
	status := Status{
		Initialized:              s.initialized,
		ProductsLoaded:           len(s.products),
		CatalogsProcessed:        len(s.cfg.Catalogs),
		RecommendationsAvailable: s.recommender != nil && s.recommender.Ready(),
		ResponderModel:           "template",
		Warnings:                 s.warnings,
	}
	if s.engine != nil {
		status.SearchReady = s.engine.Stats().Ready
	}
	if s.query != nil && s.query.responder != nil {
		status.ResponderModel = s.query.responder.ModelName()
	}
	return status
}

// Close tears the session down. Components hold no open handles between
// operations today, so this only marks the session unusable.
func (s *Session) Close() {
	s.initialized = false
	s.products = nil
	s.engine = nil
	s.recommender = nil
	s.query = nil
}
