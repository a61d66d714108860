package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/shirtsearch/internal/catalog"
	"github.com/utafrali/shirtsearch/internal/domain"
	"github.com/utafrali/shirtsearch/internal/engine"
	"github.com/utafrali/shirtsearch/internal/engine/memory"
	apperrors "github.com/utafrali/shirtsearch/pkg/errors"
	"github.com/utafrali/shirtsearch/pkg/logger"
	"github.com/utafrali/shirtsearch/pkg/tracing"
)

const tracerName = "github.com/utafrali/shirtsearch/internal/service"

// CatalogInfo describes a published catalog snapshot.
type CatalogInfo struct {
	Version     uint64    `json:"version"`
	Shirts      int       `json:"shirts"`
	PublishedAt time.Time `json:"published_at"`
}

type snapshot struct {
	engine engine.SearchEngine
	info   CatalogInfo
}

// SearchService serves searches from the most recently published catalog.
// Publishing builds a fresh engine and swaps it in; searches already running
// finish against the snapshot they started with.
type SearchService struct {
	current atomic.Pointer[snapshot]
	version atomic.Uint64
	source  catalog.Source
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewSearchService creates a search service. source may be nil when catalogs
// only arrive through Publish.
func NewSearchService(source catalog.Source, logger *slog.Logger) *SearchService {
	return &SearchService{
		source: source,
		tracer: tracing.Tracer(tracerName),
		logger: logger,
	}
}

// Search runs opts against the current catalog.
func (s *SearchService) Search(ctx context.Context, opts *domain.SearchOptions) (*domain.SearchResults, error) {
	ctx, span := s.tracer.Start(ctx, "SearchService.Search")
	defer span.End()

	snap := s.current.Load()
	if snap == nil {
		searchesTotal.WithLabelValues(outcomeUnavailable).Inc()
		span.SetStatus(codes.Error, "catalog not published")
		return nil, apperrors.Unavailable("catalog has not been published yet")
	}
	span.SetAttributes(attribute.Int64("catalog.version", int64(snap.info.Version)))

	if opts != nil {
		span.SetAttributes(
			attribute.Int("search.sizes", len(opts.Sizes)),
			attribute.Int("search.colors", len(opts.Colors)),
		)
	}

	result, err := snap.engine.Search(ctx, opts)
	if err != nil {
		outcome := outcomeError
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			outcome = outcomeInvalid
		}
		searchesTotal.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("search: %w", err)
	}

	searchesTotal.WithLabelValues(outcomeOK).Inc()
	searchMatches.Observe(float64(len(result.Shirts)))
	span.SetAttributes(attribute.Int("search.matches", len(result.Shirts)))

	logger.WithContext(ctx, s.logger).DebugContext(ctx, "search executed",
		slog.Uint64("catalog_version", snap.info.Version),
		slog.Int("sizes", len(opts.Sizes)),
		slog.Int("colors", len(opts.Colors)),
		slog.Int("matches", len(result.Shirts)),
	)

	return result, nil
}

// Publish makes shirts the current catalog. The slice is copied; callers
// are expected to have validated it.
func (s *SearchService) Publish(ctx context.Context, shirts []domain.Shirt) CatalogInfo {
	snap := &snapshot{
		engine: memory.New(shirts),
		info: CatalogInfo{
			Version:     s.version.Add(1),
			Shirts:      len(shirts),
			PublishedAt: time.Now().UTC(),
		},
	}
	s.current.Store(snap)

	catalogShirts.Set(float64(len(shirts)))
	catalogPublishes.Inc()

	s.logger.InfoContext(ctx, "catalog published",
		slog.Uint64("version", snap.info.Version),
		slog.Int("shirts", len(shirts)),
	)

	return snap.info
}

// Reload loads a catalog from the configured source and publishes it. On
// failure the current catalog stays in place.
func (s *SearchService) Reload(ctx context.Context) (CatalogInfo, error) {
	if s.source == nil {
		return CatalogInfo{}, apperrors.Unavailable("no catalog source configured")
	}

	ctx, span := s.tracer.Start(ctx, "SearchService.Reload")
	defer span.End()

	shirts, err := s.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CatalogInfo{}, fmt.Errorf("reload catalog: %w", err)
	}

	return s.Publish(ctx, shirts), nil
}

// Universe returns every size and color a search can filter on.
func (s *SearchService) Universe() domain.Universe {
	return domain.FacetUniverse()
}

// CatalogSize returns the number of shirts in the current catalog, 0 before
// the first publish.
func (s *SearchService) CatalogSize() int {
	if snap := s.current.Load(); snap != nil {
		return snap.engine.Len()
	}
	return 0
}

// Catalog describes the current snapshot. ok is false before the first
// publish.
func (s *SearchService) Catalog() (info CatalogInfo, ok bool) {
	snap := s.current.Load()
	if snap == nil {
		return CatalogInfo{}, false
	}
	return snap.info, true
}

// Ready is a health checker that passes once a catalog is published.
func (s *SearchService) Ready(_ context.Context) error {
	if s.current.Load() == nil {
		return apperrors.Unavailable("catalog has not been published yet")
	}
	return nil
}
