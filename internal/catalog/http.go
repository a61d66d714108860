package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/shirtsearch/internal/domain"
	"github.com/utafrali/shirtsearch/pkg/httpclient"
)

// maxCatalogBytes caps the size of a remote catalog response.
const maxCatalogBytes = 32 << 20

// HTTPSource fetches a catalog from a remote service that answers with the
// standard response envelope {"data": {"shirts": [...]}}.
type HTTPSource struct {
	url    string
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

type catalogEnvelope struct {
	Data *Document `json:"data"`
}

// NewHTTPSource creates a source that GETs url through a retrying client
// guarded by a circuit breaker.
func NewHTTPSource(url string, cfg httpclient.Config, logger *slog.Logger) *HTTPSource {
	client := httpclient.New(cfg)
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("catalog-service"), logger)
	return &HTTPSource{url: url, client: cb, logger: logger}
}

// Load fetches, decodes and validates the remote catalog.
func (s *HTTPSource) Load(ctx context.Context) ([]domain.Shirt, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: %w", httpclient.ParseResponseError(resp, "catalog-service"))
	}

	var env catalogEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("decode catalog response: missing data")
	}

	s.logger.DebugContext(ctx, "catalog fetched",
		slog.String("url", s.url),
		slog.Int("records", len(env.Data.Shirts)),
	)

	return ValidateDocument(env.Data, s.url)
}
