package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/shirtsearch/internal/domain"
	"github.com/utafrali/shirtsearch/internal/service"
	apperrors "github.com/utafrali/shirtsearch/pkg/errors"
	"github.com/utafrali/shirtsearch/pkg/httputil"
	"github.com/utafrali/shirtsearch/pkg/validator"
)

const maxSearchBodyBytes = 1 << 20

// SearchHandler handles HTTP requests for shirt search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SearchRequest is the JSON request body for POST searches. Values are
// matched case-insensitively.
type SearchRequest struct {
	Sizes  []string `json:"sizes" validate:"max=64,dive,oneof=small medium large"`
	Colors []string `json:"colors" validate:"max=64,dive,oneof=red blue yellow white black"`
}

// normalize lowercases and trims every value in place.
func (req *SearchRequest) normalize() {
	for i, v := range req.Sizes {
		req.Sizes[i] = strings.ToLower(strings.TrimSpace(v))
	}
	for i, v := range req.Colors {
		req.Colors[i] = strings.ToLower(strings.TrimSpace(v))
	}
}

func (req *SearchRequest) options() (*domain.SearchOptions, error) {
	sizes, err := parseSizes(req.Sizes)
	if err != nil {
		return nil, err
	}
	colors, err := parseColors(req.Colors)
	if err != nil {
		return nil, err
	}
	return &domain.SearchOptions{Sizes: sizes, Colors: colors}, nil
}

// --- Handlers ---

// Search handles GET /api/v1/shirts/search
//
// size and color may be repeated or comma-separated. Missing parameters
// leave that dimension unrestricted.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sizes, err := parseSizes(splitValues(query["size"]))
	if err != nil {
		writeInvalidParameter(w, r, fmt.Sprintf("size must be one of: %s", strings.Join(domain.SizeNames(), ", ")))
		return
	}
	colors, err := parseColors(splitValues(query["color"]))
	if err != nil {
		writeInvalidParameter(w, r, fmt.Sprintf("color must be one of: %s", strings.Join(domain.ColorNames(), ", ")))
		return
	}

	h.search(w, r, &domain.SearchOptions{Sizes: sizes, Colors: colors})
}

// SearchJSON handles POST /api/v1/shirts/search
//
// A literal null body yields nil options, which the engine rejects.
func (h *SearchHandler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodyBytes)

	var req *SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		message := "invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", message)
		return
	}

	var opts *domain.SearchOptions
	if req != nil {
		req.normalize()
		if err := validator.Validate(req); err != nil {
			httputil.WriteValidationError(w, err)
			return
		}

		var err error
		opts, err = req.options()
		if err != nil {
			writeInvalidParameter(w, r, err.Error())
			return
		}
	}

	h.search(w, r, opts)
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request, opts *domain.SearchOptions) {
	result, err := h.service.Search(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, result)
}

// Facets handles GET /api/v1/shirts/facets
func (h *SearchHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, h.service.Universe())
}

// Catalog handles GET /api/v1/shirts/catalog
func (h *SearchHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	info, ok := h.service.Catalog()
	if !ok {
		httputil.WriteError(w, r, apperrors.Unavailable("catalog has not been published yet"), h.logger)
		return
	}
	httputil.WriteData(w, info)
}

// Reload handles POST /api/v1/shirts/reload
//
// The reload runs synchronously; on failure the previous catalog keeps
// serving.
func (h *SearchHandler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Reload(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrUnavailable) {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		h.logger.ErrorContext(r.Context(), "catalog reload failed", slog.String("error", err.Error()))
		httputil.WriteErrorCode(w, r, http.StatusInternalServerError, "RELOAD_FAILED", err.Error())
		return
	}

	httputil.WriteData(w, info)
}

// --- Helpers ---

// splitValues flattens repeated and comma-separated query values, dropping
// empty entries.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseSizes(values []string) ([]domain.Size, error) {
	if len(values) == 0 {
		return nil, nil
	}
	sizes := make([]domain.Size, 0, len(values))
	for _, v := range values {
		s, err := domain.ParseSize(v)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, nil
}

func parseColors(values []string) ([]domain.Color, error) {
	if len(values) == 0 {
		return nil, nil
	}
	colors := make([]domain.Color, 0, len(values))
	for _, v := range values {
		c, err := domain.ParseColor(v)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

func writeInvalidParameter(w http.ResponseWriter, r *http.Request, message string) {
	httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", message)
}
