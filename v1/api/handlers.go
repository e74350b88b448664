package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/search"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// Searcher is implemented by *search.Service.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	AnalyzeFilterImpact(ctx context.Context, filters search.Filters, skipIDs []string, includeNonCirculateable bool) (*search.FilterAnalysis, error)
	SuggestExpansions(ctx context.Context, filters search.Filters, skipIDs []string, includeNonCirculateable bool, minResults int) ([]search.Expansion, error)
}

// Ingester is implemented by *ingest.Orchestrator.
type Ingester interface {
	Ingest(ctx context.Context, raw *profile.RawProfile) (*ingest.Result, error)
}

type Handler struct {
	searcher Searcher
	ingester Ingester
	store    vectordb.Store
	parser   search.QueryParser
	validate *validator.Validate
	logger   logger.Logger
}

// NewHandler wires the route handlers. parser may be nil, in which case
// POST /api/v1/parse answers 503.
func NewHandler(searcher Searcher, ingester Ingester, store vectordb.Store, parser search.QueryParser, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		searcher: searcher,
		ingester: ingester,
		store:    store,
		parser:   parser,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
}

func (h *Handler) Health(c *gin.Context) {
	info, err := h.store.CollectionInfo(c.Request.Context())
	if err != nil {
		h.logger.WarnWithContext(c.Request.Context(), "health check failed", err, nil)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Collection: info.Name})
}

func (h *Handler) CollectionInfo(c *gin.Context) {
	info, err := h.store.CollectionInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if h.parser == nil {
		respondError(c, fmt.Errorf("query parser: %w", ErrUnavailable))
		return
	}

	parsed, err := h.parser.Parse(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.ErrorWithContext(c.Request.Context(), "query parse failed", err, nil)
		respondError(c, fmt.Errorf("query parser: %w: %v", ErrUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, parsed)
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.search(c, req.toSearch())
}

func (h *Handler) SearchGet(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := h.validate.Struct(q); err != nil {
		respondError(c, err)
		return
	}
	h.search(c, q.toSearch())
}

func (h *Handler) search(c *gin.Context, req search.Request) {
	resp, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		if !errors.Is(err, search.ErrUnsatisfiable) {
			h.logger.ErrorWithContext(c.Request.Context(), "search failed", err, nil)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) FilterImpact(c *gin.Context) {
	var req FilterImpactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	analysis, err := h.searcher.AnalyzeFilterImpact(ctx, req.Filters, req.SkipIDs, req.IncludeNonCirculateable)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := FilterImpactResponse{Analysis: analysis}
	if req.MinResults > 0 {
		resp.Suggestions, err = h.searcher.SuggestExpansions(ctx, req.Filters, req.SkipIDs, req.IncludeNonCirculateable, req.MinResults)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Ingest(c *gin.Context) {
	var raw profile.RawProfile
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	res, err := h.ingester.Ingest(c.Request.Context(), &raw)
	if err != nil {
		if !ingest.IsValidation(err) {
			h.logger.ErrorWithContext(c.Request.Context(), "ingest failed", err, map[string]interface{}{"profile_id": raw.ID})
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.store.Get(c.Request.Context(), profile.PointID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		respondError(c, fmt.Errorf("profile %s: %w", id, ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "payload": rec.Payload})
}

// bindJSON decodes and validates the body. It writes the error response and
// returns false on failure.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
