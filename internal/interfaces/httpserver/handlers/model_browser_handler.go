package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/infrastructure/metrics"
	"jan-server/services/model-browser/internal/interfaces/httpserver/requests"
	"jan-server/services/model-browser/internal/interfaces/httpserver/responses"
)

// ModelBrowserHandler exposes the catalog search and action resolution endpoints.
// Service failures never surface as HTTP errors: search answers with an error row
// and open answers with false.
type ModelBrowserHandler struct {
	service catalog.Service
	log     zerolog.Logger
}

// NewModelBrowserHandler constructs the handler.
func NewModelBrowserHandler(service catalog.Service, log zerolog.Logger) *ModelBrowserHandler {
	return &ModelBrowserHandler{
		service: service,
		log:     log.With().Str("handler", "model_browser").Logger(),
	}
}

// Search handles POST /v1/model-browser/search
// @Summary Search browsable models
// @Description Lists registered models whose name or technical identifier contains the term, with record counts
// @Tags Model Browser
// @Accept json
// @Produce json
// @Param request body requests.SearchRequest false "Search parameters"
// @Success 200 {array} catalog.Row "Matching rows, or a single error row when the body or the search is invalid"
// @Router /v1/model-browser/search [post]
func (h *ModelBrowserHandler) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warn().Err(err).Msg("invalid search body")
		metrics.RecordSearch("error", 1)
		c.JSON(http.StatusOK, []catalog.Row{catalog.ErrorRow(fmt.Errorf("invalid search request: %w", err))})
		return
	}

	rows, err := h.search(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("search_term", req.SearchTerm).Msg("model search failed")
		metrics.RecordSearch("error", 1)
		c.JSON(http.StatusOK, []catalog.Row{catalog.ErrorRow(err)})
		return
	}

	metrics.RecordSearch(searchOutcome(rows), len(rows))
	c.JSON(http.StatusOK, rows)
}

// Open handles POST /v1/model-browser/open
// @Summary Resolve a model's list action
// @Description Returns the list action for the model, creating it on first use, or false when the model cannot be opened
// @Tags Model Browser
// @Accept json
// @Produce json
// @Param request body requests.OpenRequest true "Model to open"
// @Success 200 {object} catalog.ActionDefinition "The action, or false when the model cannot be opened"
// @Failure 400 {object} responses.ErrorResponse "Body is not JSON"
// @Router /v1/model-browser/open [post]
func (h *ModelBrowserHandler) Open(c *gin.Context) {
	var req requests.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.BadRequest(c, err)
		return
	}

	def, outcome, err := h.open(c.Request.Context(), req.ModelName)
	metrics.RecordActionResolution(outcome)
	if err != nil {
		h.log.Warn().Err(err).Str("model", req.ModelName).Msg("cannot open model")
		c.JSON(http.StatusOK, false)
		return
	}
	if def == nil {
		c.JSON(http.StatusOK, false)
		return
	}
	c.JSON(http.StatusOK, def)
}

// GetAction handles GET /v1/model-browser/actions/:action_id
// @Summary Get an action definition
// @Tags Model Browser
// @Produce json
// @Param action_id path int true "Action ID"
// @Success 200 {object} catalog.ActionDefinition
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/model-browser/actions/{action_id} [get]
func (h *ModelBrowserHandler) GetAction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("action_id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, fmt.Errorf("invalid action id: %w", err))
		return
	}

	def, err := h.service.GetAction(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrActionNotFound) {
			responses.NotFound(c, "action not found")
			return
		}
		responses.InternalError(c, err, "failed to load action")
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *ModelBrowserHandler) search(ctx context.Context, req requests.SearchRequest) (rows []catalog.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return h.service.Search(ctx, req.SearchTerm, req.Limit)
}

func (h *ModelBrowserHandler) open(ctx context.Context, model string) (def *catalog.ActionDefinition, outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			def, outcome, err = nil, "error", fmt.Errorf("%v", r)
		}
	}()

	res, err := h.service.ResolveAction(ctx, model)
	if err != nil {
		return nil, "error", err
	}
	if !res.Found {
		return nil, "missing", nil
	}

	action, err := h.service.GetAction(ctx, res.ActionID)
	if err != nil {
		return nil, "error", err
	}
	if res.Created {
		return &action, "created", nil
	}
	return &action, "existing", nil
}

func searchOutcome(rows []catalog.Row) string {
	switch {
	case len(rows) == 0:
		return "empty"
	case len(rows) == 1 && rows[0].ID == 0 && rows[0].Model == catalog.DescriptorModel && strings.HasPrefix(rows[0].Name, "DEBUG:"):
		return "diagnostic"
	default:
		return "ok"
	}
}
