package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/SscSPs/sadaqah_box_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxCodesPerLookup bounds one GET /rates call.
const maxCodesPerLookup = 50

type rateHandler struct {
	rates portssvc.RateSvcFacade
}

func registerRateRoutes(rg *gin.RouterGroup, rates portssvc.RateSvcFacade) {
	h := &rateHandler{rates: rates}

	r := rg.Group("/rates")
	{
		r.GET("", h.getRates)
		r.GET("/can-fetch/:code", h.canFetch)
		r.GET("/attempts/:code", h.getAttempt)
		r.POST("/refresh", h.refresh)
		r.POST("/force-refresh", middleware.RequireRole(middleware.RoleAdmin), h.forceRefresh)
	}
}

func splitCodes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

// getRates godoc
// @Summary Look up USD values
// @Description Serves each code from cache, a live provider, or reports it in notFound. Always 200.
// @Tags rates
// @Produce  json
// @Param   codes query string true "Comma separated codes, e.g. EUR,BTC,XAU"
// @Success 200 {object} domain.RateResult
// @Failure 400 {object} map[string]string "No codes given"
// @Security BearerAuth
// @Router /rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GetRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	codes := splitCodes(params.Codes)
	if len(codes) == 0 || len(codes) > maxCodesPerLookup {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codes must list between 1 and 50 currency codes"})
		return
	}

	res := h.rates.FetchRatesFor(c.Request.Context(), codes)
	logger.Info("Rates looked up",
		slog.Int("requested", len(codes)),
		slog.Int("from_cache", len(res.FromCache)),
		slog.Int("fetched", len(res.Fetched)),
		slog.Int("not_found", len(res.NotFound)))
	c.JSON(http.StatusOK, res)
}

// canFetch godoc
// @Summary Check whether a rate lookup would resolve without waiting
// @Tags rates
// @Produce  json
// @Param   code path string true "Currency code"
// @Success 200 {object} dto.CanFetchResponse
// @Security BearerAuth
// @Router /rates/can-fetch/{code} [get]
func (h *rateHandler) canFetch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	ok, err := h.rates.CanAttempt(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, logger, err, "Failed to check rate attempt")
		return
	}
	c.JSON(http.StatusOK, dto.CanFetchResponse{Code: code, CanFetch: ok})
}

// getAttempt godoc
// @Summary Show the fetch history of one currency code
// @Tags rates
// @Produce  json
// @Param   code path string true "Currency code"
// @Success 200 {object} dto.RateAttemptResponse
// @Failure 404 {object} map[string]string "Never attempted"
// @Security BearerAuth
// @Router /rates/attempts/{code} [get]
func (h *rateHandler) getAttempt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	a, err := h.rates.GetAttempt(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to load rate attempt")
		return
	}
	c.JSON(http.StatusOK, dto.ToRateAttemptResponse(a))
}

// refresh godoc
// @Summary Refresh every currency's USD value now
// @Tags rates
// @Produce  json
// @Success 200 {object} domain.RefreshSummary
// @Failure 500 {object} map[string]string "Failed to refresh rates"
// @Security BearerAuth
// @Router /rates/refresh [post]
func (h *rateHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.rates.UpdateAllCurrencyValues(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to refresh rates")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// forceRefresh godoc
// @Summary Clear all cooldowns and cached values, then refresh
// @Description Administrative. The bearer token must carry the "admin" role.
// @Tags rates
// @Produce  json
// @Success 200 {object} domain.RefreshSummary
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 500 {object} map[string]string "Failed to refresh rates"
// @Security BearerAuth
// @Router /rates/force-refresh [post]
func (h *rateHandler) forceRefresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		logger = logger.With(slog.String("requested_by", userID))
	}

	summary, err := h.rates.ForceRefresh(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to refresh rates")
		return
	}
	logger.Warn("Rate history cleared and refreshed", slog.Int("updated", summary.UpdatedCount))
	c.JSON(http.StatusOK, summary)
}
