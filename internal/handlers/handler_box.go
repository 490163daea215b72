package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/SscSPs/sadaqah_box_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// boxHandler handles HTTP requests related to donation boxes.
type boxHandler struct {
	boxService     portssvc.BoxSvcFacade
	sadaqahService portssvc.SadaqahSvcFacade
}

func newBoxHandler(bs portssvc.BoxSvcFacade, ss portssvc.SadaqahSvcFacade) *boxHandler {
	return &boxHandler{boxService: bs, sadaqahService: ss}
}

// registerBoxRoutes registers box routes, including the donations nested under a box.
func registerBoxRoutes(rg *gin.RouterGroup, boxService portssvc.BoxSvcFacade, sadaqahService portssvc.SadaqahSvcFacade) {
	h := newBoxHandler(boxService, sadaqahService)

	boxes := rg.Group("/boxes")
	{
		boxes.POST("", h.createBox)
		boxes.GET("", h.listBoxes)
		boxes.GET("/:boxID", h.getBox)
		boxes.POST("/:boxID/collect", h.collectBox)
		boxes.GET("/:boxID/collections", h.listCollections)
		boxes.POST("/:boxID/sadaqahs", h.addSadaqah)
		boxes.GET("/:boxID/sadaqahs", h.listSadaqahs)
	}
}

// createBox godoc
// @Summary Create a donation box
// @Tags boxes
// @Accept  json
// @Produce  json
// @Param   box body dto.CreateBoxRequest true "Box details"
// @Success 201 {object} dto.BoxResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown base currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create box"
// @Security BearerAuth
// @Router /boxes [post]
func (h *boxHandler) createBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBox", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	box, err := h.boxService.CreateBox(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create box")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBoxResponse(box))
}

// listBoxes godoc
// @Summary List donation boxes
// @Tags boxes
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListBoxesResponse
// @Failure 500 {object} map[string]string "Failed to list boxes"
// @Security BearerAuth
// @Router /boxes [get]
func (h *boxHandler) listBoxes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBoxesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	boxes, err := h.boxService.ListBoxes(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list boxes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBoxesResponse(boxes))
}

// getBox godoc
// @Summary Get a donation box
// @Description Returns the box with its converted total and the unconverted per-currency totals
// @Tags boxes
// @Produce  json
// @Param   boxID path string true "Box ID"
// @Success 200 {object} dto.BoxResponse
// @Failure 404 {object} map[string]string "Box not found"
// @Security BearerAuth
// @Router /boxes/{boxID} [get]
func (h *boxHandler) getBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("box_id", c.Param("boxID")))

	box, err := h.boxService.GetBox(c.Request.Context(), c.Param("boxID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve box")
		return
	}
	c.JSON(http.StatusOK, dto.ToBoxResponse(box))
}

// collectBox godoc
// @Summary Empty a donation box
// @Description Snapshots the box totals into a collection and resets the box
// @Tags boxes
// @Produce  json
// @Param   boxID path string true "Box ID"
// @Success 201 {object} dto.CollectionResponse
// @Failure 400 {object} map[string]string "Box is empty"
// @Failure 404 {object} map[string]string "Box not found"
// @Security BearerAuth
// @Router /boxes/{boxID}/collect [post]
func (h *boxHandler) collectBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("box_id", c.Param("boxID")))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	collection, err := h.boxService.CollectBox(c.Request.Context(), c.Param("boxID"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to collect box")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCollectionResponse(collection))
}

// listCollections godoc
// @Summary List past collections of a box
// @Tags boxes
// @Produce  json
// @Param   boxID path string true "Box ID"
// @Success 200 {object} dto.ListCollectionsResponse
// @Failure 404 {object} map[string]string "Box not found"
// @Security BearerAuth
// @Router /boxes/{boxID}/collections [get]
func (h *boxHandler) listCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("box_id", c.Param("boxID")))

	cs, err := h.boxService.ListCollections(c.Request.Context(), c.Param("boxID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list collections")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCollectionsResponse(cs))
}

// addSadaqah godoc
// @Summary Add a donation to a box
// @Description Converts into the box's base currency when both USD values are known; otherwise the raw amount is kept per currency. Never fails because a rate is unavailable.
// @Tags sadaqahs
// @Accept  json
// @Produce  json
// @Param   boxID path string true "Box ID"
// @Param   sadaqah body dto.AddSadaqahRequest true "Donation details"
// @Success 201 {object} dto.AddSadaqahResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Box or currency not found"
// @Security BearerAuth
// @Router /boxes/{boxID}/sadaqahs [post]
func (h *boxHandler) addSadaqah(c *gin.Context) {
	boxID := c.Param("boxID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("box_id", boxID))
	var req dto.AddSadaqahRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddSadaqah", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	added, box, err := h.sadaqahService.AddSadaqah(c.Request.Context(), boxID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add sadaqah")
		return
	}
	c.JSON(http.StatusCreated, dto.AddSadaqahResponse{
		Sadaqahs: dto.ToSadaqahResponses(added),
		Box:      dto.ToBoxResponse(box),
	})
}

// listSadaqahs godoc
// @Summary List donations in a box
// @Description Newest first, paginated with an opaque token
// @Tags sadaqahs
// @Produce  json
// @Param   boxID path string true "Box ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListSadaqahsResponse
// @Failure 400 {object} map[string]string "Invalid token"
// @Failure 404 {object} map[string]string "Box not found"
// @Security BearerAuth
// @Router /boxes/{boxID}/sadaqahs [get]
func (h *boxHandler) listSadaqahs(c *gin.Context) {
	boxID := c.Param("boxID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("box_id", boxID))
	var params dto.ListSadaqahsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	list, next, err := h.sadaqahService.ListSadaqahs(c.Request.Context(), boxID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list sadaqahs")
		return
	}
	c.JSON(http.StatusOK, dto.ListSadaqahsResponse{Sadaqahs: dto.ToSadaqahResponses(list), NextToken: next})
}
