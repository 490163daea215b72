package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sadaqah_box_app/internal/core/ports/services"
	"github.com/SscSPs/sadaqah_box_app/internal/dto"
	"github.com/SscSPs/sadaqah_box_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type sadaqahHandler struct {
	sadaqahService portssvc.SadaqahSvcFacade
}

func registerSadaqahRoutes(rg *gin.RouterGroup, sadaqahService portssvc.SadaqahSvcFacade) {
	h := &sadaqahHandler{sadaqahService: sadaqahService}

	sadaqahs := rg.Group("/sadaqahs")
	{
		sadaqahs.GET("/:sadaqahID", h.getSadaqah)
		sadaqahs.DELETE("/:sadaqahID", h.deleteSadaqah)
	}
}

// getSadaqah godoc
// @Summary Get a donation
// @Tags sadaqahs
// @Produce  json
// @Param   sadaqahID path string true "Sadaqah ID"
// @Success 200 {object} dto.SadaqahResponse
// @Failure 404 {object} map[string]string "Sadaqah not found"
// @Security BearerAuth
// @Router /sadaqahs/{sadaqahID} [get]
func (h *sadaqahHandler) getSadaqah(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("sadaqah_id", c.Param("sadaqahID")))

	s, err := h.sadaqahService.GetSadaqah(c.Request.Context(), c.Param("sadaqahID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve sadaqah")
		return
	}
	c.JSON(http.StatusOK, dto.ToSadaqahResponse(s))
}

// deleteSadaqah godoc
// @Summary Delete a donation
// @Description Removes an uncollected donation and reverses exactly what adding it did to the box
// @Tags sadaqahs
// @Produce  json
// @Param   sadaqahID path string true "Sadaqah ID"
// @Success 200 {object} dto.BoxResponse
// @Failure 400 {object} map[string]string "Sadaqah already collected"
// @Failure 404 {object} map[string]string "Sadaqah not found"
// @Security BearerAuth
// @Router /sadaqahs/{sadaqahID} [delete]
func (h *sadaqahHandler) deleteSadaqah(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("sadaqah_id", c.Param("sadaqahID")))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	box, err := h.sadaqahService.DeleteSadaqah(c.Request.Context(), c.Param("sadaqahID"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to delete sadaqah")
		return
	}
	c.JSON(http.StatusOK, dto.ToBoxResponse(box))
}
