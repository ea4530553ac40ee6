package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/pixel"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/service"
)

type addPixelRequest struct {
	ContactUUID    string `json:"contact_uuid" binding:"required"`
	SequenceNumber int    `json:"contact_pixel_number" binding:"required"`
}

func (h HandlerSet) AddPixel(c *gin.Context) {
	var req addPixelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	if _, err := h.stores.Contacts.GetByUUID(ctx, req.ContactUUID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			detail(c, http.StatusNotFound, "contact not found")
			return
		}
		h.serverError(c, err, "contact lookup failed")
		return
	}

	exists, err := h.stores.Pixels.SequenceExists(ctx, req.ContactUUID, req.SequenceNumber)
	if err != nil {
		h.serverError(c, err, "pixel lookup failed")
		return
	}
	if exists {
		detail(c, http.StatusBadRequest, "contact already has a pixel with this sequence number")
		return
	}

	p := models.Pixel{
		UUID:           uuid.NewString(),
		ContactUUID:    req.ContactUUID,
		SequenceNumber: req.SequenceNumber,
	}
	if err := h.stores.Pixels.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			detail(c, http.StatusBadRequest, "contact already has a pixel with this sequence number")
			return
		}
		h.serverError(c, err, "pixel insert failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "pixel created successfully",
		"uuid":    p.UUID,
	})
}

func (h HandlerSet) ListPixels(c *gin.Context) {
	pixels, err := h.stores.Pixels.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "pixel list failed")
		return
	}
	c.JSON(http.StatusOK, pixels)
}

// FetchPixel serves the tracking image. It is unauthenticated and, apart
// from a genuinely unknown uuid, always answers with the same image bytes
// so the email client cannot observe internal state.
func (h HandlerSet) FetchPixel(c *gin.Context) {
	if err := pixel.EnsureOnDisk(h.cfg.Tracking.AssetPath); err != nil {
		h.log.Warn().Err(err).Msg("pixel asset write failed")
	}

	err := h.tracker.RecordFetch(c.Request.Context(), c.Param("uuid"), c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrUnknownPixel) {
			detail(c, http.StatusNotFound, "pixel not found")
			return
		}
		// RecordFetch swallows everything else, but keep the image
		// contract even if that changes.
		h.log.Error().Err(err).Msg("pixel fetch failed")
	}

	c.Data(http.StatusOK, pixel.ContentType, pixel.Asset)
}
