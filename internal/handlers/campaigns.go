package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
)

type campaignRequest struct {
	Name        string    `json:"campaign_name" binding:"required"`
	Description string    `json:"campaign_description"`
	StartAt     time.Time `json:"start_datetime" binding:"required"`
	EndAt       time.Time `json:"end_datetime" binding:"required"`
}

func (h HandlerSet) AddCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	// The partial unique index backs this check; a racing insert surfaces
	// as ErrDuplicate below.
	exists, err := h.stores.Campaigns.ActiveNameExists(ctx, req.Name)
	if err != nil {
		h.serverError(c, err, "campaign name lookup failed")
		return
	}
	if exists {
		detail(c, http.StatusBadRequest, "an active campaign with this name already exists, deactivate it first")
		return
	}

	id, err := h.stores.Campaigns.Create(ctx, models.Campaign{
		Name:        req.Name,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		State:       models.ActiveState(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			detail(c, http.StatusBadRequest, "an active campaign with this name already exists, deactivate it first")
			return
		}
		h.serverError(c, err, "campaign insert failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "campaign created successfully",
		"campaign_id":   id,
		"campaign_name": req.Name,
	})
}

func (h HandlerSet) ListCampaigns(c *gin.Context) {
	campaigns, err := h.stores.Campaigns.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "campaign list failed")
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h HandlerSet) GetCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "campaign not found")
		return
	}

	campaign, err := h.stores.Campaigns.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			detail(c, http.StatusNotFound, "campaign not found")
			return
		}
		h.serverError(c, err, "campaign lookup failed")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func (h HandlerSet) UpdateCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "campaign not found")
		return
	}

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.stores.Campaigns.Update(c.Request.Context(), models.Campaign{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCampaignNotFound):
			detail(c, http.StatusNotFound, "campaign not found")
		case errors.Is(err, repository.ErrDuplicate):
			detail(c, http.StatusBadRequest, "an active campaign with this name already exists")
		default:
			h.serverError(c, err, "campaign update failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "campaign has been updated",
		"campaign_id":   id,
		"campaign_name": req.Name,
	})
}

func (h HandlerSet) DeleteCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "campaign not found")
		return
	}

	if err := h.stores.Campaigns.SoftDelete(c.Request.Context(), id, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			detail(c, http.StatusNotFound, "campaign not found")
			return
		}
		h.serverError(c, err, "campaign delete failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "campaign has been deleted"})
}
