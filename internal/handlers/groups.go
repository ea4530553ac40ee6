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

type addGroupRequest struct {
	CampaignID      int    `json:"campaign_id" binding:"required"`
	CampaignGroupID int    `json:"campaign_group_id" binding:"required"`
	Name            string `json:"group_name" binding:"required"`
	Description     string `json:"group_description"`
}

func (h HandlerSet) AddGroup(c *gin.Context) {
	var req addGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	// Soft-deleting a campaign does not cascade; the parent's activity is
	// checked here, on every child insert.
	campaign, err := h.stores.Campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			detail(c, http.StatusNotFound, "campaign not found")
			return
		}
		h.serverError(c, err, "campaign lookup failed")
		return
	}
	if !campaign.State.Active() {
		detail(c, http.StatusUnauthorized, "campaign is not active")
		return
	}

	id, err := h.stores.Groups.Create(ctx, models.Group{
		CampaignID:      req.CampaignID,
		CampaignGroupID: req.CampaignGroupID,
		Name:            req.Name,
		Description:     req.Description,
		State:           models.ActiveState(),
	})
	if err != nil {
		h.serverError(c, err, "group insert failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "group created successfully",
		"group_id":    id,
		"campaign_id": req.CampaignID,
		"group_name":  req.Name,
	})
}

func (h HandlerSet) ListGroups(c *gin.Context) {
	groups, err := h.stores.Groups.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "group list failed")
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h HandlerSet) GetGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "group not found")
		return
	}

	group, err := h.stores.Groups.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			detail(c, http.StatusNotFound, "group not found")
			return
		}
		h.serverError(c, err, "group lookup failed")
		return
	}

	c.JSON(http.StatusOK, group)
}

type updateGroupRequest struct {
	Name        string `json:"group_name" binding:"required"`
	Description string `json:"group_description"`
}

func (h HandlerSet) UpdateGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "group not found")
		return
	}

	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.stores.Groups.Update(c.Request.Context(), models.Group{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			detail(c, http.StatusNotFound, "group not found")
			return
		}
		h.serverError(c, err, "group update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "group has been updated",
		"group_id":   id,
		"group_name": req.Name,
	})
}

func (h HandlerSet) DeleteGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "group not found")
		return
	}

	if err := h.stores.Groups.SoftDelete(c.Request.Context(), id, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			detail(c, http.StatusNotFound, "group not found")
			return
		}
		h.serverError(c, err, "group delete failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group has been deleted"})
}
