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

type addContactRequest struct {
	UUID        string    `json:"uuid" binding:"required,uuid"`
	CampaignID  int       `json:"campaign_id" binding:"required"`
	GroupID     int       `json:"group_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_datetime" binding:"required"`
}

func (h HandlerSet) AddContact(c *gin.Context) {
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	group, err := h.stores.Groups.GetByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			detail(c, http.StatusNotFound, "group not found")
			return
		}
		h.serverError(c, err, "group lookup failed")
		return
	}
	if !group.State.Active() {
		detail(c, http.StatusUnauthorized, "group is not active")
		return
	}

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

	err = h.stores.Contacts.Create(ctx, models.Contact{
		UUID:        req.UUID,
		CampaignID:  req.CampaignID,
		GroupID:     req.GroupID,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			detail(c, http.StatusBadRequest, "contact with this uuid already exists")
			return
		}
		h.serverError(c, err, "contact insert failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "contact created successfully",
		"contact_id": req.UUID,
	})
}

func (h HandlerSet) ListContacts(c *gin.Context) {
	contacts, err := h.stores.Contacts.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "contact list failed")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h HandlerSet) GetContact(c *gin.Context) {
	contact, err := h.stores.Contacts.GetByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			detail(c, http.StatusNotFound, "contact not found")
			return
		}
		h.serverError(c, err, "contact lookup failed")
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h HandlerSet) ListContactsByGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "group not found")
		return
	}

	contacts, err := h.stores.Contacts.ListByGroup(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "contact list failed")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h HandlerSet) ListContactsByCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "campaign not found")
		return
	}

	contacts, err := h.stores.Contacts.ListByCampaign(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "contact list failed")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h HandlerSet) DeleteContact(c *gin.Context) {
	if err := h.stores.Contacts.Delete(c.Request.Context(), c.Param("uuid")); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			detail(c, http.StatusNotFound, "contact not found")
			return
		}
		h.serverError(c, err, "contact delete failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact has been deleted"})
}
