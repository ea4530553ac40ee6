package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListViews(c *gin.Context) {
	views, err := h.stores.Views.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "view list failed")
		return
	}
	c.JSON(http.StatusOK, views)
}
