package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pixeltrack/api/internal/service"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login accepts form-encoded credentials and answers with a bearer token.
// Every failure mode is the same 401 so callers cannot probe for accounts.
func (h HandlerSet) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		detail(c, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			detail(c, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		h.serverError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "login successful",
		"user_id":         result.UserID,
		"account_name":    result.AccountName,
		"access_token":    result.Token,
		"token_type":      "bearer",
		"expires_in":      result.ExpiresIn,
		"expiration_date": result.Expiry.Format(time.RFC3339),
	})
}

// Init seeds the database from the configured seed file, keyed by account
// name. Safe to call repeatedly.
func (h HandlerSet) Init(c *gin.Context) {
	if err := h.seeder.Apply(c.Request.Context()); err != nil {
		h.serverError(c, err, "seed failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "database initialized"})
}
