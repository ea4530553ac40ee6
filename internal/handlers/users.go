package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/security"
)

type addUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	AccountName string `json:"account_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	GrantID     int    `json:"grant_id" binding:"required"`
}

func (h HandlerSet) AddUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	if caller.GrantID != models.GrantAdmin {
		detail(c, http.StatusUnauthorized, "you are not authorized to add a user")
		return
	}

	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	if _, err := h.stores.Users.FindByAccountName(ctx, req.AccountName); err == nil {
		detail(c, http.StatusBadRequest, "account name already exists")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.serverError(c, err, "account name lookup failed")
		return
	}

	digest := security.EmailDigest(req.Email)
	taken, err := h.stores.Users.ExistsByEmailDigest(ctx, digest)
	if err != nil {
		h.serverError(c, err, "email lookup failed")
		return
	}
	if taken {
		detail(c, http.StatusBadRequest, "email has already been registered")
		return
	}

	salt, err := security.GenerateSalt(12)
	if err != nil {
		h.serverError(c, err, "salt generation failed")
		return
	}
	passwordHash, err := security.HashPassword(salt, req.Password)
	if err != nil {
		h.serverError(c, err, "password hashing failed")
		return
	}

	nameEnc, err := h.cipher.Encrypt(req.Name)
	if err != nil {
		h.serverError(c, err, "encrypt name failed")
		return
	}
	surnameEnc, err := h.cipher.Encrypt(req.Surname)
	if err != nil {
		h.serverError(c, err, "encrypt surname failed")
		return
	}
	emailEnc, err := h.cipher.Encrypt(req.Email)
	if err != nil {
		h.serverError(c, err, "encrypt email failed")
		return
	}

	user := models.User{
		UUID:         uuid.NewString(),
		NameEnc:      nameEnc,
		SurnameEnc:   surnameEnc,
		AccountName:  req.AccountName,
		Salt:         salt,
		PasswordHash: passwordHash,
		EmailEnc:     emailEnc,
		EmailDigest:  digest,
		GrantID:      req.GrantID,
		State:        models.ActiveState(),
	}

	if _, err := h.stores.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			detail(c, http.StatusBadRequest, "account name or email already exists")
			return
		}
		h.serverError(c, err, "user insert failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

// GetUser returns one user with PII decrypted. Grant 3 only.
func (h HandlerSet) GetUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	if caller.GrantID != models.GrantAdmin {
		detail(c, http.StatusUnauthorized, "you are not authorized to view users")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.stores.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			detail(c, http.StatusNotFound, "user not found")
			return
		}
		h.serverError(c, err, "user lookup failed")
		return
	}

	name, err := h.cipher.Decrypt(user.NameEnc)
	if err != nil {
		h.serverError(c, err, "decrypt name failed")
		return
	}
	surname, err := h.cipher.Decrypt(user.SurnameEnc)
	if err != nil {
		h.serverError(c, err, "decrypt surname failed")
		return
	}
	email, err := h.cipher.Decrypt(user.EmailEnc)
	if err != nil {
		h.serverError(c, err, "decrypt email failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               user.ID,
		"uuid":             user.UUID,
		"name":             name,
		"surname":          surname,
		"account_name":     user.AccountName,
		"email":            email,
		"grant_id":         user.GrantID,
		"created_datetime": user.CreatedAt,
		"active":           user.State.Active(),
	})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		detail(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	if caller.GrantID != models.GrantAdmin {
		detail(c, http.StatusUnauthorized, "you are not authorized to delete a user")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusNotFound, "user not found")
		return
	}

	if err := h.stores.Users.SoftDelete(c.Request.Context(), id, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			detail(c, http.StatusNotFound, "user not found")
			return
		}
		h.serverError(c, err, "user delete failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user has been deleted"})
}
