package handlers

import (
	"net/http"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type DevTokenRequest struct {
	Username string `json:"username" binding:"required"`
}

// DevToken mints a JWT for local development. Production token issuance is
// the auth subsystem's job; this endpoint is disabled unless
// DEV_AUTH_ENABLED=true.
func (h *Handler) DevToken(c *gin.Context) {
	if !h.DevAuthEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req DevTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	repo := repository.NewUserRepository(h.DB)
	ctx := c.Request.Context()

	user, err := repo.GetByUsername(ctx, req.Username)
	if err != nil {
		user = &domain.User{Username: req.Username, FirstName: "Dev"}
		if err := repo.Create(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
