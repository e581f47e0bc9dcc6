package auth

import (
	"errors"
	"net/http"

	"ooya-dx/internal/infra/identity"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes register/login for providers where this service owns the
// credentials. With Supabase the browser talks to Supabase Auth directly and
// these routes answer 404.
type Handler struct {
	provider identity.Provider
	log      *zap.Logger
}

func NewHandler(provider identity.Provider, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L()
	}
	return &Handler{provider: provider, log: log.Named("auth")}
}

func (h *Handler) credentials(c *gin.Context) (identity.CredentialProvider, bool) {
	cp, ok := h.provider.(identity.CredentialProvider)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Password sign-in is not available with the " + h.provider.Name() + " provider"})
		return nil, false
	}
	return cp, true
}

func (h *Handler) Register(c *gin.Context) {
	cp, ok := h.credentials(c)
	if !ok {
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := cp.Register(c.Request.Context(), input.Email, input.Password, input.Name)
	switch {
	case errors.Is(err, identity.ErrWeakPassword), errors.Is(err, identity.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, identity.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	case err != nil:
		h.log.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	token, _, err := cp.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.log.Error("login after register failed", zap.String("user_id", id.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	h.log.Info("user registered", zap.String("user_id", id.UserID))
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": id.UserID})
}

func (h *Handler) Login(c *gin.Context) {
	cp, ok := h.credentials(c)
	if !ok {
		return
	}

	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, _, err := cp.Login(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
