package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-backend/internal/identity"
	"messaging-backend/internal/observability"
	"messaging-backend/internal/telemetry"
)

// AuthHandler exposes the identity endpoints.
type AuthHandler struct {
	gateway identity.Gateway
	audit   *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(gateway identity.Gateway, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{gateway: gateway, audit: audit}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	creds, err := h.gateway.Register(c.Request.Context(), req.Email, req.Password)
	observability.IncIdentityCall("register", err)
	if err != nil {
		h.emitAudit(c, "ERROR", "registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed: " + err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "User registered")
	c.JSON(http.StatusCreated, creds)
}

// Login handles POST /auth/login. All gateway failures map to 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	creds, err := h.gateway.Login(c.Request.Context(), req.Email, req.Password)
	observability.IncIdentityCall("login", err)
	if err != nil {
		h.emitAudit(c, "ERROR", "login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed: " + err.Error()})
		return
	}

	c.Set("userID", creds.UID)
	h.emitAudit(c, "INFO", "User logged in")
	c.JSON(http.StatusOK, creds)
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		UID         string `json:"uid" binding:"required"`
		DisplayName string `json:"displayName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	err := h.gateway.UpdateProfile(c.Request.Context(), req.UID, req.DisplayName)
	observability.IncIdentityCall("update_profile", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// DeleteAccount handles DELETE /auth/delete.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req struct {
		UID string `json:"uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing UID"})
		return
	}

	err := h.gateway.DeleteAccount(c.Request.Context(), req.UID)
	observability.IncIdentityCall("delete_account", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user: " + err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "User deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
