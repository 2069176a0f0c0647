package handler

import (
	"errors"
	"net/http"

	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/middleware"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *middleware.Auth
	ws     *service.Workspace
}

func NewAuthHandler(auth *service.AuthService, tokens *middleware.Auth, ws *service.Workspace) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, ws: ws}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username, "err", err)
		if errors.Is(err, service.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondErr(c, err)
		return
	}

	logger.Info("login.ok", "uid", u.ID, "name", u.Name, "role", u.Role)

	token, err := h.tokens.Issue(*u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: u.Profile()})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c, h.ws).Profile())
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	uid := c.GetString(middleware.KeyUserID)
	if err := h.auth.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
