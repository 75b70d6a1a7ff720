package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"game-catalog/internal/auth"
	"game-catalog/internal/service"
)

type registerRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=100"`
	Email           string `json:"email" binding:"required,email,max=100"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by login and registration. ExpiresIn is the
// RFC3339 expiry of Token.
type AuthResponse struct {
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
}

type meResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) authStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "authentication service is running",
		"status":  "online",
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(id, h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		UserID:    id.UserID,
		Name:      strings.TrimSpace(req.Name),
		Email:     id.Email,
		Token:     token,
		ExpiresIn: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		UserID:    res.User.ID,
		Name:      res.User.Name,
		Email:     res.User.Email,
		Token:     res.Token,
		ExpiresIn: res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) me(c *gin.Context) {
	id, err := auth.RequireAuthenticated(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	})
}
