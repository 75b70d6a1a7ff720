package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
	"game-catalog/internal/service"
)

const maxCoverBytes = 5 << 20

type createGameRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=100"`
	Description string    `json:"description" binding:"required,min=10,max=500"`
	Price       float64   `json:"price" binding:"required,gte=0.01,lte=1000"`
	ReleaseDate time.Time `json:"releaseDate" binding:"required"`
	Genre       string    `json:"genre" binding:"max=50"`
}

type updateGameRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string    `json:"description" binding:"omitempty,min=10,max=500"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0.01,lte=1000"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Genre       *string    `json:"genre" binding:"omitempty,max=50"`
}

type updatePriceRequest struct {
	Price float64 `json:"price" binding:"required,gte=0.01,lte=1000"`
}

// GameResponse is the public view of a catalog entry.
type GameResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	ReleaseDate   time.Time  `json:"releaseDate"`
	Genre         string     `json:"genre"`
	HasCover      bool       `json:"hasCover"`
	CreatedByID   int64      `json:"createdById"`
	CreatedByName string     `json:"createdByName"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func gameToResponse(g domain.Game) GameResponse {
	return GameResponse{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		Price:         g.Price,
		ReleaseDate:   g.ReleaseDate,
		Genre:         g.Genre,
		HasCover:      g.CoverKey != "",
		CreatedByID:   g.CreatedByID,
		CreatedByName: g.CreatedByName,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func (h *Handler) listGames(c *gin.Context) {
	games, err := h.games.ListGames(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]GameResponse, len(games))
	for i := range games {
		resp[i] = gameToResponse(games[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getGame(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	game, err := h.games.GetGame(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameToResponse(*game))
}

func (h *Handler) createGame(c *gin.Context) {
	caller, err := auth.RequireAuthenticated(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	game, err := h.games.CreateGame(c.Request.Context(), caller.UserID, service.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ReleaseDate: req.ReleaseDate,
		Genre:       req.Genre,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gameToResponse(*game))
}

func (h *Handler) updateGame(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	var req updateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.games.UpdateGame(c.Request.Context(), id, domain.GameChanges{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ReleaseDate: req.ReleaseDate,
		Genre:       req.Genre,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateGamePrice(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.games.UpdatePrice(c.Request.Context(), id, req.Price); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteGame(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	if err := h.games.DeleteGame(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadCover takes the raw image as the request body.
func (h *Handler) uploadCover(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cover must be an image"})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxCoverBytes)
	key, err := h.games.UploadCover(c.Request.Context(), id, contentType, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "cover exceeds 5 MiB"})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cover_key": key})
}

func (h *Handler) getCover(c *gin.Context) {
	id, ok := parseID(c, "game")
	if !ok {
		return
	}

	url, err := h.games.CoverURL(c.Request.Context(), id, h.coverExpiry)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
