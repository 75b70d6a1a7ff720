package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
	"game-catalog/internal/service"
	"game-catalog/internal/storage"
)

const defaultCoverURLExpiry = 15 * time.Minute

// Options tunes request handling. Zero values pick the defaults.
type Options struct {
	CookieName     string
	CoverURLExpiry time.Duration
	Logger         *logrus.Logger

	// Clock is consulted when validating tokens.
	Clock func() time.Time
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	users  service.UserService
	games  service.GameService
	tokens *auth.TokenCodec

	cookieName  string
	coverExpiry time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

func NewHandler(authSvc service.AuthService, users service.UserService, games service.GameService, tokens *auth.TokenCodec, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.CoverURLExpiry <= 0 {
		opts.CoverURLExpiry = defaultCoverURLExpiry
	}
	return &Handler{
		auth:        authSvc,
		users:       users,
		games:       games,
		tokens:      tokens,
		cookieName:  opts.CookieName,
		coverExpiry: opts.CoverURLExpiry,
		logger:      opts.Logger,
		now:         opts.Clock,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(accessLog(h.logger))
	router.Use(corsMiddleware())
	router.Use(RequestAuthenticator(h.tokens, h.cookieName, h.logger, h.now))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		authGroup := api.Group("/auth")
		authGroup.GET("", h.authStatus)
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", requireAuthenticated(), h.me)

		users := api.Group("/users")
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.POST("", h.createUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)

		games := api.Group("/games")
		games.GET("", h.listGames)
		games.GET("/:id", h.getGame)
		games.POST("", requireRole(domain.RoleAdministrator), h.createGame)
		// update, price and delete carry no role check yet
		games.PUT("/:id", h.updateGame)
		games.PATCH("/:id/price", h.updateGamePrice)
		games.DELETE("/:id", h.deleteGame)
		games.PUT("/:id/cover", requireRole(domain.RoleAdministrator), h.uploadCover)
		games.GET("/:id/cover", h.getCover)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", tokenExpiredHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + what + " id"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// writeError translates service and policy errors into a status and a
// {"message": ...} body. Unknown errors are logged and never echoed.
func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		status, msg = http.StatusBadRequest, service.ErrEmailTaken.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, auth.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auth.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrCoverNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUserHasGames):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrNotConfigured):
		status, msg = http.StatusServiceUnavailable, "cover storage is not configured"
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
