package handlers

import (
	"net/http"
	"time"

	"bgc-cart-backend/internal/middleware"
	"bgc-cart-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	cartService CartServiceInterface
	jwtManager  *auth.JWTManager
}

func NewSessionHandler(cartService CartServiceInterface, jwtManager *auth.JWTManager) *SessionHandler {
	return &SessionHandler{
		cartService: cartService,
		jwtManager:  jwtManager,
	}
}

// RegisterRoutes registers the routes for session management
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	router.POST("/session", h.StartSession)
	router.DELETE("/session", authMiddleware.SessionRequired(), h.EndSession)
}

type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StartSession godoc
// @Summary Start a cart session
// @Description Issue a signed token for a fresh cart session
// @Tags session
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /session [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	sessionID := uuid.NewString()
	token, expiresAt, err := h.jwtManager.GenerateToken(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to start session",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	})
}

// EndSession godoc
// @Summary End a cart session
// @Description Forget the session's checkout and local cart
// @Tags session
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /session [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Session ID not found",
		})
		return
	}

	if err := h.cartService.EndSession(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to end session",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
