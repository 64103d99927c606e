package handlers

import (
	"net/http"

	"bgc-cart-backend/internal/middleware"
	"bgc-cart-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CartHandler struct {
	cartService CartServiceInterface
}

func NewCartHandler(cartService CartServiceInterface) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// All cart routes require a session token
	cart := router.Group("/cart", authMiddleware.SessionRequired())
	{
		// Get the session's cart
		cart.GET("", h.GetCart)
		// Add item to cart
		cart.POST("/items", h.AddToCart)
		// Remove item from cart
		cart.DELETE("/items/:item_id", h.RemoveFromCart)
	}
}

// GetCart godoc
// @Summary Get session cart
// @Description Get the current session's cart snapshot
// @Tags cart
// @Produce json
// @Success 200 {object} services.CartSnapshot
// @Failure 401 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Session ID not found",
		})
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get cart",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddToCart godoc
// @Summary Add item to cart
// @Description Add a variant to the session's cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddToCartRequest true "Cart item data"
// @Success 200 {object} services.CartSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Session ID not found",
		})
		return
	}

	serviceReq := &services.AddToCartRequest{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	}

	cart, err := h.cartService.AddToCart(c.Request.Context(), sessionID, serviceReq)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) || errors.Is(err, services.ErrInvalidVariant) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid cart item",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to add item to cart",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart godoc
// @Summary Remove item from cart
// @Description Remove a line item from the session's cart
// @Tags cart
// @Produce json
// @Param item_id path string true "Line item ID"
// @Success 200 {object} services.CartSnapshot
// @Failure 401 {object} ErrorResponse
// @Router /cart/items/{item_id} [delete]
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Session ID not found",
		})
		return
	}

	cart, err := h.cartService.RemoveFromCart(c.Request.Context(), sessionID, c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to remove item from cart",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Request types

// AddToCartRequest has no binding range on quantity; the cart core owns that check.
type AddToCartRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
