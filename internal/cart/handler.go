package cart

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, catalog.ErrMenuNotFound),
		errors.Is(err, catalog.ErrStyleNotFound),
		errors.Is(err, catalog.ErrOptionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

type cartResponse struct {
	*Cart
	Total int `json:"total"`
}

func respond(c *gin.Context, status int, cart *Cart) {
	c.JSON(status, cartResponse{Cart: cart, Total: cart.Total()})
}

// --------------------------------------------------
// Read cart
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cart, err := h.service.GetOrCreate(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
		return
	}
	respond(c, http.StatusOK, cart)
}

// --------------------------------------------------
// Add item
// --------------------------------------------------
func (h *Handler) AddItem(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		MenuID   string       `json:"menu_id"`
		StyleID  string       `json:"style_id"`
		Quantity int          `json:"quantity"`
		Options  []OptionPick `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.service.AddItem(
		c.Request.Context(),
		customerID,
		req.MenuID,
		req.StyleID,
		req.Quantity,
		req.Options,
	)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusCreated, cart)
}

// --------------------------------------------------
// Remove item
// --------------------------------------------------
func (h *Handler) RemoveItem(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), customerID, c.Param("itemId"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusOK, cart)
}

// --------------------------------------------------
// Change option quantity
// --------------------------------------------------
func (h *Handler) ChangeOptionQuantity(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.service.ChangeOptionQuantity(
		c.Request.Context(),
		customerID,
		c.Param("itemId"),
		c.Param("optionId"),
		req.Quantity,
	)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusOK, cart)
}

// --------------------------------------------------
// Remove serving style (falls back to the zero-extra style)
// --------------------------------------------------
func (h *Handler) RemoveStyle(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cart, err := h.service.RemoveStyle(c.Request.Context(), customerID, c.Param("itemId"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusOK, cart)
}
