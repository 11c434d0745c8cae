package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/customer"
	"github.com/Dinnervery/Backend-sub000/internal/inventory"
	"github.com/Dinnervery/Backend-sub000/internal/middleware"
	"github.com/Dinnervery/Backend-sub000/internal/policy"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	var transitionErr *InvalidTransitionError
	var stockErr *inventory.InsufficientStockError

	switch {
	case errors.As(err, &transitionErr),
		errors.As(err, &stockErr),
		errors.Is(err, ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, catalog.ErrMenuNotFound),
		errors.Is(err, catalog.ErrStyleNotFound),
		errors.Is(err, catalog.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, policy.ErrClosed),
		errors.Is(err, policy.ErrPastLastOrder),
		errors.Is(err, policy.ErrInvalidDeliveryTime):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// --------------------------------------------------
// Checkout
// --------------------------------------------------
func (h *Handler) Place(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Address      string    `json:"address"`
		PaymentRef   string    `json:"payment_ref"`
		DeliveryTime time.Time `json:"delivery_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.service.Place(c.Request.Context(), customerID, req.Address, req.PaymentRef, req.DeliveryTime)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orders, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) Get(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	o, err := h.service.Get(c.Request.Context(), customerID, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// --------------------------------------------------
// Kitchen / delivery transitions (ADMIN)
// --------------------------------------------------
func (h *Handler) StartCooking(c *gin.Context) {
	h.runTransition(c, h.service.StartCooking)
}

func (h *Handler) CompleteCooking(c *gin.Context) {
	h.runTransition(c, h.service.CompleteCooking)
}

func (h *Handler) StartDelivering(c *gin.Context) {
	h.runTransition(c, h.service.StartDelivering)
}

func (h *Handler) CompleteDelivery(c *gin.Context) {
	h.runTransition(c, h.service.CompleteDelivery)
}

func (h *Handler) runTransition(c *gin.Context, fn func(ctx context.Context, orderID string) (*Order, error)) {
	o, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// --------------------------------------------------
// Cancellation and deletion
// --------------------------------------------------
func (h *Handler) Cancel(c *gin.Context) {
	o, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, ErrCancellationUnsupported) {
			status = http.StatusNotImplemented
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c *gin.Context) {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), customerID, c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
