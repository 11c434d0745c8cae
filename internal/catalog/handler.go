package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMenuNotFound),
		errors.Is(err, ErrStyleNotFound),
		errors.Is(err, ErrOptionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// --------------------------------------------------
// Public reads
// --------------------------------------------------
func (h *Handler) ListMenus(c *gin.Context) {
	menus, err := h.service.ListMenus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch menus"})
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *Handler) GetMenu(c *gin.Context) {
	menu, err := h.service.GetMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *Handler) ListStyles(c *gin.Context) {
	styles, err := h.service.ListStyles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch serving styles"})
		return
	}
	c.JSON(http.StatusOK, styles)
}

func (h *Handler) ListOptions(c *gin.Context) {
	options, err := h.service.ListOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, options)
}

// --------------------------------------------------
// Admin writes
// --------------------------------------------------
func (h *Handler) CreateMenu(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	menu, err := h.service.CreateMenu(c.Request.Context(), req.Name, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, menu)
}

func (h *Handler) CreateStyle(c *gin.Context) {
	var req struct {
		Name       string `json:"name"`
		ExtraPrice int    `json:"extra_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	style, err := h.service.CreateStyle(c.Request.Context(), req.Name, req.ExtraPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, style)
}

func (h *Handler) CreateOption(c *gin.Context) {
	var req struct {
		Name               string `json:"name"`
		UnitPrice          int    `json:"unit_price"`
		DefaultQty         int    `json:"default_qty"`
		InventoryID        string `json:"inventory_id"`
		ConsumptionPerUnit int    `json:"consumption_per_unit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	option, err := h.service.CreateOption(
		c.Request.Context(),
		c.Param("id"),
		req.Name,
		req.UnitPrice,
		req.DefaultQty,
		req.InventoryID,
		req.ConsumptionPerUnit,
	)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, option)
}

func (h *Handler) UploadMenuImage(c *gin.Context) {
	menuID := c.Param("id")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}

	key := fmt.Sprintf("menus/%s/%s%s", menuID, uuid.New().String(), ext)

	url, err := h.service.UploadMenuImage(c.Request.Context(), menuID, file, key)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
