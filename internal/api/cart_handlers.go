package api

import (
	"net/http"
	"strconv"

	"storefront/internal/pricing"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

type addLineRequest struct {
	SubCode string `json:"sub_code" binding:"required"`
	Size    string `json:"size" binding:"required"`
}

type updateLineRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), session(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

func (h *Handler) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	cart, status, err := h.carts.Add(c.Request.Context(), session(c), req.SubCode, pricing.Size(req.Size))
	if err != nil {
		h.fail(c, err)
		return
	}
	if status == pricing.StatusCapacityExceeded {
		c.JSON(http.StatusConflict, gin.H{
			"error":  service.ErrCapacityExceeded.Error(),
			"status": status,
			"cart":   h.cartView(cart),
		})
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

func (h *Handler) updateLine(c *gin.Context) {
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), session(c), index, *req.Delta)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

func (h *Handler) removeLine(c *gin.Context) {
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	cart, err := h.carts.Remove(c.Request.Context(), session(c), index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

func lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "Invalid line index", err)
		return 0, false
	}
	return index, true
}
