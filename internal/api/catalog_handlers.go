package api

import (
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/pricing"

	"github.com/gin-gonic/gin"
)

const defaultLatestDrops = 4

func (h *Handler) listProducts(c *gin.Context) {
	inStock, _ := strconv.ParseBool(c.Query("in_stock"))
	filter := catalog.Filter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		PriceBand:   c.DefaultQuery("price", catalog.PriceAll),
		InStockOnly: inStock,
		Sort:        c.DefaultQuery("sort", catalog.SortNewest),
	}

	groups, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.productViews(groups)})
}

func (h *Handler) getProduct(c *gin.Context) {
	detail, err := h.catalog.Product(c.Request.Context(), c.Param("parent"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, productDetailView{
		productView: h.productView(detail.ProductGroup),
		Galleries:   detail.Galleries,
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) latestDrops(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLatestDrops)))
	if err != nil || limit < 1 {
		badRequest(c, "Invalid limit", err)
		return
	}
	groups, err := h.catalog.LatestDrops(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.productViews(groups)})
}

func (h *Handler) sizeOptions(c *gin.Context) {
	var selected *pricing.Size
	if raw := c.Query("selected"); raw != "" {
		size := pricing.Size(raw)
		selected = &size
	}
	choice, err := h.catalog.SizeOptions(c.Request.Context(), c.Param("sub"), selected)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

func (h *Handler) listRegions(c *gin.Context) {
	regions, err := h.catalog.Regions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func (h *Handler) listTowns(c *gin.Context) {
	towns, err := h.catalog.Towns(c.Request.Context(), c.Query("region"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"towns": towns})
}

// listAreas returns each area with its delivery fee
func (h *Handler) listAreas(c *gin.Context) {
	ctx := c.Request.Context()
	region, town := c.Query("region"), c.Query("town")

	zones, err := h.catalog.Zones(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	areas := pricing.Areas(zones, region, town)
	views := make([]areaView, 0, len(areas))
	for _, area := range areas {
		sel := pricing.ZoneSelection{Region: region, Town: town, Area: area}
		views = append(views, areaView{
			Area: area,
			Fee:  h.fee(pricing.ComputeDeliveryFee(pricing.MethodDelivery, sel, zones)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"areas": views})
}
