package handlers

import (
	"net/http"
	"sort"
	"strings"

	"levi/database/repository"
	"levi/models"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public service and category listings.
type CatalogHandler struct {
	Store repository.Store
}

func NewCatalogHandler(store repository.Store) *CatalogHandler {
	return &CatalogHandler{Store: store}
}

// ListServicesHandler handles GET /services?search=&ordering=. search matches the title,
// category or provider name; ordering is "rating", "price" or id order.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	ctx := c.Request.Context()

	docs, err := h.Store.ListServices(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	cats, err := categoryIndex(ctx, h.Store)
	if err != nil {
		abortWithError(c, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	out := make([]models.ServiceRecord, 0, len(docs))
	for _, d := range docs {
		rec := serviceRecord(ctx, h.Store, d, cats)
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		out = append(out, rec)
	}

	switch c.Query("ordering") {
	case "rating":
		sort.SliceStable(out, func(i, j int) bool { return rating(out[i]) > rating(out[j]) })
	case "price":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.Decimal.LessThan(out[j].Price.Decimal) })
	}
	c.JSON(http.StatusOK, out)
}

func matchesSearch(rec models.ServiceRecord, q string) bool {
	for _, s := range []string{rec.Title, rec.CategoryName, rec.ProviderName} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func rating(rec models.ServiceRecord) float64 {
	if rec.AverageRating == nil {
		return 0
	}
	return *rec.AverageRating
}

// GetServiceHandler handles GET /services/:id.
func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.Store.GetService(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	cats, err := categoryIndex(ctx, h.Store)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, serviceRecord(ctx, h.Store, *doc, cats))
}

// ListCategoriesHandler handles GET /categories.
func (h *CatalogHandler) ListCategoriesHandler(c *gin.Context) {
	docs, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]models.CategoryRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.CategoryRecord{
			ID:          models.FlexID(d.ID),
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
		})
	}
	c.JSON(http.StatusOK, out)
}
