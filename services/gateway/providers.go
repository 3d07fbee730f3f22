package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"levi/models"
	"levi/services/booking"
	"levi/utils"
)

var orderingParam = map[models.SortKey]string{
	models.SortByDistance: "id",
	models.SortByRating:   "rating",
	models.SortByPrice:    "price",
}

// GetProviders lists providers matching query, ordered by sortBy ("distance" when empty).
func (c *Client) GetProviders(ctx context.Context, query, sortBy string) ([]models.ServiceProvider, error) {
	const op = "gateway.GetProviders"

	key, err := models.ParseSortKey(sortBy)
	if err != nil {
		return nil, utils.WrapError(utils.KindValidation, op, err, "invalid sort key")
	}

	providers, err := readWithFallback(c, op, func() ([]models.ServiceProvider, error) {
		q := url.Values{}
		if s := strings.TrimSpace(query); s != "" {
			q.Set("search", s)
		}
		q.Set("ordering", orderingParam[key])

		var body listBody[models.ServiceRecord]
		if err := c.doJSON(ctx, op, http.MethodGet, "/services", q, nil, &body); err != nil {
			return nil, err
		}
		out := make([]models.ServiceProvider, 0, len(body.Items))
		for _, rec := range body.Items {
			out = append(out, toProvider(rec, c.origin))
		}
		return out, nil
	}, func() []models.ServiceProvider {
		return MockProviders(query)
	})
	if err != nil {
		return nil, err
	}

	booking.RankProviders(providers, key)
	return providers, nil
}

// GetProviderByID returns one provider card.
func (c *Client) GetProviderByID(ctx context.Context, id string) (*models.ServiceProvider, error) {
	const op = "gateway.GetProviderByID"

	if strings.TrimSpace(id) == "" {
		return nil, utils.NewError(utils.KindValidation, op, "provider id is required")
	}

	p, err := readWithFallback(c, op, func() (*models.ServiceProvider, error) {
		var rec models.ServiceRecord
		if err := c.doJSON(ctx, op, http.MethodGet, "/services/"+url.PathEscape(id), nil, nil, &rec); err != nil {
			return nil, err
		}
		p := toProvider(rec, c.origin)
		return &p, nil
	}, func() *models.ServiceProvider {
		for _, p := range MockProviders("") {
			if p.ID == id {
				return &p
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.NewError(utils.KindNotFound, op, "provider %s not found", id)
	}
	return p, nil
}

// GetCategories lists the service categories.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	const op = "gateway.GetCategories"

	return readWithFallback(c, op, func() ([]models.Category, error) {
		var body listBody[models.CategoryRecord]
		if err := c.doJSON(ctx, op, http.MethodGet, "/categories", nil, nil, &body); err != nil {
			return nil, err
		}
		out := make([]models.Category, 0, len(body.Items))
		for _, rec := range body.Items {
			out = append(out, toCategory(rec))
		}
		return out, nil
	}, MockCategories)
}
