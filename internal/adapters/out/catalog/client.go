// Package catalog implements the product catalog port against the catalog
// service's HTTP API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

var _ ports.ProductCatalog = &Client{}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type productResponse struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsActive  bool            `json:"is_active"`
}

func (c *Client) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	endpoint := c.baseURL + "/api/products/" + url.PathEscape(productID)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.Product{}, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ports.Product{}, errs.NewUpstreamUnavailableError("catalog", err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return ports.Product{}, errs.NewObjectNotFoundError("product_id", productID)
	case response.StatusCode < 200 || response.StatusCode > 299:
		return ports.Product{}, errs.NewUpstreamUnavailableError("catalog",
			fmt.Errorf("product lookup returned status %d", response.StatusCode))
	}

	var product productResponse
	if err = json.NewDecoder(response.Body).Decode(&product); err != nil {
		return ports.Product{}, errs.NewUpstreamUnavailableError("catalog", err)
	}

	return ports.Product{
		SKU:       product.SKU,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		IsActive:  product.IsActive,
	}, nil
}
