package products

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/pkg/clients"
)

// Client reads the external investment-product catalog. The catalog is
// read-only from this service's point of view.
type Client struct {
	url    string
	client clients.HTTPClientI
}

func New(url string, client clients.HTTPClientI) *Client {
	return &Client{
		url:    url,
		client: client,
	}
}

// GetProduct returns (nil, nil) when the catalog does not know the product.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.InvestmentProduct, error) {
	url := c.url + "/api/products/" + productID

	statusCode, respBody, _, err := c.client.Get(url, nil)
	if err != nil {
		zap.L().Error("product catalog request failed", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}

	switch statusCode {
	case http.StatusOK:
		var product domain.InvestmentProduct
		if err := json.Unmarshal(respBody, &product); err != nil {
			return nil, fmt.Errorf("failed to parse product response: %w", err)
		}
		return &product, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		zap.L().Error("unexpected product catalog status", zap.Int("status", statusCode), zap.String("product_id", productID))
		return nil, fmt.Errorf("product catalog returned status %d", statusCode)
	}
}
