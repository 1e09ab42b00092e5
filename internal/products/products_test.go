package products

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/pkg/clients"
)

func NewMock(t *testing.T) (*Client, *clients.MockHTTPClientI) {
	ctrl := gomock.NewController(t)
	httpClient := clients.NewMockHTTPClientI(ctrl)
	client := New("http://localhost:8081", httpClient)
	defer ctrl.Finish()
	return client, httpClient
}

func TestGetProduct(t *testing.T) {
	client, httpClient := NewMock(t)

	tests := []struct {
		name        string
		productID   string
		prepareMock func()
		assertion   func(t *testing.T, err error)
		expectNil   bool
	}{
		{
			name:      "Product found",
			productID: "fund-money-market",
			prepareMock: func() {
				body := []byte(`{"id":"fund-money-market","min_investment":"100","is_active":true}`)
				httpClient.EXPECT().Get("http://localhost:8081/api/products/fund-money-market", nil).
					Return(http.StatusOK, body, nil, nil)
			},
			assertion: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:      "Unknown product",
			productID: "ghost",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://localhost:8081/api/products/ghost", nil).
					Return(http.StatusNotFound, nil, nil, nil)
			},
			assertion: func(t *testing.T, err error) { assert.NoError(t, err) },
			expectNil: true,
		},
		{
			name:      "Catalog unavailable",
			productID: "fund-money-market",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://localhost:8081/api/products/fund-money-market", nil).
					Return(0, nil, nil, errors.New("connection refused"))
			},
			assertion: func(t *testing.T, err error) { assert.Error(t, err) },
			expectNil: true,
		},
		{
			name:      "Unexpected status",
			productID: "fund-money-market",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://localhost:8081/api/products/fund-money-market", nil).
					Return(http.StatusInternalServerError, nil, nil, nil)
			},
			assertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "status 500")
			},
			expectNil: true,
		},
		{
			name:      "Malformed payload",
			productID: "fund-money-market",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://localhost:8081/api/products/fund-money-market", nil).
					Return(http.StatusOK, []byte(`{broken`), nil, nil)
			},
			assertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to parse product response")
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			product, err := client.GetProduct(context.Background(), tt.productID)
			tt.assertion(t, err)
			if tt.expectNil {
				assert.Nil(t, product)
			} else {
				assert.Equal(t, tt.productID, product.ID)
				assert.True(t, decimal.NewFromInt(100).Equal(product.MinInvestment))
				assert.True(t, product.IsActive)
			}
		})
	}
}
