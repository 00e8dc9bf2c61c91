package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWidget(t *testing.T, stock int) *Product {
	t.Helper()
	product, err := NewProduct(1, Details{
		Name:        "Widget",
		Description: "Steel widget",
		Price:       decimal.RequireFromString("20.00"),
		Stock:       stock,
	})
	require.NoError(t, err)
	return product
}

func TestNewProduct_ValidatesAllFields(t *testing.T) {
	_, err := NewProduct(1, Details{Name: "W", Description: "abc", Price: decimal.Zero, Stock: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameTooShort)
	assert.ErrorIs(t, err, ErrDescriptionTooShort)
	assert.ErrorIs(t, err, ErrPriceNotPositive)
	assert.ErrorIs(t, err, ErrNegativeStock)
}

func TestNewProduct_StartsActive(t *testing.T) {
	product := newWidget(t, 10)
	assert.True(t, product.Active)
	assert.True(t, product.InventoryValue().Equal(decimal.RequireFromString("200")))
}

func TestAdjustStock_Modes(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		mode    StockMode
		want    int
		wantErr error
	}{
		{name: "add", amount: 5, mode: StockAdd, want: 15},
		{name: "remove", amount: 4, mode: StockRemove, want: 6},
		{name: "remove all", amount: 10, mode: StockRemove, want: 0},
		{name: "remove too many", amount: 11, mode: StockRemove, want: 10, wantErr: ErrInsufficientStock},
		{name: "set", amount: 3, mode: StockSet, want: 3},
		{name: "set zero", amount: 0, mode: StockSet, want: 0},
		{name: "set negative", amount: -1, mode: StockSet, want: 10, wantErr: ErrNegativeStock},
		{name: "add zero", amount: 0, mode: StockAdd, want: 10, wantErr: ErrInvalidAmount},
		{name: "unknown mode", amount: 1, mode: StockMode("swap"), want: 10, wantErr: ErrInvalidStockMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := newWidget(t, 10)
			err := product.AdjustStock(tt.amount, tt.mode)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, product.Stock)
		})
	}
}

func TestActivateDeactivate(t *testing.T) {
	product := newWidget(t, 1)
	require.ErrorIs(t, product.Activate(), ErrAlreadyActive)
	require.NoError(t, product.Deactivate())
	require.ErrorIs(t, product.Deactivate(), ErrAlreadyInactive)
	require.NoError(t, product.Activate())
}

func TestParseStockMode(t *testing.T) {
	mode, err := ParseStockMode(" Remove ")
	require.NoError(t, err)
	assert.Equal(t, StockRemove, mode)

	_, err = ParseStockMode("subtract")
	require.ErrorIs(t, err, ErrInvalidStockMode)
}
