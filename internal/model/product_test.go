package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		min      int
		want     StockStatus
	}{
		{"below minimum", 5, 10, StockStatusLow},
		{"equal to minimum", 5, 5, StockStatusLow},
		{"above minimum", 10, 5, StockStatusOK},
		{"zero quantity", 0, 5, StockStatusOutOfStock},
		{"zero quantity and zero minimum", 0, 0, StockStatusOutOfStock},
		{"positive with zero minimum", 1, 0, StockStatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockStatusOf(tt.quantity, tt.min))
		})
	}
}

func TestProduct_Classify(t *testing.T) {
	p := Product{Quantity: 3, MinQuantity: 5}
	p.Classify()

	assert.Equal(t, StockStatusLow, p.Status)
	assert.True(t, p.IsLowStock())
}

func TestInvalidCredentialsIsUnauthorized(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidCredentials, ErrUnauthorized))
	assert.False(t, errors.Is(ErrUnauthorized, ErrInvalidCredentials))
}
