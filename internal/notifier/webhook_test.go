package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/estoquehub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReport = &model.StockReport{
	ID:            "r-1",
	TotalProducts: 4,
	TotalItems:    9,
	LowStock:      2,
	OutOfStock:    1,
	CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
}

func TestWebhook_NotifyLowStock(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	products := []model.Product{
		{Name: "Nut", SKU: "N1", Quantity: 0, MinQuantity: 2},
		{Name: "Bolt", SKU: "B1", Quantity: 4, MinQuantity: 5},
	}
	err := NewWebhook(srv.URL).NotifyLowStock(context.Background(), testReport, products)
	require.NoError(t, err)

	assert.Equal(t, "2 products need restocking", got.Content)
	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	assert.Equal(t, "2026-03-01T12:00:00Z", embed.Timestamp)
	assert.Equal(t, "2 of 4 products at or below minimum, 1 out of stock. 9 items on hand.", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Nut", embed.Fields[0].Name)
	assert.Equal(t, "SKU N1: 0 (min 2)", embed.Fields[0].Value)
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).NotifyLowStock(context.Background(), testReport, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook error 401")
}

func TestBuildMessage_CapsFields(t *testing.T) {
	products := make([]model.Product, 40)
	for i := range products {
		products[i] = model.Product{Name: strings.Repeat("x", 300), SKU: "S"}
	}

	msg := buildMessage(testReport, products)
	require.Len(t, msg.Embeds[0].Fields, maxEmbedFields)
	assert.Len(t, msg.Embeds[0].Fields[0].Name, 256)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Café", truncate("Café", 4))
	assert.Equal(t, "ação", truncate("ação", 4))
	assert.Equal(t, "aç...", truncate("açúcar", 5))

	long := truncate(strings.Repeat("é", 300), 256)
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, 256, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "..."))
}
