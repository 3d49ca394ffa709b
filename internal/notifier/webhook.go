// Package notifier posts low-stock alerts to a chat webhook. The payload
// follows the Discord webhook message format, which Slack-compatible
// receivers also accept through the content field.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/estoquehub/internal/model"
)

const (
	maxEmbedFields = 25
	alertColor     = 0xE67E22
)

type Message struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Webhook sends alerts to a single URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a new webhook notifier
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyLowStock posts an alert listing products
func (w *Webhook) NotifyLowStock(ctx context.Context, report *model.StockReport, products []model.Product) error {
	return w.send(ctx, buildMessage(report, products))
}

func buildMessage(report *model.StockReport, products []model.Product) *Message {
	summary := report.Summary()
	embed := Embed{
		Title: "Low stock alert",
		Description: fmt.Sprintf("%d of %d products at or below minimum, %d out of stock. %d items on hand.",
			summary.LowStock, summary.TotalProducts, summary.OutOfStock, summary.TotalItems),
		Color:     alertColor,
		Footer:    &EmbedFooter{Text: "EstoqueHub report " + report.ID},
		Timestamp: report.CreatedAt.UTC().Format(time.RFC3339),
	}

	for i, p := range products {
		if i >= maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   truncate(p.Name, 256),
			Value:  fmt.Sprintf("SKU %s: %d (min %d)", p.SKU, p.Quantity, p.MinQuantity),
			Inline: true,
		})
	}

	return &Message{
		Username: "EstoqueHub",
		Content:  fmt.Sprintf("%d products need restocking", report.LowStock),
		Embeds:   []Embed{embed},
	}
}

func (w *Webhook) send(ctx context.Context, message *Message) error {
	jsonBody, err := json.Marshal(message)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// truncate caps s at maxLen characters, cutting on a rune boundary.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
