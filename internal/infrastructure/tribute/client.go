// Package tribute integrates with the Tribute payment provider: outbound
// API calls for the product catalog and payment links, and inbound
// webhook signature verification.
package tribute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vechnost/internal/shared/config"
	"vechnost/internal/shared/logger"
)

// Product is one catalog entry as returned by the Tribute API.
type Product struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"` // smallest currency unit
	Currency    string `json:"currency"`
	StarsAmount *int64 `json:"stars_amount,omitempty"`
	TLink       string `json:"t_link,omitempty"`
	WebLink     string `json:"web_link,omitempty"`
}

// PaymentLink is the result of creating a payment: an opaque payment id
// and the URL the user completes the purchase at.
type PaymentLink struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// CreatePaymentLinkRequest carries the purchase parameters.
type CreatePaymentLinkRequest struct {
	TelegramUserID int64
	Amount         int64
	Currency       string
	Description    string
	ProductID      int64
}

// Client calls the Tribute HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient creates a Tribute API client from configuration.
func NewClient(cfg *config.TributeConfig, logger logger.Interface) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tribute API key not configured")
	}

	body, err := c.doGet(ctx, "/products")
	if err != nil {
		return nil, err
	}

	// The API has returned both a bare array and a wrapped object.
	var wrapped struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products response: %w", err)
	}
	return products, nil
}

// CreatePaymentLink creates a payment and returns the link the user
// completes it at. The payment id is opaque; the eventual outcome
// arrives via webhook.
func (c *Client) CreatePaymentLink(ctx context.Context, req CreatePaymentLinkRequest) (*PaymentLink, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tribute API key not configured")
	}

	payload := map[string]interface{}{
		"amount":      req.Amount,
		"currency":    req.Currency,
		"description": req.Description,
		"metadata": map[string]interface{}{
			"telegram_user_id": req.TelegramUserID,
			"product_id":       req.ProductID,
		},
		"customer": map[string]interface{}{
			"telegram_user_id": req.TelegramUserID,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tribute request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tribute response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tribute returned status %d: %s", resp.StatusCode, respBody)
	}

	var link PaymentLink
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("failed to decode payment link response: %w", err)
	}

	c.logger.Infow("created payment link", "payment_id", link.PaymentID, "telegram_user_id", req.TelegramUserID)
	return &link, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tribute request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tribute response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tribute returned status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
