package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
)

// PSE posts a bank-transfer payment request to the PSE aggregator.
// The aggregator exposes a plain JSON endpoint, there is no Go SDK for it.
type PSE struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPSE(baseURL, apiKey string) (port.Gateway, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is empty")
	}

	return &PSE{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: chargeTimeout},
	}, nil
}

type pseRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Bank        string `json:"bank"`
	Invoice     string `json:"invoice"`
	Description string `json:"description"`
	Name        string `json:"name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}

type pseResponse struct {
	Success bool `json:"success"`
}

func (g *PSE) Charge(ctx context.Context, order domain.Order, payload domain.PaymentPayload) (bool, error) {
	if payload.BankCode == "" {
		return false, fmt.Errorf("bankCode is empty")
	}

	body, err := json.Marshal(pseRequest{
		Amount:      order.Total.Amount.String(),
		Currency:    order.Total.Currency.String(),
		Bank:        payload.BankCode,
		Invoice:     order.ID.String(),
		Description: "Order payment",
		Name:        payload.Name,
		LastName:    payload.LastName,
		Email:       payload.Email,
	})
	if err != nil {
		return false, fmt.Errorf("json.Marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, chargeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payment/pse", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("client.Do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed pseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}

	return parsed.Success, nil
}
