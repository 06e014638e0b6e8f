package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/pkg/config"
)

// CustomerInfo identifies the buyer on a Khalti payment.
type CustomerInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type khaltiPayload struct {
	ReturnURL         string        `json:"return_url"`
	WebsiteURL        string        `json:"website_url"`
	Amount            uint          `json:"amount"`
	PurchaseOrderID   string        `json:"purchase_order_id"`
	PurchaseOrderName string        `json:"purchase_order_name"`
	CustomerInfo      *CustomerInfo `json:"customer_info"`
}

// KhaltiClient talks to the Khalti e-payment API. Responses are relayed
// verbatim to the frontend, which drives the redirect flow.
type KhaltiClient struct {
	cfg    config.Khalti
	client *http.Client
	log    zerolog.Logger
}

func NewKhaltiClient(cfg config.Khalti, log zerolog.Logger) *KhaltiClient {
	return &KhaltiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log.With().Str("component", "khalti").Logger(),
	}
}

// InitiateInput carries everything the gateway needs to open a payment.
type InitiateInput struct {
	ProductID   string
	ProductName string
	PriceNPR    uint
	ReturnURL   string
	WebsiteURL  string
	Customer    *CustomerInfo
}

// Initiate opens a payment at the gateway. It returns the gateway's raw JSON
// body and status plus the extracted pidx when present.
func (k *KhaltiClient) Initiate(ctx context.Context, in InitiateInput) (pidx string, raw []byte, status int, err error) {
	payload := khaltiPayload{
		ReturnURL:         in.ReturnURL,
		WebsiteURL:        in.WebsiteURL,
		Amount:            in.PriceNPR * 100, // paisa
		PurchaseOrderID:   in.ProductID,
		PurchaseOrderName: in.ProductName,
		CustomerInfo:      in.Customer,
	}

	raw, status, err = k.post(ctx, k.cfg.BaseURL+"/epayment/initiate/", payload)
	if err != nil {
		return "", nil, 0, err
	}

	var parsed struct {
		Pidx string `json:"pidx"`
	}
	if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil {
		pidx = parsed.Pidx
	}

	return pidx, raw, status, nil
}

// Lookup fetches the payment state for a pidx.
func (k *KhaltiClient) Lookup(ctx context.Context, pidx string) (raw []byte, status int, err error) {
	return k.post(ctx, k.cfg.BaseURL+"/epayment/lookup/", map[string]string{"pidx": pidx})
}

func (k *KhaltiClient) post(ctx context.Context, url string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal Khalti payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create Khalti request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+k.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("Khalti API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read Khalti response: %w", err)
	}

	k.log.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("khalti response")
	return raw, resp.StatusCode, nil
}
