package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventhub/internal/shared/apperrors"
	"eventhub/internal/shared/config"
)

// IntentRequest is what the gateway needs to open a payment intent.
// Amount is in minor units (cents).
type IntentRequest struct {
	Amount    int64
	Currency  string
	UserID    string
	BookingID string
}

// Intent is the gateway's handle on an open payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway abstracts the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)
}

// stripeGateway talks to the Stripe REST API. Requests are form-encoded
// and authenticated with the secret key as basic auth username.
type stripeGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewStripeGateway creates a gateway client from config.
func NewStripeGateway(cfg *config.StripeConfig) Gateway {
	return &stripeGateway{
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *stripeGateway) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[user_id]", req.UserID)
	form.Set("metadata[booking_id]", req.BookingID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", apperrors.ErrPaymentGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrPaymentGateway, resp.StatusCode)
	}

	var parsed struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response", apperrors.ErrPaymentGateway)
	}
	if parsed.ClientSecret == "" {
		return nil, fmt.Errorf("%w: response missing client secret", apperrors.ErrPaymentGateway)
	}

	return &Intent{ID: parsed.ID, ClientSecret: parsed.ClientSecret}, nil
}
