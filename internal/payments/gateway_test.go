package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/shared/apperrors"
	"eventhub/internal/shared/config"
)

func newTestGateway(serverURL string) Gateway {
	return NewStripeGateway(&config.StripeConfig{
		SecretKey: "sk_test_123",
		BaseURL:   serverURL,
		Timeout:   5 * time.Second,
	})
}

func TestStripeGatewayCreateIntent(t *testing.T) {
	t.Run("sends form-encoded request with metadata", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotForm map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth, _, _ = r.BasicAuth()

			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"amount":    r.PostForm.Get("amount"),
				"currency":  r.PostForm.Get("currency"),
				"auto":      r.PostForm.Get("automatic_payment_methods[enabled]"),
				"user":      r.PostForm.Get("metadata[user_id]"),
				"booking":   r.PostForm.Get("metadata[booking_id]"),
				"mediatype": r.Header.Get("Content-Type"),
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"pi_abc","client_secret":"pi_abc_secret_xyz"}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)
		intent, err := gateway.CreateIntent(context.Background(), &IntentRequest{
			Amount:    4999,
			Currency:  "USD",
			UserID:    "user-1",
			BookingID: "booking-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "pi_abc", intent.ID)
		assert.Equal(t, "pi_abc_secret_xyz", intent.ClientSecret)

		assert.Equal(t, "/v1/payment_intents", gotPath)
		assert.Equal(t, "sk_test_123", gotAuth)
		assert.Equal(t, "4999", gotForm["amount"])
		assert.Equal(t, "usd", gotForm["currency"])
		assert.Equal(t, "true", gotForm["auto"])
		assert.Equal(t, "user-1", gotForm["user"])
		assert.Equal(t, "booking-1", gotForm["booking"])
		assert.Equal(t, "application/x-www-form-urlencoded", gotForm["mediatype"])
	})

	t.Run("non-2xx maps to gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"message":"card declined"}}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)
		_, err := gateway.CreateIntent(context.Background(), &IntentRequest{Amount: 100, Currency: "USD"})
		assert.ErrorIs(t, err, apperrors.ErrPaymentGateway)
	})

	t.Run("missing client secret rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"pi_abc"}`))
		}))
		defer server.Close()

		gateway := newTestGateway(server.URL)
		_, err := gateway.CreateIntent(context.Background(), &IntentRequest{Amount: 100, Currency: "USD"})
		assert.ErrorIs(t, err, apperrors.ErrPaymentGateway)
	})

	t.Run("unreachable server maps to gateway error", func(t *testing.T) {
		gateway := newTestGateway("http://127.0.0.1:1")
		_, err := gateway.CreateIntent(context.Background(), &IntentRequest{Amount: 100, Currency: "USD"})
		assert.ErrorIs(t, err, apperrors.ErrPaymentGateway)
	})
}
