package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var params CreateIntentParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.InDelta(t, 150.0, params.Amount, 1e-9)
		assert.Equal(t, "TRY", params.Currency)
		assert.Equal(t, "3", params.Metadata[MetaRegistryID])

		_ = json.NewEncoder(w).Encode(Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Amount:       params.Amount,
			Currency:     params.Currency,
			Status:       "requires_payment_method",
			Metadata:     params.Metadata,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_1")
	intent, err := client.CreateIntent(context.Background(), CreateIntentParams{
		Amount:   150,
		Currency: "TRY",
		Metadata: map[string]string{MetaRegistryID: "3", MetaGiftItemID: "9"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, "9", intent.Metadata[MetaGiftItemID])
}

func TestCreateIntentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "amount must be positive"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_1")
	_, err := client.CreateIntent(context.Background(), CreateIntentParams{Amount: -1, Currency: "TRY"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "amount must be positive", apiErr.Message)
}

func TestCreateIntentAPIErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_1")
	_, err := client.CreateIntent(context.Background(), CreateIntentParams{Amount: 10, Currency: "TRY"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}

func TestCreateIntentBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bu json değil"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_1")
	_, err := client.CreateIntent(context.Background(), CreateIntentParams{Amount: 10, Currency: "TRY"})

	assert.Error(t, err)
}
