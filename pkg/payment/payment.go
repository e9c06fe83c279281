// Package payment ödeme sağlayıcısıyla konuşan ince HTTP istemcisini ve
// webhook imza şemasını içerir. Sağlayıcı tarafı dışarıda bir servistir;
// burada yalnızca intent oluşturma çağrısı ve olay tipleri modellenir.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Sağlayıcıdan beklediğimiz olay tipleri. Succeeded dışındakiler webhook
// tarafında 200 ile onaylanıp yok sayılır.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"

	ProviderName = "hediyepay"
)

// Intent sağlayıcıda oluşturulan ödeme niyeti.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       float64           `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

// Event webhook ile gelen imzalı olay gövdesi.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Intent `json:"object"`
	} `json:"data"`
}

// Webhook metadata'sında taşınan katkı alanları.
const (
	MetaRegistryID        = "registry_id"
	MetaGiftItemID        = "gift_item_id"
	MetaContributorUserID = "contributor_user_id"
	MetaContributorName   = "contributor_name"
	MetaIsAnonymous       = "is_anonymous"
	MetaMessage           = "message"
)

// CreateIntentParams intent oluşturma isteği.
type CreateIntentParams struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Client sağlayıcı API'sine giden istekleri yapar.
// Global instance yok; main'de kurulup servislere parametre olarak geçilir.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient yeni bir ödeme istemcisi oluşturur.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError sağlayıcının hata cevabı.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ödeme sağlayıcısı hatası (%d): %s", e.StatusCode, e.Message)
}

// CreateIntent sağlayıcıda yeni bir ödeme niyeti oluşturur.
// Metadata katkı alanlarını (liste/hediye ID, katkıcı bilgileri) taşır ve
// webhook'ta aynen geri döner.
func (c *Client) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	// Ağ hatasında güvenli tekrar için istek başına tekil anahtar.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return nil, apiErr
	}

	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("intent cevabı çözümlenemedi: %w", err)
	}
	return &intent, nil
}
