package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_123"

func TestVerifySignatureValid(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	header := SignPayload(now.Unix(), body, testSecret)

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.NoError(t, err)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(now.Unix(), body, "baska-secret")

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	body := []byte(`{"amount":50}`)
	now := time.Now()
	header := SignPayload(now.Unix(), body, testSecret)

	err := VerifySignature([]byte(`{"amount":5000}`), header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifySignatureExpired(t *testing.T) {
	body := []byte(`{}`)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * time.Minute)
	header := SignPayload(old.Unix(), body, testSecret)

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestVerifySignatureFutureTimestamp(t *testing.T) {
	body := []byte(`{}`)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Minute)
	header := SignPayload(future.Unix(), body, testSecret)

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestVerifySignatureWithinTolerance(t *testing.T) {
	body := []byte(`{}`)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	header := SignPayload(now.Add(-4*time.Minute).Unix(), body, testSecret)

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.NoError(t, err)
}

func TestVerifySignatureBadHeader(t *testing.T) {
	body := []byte(`{}`)
	now := time.Now()

	tests := []struct {
		name   string
		header string
	}{
		{"boş başlık", ""},
		{"zaman damgası yok", "v1=abc"},
		{"imza yok", "t=1700000000"},
		{"sayısal olmayan zaman damgası", "t=abc,v1=def"},
		{"rastgele metin", "gecersiz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(body, tt.header, testSecret, DefaultTolerance, now)
			assert.ErrorIs(t, err, ErrInvalidSignatureHeader)
		})
	}
}

func TestSignPayloadFormat(t *testing.T) {
	body := []byte("test")
	header := SignPayload(1700000000, body, testSecret)

	require.Regexp(t, `^t=1700000000,v1=[0-9a-f]{64}$`, header)
}
