package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// İmza başlığı biçimi: "t=<unix>,v1=<hex>".
// v1 = HMAC-SHA256(secret, "<unix>.<body>").
const SignatureHeader = "Hediye-Signature"

// DefaultTolerance imza zaman damgası için kabul edilen sapma.
const DefaultTolerance = 5 * time.Minute

var (
	ErrInvalidSignatureHeader = errors.New("imza başlığı çözümlenemedi")
	ErrSignatureMismatch      = errors.New("imza doğrulanamadı")
	ErrSignatureExpired       = errors.New("imza zaman damgası tolerans dışında")
)

// ComputeSignature verilen zaman damgası ve gövde için v1 imzasını üretir.
func ComputeSignature(ts int64, body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload test ve sağlayıcı simülasyonu için tam başlık değeri üretir.
func SignPayload(ts int64, body []byte, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(ts, body, secret))
}

// VerifySignature webhook gövdesinin imzasını doğrular.
// Zaman damgası now'dan tolerance'tan fazla sapıyorsa imza geçerli olsa
// bile reddedilir (replay koruması).
func VerifySignature(body []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64 = -1
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignatureHeader
			}
			ts = parsed
		case "v1":
			sig = v
		}
	}
	if ts < 0 || sig == "" {
		return ErrInvalidSignatureHeader
	}

	expected := ComputeSignature(ts, body, secret)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrSignatureMismatch
	}

	diff := now.Sub(time.Unix(ts, 0))
	if diff < 0 {
		diff = -diff
	}
	if tolerance > 0 && diff > tolerance {
		return ErrSignatureExpired
	}
	return nil
}
