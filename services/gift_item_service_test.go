package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportService(t *testing.T) *GiftItemService {
	t.Helper()
	return &GiftItemService{httpClient: &http.Client{Timeout: 5 * time.Second}}
}

func TestImportFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="Kahve Makinesi Deluxe" />
			<meta property="og:description" content="Tam otomatik espresso makinesi." />
			<meta property="og:image" content="https://cdn.example.com/kahve.jpg" />
		</head><body></body></html>`))
	}))
	defer server.Close()

	service := newImportService(t)
	item, err := service.ImportFromURL(context.Background(), server.URL+"/urun/123")

	require.NoError(t, err)
	assert.Equal(t, "Kahve Makinesi Deluxe", item.Name)
	assert.Equal(t, "Tam otomatik espresso makinesi.", item.Description)
	assert.Equal(t, "https://cdn.example.com/kahve.jpg", item.ImageURL)
	assert.Equal(t, server.URL+"/urun/123", item.ProductURL)
	assert.Equal(t, 1, item.Quantity)
}

func TestImportFromURLWithoutOGTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>sayfa</title></head><body></body></html>`))
	}))
	defer server.Close()

	service := newImportService(t)
	item, err := service.ImportFromURL(context.Background(), server.URL)

	require.NoError(t, err)
	// OG başlığı yoksa host adı taslak isim olur.
	assert.NotEmpty(t, item.Name)
}

func TestImportFromURLInvalidAddress(t *testing.T) {
	service := newImportService(t)

	tests := []string{"", "ftp://example.com/x", "not a url", "  "}
	for _, u := range tests {
		_, err := service.ImportFromURL(context.Background(), u)
		assert.ErrorIs(t, err, ErrGiftItemInvalidInput, "url: %q", u)
	}
}

func TestImportFromURLUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := newImportService(t)
	_, err := service.ImportFromURL(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrGiftItemImportFailed)
}
