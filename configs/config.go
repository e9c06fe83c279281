package configs

import (
	"os"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Config ortam değişkenlerinden okunan uygulama ayarları.
// Secret'lar (ödeme, mail) opak string olarak taşınır, loglanmaz.
type Config struct {
	AppEnv  string
	Port    string
	BaseURL string

	// Ödeme sağlayıcısı
	PaymentAPIURL        string
	PaymentSecretKey     string
	PaymentWebhookSecret string

	// Mail sağlayıcısı
	MailAPIURL    string
	MailAPIKey    string
	MailFrom      string
	MailFromName  string
}

// LoadConfig .env dosyasını (varsa) yükler ve Config'i doldurur.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		// .env opsiyonel; production'da değişkenler ortamdan gelir.
		configslog.SLog.Info(".env dosyası bulunamadı, ortam değişkenleri kullanılacak")
	}

	return &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Port:    getEnv("APP_PORT", "3000"),
		BaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		PaymentAPIURL:        getEnv("PAYMENT_API_URL", "https://api.odeme.example.com/v1"),
		PaymentSecretKey:     os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		MailAPIURL:   getEnv("MAIL_API_URL", "https://api.mail.example.com/v1/send"),
		MailAPIKey:   os.Getenv("MAIL_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "bildirim@hediye.link"),
		MailFromName: getEnv("MAIL_FROM_NAME", "hediye.link"),
	}
}

// GetDB configsdatabase'deki bağlantıyı döndürür (main ve CLI için kısayol).
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
