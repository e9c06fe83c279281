package main

import (
	"os"
	"os/signal"
	"syscall"

	"hediye.link/configs"
	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/pkg/mailer"
	"hediye.link/pkg/payment"
	"hediye.link/routes"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.LoadConfig()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/public",
	})

	paymentClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)

	var mail mailer.Mailer
	if cfg.MailAPIURL != "" && cfg.MailAPIKey != "" {
		mail = mailer.NewClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.MailFromName)
	} else {
		configslog.SLog.Warn("Mail sağlayıcısı yapılandırılmadı, e-posta bildirimleri devre dışı.")
	}

	contributionService := services.NewContributionService(db)
	notificationService := services.NewNotificationService(db, mail, cfg.BaseURL)

	svc := routes.AppServices{
		Users:         services.NewUserService(db),
		Registries:    services.NewRegistryService(db),
		GiftItems:     services.NewGiftItemService(db),
		Contributions: contributionService,
		Payments:      services.NewPaymentService(db, paymentClient),
		Webhooks:      services.NewWebhookService(db, contributionService, notificationService, cfg.PaymentWebhookSecret),
		Notifications: notificationService,
	}

	routes.SetupRoutes(app, svc)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Sunucu kapatılırken hata oluştu", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	configslog.SLog.Infof("Sunucu %s adresinde dinliyor...", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}
}
