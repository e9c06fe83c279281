// Package metrics uygulamanın prometheus sayaçlarını tanımlar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContributionsCreated kaydedilen katkı sayısı, kaynağına göre
	// (form = doğrudan POST, webhook = ödeme onayı).
	ContributionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hediye",
		Name:      "contributions_created_total",
		Help:      "Kaydedilen katkı sayısı (kaynağına göre).",
	}, []string{"source"})

	// WebhookEvents işlenen webhook olayları, sonucuna göre
	// (processed, duplicate, ignored, invalid_signature, failed).
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hediye",
		Name:      "webhook_events_total",
		Help:      "Alınan ödeme webhook olayları (sonucuna göre).",
	}, []string{"outcome"})

	// NotificationsSent bildirim denemeleri, kanal ve sonuca göre.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hediye",
		Name:      "notifications_total",
		Help:      "Bildirim denemeleri (kanal ve sonuca göre).",
	}, []string{"channel", "outcome"})
)
