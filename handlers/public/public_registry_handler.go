package public

import (
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicRegistryHandler paylaşım anahtarı ile açılan public liste sayfası.
type PublicRegistryHandler struct {
	registryService     services.IRegistryService
	contributionService services.IContributionService
}

// NewPublicRegistryHandler yeni bir PublicRegistryHandler örneği oluşturur.
func NewPublicRegistryHandler(registryService services.IRegistryService, contributionService services.IContributionService) *PublicRegistryHandler {
	return &PublicRegistryHandler{
		registryService:     registryService,
		contributionService: contributionService,
	}
}

// ShowRegistry GET /r/:key
// Paylaşım anahtarına göre listeyi bulur ve public sayfayı render eder.
// Katkılar ShowContributorNames kapalıysa isimsiz görünür; bu kural
// ContributionView üretilirken uygulanır, şablon ham modeli görmez.
func (h *PublicRegistryHandler) ShowRegistry(c *fiber.Ctx) error {
	key := c.Params("key")
	if len(key) != 11 {
		configslog.SLog.Warnf("Geçersiz formatta paylaşım anahtarı denendi: %s", key)
		return h.renderNotFound(c, "Geçersiz Bağlantı")
	}

	result, err := h.registryService.GetRegistryByShareKey(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, services.ErrRegistryNotFound) {
			return h.renderNotFound(c, "Liste Bulunamadı")
		}
		configslog.Log.Error("ShowRegistry: GetRegistryByShareKey error", zap.String("key", key), zap.Error(err))
		return h.renderError(c, "Liste yüklenirken bir sorun oluştu.")
	}

	// Public görünüm: istek sahibi oturumsuz kabul edilir (userID 0),
	// isim gizleme kuralı böylece her zaman uygulanır.
	contributions, err := h.contributionService.GetContributionsForRegistry(c.UserContext(), result.Registry.ID, 0)
	if err != nil {
		configslog.Log.Error("ShowRegistry: GetContributionsForRegistry error", zap.String("key", key), zap.Error(err))
		return h.renderError(c, "Katkılar yüklenirken bir sorun oluştu.")
	}

	return c.Render("public/registry", fiber.Map{
		"Title":         result.Registry.Title,
		"Registry":      result.Registry,
		"Summary":       result.Summary,
		"ItemSummaries": result.Items,
		"Contributions": contributions,
	}, "layouts/public")
}

func (h *PublicRegistryHandler) renderNotFound(c *fiber.Ctx, title string) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": title}, "layouts/public")
}

func (h *PublicRegistryHandler) renderError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"Title":   "Bir Sorun Oluştu",
		"Message": message,
	}, "layouts/public")
}
