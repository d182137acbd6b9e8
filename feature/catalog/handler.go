package catalog

import (
	"stocktake/core/apperr"
	"stocktake/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/barcode/validate", h.HandleValidateBarcode)

	group := app.Group("/catalog")
	group.Post("/sync", h.HandleSync)
	group.Get("/snapshots", h.HandleListSnapshots)
}

// HandleValidateBarcode checks a barcode against the catalog without
// touching any session.
// @Summary Validate Barcode
// @Description Resolve a barcode against the catalog and return the matching item.
// @Tags catalog
// @Produce json
// @Param code query string true "Barcode to validate"
// @Success 200 {object} catalog.Entry "Resolved item"
// @Failure 400 {object} map[string]interface{} "Empty barcode"
// @Failure 404 {object} map[string]interface{} "Unknown barcode"
// @Router /barcode/validate [get]
func (h *Handler) HandleValidateBarcode(c *fiber.Ctx) error {
	entry, err := h.service.Resolve(c.Context(), c.Query("code"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(entry)
}

// HandleSync replaces the local catalog with a fresh ERP export.
// @Summary Sync Catalog
// @Description Fetch the stock export from the ERP integrator, replace the local catalog, and archive a snapshot.
// @Tags catalog
// @Produce json
// @Success 200 {object} catalog.SyncReport "Sync summary"
// @Failure 503 {object} map[string]interface{} "Export API unreachable or not configured"
// @Router /catalog/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Catalog sync requested")

	report, err := h.service.Sync(c.Context())
	if err != nil {
		l.Error("Catalog sync failed", zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.JSON(report)
}

// HandleListSnapshots lists archived catalog snapshots.
// @Summary List Catalog Snapshots
// @Description Enumerate archived catalog export snapshots.
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.SnapshotInfo "Snapshots"
// @Failure 503 {object} map[string]interface{} "Archive unreachable or not configured"
// @Router /catalog/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	infos, err := h.service.ListSnapshots(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(infos)
}
