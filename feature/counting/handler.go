package counting

import (
	"strconv"

	"stocktake/core/apperr"
	"stocktake/core/logger"
	"stocktake/feature/counting/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for count sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sessions")
	group.Post("/", h.HandleCreateSession)
	group.Get("/", h.HandleListSessions)
	group.Get("/:id", h.HandleGetSession)
	group.Put("/:id/open", h.HandleOpenSession)
	group.Put("/:id/close", h.HandleCloseSession)
	group.Delete("/:id", h.HandleDeleteSession)
	group.Get("/:id/items", h.HandleListItems)
	group.Post("/:id/items", h.HandleIngestScan)
	group.Get("/:id/variance", h.HandleVariance)
}

type createSessionRequest struct {
	Name string `json:"name"`
}

type ingestRequest struct {
	Barcode string `json:"barcode"`
}

type itemsResponse struct {
	// Policy is the active duplicate-scan policy.
	Policy string            `json:"policy"`
	Items  []models.ScanLine `json:"items"`
}

// HandleCreateSession creates a new open session.
// @Summary Create Session
// @Description Create a new inventory-count session in the open state.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body counting.createSessionRequest true "Session name"
// @Success 201 {object} models.Session "Created session"
// @Failure 400 {object} map[string]interface{} "Empty name"
// @Router /sessions [post]
func (h *Handler) HandleCreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.KindInvalidInput, "malformed request body"))
	}

	session, err := h.service.CreateSession(c.Context(), req.Name)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleListSessions lists all sessions, newest first.
// @Summary List Sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} models.Session "Sessions"
// @Router /sessions [get]
func (h *Handler) HandleListSessions(c *fiber.Ctx) error {
	sessions, err := h.service.ListSessions(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(sessions)
}

// HandleGetSession returns one session.
// @Summary Get Session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session "Session"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Router /sessions/{id} [get]
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(session)
}

// HandleOpenSession confirms a session is open for scanning.
// @Summary Open Session
// @Description No-op on an open session; a closed session cannot reopen.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session "Open session"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Failure 423 {object} map[string]interface{} "Session closed"
// @Router /sessions/{id}/open [put]
func (h *Handler) HandleOpenSession(c *fiber.Ctx) error {
	session, err := h.service.OpenSession(c.Context(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(session)
}

// HandleCloseSession closes an open session.
// @Summary Close Session
// @Description Transition a session from open to closed. Closed is terminal.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.Session "Closed session"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Failure 423 {object} map[string]interface{} "Already closed"
// @Router /sessions/{id}/close [put]
func (h *Handler) HandleCloseSession(c *fiber.Ctx) error {
	session, err := h.service.CloseSession(c.Context(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(session)
}

// HandleDeleteSession deletes a session and its scan lines.
// @Summary Delete Session
// @Tags sessions
// @Param id path string true "Session id"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Router /sessions/{id} [delete]
func (h *Handler) HandleDeleteSession(c *fiber.Ctx) error {
	if err := h.service.DeleteSession(c.Context(), c.Params("id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListItems returns a session's scan lines, most recent first.
// @Summary List Scanned Items
// @Description Scan lines for a session, most recently scanned first. The optional limit windows the view; the full history is always persisted.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Param limit query int false "Maximum lines to return"
// @Success 200 {object} counting.itemsResponse "Scan lines"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Router /sessions/{id}/items [get]
func (h *Handler) HandleListItems(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	lines, err := h.service.ListScanLines(c.Context(), c.Params("id"), limit)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(itemsResponse{Policy: h.service.Policy(), Items: lines})
}

// HandleIngestScan applies one barcode scan to a session.
// @Summary Ingest Scan
// @Description Resolve the barcode and create or increment the session's scan line for the item.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body counting.ingestRequest true "Scanned barcode"
// @Success 200 {object} counting.ScanResult "Repeat scan incremented"
// @Success 201 {object} counting.ScanResult "First scan created the line"
// @Failure 400 {object} map[string]interface{} "Empty barcode"
// @Failure 404 {object} map[string]interface{} "Unknown session or barcode"
// @Failure 409 {object} map[string]interface{} "Duplicate scan under the reject policy; data holds the existing line"
// @Failure 423 {object} map[string]interface{} "Session closed"
// @Failure 503 {object} map[string]interface{} "Catalog or store unreachable"
// @Router /sessions/{id}/items [post]
func (h *Handler) HandleIngestScan(c *fiber.Ctx) error {
	var req ingestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.New(apperr.KindInvalidInput, "malformed request body"))
	}

	result, err := h.service.IngestScan(c.Context(), c.Params("id"), req.Barcode)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		if kind := apperr.KindOf(err); kind == "" || kind == apperr.KindUnavailable {
			l.Error("Scan ingestion failed", zap.Error(err))
		}
		return apperr.Respond(c, err)
	}

	status := fiber.StatusOK
	if result.Outcome == OutcomeCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

// HandleVariance returns the session's variance report.
// @Summary Variance Report
// @Description Ordered variance rows (counted vs system quantity) plus summary counts. Available for open sessions as a live preview.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} models.VarianceReport "Variance report"
// @Failure 404 {object} map[string]interface{} "Unknown session"
// @Router /sessions/{id}/variance [get]
func (h *Handler) HandleVariance(c *fiber.Ctx) error {
	report, err := h.service.ComputeVariance(c.Context(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(report)
}
