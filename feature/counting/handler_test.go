package counting_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"testing"

	"stocktake/core/apperr"
	"stocktake/core/database"
	"stocktake/feature/catalog"
	"stocktake/feature/counting"
	"stocktake/feature/counting/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mapResolver resolves barcodes from a fixed map.
type mapResolver struct {
	entries map[string]catalog.Entry
}

func (r *mapResolver) Resolve(_ context.Context, barcode string) (*catalog.Entry, error) {
	entry, ok := r.entries[catalog.NormalizeCode(barcode)]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "barcode %q not found in catalog", barcode)
	}
	return &entry, nil
}

func (r *mapResolver) ListScope(_ context.Context) ([]catalog.Entry, error) {
	byCode := map[string]catalog.Entry{}
	for _, entry := range r.entries {
		byCode[entry.ItemCode] = entry
	}
	entries := make([]catalog.Entry, 0, len(byCode))
	for _, entry := range byCode {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ItemCode < entries[j].ItemCode })
	return entries, nil
}

func setupApp(t *testing.T, cfg counting.Config) *fiber.App {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	resolver := &mapResolver{entries: map[string]catalog.Entry{
		"7890001": {ItemCode: "A100", Description: "Desk", Mask: "UN", SystemQuantity: 10, QuantityIncrement: 1},
	}}

	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	feature := counting.NewFeature(db, resolver, cfg, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := postJSON(t, app, "/sessions", fiber.Map{"name": "dock"})
	require.Equal(t, fiber.StatusCreated, status)
	return body["id"].(string)
}

func incrementCfg() counting.Config {
	return counting.Config{DuplicatePolicy: counting.PolicyIncrement, VarianceScope: counting.ScopeAll}
}

func TestHandleCreateSession(t *testing.T) {
	app := setupApp(t, incrementCfg())

	status, body := postJSON(t, app, "/sessions", fiber.Map{"name": "dock"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, models.StatusOpen, body["status"])

	status, body = postJSON(t, app, "/sessions", fiber.Map{"name": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, string(apperr.KindInvalidInput), errObj["kind"])
}

func TestHandleIngestScan_StatusCodes(t *testing.T) {
	app := setupApp(t, incrementCfg())
	id := createSession(t, app)

	// First scan creates
	status, body := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, string(counting.OutcomeCreated), body["outcome"])
	assert.Equal(t, counting.PolicyIncrement, body["policy"])

	// Repeat scan increments
	status, body = postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, string(counting.OutcomeIncremented), body["outcome"])
	line := body["line"].(map[string]any)
	assert.EqualValues(t, 2, line["quantity"])

	// Empty barcode
	status, _ = postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Unknown barcode
	status, body = postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "ZZZ"})
	assert.Equal(t, fiber.StatusNotFound, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, string(apperr.KindNotFound), errObj["kind"])

	// Unknown session
	status, _ = postJSON(t, app, "/sessions/missing/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleIngestScan_RejectPolicy(t *testing.T) {
	app := setupApp(t, counting.Config{DuplicatePolicy: counting.PolicyReject, VarianceScope: counting.ScopeAll})
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusCreated, status)

	status, body := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusConflict, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, string(apperr.KindConflict), errObj["kind"])

	// The existing line rides along for display, untouched
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["quantity"])
}

func TestHandleIngestScan_ClosedSession(t *testing.T) {
	app := setupApp(t, incrementCfg())
	id := createSession(t, app)

	req := httptest.NewRequest("PUT", "/sessions/"+id+"/close", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, body := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	assert.Equal(t, fiber.StatusLocked, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, string(apperr.KindStateError), errObj["kind"])
}

func TestHandleLifecycleRoutes(t *testing.T) {
	app := setupApp(t, incrementCfg())
	id := createSession(t, app)

	// Open is a no-op on an open session
	req := httptest.NewRequest("PUT", "/sessions/"+id+"/open", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Close, then no reopen
	req = httptest.NewRequest("PUT", "/sessions/"+id+"/close", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("PUT", "/sessions/"+id+"/open", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusLocked, resp.StatusCode)

	req = httptest.NewRequest("PUT", "/sessions/"+id+"/close", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusLocked, resp.StatusCode)

	// Delete from the closed state
	req = httptest.NewRequest("DELETE", "/sessions/"+id, nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/sessions/"+id, nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleListItems(t *testing.T) {
	app := setupApp(t, incrementCfg())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest("GET", "/sessions/"+id+"/items", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Policy string            `json:"policy"`
		Items  []models.ScanLine `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, counting.PolicyIncrement, body.Policy)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "A100", body.Items[0].ItemCode)
}

func TestHandleVariance(t *testing.T) {
	app := setupApp(t, incrementCfg())
	id := createSession(t, app)

	status, _ := postJSON(t, app, "/sessions/"+id+"/items", fiber.Map{"barcode": "7890001"})
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest("GET", "/sessions/"+id+"/variance", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report models.VarianceReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, -9, report.Rows[0].Difference)
	assert.Equal(t, 1, report.Summary.TotalItems)

	req = httptest.NewRequest("GET", "/sessions/missing/variance", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
