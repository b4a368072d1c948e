package certificates

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	regsvc "carbon-ledger/internal/application/registry"
	"carbon-ledger/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCertificatesTest(t *testing.T, principal string) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Certificate{}, &domain.LedgerEvent{}))

	h := &Handlers{Service: &regsvc.Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   "00000000-0000-0000-0000-000000000001",
			"role":      "issuer",
			"email":     "issuer@test.com",
			"principal": principal,
		})
		return c.Next()
	})
	app.Post("/mint", h.Mint)
	app.Post("/transfer", h.Transfer)
	app.Get("/get-owner/:token_id", h.GetOwner)
	app.Get("/get-metadata/:token_id", h.GetMetadata)
	app.Put("/update-metadata/:token_id", h.UpdateMetadata)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(r)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestMint_Success(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, result := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "PRN-BBBBBBBB-BBBB",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 100,
	})
	assert.Equal(t, 201, status)
	assert.Equal(t, "success", result["status"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["token_id"])
}

func TestMint_MissingFields(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, result := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"project": "Reforestation",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "error", result["status"])
}

func TestMint_InvalidPrincipal(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, _ := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "not-a-principal",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 100,
	})
	assert.Equal(t, 400, status)
}

func TestMint_ZeroMetricTons(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, result := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "PRN-BBBBBBBB-BBBB",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 0,
	})
	assert.Equal(t, 400, status)
	errObj := result["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, float64(202), details["code"])
}

func TestTransfer_NotOwner(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	// Minted to someone else; the session principal is not the owner.
	status, _ := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "PRN-BBBBBBBB-BBBB",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 100,
	})
	require.Equal(t, 201, status)

	status, result := doJSON(t, app, "POST", "/transfer", map[string]interface{}{
		"token_id":  1,
		"new_owner": "PRN-CCCCCCCC-CCCC",
	})
	assert.Equal(t, 403, status)
	errObj := result["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, float64(104), details["code"])
}

func TestTransfer_BySessionOwner(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, _ := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "PRN-AAAAAAAA-AAAA",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 100,
	})
	require.Equal(t, 201, status)

	status, result := doJSON(t, app, "POST", "/transfer", map[string]interface{}{
		"token_id":  1,
		"new_owner": "PRN-CCCCCCCC-CCCC",
	})
	assert.Equal(t, 200, status)
	assert.Equal(t, "success", result["status"])
}

func TestGetOwner_NonexistentIsNull(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	r := httptest.NewRequest("GET", "/get-owner/999", nil)
	resp, err := app.Test(r)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data := result["data"].(map[string]interface{})
	assert.Nil(t, data["owner"])
}

func TestGetOwner_InvalidTokenID(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	r := httptest.NewRequest("GET", "/get-owner/abc", nil)
	resp, err := app.Test(r)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetMetadata_NotFound(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	r := httptest.NewRequest("GET", "/get-metadata/999", nil)
	resp, err := app.Test(r)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUpdateMetadata_OwnerGate(t *testing.T) {
	app, _ := setupCertificatesTest(t, "PRN-AAAAAAAA-AAAA")

	status, _ := doJSON(t, app, "POST", "/mint", map[string]interface{}{
		"to":          "PRN-BBBBBBBB-BBBB",
		"project":     "Reforestation",
		"location":    "Brazil",
		"metric_tons": 100,
	})
	require.Equal(t, 201, status)

	status, result := doJSON(t, app, "PUT", "/update-metadata/1", map[string]interface{}{
		"project":     "Wind Farm",
		"location":    "Kenya",
		"metric_tons": 75,
	})
	assert.Equal(t, 403, status)
	errObj := result["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, float64(108), details["code"])
}
