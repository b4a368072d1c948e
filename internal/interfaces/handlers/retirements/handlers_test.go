package retirements

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	listsvc "carbon-ledger/internal/application/listings"
	regsvc "carbon-ledger/internal/application/registry"
	retsvc "carbon-ledger/internal/application/retirements"
	"carbon-ledger/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRetirementsTest(t *testing.T, principal string) (*fiber.App, *retsvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Certificate{}, &domain.Listing{}, &domain.LedgerEvent{}))

	reg := &regsvc.Service{DB: db}
	lst := &listsvc.Service{DB: db, Registry: reg}
	svc := &retsvc.Service{DB: db, Registry: reg, Listings: lst}
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   "00000000-0000-0000-0000-000000000001",
			"role":      "holder",
			"email":     "holder@test.com",
			"principal": principal,
		})
		return c.Next()
	})
	app.Post("/retire", h.Retire)
	return app, svc
}

func postRetire(t *testing.T, app *fiber.App, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, _ := json.Marshal(body)
	r := httptest.NewRequest("POST", "/retire", bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(r)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestRetire_Success(t *testing.T) {
	app, svc := setupRetirementsTest(t, "PRN-AAAAAAAA-AAAA")
	ctx := context.Background()

	tokenID, err := svc.Registry.Mint(ctx, "PRN-AAAAAAAA-AAAA", "Reforestation", "Brazil", 100)
	require.NoError(t, err)
	_, err = svc.Listings.ListForSale(ctx, tokenID, 5000, "PRN-AAAAAAAA-AAAA")
	require.NoError(t, err)

	status, result := postRetire(t, app, map[string]interface{}{
		"token_id": tokenID,
		"purpose":  "2025 offset program",
	})
	assert.Equal(t, 200, status)
	assert.Equal(t, "success", result["status"])

	meta, err := svc.Registry.GetMetadata(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, meta.Retired)
}

func TestRetire_NeverListed(t *testing.T) {
	app, svc := setupRetirementsTest(t, "PRN-AAAAAAAA-AAAA")
	ctx := context.Background()

	tokenID, err := svc.Registry.Mint(ctx, "PRN-AAAAAAAA-AAAA", "Reforestation", "Brazil", 100)
	require.NoError(t, err)

	status, result := postRetire(t, app, map[string]interface{}{
		"token_id": tokenID,
		"purpose":  "offset",
	})
	assert.Equal(t, 404, status)
	errObj := result["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, float64(300), details["code"])
}

func TestRetire_MissingTokenID(t *testing.T) {
	app, _ := setupRetirementsTest(t, "PRN-AAAAAAAA-AAAA")

	status, _ := postRetire(t, app, map[string]interface{}{"purpose": "offset"})
	assert.Equal(t, 400, status)
}

func TestRetire_PurposeTooLong(t *testing.T) {
	app, _ := setupRetirementsTest(t, "PRN-AAAAAAAA-AAAA")

	status, _ := postRetire(t, app, map[string]interface{}{
		"token_id": 1,
		"purpose":  strings.Repeat("x", 101),
	})
	assert.Equal(t, 400, status)
}
