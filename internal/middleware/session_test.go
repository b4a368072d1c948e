package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func TestSession_NoCookieMeansNoUser(t *testing.T) {
	rdb, _ := setupSessionTest(t)
	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"principal": GetPrincipal(c)})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "", result["principal"])
}

func TestSession_LoadsUserFromRedis(t *testing.T) {
	rdb, _ := setupSessionTest(t)

	session := map[string]interface{}{
		"user": map[string]interface{}{
			"user_id":   "00000000-0000-0000-0000-000000000001",
			"email":     "a@b.com",
			"role":      "holder",
			"principal": "PRN-AAAAAAAA-AAAA",
		},
	}
	b, _ := json.Marshal(session)
	require.NoError(t, rdb.Set(context.Background(), SessionRedisPrefix+"sid-1", b, 0).Err())

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"principal": GetPrincipal(c)})
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid-1"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "PRN-AAAAAAAA-AAAA", result["principal"])
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	rdb, _ := setupSessionTest(t)
	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/protected", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthorizePermission_RoleGate(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   "00000000-0000-0000-0000-000000000001",
			"role":      "holder",
			"principal": "PRN-AAAAAAAA-AAAA",
		})
		return c.Next()
	})
	app.Post("/mint", AuthorizePermission("mint_certificate"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	app.Post("/buy", AuthorizePermission("buy_certificate"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	// Holders cannot mint.
	resp, err := app.Test(httptest.NewRequest("POST", "/mint", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// Holders can buy.
	resp, err = app.Test(httptest.NewRequest("POST", "/buy", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthorizePermission_UnknownPermission(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"role": "admin"})
		return c.Next()
	})
	app.Post("/x", AuthorizePermission("no_such_permission"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
