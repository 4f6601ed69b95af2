package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/jwt"
)

type fakeVersionStore struct {
	versions map[string]int
}

func (f *fakeVersionStore) TokenVersion(_ context.Context, typ string, id int64) (int, error) {
	v, ok := f.versions[fmt.Sprintf("%s/%d", typ, id)]
	if !ok {
		return 0, errs.New(errs.NotFound, "user not found")
	}
	return v, nil
}

func authTestApp(store TokenVersionStore) (*fiber.App, httpx.Auth) {
	auth := httpx.Auth{SecretKey: "test-secret", AccessExpire: 60}
	app := fiber.New()
	app.Get("/protected", Authorization(auth, store), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": ClaimsFrom(c).UserID})
	})
	app.Get("/open", OptionalAuthorization(auth, store), func(c *fiber.Ctx) error {
		if claims := ClaimsFrom(c); claims != nil {
			return c.JSON(fiber.Map{"userId": claims.UserID})
		}
		return c.JSON(fiber.Map{"userId": nil})
	})
	return app, auth
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthorizationMissingOrMalformedHeader(t *testing.T) {
	app, _ := authTestApp(&fakeVersionStore{versions: map[string]int{}})

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/protected", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/protected", "Basic abc").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/protected", "Bearer ").StatusCode)
}

func TestAuthorizationValidToken(t *testing.T) {
	store := &fakeVersionStore{versions: map[string]int{"user/7": 3}}
	app, auth := authTestApp(store)

	token, err := jwt.GenToken(7, jwt.TypeUser, jwt.RoleUser, 3, []byte(auth.SecretKey), auth.AccessExpire)
	require.NoError(t, err)

	resp := doGet(t, app, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorizationRejectsTamperedToken(t *testing.T) {
	store := &fakeVersionStore{versions: map[string]int{"user/7": 0}}
	app, _ := authTestApp(store)

	token, err := jwt.GenToken(7, jwt.TypeUser, jwt.RoleUser, 0, []byte("other-secret"), 60)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/protected", "Bearer "+token).StatusCode)
}

func TestAuthorizationRejectsStaleGeneration(t *testing.T) {
	store := &fakeVersionStore{versions: map[string]int{"user/7": 5}}
	app, auth := authTestApp(store)

	token, err := jwt.GenToken(7, jwt.TypeUser, jwt.RoleUser, 4, []byte(auth.SecretKey), auth.AccessExpire)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/protected", "Bearer "+token).StatusCode)
}

func TestAuthorizationRejectsDeletedIdentity(t *testing.T) {
	store := &fakeVersionStore{versions: map[string]int{}}
	app, auth := authTestApp(store)

	token, err := jwt.GenToken(99, jwt.TypeUser, jwt.RoleUser, 0, []byte(auth.SecretKey), auth.AccessExpire)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/protected", "Bearer "+token).StatusCode)
}

func TestAdminTokenSkipsVersionCheck(t *testing.T) {
	// admin tokens only require the account to still exist
	store := &fakeVersionStore{versions: map[string]int{"admin/1": 9}}
	app, auth := authTestApp(store)

	token, err := jwt.GenToken(1, jwt.TypeAdmin, jwt.RoleAdmin, 0, []byte(auth.SecretKey), auth.AccessExpire)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(t, app, "/protected", "Bearer "+token).StatusCode)
}

func TestOptionalAuthorizationNeverRejects(t *testing.T) {
	store := &fakeVersionStore{versions: map[string]int{"user/7": 0}}
	app, auth := authTestApp(store)

	assert.Equal(t, http.StatusOK, doGet(t, app, "/open", "").StatusCode)
	assert.Equal(t, http.StatusOK, doGet(t, app, "/open", "Bearer garbage").StatusCode)

	token, err := jwt.GenToken(7, jwt.TypeUser, jwt.RoleUser, 0, []byte(auth.SecretKey), auth.AccessExpire)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(t, app, "/open", "Bearer "+token).StatusCode)
}
