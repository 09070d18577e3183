package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpapi "github.com/dmoreira/login-service/api/http"
	"github.com/dmoreira/login-service/api/http/handlers"
	"github.com/dmoreira/login-service/pkg/auth"
	"github.com/dmoreira/login-service/pkg/health"
	"github.com/dmoreira/login-service/pkg/repository/memory"
	"github.com/dmoreira/login-service/pkg/security/jwt"
)

func newTestApp(t *testing.T) (*fiber.App, *jwt.Generator) {
	t.Helper()
	gen := jwt.NewGenerator("test-secret", "login-service", time.Hour)
	svc := auth.NewAuthService(memory.NewUserRepository(), auth.NewHasher(bcrypt.MinCost), gen)

	app := fiber.New()
	httpapi.Register(app, handlers.NewAuthHandler(svc), handlers.NewHealthHandler(health.NewService()), gen)
	return app, gen
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getWithToken(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func register(t *testing.T, app *fiber.App, name, email, password, role string) *http.Response {
	t.Helper()
	return postJSON(t, app, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password, "role": role,
	})
}

func login(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()
	return postJSON(t, app, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp := register(t, app, "Alice", "Alice@Example.com", "pw123", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password")
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp := register(t, app, "", "a@x.com", "pw", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = register(t, app, "A", "a@x.com", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp := register(t, app, "First", "dup@x.com", "pw", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = register(t, app, "Second", "DUP@x.com", "pw", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_SuccessAndTokenClaims(t *testing.T) {
	t.Parallel()

	app, gen := newTestApp(t)
	resp := register(t, app, "Bob", "bob@x.com", "hunter2", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody(t, resp)["user"].(map[string]any)

	resp = login(t, app, "bob@x.com", "hunter2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := gen.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered["id"], claims.Subject)
	assert.Equal(t, "bob@x.com", claims.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp := register(t, app, "Carol", "carol@x.com", "right-pw", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword := login(t, app, "carol@x.com", "wrong-pw")
	noSuchUser := login(t, app, "nobody@x.com", "whatever")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, noSuchUser.StatusCode)
	assert.Equal(t, decodeBody(t, wrongPassword), decodeBody(t, noSuchUser))
}

func TestMe(t *testing.T) {
	t.Parallel()

	app, gen := newTestApp(t)
	resp := register(t, app, "Dave", "dave@x.com", "pw", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = login(t, app, "dave@x.com", "pw")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decodeBody(t, resp)["token"].(string)

	resp = getWithToken(t, app, "/api/auth/me", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decodeBody(t, resp)["user"].(map[string]any)
	assert.Equal(t, "dave@x.com", user["email"])

	// no token at all
	resp = getWithToken(t, app, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// tampered token is rejected by the guard, before any lookup
	resp = getWithToken(t, app, "/api/auth/me", token+"x")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// valid token for a user that is not in the store
	ghost, err := gen.Issue(context.Background(), auth.User{ID: uuid.New(), Email: "ghost@x.com", Role: auth.RoleUser})
	require.NoError(t, err)
	resp = getWithToken(t, app, "/api/auth/me", ghost)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	for i, role := range []string{"", "admin"} {
		email := fmt.Sprintf("u%d@x.com", i)
		resp := register(t, app, "U", email, "pw", role)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp = login(t, app, email, "pw")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		token := decodeBody(t, resp)["token"].(string)

		resp = getWithToken(t, app, "/api/auth/admin-only", token)
		if role == "admin" {
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, true, decodeBody(t, resp)["ok"])
		} else {
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	resp := getWithToken(t, app, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getWithToken(t, app, "/api/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
