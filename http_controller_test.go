package storefront_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	storefront "github.com/goliatone/go-storefront"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStack struct {
	server *storefront.Server
	repo   storefront.RepositoryManager
	tokens *storefront.TokenService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	ctx := context.Background()

	p := storefront.NewPersistence(memoryDSN(), nil)
	require.NoError(t, p.Connect(ctx))
	require.NoError(t, p.EnsureSchema(ctx))
	t.Cleanup(func() { p.Close() })

	repo := storefront.NewRepositoryManager(p.DB())
	require.NoError(t, repo.Validate())

	tokens, err := storefront.NewTokenService(
		[]byte("test-access-secret"),
		[]byte("test-refresh-secret"),
		15*time.Minute,
		168*time.Hour,
		"go-storefront",
		nil,
	)
	require.NoError(t, err)

	provider := storefront.NewUserProvider(repo.Users())
	auther := storefront.NewAuthenticator(provider, tokens, repo)

	cfg := &storefront.Config{
		Env: storefront.EnvDevelopment,
		Auth: storefront.AuthConfig{
			AccessCookieAge:  24 * time.Hour,
			RefreshCookieAge: 168 * time.Hour,
		},
	}

	return &testStack{
		server: storefront.NewServer(cfg, auther, repo, nil),
		repo:   repo,
		tokens: tokens,
	}
}

func (s *testStack) request(t *testing.T, method, path, body string, mutate ...func(*http.Request)) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, m := range mutate {
		m(req)
	}

	resp, err := s.server.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testStack) register(t *testing.T, email, password, role string) []*http.Cookie {
	t.Helper()

	payload := fmt.Sprintf(`{"email":%q,"password":%q,"role":%q}`, email, password, role)
	resp := s.request(t, fiber.MethodPost, "/api/auth/register", payload)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return resp.Cookies()
}

// seedAdmin creates an admin directly in storage (the public API never
// grants the role) and returns a bearer token for it.
func (s *testStack) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := storefront.HashPassword("admin-password")
	require.NoError(t, err)

	admin, err := s.repo.Users().Register(context.Background(), &storefront.User{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         storefront.RoleAdmin,
		IsActive:     true,
	})
	require.NoError(t, err)

	token, err := s.tokens.IssueAccess(admin.ID.String(), storefront.RoleAdmin)
	require.NoError(t, err)
	return token
}

func withCookies(cookies []*http.Cookie) func(*http.Request) {
	return func(req *http.Request) {
		for _, c := range cookies {
			req.AddCookie(c)
		}
	}
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	stack := newTestStack(t)

	t.Run("creates account and opens session", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/register",
			`{"email":"ada@example.com","password":"secret123","firstName":"Ada","lastName":"Lovelace"}`)
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		require.NotNil(t, cookieByName(resp.Cookies(), storefront.CookieAccessToken))
		require.NotNil(t, cookieByName(resp.Cookies(), storefront.CookieRefreshToken))

		body := decodeBody(t, resp)
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", user["email"])
		assert.Equal(t, "buyer", user["role"])
		assert.Equal(t, "Ada", user["firstName"])
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/register",
			`{"email":"ada@example.com","password":"another123"}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "email already in use", body["error"])
	})

	t.Run("short password is rejected", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/register",
			`{"email":"short@example.com","password":"12345"}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("admin role cannot be requested", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/register",
			`{"email":"boss@example.com","password":"secret123","role":"admin"}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginEndpoint(t *testing.T) {
	stack := newTestStack(t)
	stack.register(t, "buyer@example.com", "secret123", "buyer")

	t.Run("valid credentials open a session", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/login",
			`{"email":"buyer@example.com","password":"secret123"}`)
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotNil(t, cookieByName(resp.Cookies(), storefront.CookieAccessToken))
		assert.NotNil(t, cookieByName(resp.Cookies(), storefront.CookieRefreshToken))
	})

	t.Run("wrong password gets the uniform body and no cookies", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/login",
			`{"email":"buyer@example.com","password":"wrong-password"}`)
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, resp.Cookies())

		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("unknown email gets the identical response", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/login",
			`{"email":"ghost@example.com","password":"secret123"}`)
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("malformed email is a validation error", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/login",
			`{"email":"not-an-email","password":"secret123"}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestMeEndpoint(t *testing.T) {
	stack := newTestStack(t)
	cookies := stack.register(t, "me@example.com", "secret123", "buyer")

	t.Run("without a session", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/auth/me", "")
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid token", body["error"])
	})

	t.Run("with the session cookie", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/auth/me", "", withCookies(cookies))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		user := body["user"].(map[string]any)
		assert.Equal(t, "me@example.com", user["email"])
	})

	t.Run("with an expired token", func(t *testing.T) {
		expired, err := storefront.NewTokenService(
			[]byte("test-access-secret"),
			[]byte("test-refresh-secret"),
			-time.Minute,
			-time.Minute,
			"go-storefront",
			nil,
		)
		require.NoError(t, err)

		token, err := expired.IssueAccess("00000000-0000-0000-0000-000000000001", storefront.RoleBuyer)
		require.NoError(t, err)

		resp := stack.request(t, fiber.MethodGet, "/api/auth/me", "", withBearer(token))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid token", body["error"])
	})
}

func TestRefreshEndpoint(t *testing.T) {
	stack := newTestStack(t)
	cookies := stack.register(t, "refresh@example.com", "secret123", "buyer")

	t.Run("refresh cookie mints a new access cookie", func(t *testing.T) {
		refresh := cookieByName(cookies, storefront.CookieRefreshToken)
		require.NotNil(t, refresh)

		resp := stack.request(t, fiber.MethodPost, "/api/auth/refresh", "",
			withCookies([]*http.Cookie{refresh}))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotNil(t, cookieByName(resp.Cookies(), storefront.CookieAccessToken))
		assert.Nil(t, cookieByName(resp.Cookies(), storefront.CookieRefreshToken))
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		access := cookieByName(cookies, storefront.CookieAccessToken)
		require.NotNil(t, access)

		resp := stack.request(t, fiber.MethodPost, "/api/auth/refresh", "",
			withCookies([]*http.Cookie{{Name: storefront.CookieRefreshToken, Value: access.Value}}))
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing cookie", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/auth/refresh", "")
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.request(t, fiber.MethodPost, "/api/auth/logout", "")
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, name := range []string{storefront.CookieAccessToken, storefront.CookieRefreshToken} {
		cookie := cookieByName(resp.Cookies(), name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value)
	}
}

func TestProductEndpoints(t *testing.T) {
	stack := newTestStack(t)
	buyerCookies := stack.register(t, "buyer@example.com", "secret123", "buyer")
	sellerCookies := stack.register(t, "seller@example.com", "secret123", "seller")

	productBody := `{"title":"Hydrating Face Cream","description":"With rose water","price":19.99,"quantity":10,"status":"active","tags":["skincare"]}`

	t.Run("create requires a session", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/products/", productBody)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("buyers cannot create", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/products/", productBody, withCookies(buyerCookies))
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	var productID string

	t.Run("sellers create products", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/products/", productBody, withCookies(sellerCookies))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Hydrating Face Cream", body["title"])
		assert.Equal(t, "hydrating-face-cream", body["slug"])
		assert.NotEmpty(t, body["seller_id"])

		productID, _ = body["id"].(string)
		require.NotEmpty(t, productID)
	})

	t.Run("list is public and searchable", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/products/?q=hydrating", "")
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])

		miss := stack.request(t, fiber.MethodGet, "/api/products/?q=nonexistent", "")
		defer miss.Body.Close()
		missBody := decodeBody(t, miss)
		assert.Equal(t, float64(0), missBody["total"])
	})

	t.Run("get by id", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/products/"+productID, "")
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("garbage id is a bad request", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/products/not-a-uuid", "")
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/products/00000000-0000-0000-0000-0000000000aa", "")
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPut, "/api/products/"+productID,
			`{"title":"Hydrating Face Cream","price":24.99,"quantity":5,"status":"out_of_stock"}`,
			withCookies(sellerCookies))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, 24.99, body["price"])
		assert.Equal(t, "out_of_stock", body["status"])
	})

	t.Run("delete then 404", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodDelete, "/api/products/"+productID, "", withCookies(sellerCookies))
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		gone := stack.request(t, fiber.MethodDelete, "/api/products/"+productID, "", withCookies(sellerCookies))
		defer gone.Body.Close()
		assert.Equal(t, fiber.StatusNotFound, gone.StatusCode)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	stack := newTestStack(t)
	sellerCookies := stack.register(t, "seller@example.com", "secret123", "seller")
	adminToken := stack.seedAdmin(t)

	var categoryID string

	t.Run("create with subcategories", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/category/",
			`{"name":"Skincare","subcategories":["Cleansers","Moisturizers"]}`,
			withCookies(sellerCookies))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)

		category := body["category"].(map[string]any)
		assert.Equal(t, "Skincare", category["name"])
		assert.Equal(t, "skincare", category["slug"])
		categoryID, _ = category["id"].(string)
		require.NotEmpty(t, categoryID)

		subs := body["subcategories"].([]any)
		assert.Len(t, subs, 2)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPost, "/api/category/",
			`{"name":"Skincare"}`, withCookies(sellerCookies))
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("get returns subcategories", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/category/"+categoryID, "")
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		subs := body["subcategories"].([]any)
		assert.Len(t, subs, 2)
	})

	t.Run("sellers cannot delete categories", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodDelete, "/api/category/"+categoryID, "", withCookies(sellerCookies))
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admins delete categories", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodDelete, "/api/category/"+categoryID, "", withBearer(adminToken))
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestUserEndpoints(t *testing.T) {
	stack := newTestStack(t)
	buyerCookies := stack.register(t, "buyer@example.com", "secret123", "buyer")
	otherCookies := stack.register(t, "other@example.com", "secret123", "buyer")
	adminToken := stack.seedAdmin(t)

	me := stack.request(t, fiber.MethodGet, "/api/auth/me", "", withCookies(buyerCookies))
	defer me.Body.Close()
	buyerID := decodeBody(t, me)["user"].(map[string]any)["id"].(string)

	t.Run("listing requires admin", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodGet, "/api/users/", "", withCookies(buyerCookies))
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		ok := stack.request(t, fiber.MethodGet, "/api/users/", "", withBearer(adminToken))
		defer ok.Body.Close()
		require.Equal(t, fiber.StatusOK, ok.StatusCode)

		body := decodeBody(t, ok)
		assert.Equal(t, float64(3), body["total"])
	})

	t.Run("users update their own profile", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPut, "/api/users/"+buyerID,
			`{"firstName":"Grace","lastName":"Hopper"}`, withCookies(buyerCookies))
		defer resp.Body.Close()

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		user := body["user"].(map[string]any)
		assert.Equal(t, "Grace", user["firstName"])
	})

	t.Run("users cannot edit other accounts", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPut, "/api/users/"+buyerID,
			`{"firstName":"Mallory"}`, withCookies(otherCookies))
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admins edit any account", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodPut, "/api/users/"+buyerID,
			`{"firstName":"Grace","lastName":"Hopper","phone":"+14155552671"}`, withBearer(adminToken))
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("deletion requires admin", func(t *testing.T) {
		resp := stack.request(t, fiber.MethodDelete, "/api/users/"+buyerID, "", withCookies(otherCookies))
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		ok := stack.request(t, fiber.MethodDelete, "/api/users/"+buyerID, "", withBearer(adminToken))
		defer ok.Body.Close()
		assert.Equal(t, fiber.StatusOK, ok.StatusCode)
	})
}

func TestLivez(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.request(t, fiber.MethodGet, "/livez", "")
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
