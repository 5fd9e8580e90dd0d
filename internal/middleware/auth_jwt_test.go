package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func mustMakeJWT(t *testing.T, secret string, sub string, role string, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func runAuthJWT(t *testing.T, authz string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := AuthJWT(config.Config{JWTSecret: "test-secret"})
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec, c
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token := mustMakeJWT(t, "test-secret", "client-1", "SELLER", jwt.SigningMethodHS256)

	rec, c := runAuthJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-1", c.Get(CtxClientIDKey))
	assert.Equal(t, "SELLER", c.Get(CtxUserRoleKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := runAuthJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, _ := runAuthJWT(t, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := mustMakeJWT(t, "other-secret", "client-1", "USER", jwt.SigningMethodHS256)

	rec, _ := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test: HS256以外の署名方式は拒否
func TestAuthJWT_WrongSigningMethod(t *testing.T) {
	token := mustMakeJWT(t, "test-secret", "client-1", "USER", jwt.SigningMethodHS512)

	rec, _ := runAuthJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuard(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) int {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set(CtxUserRoleKey, role)
		}

		handler := RoleGuard("ADMIN")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		assert.NoError(t, handler(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("ADMIN"))
	assert.Equal(t, http.StatusForbidden, run("USER"))
	assert.Equal(t, http.StatusUnauthorized, run(nil))
}
