package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
    t.Helper()
    s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    require.NoError(t, err)
    return s
}

func serve(t *testing.T, token string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    h := func(c echo.Context) error { return c.String(http.StatusOK, Actor(c)) }
    for i := len(mws) - 1; i >= 0; i-- {
        h = mws[i](h)
    }
    require.NoError(t, h(c))
    return rec, c
}

func TestJWTAuth_SetsActorAndRole(t *testing.T) {
    tok := signed(t, jwt.MapClaims{"sub": "12", "role": RoleFrontDesk, "exp": time.Now().Add(time.Hour).Unix()})
    rec, c := serve(t, tok, JWTAuth(testSecret))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "12", rec.Body.String())
    assert.Equal(t, RoleFrontDesk, c.Get(CtxRole))
}

func TestJWTAuth_NumericSubject(t *testing.T) {
    tok := signed(t, jwt.MapClaims{"sub": float64(34), "role": RoleAdmin})
    rec, _ := serve(t, tok, JWTAuth(testSecret))
    assert.Equal(t, "34", rec.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
    expired := signed(t, jwt.MapClaims{"sub": "12", "exp": time.Now().Add(-time.Minute).Unix()})
    noSub := signed(t, jwt.MapClaims{"role": RoleAdmin})
    other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("other"))
    require.NoError(t, err)

    for name, tok := range map[string]string{"missing": "", "expired": expired, "no subject": noSub, "wrong key": other} {
        t.Run(name, func(t *testing.T) {
            rec, _ := serve(t, tok, JWTAuth(testSecret))
            assert.Equal(t, http.StatusUnauthorized, rec.Code)
        })
    }
}

func TestRequireRole(t *testing.T) {
    front := signed(t, jwt.MapClaims{"sub": "12", "role": RoleFrontDesk})
    guest := signed(t, jwt.MapClaims{"sub": "13", "role": "CUSTOMER"})

    rec, _ := serve(t, front, JWTAuth(testSecret), RequireRole(RoleAdmin, RoleFrontDesk))
    assert.Equal(t, http.StatusOK, rec.Code)

    rec, _ = serve(t, guest, JWTAuth(testSecret), RequireRole(RoleAdmin, RoleFrontDesk))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
