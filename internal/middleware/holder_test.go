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

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runHolder(t *testing.T, secret, authHeader string) (any, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured any
	h := HolderIdentity(secret)(func(c echo.Context) error {
		captured = c.Get("holder_token")
		return c.NoContent(http.StatusOK)
	})
	return captured, h(c)
}

func TestHolderIdentityExtractsSubject(t *testing.T) {
	token := signToken(t, testSecret, "user-42")

	captured, err := runHolder(t, testSecret, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", captured)
}

func TestHolderIdentityNoHeaderPassesThrough(t *testing.T) {
	captured, err := runHolder(t, testSecret, "")
	require.NoError(t, err)
	assert.Nil(t, captured)
}

func TestHolderIdentityBadSignatureIgnored(t *testing.T) {
	token := signToken(t, "other-secret", "user-42")

	captured, err := runHolder(t, testSecret, "Bearer "+token)
	require.NoError(t, err)
	assert.Nil(t, captured)
}

func TestHolderIdentityMalformedTokenIgnored(t *testing.T) {
	captured, err := runHolder(t, testSecret, "Bearer not.a.jwt")
	require.NoError(t, err)
	assert.Nil(t, captured)
}

func TestHolderIdentityEmptySecretDisablesParsing(t *testing.T) {
	token := signToken(t, testSecret, "user-42")

	captured, err := runHolder(t, "", "Bearer "+token)
	require.NoError(t, err)
	assert.Nil(t, captured)
}
