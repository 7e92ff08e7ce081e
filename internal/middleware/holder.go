package middleware

// holder.go establishes the caller's holder identity.  Authentication
// itself is an external collaborator: this middleware only extracts
// an identity when one is presented.  A valid Bearer token's subject
// claim becomes the holder token for the request, overriding whatever
// the body carries, so a session cannot confirm or release another
// caller's hold.  Requests without a token pass through untouched and
// fall back to the body-supplied holder token.

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// HolderIdentity returns middleware that parses an optional Bearer
// access token signed with the given secret and stores its subject
// under "holder_token" in the request context.  Malformed or
// unverifiable tokens are ignored rather than rejected; the booking
// endpoints still require some holder token before mutating state.
func HolderIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || secret == "" {
				return next(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return next(c)
			}

			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					c.Set("holder_token", sub)
				}
			}
			return next(c)
		}
	}
}
