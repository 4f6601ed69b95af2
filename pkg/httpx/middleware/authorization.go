package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/jwt"
	"github.com/translathon/translathon/pkg/log"
)

// ClaimsKey is the fiber locals key holding the validated AuthClaims.
const ClaimsKey = "claims"

// TokenVersionStore resolves the current revocation counter for an
// identity. A NotFound-kinded error means the identity no longer exists.
type TokenVersionStore interface {
	TokenVersion(ctx context.Context, typ string, id int64) (int, error)
}

// Authorization enforces the bearer-token contract: missing or malformed
// credentials are 401, a valid-looking token that fails verification or
// belongs to a stale generation is 403.
func Authorization(auth httpx.Auth, versions TokenVersionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := verify(c, auth, versions)
		if !ok {
			header := c.Get(fiber.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return httpx.WithMessage(c, fiber.StatusUnauthorized, "authentication token is required")
			}
			return httpx.WithMessage(c, fiber.StatusForbidden, "invalid token")
		}
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// OptionalAuthorization attaches an identity when a valid token is
// present but never rejects the request.
func OptionalAuthorization(auth httpx.Auth, versions TokenVersionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, ok := verify(c, auth, versions); ok {
			c.Locals(ClaimsKey, claims)
		}
		return c.Next()
	}
}

// ClaimsFrom returns the validated claims attached to the request, nil
// when the request is anonymous.
func ClaimsFrom(c *fiber.Ctx) *jwt.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*jwt.AuthClaims)
	return claims
}

func verify(c *fiber.Ctx, auth httpx.Auth, versions TokenVersionStore) (*jwt.AuthClaims, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return nil, false
	}

	claims, err := jwt.ParseToken(strings.TrimSpace(parts[1]), auth.SecretKey)
	if err != nil {
		return nil, false
	}

	// stale generation check against the stored revocation counter
	current, err := versions.TokenVersion(c.UserContext(), claims.Type, claims.UserID)
	if err != nil {
		if !errs.IsKind(err, errs.NotFound) {
			log.Errorw("token version lookup failed", "userId", claims.UserID, "error", err)
		}
		return nil, false
	}
	if claims.Type == jwt.TypeUser && claims.TokenVersion != current {
		return nil, false
	}

	return claims, true
}
