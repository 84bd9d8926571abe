package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gartstein/talent-verify/internal/registry/policy"
	"github.com/labstack/echo/v4"
)

// actorKey is the echo context key the middleware stores the resolved
// actor under.
const actorKey = "auth.actor"

// ActorResolver loads the actor (account plus profile) for a validated
// account ID. Implemented by the repository.
type ActorResolver interface {
	ResolveActor(ctx context.Context, accountID uint) (*policy.Actor, error)
}

// Middleware returns an echo middleware that requires a valid bearer
// token, resolves the actor behind it, and stores the actor in the
// request context for handlers and the audit recorder.
func Middleware(jwtSecret string, resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := extractTokenFromHeader(c.Request())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": err.Error()})
			}

			accountID, err := ValidateToken(tokenString, jwtSecret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
			}

			actor, err := resolver.ResolveActor(c.Request().Context(), accountID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "unknown account"})
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFromContext returns the actor stored by Middleware, or nil for
// unauthenticated requests.
func ActorFromContext(c echo.Context) *policy.Actor {
	actor, _ := c.Get(actorKey).(*policy.Actor)
	return actor
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}

	return tokenString, nil
}
