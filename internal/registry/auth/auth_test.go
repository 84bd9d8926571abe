package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, testSecret)
	require.NoError(t, err, "GenerateToken should succeed")

	accountID, err := ValidateToken(token, testSecret)
	assert.NoError(t, err, "ValidateToken should accept a freshly issued token")
	assert.Equal(t, uint(42), accountID, "subject should round-trip")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err, "token signed with a different secret must be rejected")
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash, "hash must not be the plaintext")

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

type staticResolver struct {
	actor *policy.Actor
	err   error
}

func (r *staticResolver) ResolveActor(_ context.Context, _ uint) (*policy.Actor, error) {
	return r.actor, r.err
}

func TestMiddlewareSetsActor(t *testing.T) {
	e := echo.New()
	resolver := &staticResolver{
		actor: &policy.Actor{
			AccountID: 42,
			Profile:   &models.UserProfile{AccountID: 42, Role: models.RoleAdmin},
		},
	}

	token, err := GenerateToken(42, testSecret)
	require.NoError(t, err)

	var seen *policy.Actor
	handler := Middleware(testSecret, resolver)(func(c echo.Context) error {
		seen = ActorFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	err = handler(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen, "actor should be stored in the request context")
	assert.Equal(t, uint(42), seen.AccountID)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	e := echo.New()
	handler := Middleware(testSecret, &staticResolver{})(func(c echo.Context) error {
		t.Fatal("handler must not run without a token")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()

	err := handler(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	e := echo.New()
	handler := Middleware(testSecret, &staticResolver{})(func(c echo.Context) error {
		t.Fatal("handler must not run with an invalid token")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bogus")
	rec := httptest.NewRecorder()

	err := handler(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
