package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtService(secret string, accessExpiry time.Duration) *services.JWTService {
	return services.NewJWTService(services.JWTConfig{
		Secret:        secret,
		Issuer:        "pickup-api",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: 24 * time.Hour,
	})
}

type seen struct {
	memberID int64
	username string
}

// protectedApp serves /protected behind Auth and records who reached it.
func protectedApp(jwtSvc *services.JWTService, got *seen) http.Handler {
	app := drift.New()
	app.Use(Auth(jwtSvc))
	app.Get("/protected", func(c *drift.Context) {
		got.memberID = GetMemberID(c)
		got.username = GetUsername(c)
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return app
}

func call(app http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	jwtSvc := jwtService("test-secret-key", 15*time.Minute)
	pair, err := jwtSvc.GenerateTokenPair(42, "hooper")
	require.NoError(t, err)

	otherPair, err := jwtService("other-secret", 15*time.Minute).GenerateTokenPair(42, "hooper")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		status        int
		msg           string
	}{
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK, ""},
		{"mixed case scheme", "BeArEr " + pair.AccessToken, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"other scheme", "Token " + pair.AccessToken, http.StatusUnauthorized, "invalid authorization header format"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "invalid authorization header format"},
		{"garbage token", "Bearer invalid-token", http.StatusUnauthorized, "invalid or expired token"},
		{"other secret", "Bearer " + otherPair.AccessToken, http.StatusUnauthorized, "invalid or expired token"},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got seen
			rec := call(protectedApp(jwtSvc, &got), tt.authorization)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, rec.Body.String(), tt.msg)
				assert.Zero(t, got.memberID)
				return
			}
			assert.Equal(t, seen{memberID: 42, username: "hooper"}, got)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwtSvc := jwtService("test-secret-key", time.Millisecond)
	pair, err := jwtSvc.GenerateTokenPair(42, "hooper")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	var got seen
	rec := call(protectedApp(jwtSvc, &got), "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAccessors_OutsideAuth(t *testing.T) {
	app := drift.New()
	got := seen{memberID: -1, username: "unset"}
	app.Get("/test", func(c *drift.Context) {
		got.memberID = GetMemberID(c)
		got.username = GetUsername(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, seen{}, got)
}
