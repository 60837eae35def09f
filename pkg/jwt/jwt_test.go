package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateToken_CarriesRole(t *testing.T) {
	service := NewService(testSecret)

	for _, role := range []string{"admin", "client", "reseller"} {
		t.Run(role, func(t *testing.T) {
			token, err := service.GenerateToken("user-"+role, role)
			require.NoError(t, err)

			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "user-"+role, claims.UserID)
			assert.Equal(t, role, claims.Role)
		})
	}
}

func TestGenerateToken_Lifetime(t *testing.T) {
	service := NewService(testSecret)

	token, err := service.GenerateToken("user-123", "client")
	require.NoError(t, err)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestValidateToken_Expired(t *testing.T) {
	service := &Service{secretKey: []byte(testSecret), ttl: -time.Minute}

	token, err := service.GenerateToken("user-123", "reseller")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, jwtlib.ErrTokenExpired)
}

func TestValidateToken_Rejects(t *testing.T) {
	service := NewService(testSecret)

	foreign, err := NewService("another-secret").GenerateToken("user-123", "admin")
	require.NoError(t, err)

	unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, &Claims{UserID: "user-123", Role: "admin"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "invalid-token"},
		{"wrong secret", foreign},
		{"alg none", unsigned},
		{"escalated role", escalateRole(t, service)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

// escalateRole rewrites the payload of a client token to claim admin while
// keeping the original signature.
func escalateRole(t *testing.T, service *Service) string {
	t.Helper()
	token, err := service.GenerateToken("user-123", "client")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	forged := strings.Replace(string(payload), `"role":"client"`, `"role":"admin"`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
	return strings.Join(parts, ".")
}
