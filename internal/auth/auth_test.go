package auth

import (
	"errors"
	"testing"
	"time"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/config"
	"nxq-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "nxq-app"
	cfg.JWT.Audience = "nxq-users"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())
	user := &models.User{ID: 7, Username: "admin", Email: "admin@nxq.com", Role: "admin"}

	token, issued, err := m.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenRejections(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)
	token, _, err := m.GenerateToken(&models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "different"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err, "wrong secret")

	wrongAud := testConfig()
	wrongAud.JWT.Audience = "someone-else"
	_, err = NewJWTManager(wrongAud).ValidateToken(token)
	assert.Error(t, err, "wrong audience")

	late := NewJWTManager(cfg)
	late.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = late.ValidateToken(token)
	assert.Error(t, err, "expired")
}

func TestSanitizeCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"ok", "  admin ", "admin123", ""},
		{"empty", "", "", "credentials"},
		{"short username", "ab", "admin123", "username"},
		{"bad chars", "ad min", "admin123", "username"},
		{"short password", "admin", "12345", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, _, err := SanitizeCredentials(tt.username, tt.password)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "admin", u)
				return
			}
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "admin123"))
	assert.False(t, VerifyPassword(hash, "admin124"))
}
