package auth

import (
	"errors"
	"time"

	"nxq-backend/internal/config"
	"nxq-backend/internal/models"
	"nxq-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
	now func() time.Time
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg, now: timeutil.Now}
}

func (j *JWTManager) ttl() time.Duration {
	return time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour
}

// GenerateToken creates a signed session token for a user. Every token gets
// a unique ID so it can be revoked on logout.
func (j *JWTManager) GenerateToken(user *models.User) (string, *Claims, error) {
	now := j.now()

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.JWT.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.cfg.JWT.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken verifies signature, expiry, issuer and audience and returns
// the claims.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	},
		jwt.WithIssuer(j.cfg.JWT.Issuer),
		jwt.WithAudience(j.cfg.JWT.Audience),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
