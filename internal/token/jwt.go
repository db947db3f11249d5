package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/beatgate/internal/model"
)

// Claims represents the signed credential content: the user identity plus
// registered timing claims. Expiry is always set; tokens without one fail
// validation.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// JWT implements model.TokenManager backed by symmetric HMAC-SHA256.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

var _ model.TokenManager = (*JWT)(nil)

// DefaultTTL bounds the credential validity window when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// NewJWT creates a token manager with the process signing secret and the
// validity window for new credentials.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl}
}

// Generate signs a credential for the given identity. The jti claim makes
// each issued token distinct even for identical claims; all of them validate
// back to the same identity.
func (j *JWT) Generate(userID int64, username string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:   userID,
		Username: username,
	})

	signed, err := tok.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims. Failures
// classify as model.ErrTokenExpired or model.ErrTokenMalformed; claims must
// not be used when an error is returned.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
			}
			return []byte(j.secretKey), nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
	if !tok.Valid {
		return model.Claims{}, model.ErrTokenMalformed
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return model.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		IssuedAt: issuedAt,
	}, nil
}
