package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"github.com/stationeryhq/stationery-server/internal/domain"
)

const TokenTTL = time.Hour

// AdminClaims is the token payload. AdminID is carried as a decimal string
// so the int64 identity survives JSON number precision.
type AdminClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints stateless, signed, time-limited session tokens.
// Nothing is persisted server-side; validity is determined purely by
// signature and expiry at verification time.
type TokenIssuer struct {
	creds  *Credentials
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(creds *Credentials, secret string) *TokenIssuer {
	return &TokenIssuer{creds: creds, secret: []byte(secret), ttl: TokenTTL}
}

// Login verifies the credentials and issues a signed token. The failure is
// deliberately uniform: an unknown email and a wrong password are
// indistinguishable to the caller.
func (t *TokenIssuer) Login(ctx context.Context, email, password string) (string, *domain.AdminUser, error) {
	admin, ok := t.creds.Verify(ctx, email, password)
	if !ok {
		return "", nil, ErrInvalidCredentials
	}
	token, err := t.Sign(admin)
	if err != nil {
		return "", nil, errors.Wrap(err, "sign token")
	}
	return token, admin, nil
}

// Sign issues a token for an already-authenticated admin.
func (t *TokenIssuer) Sign(admin *domain.AdminUser) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		AdminID: strconv.FormatInt(admin.ID, 10),
		Email:   admin.Email,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
