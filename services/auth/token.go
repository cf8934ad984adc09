package auth

import (
	"errors"
	"fmt"
	"time"

	"narration-desk/models/user"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HS256 secret accepted.
const MinSecretLength = 32

// Issuer signs dashboard session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Secret is the HS256 key, shared with the verifying middleware.
func (i *Issuer) Secret() []byte { return i.secret }

// Issue signs a token carrying the account's username and permissions.
func (i *Issuer) Issue(u *user.User) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	perms := []string(u.Permissions)
	if perms == nil {
		perms = []string{}
	}
	claims := jwt.MapClaims{
		"sub":         u.Uuid,
		"uuid":        u.Uuid,
		"username":    u.Username,
		"permissions": perms,
		"iat":         issuedAt.Unix(),
		"exp":         expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}
