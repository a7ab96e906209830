package auth

import (
	"errors"
	"time"

	"backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure taxonomy. The three cases all reject, but the
// distinction feeds logging and metrics.
var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
)

// DefaultTokenTTL bounds a credential's lifetime. Permission changes made
// after issuance are invisible until reissue; that staleness window is
// accepted — callers needing live state use Resolver.ResolveFresh.
const DefaultTokenTTL = 24 * time.Hour

// PermissionClaim is one named capability embedded in a credential.
type PermissionClaim struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleClaim is one role with its permission snapshot.
type RoleClaim struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Permissions []PermissionClaim `json:"permissions"`
}

// Claims is the validated, strongly-typed credential payload. Any claims
// value returned by Codec.Verify is treated as authentic for the rest of
// the request.
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Roles  []RoleClaim `json:"roles"`
	jwt.RegisteredClaims
}

// ClaimsFromUser snapshots a user's identity and role→permission graph
// into credential claims.
func ClaimsFromUser(user *model.User) *Claims {
	roles := make([]RoleClaim, 0, len(user.Roles))
	for _, r := range user.Roles {
		perms := make([]PermissionClaim, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			perms = append(perms, PermissionClaim{ID: p.ID.String(), Name: p.Name})
		}
		roles = append(roles, RoleClaim{ID: r.ID.String(), Name: r.Name, Permissions: perms})
	}
	return &Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Roles:  roles,
	}
}

// Codec issues and verifies signed, time-bounded credentials. The signing
// secret is injected at construction; there is no default.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. An empty secret is a configuration error.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs the claims with HS256, setting issuedAt=now and
// expiresAt=now+ttl. The output is an opaque string safe for a cookie.
func (c *Codec) Issue(claims Claims, now time.Time) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(c.secret)
}

// Verify validates signature and expiry against the supplied clock and
// returns the embedded claims unchanged. This is the only trust boundary:
// tampering yields ErrBadSignature, lapsed expiry ErrExpired, and any
// structural problem (wrong algorithm, undecodable payload, missing
// subject) ErrMalformed. Nothing partially decodes.
func (c *Codec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// TTL reports the configured credential lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
