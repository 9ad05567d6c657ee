// Package token implements the bearer token codec: a self-contained signed
// claim set carried as three base64url segments. The codec is pure over its
// inputs and configured keys; it never touches a store, so verification adds
// no per-request I/O.
package token

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

// Decode failure kinds. The request layer collapses all of them into a
// single 401; the distinctions exist for logs and metrics.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("bad token signature")
	ErrExpired      = errors.New("token expired")
	ErrNotYetValid  = errors.New("token not yet valid")
)

// maxClockSkew bounds the configurable leeway for exp/iat checks.
const maxClockSkew = 60 * time.Second

const defaultTTL = 15 * time.Minute

// Claims is the verified payload of a bearer. Subject carries the username;
// EmployeeID is omitted from the wire form when the user is not staff.
type Claims struct {
	jwt.RegisteredClaims
	UserID     int64             `json:"uid"`
	EmployeeID domain.EmployeeID `json:"eid,omitzero"`
	Roles      []string          `json:"roles"`
}

// NewClaims assembles a claim set issued at now and expiring after ttl.
func NewClaims(username string, userID int64, empID domain.EmployeeID, roles []string, now time.Time, ttl time.Duration) Claims {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:     userID,
		EmployeeID: empID,
		Roles:      roles,
	}
}

// Codec signs and verifies bearer strings against an atomically swappable
// keyring. Safe for concurrent use; Rotate may race with Encode/Decode.
type Codec struct {
	keys atomic.Pointer[Keyring]
	skew time.Duration
	now  func() time.Time
}

// Option customises a Codec at construction.
type Option func(*Codec)

// WithClockSkew sets the leeway applied to exp and iat checks,
// capped at 60 seconds.
func WithClockSkew(d time.Duration) Option {
	return func(c *Codec) {
		if d < 0 {
			d = 0
		}
		if d > maxClockSkew {
			d = maxClockSkew
		}
		c.skew = d
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec around the given keyring.
func NewCodec(ring *Keyring, opts ...Option) *Codec {
	c := &Codec{now: time.Now}
	c.keys.Store(ring)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rotate atomically replaces the keyring. In-flight Encode/Decode calls
// finish against whichever ring they loaded; new calls see the replacement.
func (c *Codec) Rotate(ring *Keyring) {
	c.keys.Store(ring)
}

// Encode signs claims into a compact bearer string.
func (c *Codec) Encode(claims Claims) (string, error) {
	ring := c.keys.Load()
	if ring == nil || ring.signKey == nil {
		return "", fmt.Errorf("%w: no signing key configured", domain.ErrSigningFailure)
	}
	signed, err := jwt.NewWithClaims(ring.method, claims).SignedString(ring.signKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
	}
	return signed, nil
}

// Decode verifies a bearer string and returns its claims. The signature is
// checked against every key in the ring, so tokens signed before a rotation
// stay valid while the old verify key remains configured. Failures are one
// of ErrMalformed, ErrBadSignature, ErrExpired, ErrNotYetValid.
func (c *Codec) Decode(bearer string) (*Claims, error) {
	ring := c.keys.Load()
	if ring == nil || len(ring.verifyKeys) == 0 {
		return nil, ErrBadSignature
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{ring.method.Alg()}),
		jwt.WithLeeway(c.skew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)

	var lastErr error
	for _, key := range ring.verifyKeys {
		claims := &Claims{}
		tkn, err := parser.ParseWithClaims(bearer, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err == nil && tkn.Valid {
			return claims, nil
		}
		lastErr = err
		// Only a signature mismatch is worth retrying under another key;
		// structural and temporal failures are identical for every key.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, classify(lastErr)
}

func classify(err error) error {
	switch {
	case err == nil:
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrInvalidKey), errors.Is(err, jwt.ErrInvalidKeyType):
		return ErrBadSignature
	default:
		return ErrMalformed
	}
}

// FailureKind names a decode failure for metrics labels.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
