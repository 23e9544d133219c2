// Package token issues and verifies the HS256 JWTs that identify a caller.
//
// Verification never returns an error: every failure is reported as a
// Result with a Reason, since a bad token is an expected condition.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid
const DefaultTTL = 24 * time.Hour

// Identity is what a token asserts about its holder
type Identity struct {
	SubjectID string
	Email     string
}

// Claims are the decoded contents of a valid token. Timestamps are whole seconds.
type Claims struct {
	SubjectID string    `json:"subjectId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Reason explains why a token was rejected
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonMalformed Reason = "malformed"
	ReasonSignature Reason = "signature"
	ReasonExpired   Reason = "expired"
	ReasonClaims    Reason = "claims"
)

// Result is either Verified (Claims set) or Invalid (Reason set)
type Result struct {
	Claims *Claims
	Reason Reason
}

// Valid reports whether the token verified
func (r Result) Valid() bool {
	return r.Claims != nil && r.Reason == ReasonNone
}

func invalid(reason Reason) Result {
	return Result{Reason: reason}
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errAlgorithm = errors.New("unexpected signing algorithm")

// Codec signs and verifies tokens with a shared secret
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a Codec
type Option func(*Codec)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithIssuer sets and then requires the iss claim
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// NewCodec builds a codec. A ttl of zero means DefaultTTL.
func NewCodec(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid token ttl: %s", ttl)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}

	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of issued tokens
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for id and returns it with the claims it embeds
func (c *Codec) Issue(id Identity) (string, *Claims, error) {
	if id.SubjectID == "" {
		return "", nil, errors.New("subject id is required")
	}

	iat := time.Unix(c.now().Unix(), 0).UTC()
	exp := time.Unix(iat.Add(c.ttl).Unix(), 0).UTC()

	rc := jwt.RegisteredClaims{
		Subject:   id.SubjectID,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	if c.issuer != "" {
		rc.Issuer = c.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email:            id.Email,
		RegisteredClaims: rc,
	}).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, &Claims{
		SubjectID: id.SubjectID,
		Email:     id.Email,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

// Verify checks signature, algorithm and expiry. It does not panic.
func (c *Codec) Verify(tokenString string) (res Result) {
	defer func() {
		if recover() != nil {
			res = invalid(ReasonMalformed)
		}
	}()

	if tokenString == "" {
		return invalid(ReasonMalformed)
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errAlgorithm
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return invalid(classify(err))
	}

	if parsed.Subject == "" || parsed.IssuedAt == nil {
		return invalid(ReasonClaims)
	}

	return Result{Claims: &Claims{
		SubjectID: parsed.Subject,
		Email:     parsed.Email,
		IssuedAt:  time.Unix(parsed.IssuedAt.Unix(), 0).UTC(),
		ExpiresAt: time.Unix(parsed.ExpiresAt.Unix(), 0).UTC(),
	}}
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, errAlgorithm):
		return ReasonClaims
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenInvalidClaims), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ReasonClaims
	default:
		return ReasonMalformed
	}
}

type contextKey struct{}

// NewContext returns ctx carrying claims
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the claims attached by the auth middleware
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}
