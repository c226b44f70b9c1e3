package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// DefaultValidity is the lifetime of tokens minted without an explicit window.
const DefaultValidity = 24 * time.Hour

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims describes the JWT payload. The registered sub, iat and exp fields
// carry the principal id and validity window.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type tokenHeader struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

// NewClaims builds claims valid from now for the given window.
func NewClaims(subject string, role domain.Role, now time.Time, validity time.Duration) Claims {
	if validity <= 0 {
		validity = DefaultValidity
	}
	issued := time.Unix(now.Unix(), 0)
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validity)),
		},
	}
}

// TokenCodec signs and verifies HS256 compact tokens with a single process-wide secret.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithValidity sets the window used by Issue.
func WithValidity(validity time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if validity > 0 {
			c.validity = validity
		}
	}
}

// WithClock overrides the time source used for minting and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec builds a codec. The secret must not be empty.
func NewTokenCodec(secret string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	c := &TokenCodec{
		secret:   []byte(secret),
		validity: DefaultValidity,
		now:      time.Now,
		parser:   jwt.NewParser(jwt.WithPaddingAllowed()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Validity returns the window applied by Issue.
func (c *TokenCodec) Validity() time.Duration {
	return c.validity
}

// Issue mints claims for the subject using the configured window and encodes them.
func (c *TokenCodec) Issue(subject string, role domain.Role) (string, *Claims, error) {
	claims := NewClaims(subject, role, c.now(), c.validity)
	token, err := c.Encode(claims)
	if err != nil {
		return "", nil, err
	}
	return token, &claims, nil
}

// Encode signs the claims and returns the compact token. The header segment is
// always {"typ":"JWT","alg":"HS256"} in that member order.
func (c *TokenCodec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	header, err := json.Marshal(tokenHeader{Typ: "JWT", Alg: token.Method.Alg()})
	if err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	signingString := token.EncodeSegment(header) + "." + token.EncodeSegment(payload)
	sig, err := token.Method.Sign(signingString, c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signingString + "." + token.EncodeSegment(sig), nil
}

// Decode verifies the token and returns its claims. The signature is checked
// before any segment content is interpreted.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, ErrMalformedToken
	}

	sig, err := c.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, ErrInvalidSignature
	}
	// hmac.Equal inside Verify keeps the comparison constant-time.
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, c.secret); err != nil {
		return nil, ErrInvalidSignature
	}

	var header tokenHeader
	if err := c.decodeSegment(parts[0], &header); err != nil {
		return nil, err
	}
	if header.Alg != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: unexpected alg %q", ErrMalformedToken, header.Alg)
	}

	var claims Claims
	if err := c.decodeSegment(parts[1], &claims); err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Unix() <= c.now().Unix() {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

func (c *TokenCodec) decodeSegment(seg string, dst any) error {
	raw, err := c.parser.DecodeSegment(seg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return nil
}
