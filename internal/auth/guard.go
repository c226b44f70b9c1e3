package auth

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
)

var (
	ErrMissingToken     = errors.New("token required")
	ErrInsufficientRole = errors.New("insufficient role")
)

const bearerPrefix = "Bearer "

// HeaderSource exposes request metadata. http.Header satisfies it.
type HeaderSource interface {
	Get(key string) string
}

// Principal is the identity derived from a verified token for one request.
type Principal struct {
	Subject string
	Role    domain.Role
	Claims  Claims
}

// IsAdmin reports whether the principal carries the universal admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// Guard authenticates bearer tokens and enforces role requirements.
type Guard struct {
	codec  *TokenCodec
	logger *zap.Logger
}

// NewGuard constructs a guard around the codec.
func NewGuard(codec *TokenCodec, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{codec: codec, logger: logger}
}

// Authenticate extracts the bearer token and verifies it. Decode failures are
// wrapped so errors.Is still reports the specific cause.
func (g *Guard) Authenticate(headers HeaderSource) (*Principal, error) {
	token, ok := bearerToken(headers.Get("Authorization"))
	if !ok {
		g.logger.Debug("authentication failed", zap.String("reason", "missing_token"))
		return nil, ErrMissingToken
	}

	claims, err := g.codec.Decode(token)
	if err != nil {
		g.logger.Debug("authentication failed",
			zap.String("reason", failureReason(err)),
			zap.String("token", redactToken(token)))
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &Principal{Subject: claims.Subject, Role: claims.Role, Claims: *claims}, nil
}

// RequireRole authenticates and then requires the role, or admin.
func (g *Guard) RequireRole(headers HeaderSource, role domain.Role) (*Principal, error) {
	principal, err := g.Authenticate(headers)
	if err != nil {
		return nil, err
	}
	if err := Authorize(principal, role); err != nil {
		g.logger.Debug("authorization failed",
			zap.String("subject", principal.Subject),
			zap.String("role", string(principal.Role)),
			zap.String("required_role", string(role)))
		return nil, err
	}
	return principal, nil
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	default:
		return "unknown"
	}
}

func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
