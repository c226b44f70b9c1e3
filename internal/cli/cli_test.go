package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
)

func staticConfig(secret string) configLoader {
	return func() (*config.Config, error) {
		return &config.Config{Auth: config.AuthConfig{JWTSecret: secret, TokenValidityHours: 24}}, nil
	}
}

func run(t *testing.T, load configLoader, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(load)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTokenIssue(t *testing.T) {
	out, errOut, err := run(t, staticConfig("cli-secret"), "token", "issue", "--subject", "5", "--role", "editor", "--validity", "2h")
	require.NoError(t, err)
	assert.Contains(t, errOut, "expires at")

	codec, err := auth.NewTokenCodec("cli-secret")
	require.NoError(t, err)
	claims, err := codec.Decode(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "5", claims.Subject)
	assert.Equal(t, domain.RoleEditor, claims.Role)
	assert.Equal(t, 2*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenIssue_DefaultsAndErrors(t *testing.T) {
	out, _, err := run(t, staticConfig("cli-secret"), "token", "issue", "--subject", "9")
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec("cli-secret")
	require.NoError(t, err)
	claims, err := codec.Decode(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	_, _, err = run(t, staticConfig("cli-secret"), "token", "issue")
	assert.Error(t, err, "subject is required")

	_, _, err = run(t, staticConfig(""), "token", "issue", "--subject", "1")
	assert.Error(t, err)

	failing := func() (*config.Config, error) { return nil, errors.New("bad env") }
	_, _, err = run(t, failing, "token", "issue", "--subject", "1")
	assert.EqualError(t, err, "bad env")
}

func TestUserCreate_RequiresCredentials(t *testing.T) {
	_, _, err := run(t, staticConfig("cli-secret"), "user", "create", "--email", "a@example.com")
	assert.Error(t, err)
}

func TestUserCreate_RequiresDatabase(t *testing.T) {
	_, _, err := run(t, staticConfig("cli-secret"), "user", "create", "--email", "a@example.com", "--password", "pw")
	assert.Error(t, err)
}
