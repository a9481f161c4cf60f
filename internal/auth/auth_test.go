package auth

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRun(out string, err error) runFunc {
	return func(name string, args ...string) ([]byte, error) {
		return []byte(out), err
	}
}

func TestGhCliProvider_GetToken_Success(t *testing.T) {
	var gotArgs []string
	provider := &GhCliProvider{
		Hostname: "ghe.example.com",
		run: func(name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			return []byte("  gho_abc123\n"), nil
		},
	}

	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "gho_abc123", token)
	assert.Equal(t, []string{"gh", "auth", "token", "--hostname", "ghe.example.com"}, gotArgs)
}

func TestGhCliProvider_GetToken_NotInstalled(t *testing.T) {
	provider := &GhCliProvider{run: fakeRun("", &exec.Error{Name: "gh", Err: exec.ErrNotFound})}

	token, err := provider.GetToken()

	assert.Empty(t, token)
	assert.EqualError(t, err, "gh CLI not found in PATH")
}

func TestGhCliProvider_GetToken_Failure(t *testing.T) {
	provider := &GhCliProvider{run: fakeRun("", errors.New("exit status 1"))}

	_, err := provider.GetToken()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gh auth token failed")
}

func TestGhCliProvider_GetToken_Empty(t *testing.T) {
	provider := &GhCliProvider{run: fakeRun("\n", nil)}

	_, err := provider.GetToken()

	assert.EqualError(t, err, "gh auth token returned empty token")
}

func TestEnvProvider_GetToken(t *testing.T) {
	t.Run("first variable wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "ghp_primary")
		t.Setenv("GH_TOKEN", "ghp_secondary")

		token, err := (&EnvProvider{}).GetToken()
		require.NoError(t, err)
		assert.Equal(t, "ghp_primary", token)
	})

	t.Run("falls through to GH_TOKEN", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "ghp_secondary")

		token, err := (&EnvProvider{}).GetToken()
		require.NoError(t, err)
		assert.Equal(t, "ghp_secondary", token)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GH_TOKEN", "")

		token, err := (&EnvProvider{}).GetToken()
		assert.Empty(t, token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	})

	t.Run("custom variables", func(t *testing.T) {
		t.Setenv("GHS_TOKEN", "ghp_custom")

		token, err := (&EnvProvider{Vars: []string{"GHS_TOKEN"}}).GetToken()
		require.NoError(t, err)
		assert.Equal(t, "ghp_custom", token)
	})
}

func TestStaticProvider_GetToken(t *testing.T) {
	token, err := StaticProvider{Token: " ghp_cfg "}.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_cfg", token)

	_, err = StaticProvider{}.GetToken()
	assert.Error(t, err)
}

func TestResolve_FirstSuccessWins(t *testing.T) {
	failing := &GhCliProvider{run: fakeRun("", errors.New("exit status 1"))}

	token, err := Resolve(failing, StaticProvider{Token: "ghp_cfg"}, StaticProvider{Token: "ghp_other"})

	require.NoError(t, err)
	assert.Equal(t, "ghp_cfg", token)
}

func TestResolve_AllFail(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	failing := &GhCliProvider{run: fakeRun("", &exec.Error{Name: "gh", Err: exec.ErrNotFound})}

	token, err := Resolve(failing, &EnvProvider{})

	assert.Empty(t, token)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "gh CLI: gh CLI not found in PATH")
	assert.Contains(t, msg, "environment: GITHUB_TOKEN/GH_TOKEN not set or empty")
	assert.Contains(t, msg, "gh auth login")
}

func TestResolve_NoProviders(t *testing.T) {
	_, err := Resolve()
	assert.Error(t, err)
}

func TestTokenProvider_Interface(t *testing.T) {
	var _ TokenProvider = &GhCliProvider{}
	var _ TokenProvider = &EnvProvider{}
	var _ TokenProvider = StaticProvider{}
}
