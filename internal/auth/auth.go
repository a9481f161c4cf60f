// Package auth provides GitHub authentication token lookup.
// Tokens come from an ordered list of providers; the first one that yields a token wins.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider obtains a GitHub authentication token from one source.
type TokenProvider interface {
	Name() string
	GetToken() (string, error)
}

// runFunc runs a command and returns its standard output.
type runFunc func(name string, args ...string) ([]byte, error)

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// GhCliProvider obtains tokens from the GitHub CLI (`gh auth token`).
// It respects the user's existing gh login.
type GhCliProvider struct {
	Hostname string // Defaults to github.com
	run      runFunc
}

// Name implements TokenProvider.
func (g *GhCliProvider) Name() string { return "gh CLI" }

// GetToken shells out to `gh auth token` for the configured host.
func (g *GhCliProvider) GetToken() (string, error) {
	host := g.Hostname
	if host == "" {
		host = "github.com"
	}
	run := g.run
	if run == nil {
		run = runCommand
	}

	output, err := run("gh", "auth", "token", "--hostname", host)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}
	return token, nil
}

// EnvProvider reads the token from the first non-empty environment variable in Vars.
type EnvProvider struct {
	Vars []string // Defaults to GITHUB_TOKEN, GH_TOKEN
}

// Name implements TokenProvider.
func (e *EnvProvider) Name() string { return "environment" }

func (e *EnvProvider) vars() []string {
	if len(e.Vars) == 0 {
		return []string{"GITHUB_TOKEN", "GH_TOKEN"}
	}
	return e.Vars
}

// GetToken implements TokenProvider.
func (e *EnvProvider) GetToken() (string, error) {
	for _, name := range e.vars() {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("%s not set or empty", strings.Join(e.vars(), "/"))
}

// StaticProvider returns a fixed token, typically from the config file.
type StaticProvider struct {
	Token string
}

// Name implements TokenProvider.
func (s StaticProvider) Name() string { return "config" }

// GetToken implements TokenProvider.
func (s StaticProvider) GetToken() (string, error) {
	if strings.TrimSpace(s.Token) == "" {
		return "", errors.New("no token configured")
	}
	return strings.TrimSpace(s.Token), nil
}

// Resolve returns the token of the first provider that succeeds. When all fail the error
// lists every provider's failure.
func Resolve(providers ...TokenProvider) (string, error) {
	if len(providers) == 0 {
		return "", errors.New("no token providers configured")
	}

	failures := make([]string, 0, len(providers))
	for _, p := range providers {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
	}

	return "", fmt.Errorf(
		"failed to obtain GitHub token (%s).\n"+
			"Please either:\n"+
			"  1. Run 'gh auth login' to authenticate with GitHub CLI, or\n"+
			"  2. Set the GITHUB_TOKEN environment variable with a personal access token",
		strings.Join(failures, "; "),
	)
}
