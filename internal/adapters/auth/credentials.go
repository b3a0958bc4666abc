package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Environment variables checked for a token, in order
const (
	EnvToken       = "CONFLUENZ_TOKEN"
	EnvGitHubToken = "GITHUB_TOKEN"
)

// ErrNoCredentials is returned when no token is configured anywhere
var ErrNoCredentials = errors.New("no credentials found")

// Credentials locates the token used to talk to the repository
type Credentials struct {
	TokenFile string
	getenv    func(string) string
}

// NewCredentials creates credentials backed by the environment and tokenFile
func NewCredentials(tokenFile string) *Credentials {
	return &Credentials{TokenFile: tokenFile, getenv: os.Getenv}
}

// DefaultTokenFile returns $XDG_CONFIG_HOME/confluenz/token.json
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "confluenz", "token.json")
}

// Lookup returns the first token found and where it came from
func (c *Credentials) Lookup() (*oauth2.Token, string, error) {
	for _, name := range []string{EnvToken, EnvGitHubToken} {
		if v := strings.TrimSpace(c.getenv(name)); v != "" {
			return &oauth2.Token{AccessToken: v, TokenType: "Bearer"}, name, nil
		}
	}

	if c.TokenFile == "" {
		return nil, "", ErrNoCredentials
	}
	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNoCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, "", fmt.Errorf("failed to parse token file %s: %w", c.TokenFile, err)
	}
	if tok.AccessToken == "" {
		return nil, "", ErrNoCredentials
	}
	return &tok, c.TokenFile, nil
}

// TokenSource returns a token source for the located token
func (c *Credentials) TokenSource() (oauth2.TokenSource, error) {
	tok, _, err := c.Lookup()
	if err != nil {
		return nil, err
	}
	return oauth2.StaticTokenSource(tok), nil
}

// Save writes tok to the token file, readable only by the user
func (c *Credentials) Save(tok *oauth2.Token) error {
	if c.TokenFile == "" {
		return fmt.Errorf("no token file configured")
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomic.WriteFile(c.TokenFile, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Chmod(c.TokenFile, 0600)
}

// DeviceLogin runs the OAuth device flow
type DeviceLogin struct {
	Config *oauth2.Config
}

// NewDeviceLogin creates a device login against github.com for clientID.
// authURL overrides the GitHub host for Enterprise installs.
func NewDeviceLogin(clientID, authURL string, scopes ...string) *DeviceLogin {
	endpoint := github.Endpoint
	if authURL != "" {
		base := strings.TrimSuffix(authURL, "/")
		endpoint = oauth2.Endpoint{
			AuthURL:       base + "/login/oauth/authorize",
			TokenURL:      base + "/login/oauth/access_token",
			DeviceAuthURL: base + "/login/device/code",
		}
	}
	if len(scopes) == 0 {
		scopes = []string{"repo"}
	}
	return &DeviceLogin{Config: &oauth2.Config{
		ClientID: clientID,
		Endpoint: endpoint,
		Scopes:   scopes,
	}}
}

// Run asks the user to authorize the device through prompt and waits for
// the token
func (d *DeviceLogin) Run(ctx context.Context, prompt func(*oauth2.DeviceAuthResponse)) (*oauth2.Token, error) {
	if d.Config.ClientID == "" {
		return nil, fmt.Errorf("an OAuth client ID is required for login")
	}

	resp, err := d.Config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start device login: %w", err)
	}
	prompt(resp)

	tok, err := d.Config.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device login failed: %w", err)
	}
	return tok, nil
}
