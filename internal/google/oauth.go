package google

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("no stored Google OAuth token")

// LoadOAuthConfig reads an installed-app client secret file and returns the
// OAuth2 configuration for the given scopes.
func LoadOAuthConfig(credentialFile string, scopes ...string) (*oauth2.Config, error) {
	if len(scopes) == 0 {
		scopes = DefaultOAuthScopes
	}
	data, err := os.ReadFile(credentialFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file %s: %w", credentialFile, err)
	}
	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", credentialFile, err)
	}
	return conf, nil
}

// TokenStore persists a single OAuth token as JSON.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Exists reports whether a token file is present.
func (s *TokenStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the stored token.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoToken, s.path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token format in %s: %w", s.path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s holds an empty token", ErrNoToken, s.path)
	}
	return &tok, nil
}

// Save writes tok, creating the parent directory if needed.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// AuthorizeInteractive runs the installed-app authorization code flow. It
// prints the consent URL to out, reads the authorization code from in,
// exchanges it and saves the token.
func AuthorizeInteractive(ctx context.Context, conf *oauth2.Config, store *TokenStore, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("inboxsaver", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open the following link in your browser and authorize access:\n\n%s\n\nEnter the authorization code: ", authURL)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "\nStoring credentials to %s\n", store.Path())
	return tok, nil
}

// NewHTTPClient returns an HTTP client that authenticates with ts.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}
