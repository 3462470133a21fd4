package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"

	"github.com/teemow/inboxsaver/internal/config"
	"github.com/teemow/inboxsaver/internal/gmail"
	"github.com/teemow/inboxsaver/internal/google"
	"github.com/teemow/inboxsaver/internal/instrumentation"
)

// configPath returns the config file named by the flag or the first
// argument, falling back to the default file.
func configPath(flagValue string, args []string) string {
	if flagValue != "" {
		return flagValue
	}
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return config.DefaultFile
}

// newConnector builds Gmail clients from the account configuration.
func newConnector(cfg *config.Config, metrics *instrumentation.Metrics) gmail.Connector {
	return func(ctx context.Context) (gmail.Client, oauth2.TokenSource, error) {
		conf, err := google.LoadOAuthConfig(cfg.CredentialFile, google.DefaultOAuthScopes...)
		if err != nil {
			return nil, nil, err
		}
		ts, err := google.TokenSource(ctx, conf, google.NewTokenStore(cfg.TokenPath()))
		if err != nil {
			if errors.Is(err, google.ErrNoToken) {
				return nil, nil, fmt.Errorf("%w: run 'inboxsaver auth' first", err)
			}
			return nil, nil, err
		}
		client, err := gmail.NewClient(ctx, google.NewHTTPClient(ctx, ts),
			gmail.WithRateLimit(cfg.RequestsPerSecond),
			gmail.WithMetrics(metrics))
		if err != nil {
			return nil, nil, err
		}
		return client, ts, nil
	}
}

// authorize runs the interactive consent flow for cfg and stores the token.
func authorize(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	conf, err := google.LoadOAuthConfig(cfg.CredentialFile, google.DefaultOAuthScopes...)
	if err != nil {
		return err
	}
	_, err = google.AuthorizeInteractive(ctx, conf, google.NewTokenStore(cfg.TokenPath()), in, out)
	return err
}

// isTerminal reports whether stdin is attached to a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
