package gmail

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/inboxsaver/internal/instrumentation"
)

// Connector builds a fresh client together with the token source backing it.
type Connector func(ctx context.Context) (Client, oauth2.TokenSource, error)

// Authorizer memoizes a client and rebuilds it once its credential is no
// longer valid.
type Authorizer struct {
	connect Connector
	metrics *instrumentation.Metrics

	mu     sync.Mutex
	client Client
	tokens oauth2.TokenSource
}

// NewAuthorizer returns an Authorizer using connect to build clients.
// metrics may be nil.
func NewAuthorizer(connect Connector, metrics *instrumentation.Metrics) *Authorizer {
	return &Authorizer{connect: connect, metrics: metrics}
}

// Authorize returns a client whose credential is currently valid. Failures are
// returned as *AuthError.
func (a *Authorizer) Authorize(ctx context.Context) (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil && tokenValid(a.tokens) {
		a.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultReused)
		return a.client, nil
	}
	a.client, a.tokens = nil, nil

	client, tokens, err := a.connect(ctx)
	if err == nil && client == nil {
		err = errors.New("connector returned no client")
	}
	if err == nil && tokens != nil {
		if _, terr := tokens.Token(); terr != nil {
			err = terr
		}
	}
	if err != nil {
		a.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, &AuthError{Err: err}
	}

	a.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	a.client, a.tokens = client, tokens
	return client, nil
}

// Reset drops the memoized client so the next Authorize reconnects.
func (a *Authorizer) Reset() {
	a.mu.Lock()
	a.client, a.tokens = nil, nil
	a.mu.Unlock()
}

// tokenValid reports whether ts yields a valid token. A client built without
// a token source is always treated as valid.
func tokenValid(ts oauth2.TokenSource) bool {
	if ts == nil {
		return true
	}
	tok, err := ts.Token()
	return err == nil && tok.Valid()
}
