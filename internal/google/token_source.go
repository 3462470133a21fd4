package google

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// TokenSource returns a token source for the stored token. Tokens obtained
// through a refresh are written back to the store.
func TokenSource(ctx context.Context, conf *oauth2.Config, store *TokenStore) (oauth2.TokenSource, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}
	return oauth2.ReuseTokenSource(tok, &persistingSource{
		src:   conf.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}), nil
}

// persistingSource saves every new access token it hands out.
type persistingSource struct {
	src   oauth2.TokenSource
	store *TokenStore

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		if err := p.store.Save(tok); err != nil {
			return nil, err
		}
		p.last = tok.AccessToken
	}
	return tok, nil
}
