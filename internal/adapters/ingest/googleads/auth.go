package googleads

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenURLDefault is Google's OAuth2 token endpoint
const TokenURLDefault = "https://oauth2.googleapis.com/token"

// Credentials is an installed-app refresh token grant
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string // empty -> TokenURLDefault
}

// Authorize returns a copy of base whose requests carry a bearer token minted
// from the refresh token. Token exchanges go through base as well, so they
// share its timeout and access log. The token is cached until it expires.
func (c Credentials) Authorize(ctx context.Context, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = TokenURLDefault
	}
	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	ctx = context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, base)
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})

	return &http.Client{
		Timeout: base.Timeout,
		Transport: &oauth2.Transport{
			Source: src,
			Base:   base.Transport,
		},
	}
}
