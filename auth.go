package main

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// generateJWT creates the App JWT used to authenticate as the GitHub App
// itself. GitHub requires iss = app ID, iat = now, exp at most 10 minutes
// out; this token only lives long enough to mint an installation token.
func generateJWT(appID int64, key *rsa.PrivateKey) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss": appID,
		"iat": now,
		"exp": now + 600,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign app JWT: %w", err)
	}
	return signed, nil
}

// newGitHubClient builds a go-github client that sends token as a bearer
// credential. baseURL overrides the API endpoint when non-empty.
func newGitHubClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("auth: invalid API base URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}
	return gh, nil
}

// installationClient mints a fresh App JWT, exchanges it for an installation
// access token scoped to installationID, and returns a client bound to that
// token. Tokens are never cached; each handled event pays for its own mint
// and the token is discarded with the request.
func (s *Server) installationClient(ctx context.Context, installationID int64) (*Client, error) {
	if installationID == 0 {
		return nil, fmt.Errorf("auth: webhook payload carries no installation id")
	}

	appJWT, err := generateJWT(s.cfg.AppID, s.cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	appClient, err := newGitHubClient(ctx, appJWT, s.cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}

	tok, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create token for installation %d: %w", installationID, err)
	}

	gh, err := newGitHubClient(ctx, tok.GetToken(), s.cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{gh: gh}, nil
}
