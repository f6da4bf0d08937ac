package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTClaims(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	before := time.Now().Unix()
	signed, err := generateJWT(1234, key)
	require.NoError(t, err)
	after := time.Now().Unix()

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		require.Equal(t, "RS256", tok.Method.Alg())
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	require.EqualValues(t, 1234, claims["iss"])

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	require.Equal(t, int64(600), exp-iat, "expiry window must be ten minutes")
	require.GreaterOrEqual(t, iat, before)
	require.LessOrEqual(t, iat, after)
}

func TestInstallationClientRequiresInstallationID(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := &Server{cfg: &Config{AppID: 1234, PrivateKey: key, WebhookSecret: "s3cret"}}

	_, err = srv.installationClient(context.Background(), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no installation id")
}

func TestInstallationClientMintsFreshTokenPerCall(t *testing.T) {
	srv, fake := newTestServer(t, nil)

	_, err := srv.installationClient(context.Background(), 42)
	require.NoError(t, err)
	_, err = srv.installationClient(context.Background(), 42)
	require.NoError(t, err)

	// No caching: two calls, two token mints.
	calls := fake.recordedCalls()
	require.Len(t, calls, 2)
	for _, c := range calls {
		require.Equal(t, "POST", c.Method)
		require.Equal(t, "/app/installations/42/access_tokens", c.Path)
	}
}
