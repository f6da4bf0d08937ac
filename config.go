package main

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the startup configuration read from the environment.
type Config struct {
	AppID         int64
	PrivateKey    *rsa.PrivateKey
	WebhookSecret string
	Port          string
	APIBaseURL    string // optional API endpoint override, e.g. GitHub Enterprise
	AMQPURL       string // optional event feed broker
}

// LoadConfig reads and validates configuration from the environment.
// Required: GITHUB_APP_ID, GITHUB_PRIVATE_KEY, WEBHOOK_SECRET.
func LoadConfig() (*Config, error) {
	appIDStr := os.Getenv("GITHUB_APP_ID")
	if appIDStr == "" {
		return nil, fmt.Errorf("config: GITHUB_APP_ID is not set")
	}
	appID, err := strconv.ParseInt(appIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: GITHUB_APP_ID must be numeric: %w", err)
	}

	keyPEM := os.Getenv("GITHUB_PRIVATE_KEY")
	if keyPEM == "" {
		return nil, fmt.Errorf("config: GITHUB_PRIVATE_KEY is not set")
	}
	key, err := parsePrivateKey([]byte(keyPEM))
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("config: WEBHOOK_SECRET is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	apiBase := os.Getenv("GITHUB_API_URL")
	if apiBase != "" && !strings.HasSuffix(apiBase, "/") {
		apiBase += "/" // go-github requires a trailing slash on BaseURL
	}

	return &Config{
		AppID:         appID,
		PrivateKey:    key,
		WebhookSecret: secret,
		Port:          port,
		APIBaseURL:    apiBase,
		AMQPURL:       os.Getenv("AMQP_URL"),
	}, nil
}

// parsePrivateKey decodes a PKCS#1 RSA private key from PEM, the format
// GitHub issues for App private keys.
func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("config: GITHUB_PRIVATE_KEY is not valid PEM")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("config: failed to parse RSA private key: %w", err)
	}
	return key, nil
}
