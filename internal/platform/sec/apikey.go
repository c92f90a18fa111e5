// Copyright (c) 2026 SMRT Labs. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	// APISecretPrefix marks raw API key secrets so they are recognizable in
	// configuration files and support tickets without revealing anything.
	APISecretPrefix = "sk_"

	// apiSecretLen is the byte length of the random part of an API secret.
	apiSecretLen = 24
)

// GenerateAPISecret mints a new raw API key secret ("sk_" + 48 hex chars).
//
// The raw value is shown to the caller exactly once at key creation and is
// never persisted — only its SHA-256 hash is stored.
func GenerateAPISecret() (string, error) {
	buf := make([]byte, apiSecretLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate api secret: %w", err)
	}
	return APISecretPrefix + hex.EncodeToString(buf), nil
}

// HashAPISecret returns the hex-encoded SHA-256 digest of a raw secret.
func HashAPISecret(rawSecret string) string {
	digest := sha256.Sum256([]byte(rawSecret))
	return hex.EncodeToString(digest[:])
}

// CheckAPISecretHash compares a raw secret against a stored digest in
// constant time.
func CheckAPISecretHash(rawSecret, storedHash string) bool {
	computed := HashAPISecret(rawSecret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
