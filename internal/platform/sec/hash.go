// Copyright (c) 2026 SMRT Labs. All rights reserved.

// Package sec provides cryptographic primitives for credential handling.
//
// # Architecture
//
// This package isolates security-sensitive code (password KDF, API secret
// hashing) from the domain logic. Two distinct hashing strategies coexist:
//
//   - Passwords: scrypt with a per-user random salt. Low-entropy input needs
//     a memory-hard KDF.
//   - API secrets: single-pass SHA-256 without a salt. The secret itself is
//     192 bits of entropy, so a fast hash is sufficient and keeps the CLI
//     validation path cheap.
//
// All comparisons use constant-time equality to avoid timing side channels.
package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters. N/r/p follow the widely used interactive-login profile.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64

	// passwordSaltLen is the byte length of the per-user random salt.
	passwordSaltLen = 16
)

// HashPassword derives a storable hash from a plain-text password.
//
// The result has the form "<saltHex>:<derivedKeyHex>" so that verification
// can recover the salt without a separate column.
func HashPassword(plainTextPassword string) (string, error) {
	saltBytes := make([]byte, passwordSaltLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("sec: failed to generate password salt: %w", err)
	}

	salt := hex.EncodeToString(saltBytes)
	derivedKey, err := scrypt.Key([]byte(plainTextPassword), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}

	return salt + ":" + hex.EncodeToString(derivedKey), nil
}

// CheckPasswordHash compares a plain-text password with its stored hash.
//
// The comparison is constant-time. A malformed stored hash never matches.
func CheckPasswordHash(plainTextPassword, storedHash string) bool {
	salt, wantHex, found := strings.Cut(storedHash, ":")
	if !found {
		return false
	}

	derivedKey, err := scrypt.Key([]byte(plainTextPassword), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	want, err := hex.DecodeString(wantHex)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(derivedKey, want) == 1
}
