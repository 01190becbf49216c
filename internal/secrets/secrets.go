// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets encrypts API keys at rest.
//
// Values are stored as ENC:base64(salt|nonce|ciphertext) using AES-256-GCM
// with a PBKDF2-SHA-256 derived key. The key material is a random secret
// kept next to the config file with 0600 permissions, so an exfiltrated
// config.toml alone does not leak provider credentials.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a value as encrypted.
const EncryptedPrefix = "ENC:"

const (
	keySize   = 32 // AES-256
	saltSize  = 16
	nonceSize = 12 // AES-GCM standard nonce

	// pbkdf2Iterations follows the OWASP 2023 recommendation for
	// PBKDF2-SHA-256.
	pbkdf2Iterations = 600000

	secretFileName = "secret.key"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	ErrDecryptionFailed  = errors.New("decryption failed: wrong key or tampered data")
)

// =============================================================================
// KEEPER
// =============================================================================

// Keeper encrypts and decrypts secret values with a machine-local secret.
type Keeper struct {
	secret []byte
}

// Open loads (creating on first use) the machine secret stored in dir and
// returns a Keeper bound to it.
func Open(dir string) (*Keeper, error) {
	path := filepath.Join(dir, secretFileName)

	secret, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		secret = make([]byte, keySize)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create secret directory: %w", err)
		}
		if err := os.WriteFile(path, secret, 0600); err != nil {
			return nil, fmt.Errorf("store secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load secret: %w", err)
	}
	if len(secret) < keySize {
		return nil, fmt.Errorf("secret file %s is truncated", path)
	}

	return &Keeper{secret: secret}, nil
}

// Encrypt encrypts a plaintext value into ENC: form. Already-encrypted
// values pass through unchanged so re-saving a config is idempotent.
func (k *Keeper) Encrypt(value string) (string, error) {
	if value == "" || strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	aead, err := k.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Layout: salt || nonce || ciphertext(with tag)
	blob := append(salt, nonce...)
	blob = aead.Seal(blob, nonce, []byte(value), nil)

	return EncryptedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. Plain values pass through unchanged, so configs
// written before encryption was enabled keep working.
func (k *Keeper) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(blob) < saltSize+nonceSize {
		return "", ErrInvalidCiphertext
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	aead, err := k.aead(salt)
	if err != nil {
		return "", err
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// IsEncrypted reports whether a stored value carries the ENC: prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

func (k *Keeper) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(k.secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// zeroBytes clears key material so it does not linger in memory.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
