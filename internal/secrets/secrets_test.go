// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func newKeeper(t *testing.T) (*Keeper, string) {
	t.Helper()
	dir := t.TempDir()
	k, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return k, dir
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	k, _ := newKeeper(t)

	enc, err := k.Encrypt("sk-ant-api-key")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !strings.HasPrefix(enc, EncryptedPrefix) {
		t.Fatalf("missing prefix: %q", enc)
	}
	if strings.Contains(enc, "sk-ant") {
		t.Error("plaintext leaked into ciphertext")
	}

	got, err := k.Decrypt(enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "sk-ant-api-key" {
		t.Errorf("Decrypt = %q", got)
	}
}

func TestEncryptIsIdempotent(t *testing.T) {
	k, _ := newKeeper(t)

	enc, err := k.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	again, err := k.Encrypt(enc)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if again != enc {
		t.Error("re-encrypting an encrypted value must be a no-op")
	}

	if out, _ := k.Encrypt(""); out != "" {
		t.Error("empty value must pass through")
	}
}

func TestDecryptPassesThroughPlainValues(t *testing.T) {
	k, _ := newKeeper(t)
	got, err := k.Decrypt("legacy-plain-key")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "legacy-plain-key" {
		t.Errorf("Decrypt = %q", got)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	k, _ := newKeeper(t)

	if _, err := k.Decrypt("ENC:not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := k.Decrypt("ENC:QUJD"); err == nil {
		t.Error("expected error for truncated blob")
	}
}

func TestDifferentSecretsCannotDecrypt(t *testing.T) {
	k1, _ := newKeeper(t)
	k2, _ := newKeeper(t)

	enc, err := k1.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := k2.Decrypt(enc); err == nil {
		t.Error("foreign keeper decrypted the value")
	}
}

func TestSecretFilePersistsAndIsPrivate(t *testing.T) {
	dir := t.TempDir()
	k1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	enc, err := k1.Encrypt("stable")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// A second keeper over the same dir shares the secret.
	k2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := k2.Decrypt(enc)
	if err != nil || got != "stable" {
		t.Fatalf("Decrypt after reopen = %q, %v", got, err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, secretFileName))
		if err != nil {
			t.Fatalf("stat secret: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("secret file mode = %v, want 0600", info.Mode().Perm())
		}
	}
}

func TestIsEncrypted(t *testing.T) {
	if IsEncrypted("plain") {
		t.Error("plain value reported encrypted")
	}
	if !IsEncrypted("ENC:abc") {
		t.Error("prefixed value not reported encrypted")
	}
}
