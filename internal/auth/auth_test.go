package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeKeyFile(t *testing.T, key *rsa.PrivateKey, pkcs8 bool) string {
	t.Helper()

	var der []byte
	var blockType string
	if pkcs8 {
		var err error
		der, err = x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			t.Fatalf("marshal PKCS#8: %v", err)
		}
		blockType = "PRIVATE KEY"
	} else {
		der = x509.MarshalPKCS1PrivateKey(key)
		blockType = "RSA PRIVATE KEY"
	}

	path := filepath.Join(t.TempDir(), "key.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}

// TestNewSigner tests signer construction and key parsing.
func TestNewSigner(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	t.Run("PKCS#8 key", func(t *testing.T) {
		path := writeKeyFile(t, key, true)
		if _, err := NewSigner("key-id", path); err != nil {
			t.Errorf("NewSigner failed for PKCS#8 key: %v", err)
		}
	})

	t.Run("PKCS#1 key", func(t *testing.T) {
		path := writeKeyFile(t, key, false)
		if _, err := NewSigner("key-id", path); err != nil {
			t.Errorf("NewSigner failed for PKCS#1 key: %v", err)
		}
	})

	t.Run("missing key ID", func(t *testing.T) {
		path := writeKeyFile(t, key, true)
		if _, err := NewSigner("", path); err == nil {
			t.Error("expected error for empty key ID")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewSigner("key-id", "/nonexistent/key.pem"); err == nil {
			t.Error("expected error for missing key file")
		}
	})

	t.Run("not PEM", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.pem")
		if err := os.WriteFile(path, []byte("not a pem file"), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
		if _, err := NewSigner("key-id", path); err == nil {
			t.Error("expected error for non-PEM content")
		}
	})
}

// TestHeaders tests that the produced signature verifies against the public key.
func TestHeaders(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := writeKeyFile(t, key, true)

	s, err := NewSigner("my-key-id", path)
	if err != nil {
		t.Fatalf("NewSigner failed: %v", err)
	}

	headers, err := s.Headers("GET", "/trade-api/v2/markets/trades")
	if err != nil {
		t.Fatalf("Headers failed: %v", err)
	}

	if headers["KALSHI-ACCESS-KEY"] != "my-key-id" {
		t.Errorf("KALSHI-ACCESS-KEY = %q, want %q", headers["KALSHI-ACCESS-KEY"], "my-key-id")
	}

	ts := headers["KALSHI-ACCESS-TIMESTAMP"]
	if _, err := strconv.ParseInt(ts, 10, 64); err != nil {
		t.Fatalf("timestamp %q is not an integer: %v", ts, err)
	}

	sig, err := base64.StdEncoding.DecodeString(headers["KALSHI-ACCESS-SIGNATURE"])
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}

	msg := ts + "GET" + "/trade-api/v2/markets/trades"
	hashed := sha256.Sum256([]byte(msg))
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, hashed[:], sig,
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
	if err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}
