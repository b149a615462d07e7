package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Backend is what Sealed wraps: Local or GCS.
type Backend interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Open(ctx context.Context, ref string) ([]byte, error)
}

// Sealed encrypts objects with AES-256-GCM before handing them to the
// backend. Payslips carry PAN and salary figures, so they are never stored
// in the clear when a key is configured.
type Sealed struct {
	backend Backend
	aead    cipher.AEAD
}

func NewSealed(backend Backend, key string) (*Sealed, error) {
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealed{backend: backend, aead: aead}, nil
}

func (s *Sealed) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, data, []byte(name))
	return s.backend.Save(ctx, name+".enc", "application/octet-stream", sealed)
}

func (s *Sealed) Open(ctx context.Context, ref string) ([]byte, error) {
	sealed, err := s.backend.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(sealed) < s.aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	name, err := objectName(ref)
	if err != nil {
		return nil, err
	}
	nonce, body := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	return s.aead.Open(nil, nonce, body, []byte(name))
}

// objectName recovers the clean name passed to Save from a backend reference.
func objectName(ref string) (string, error) {
	if rest, ok := strings.CutPrefix(ref, "gs://"); ok {
		_, ref, _ = strings.Cut(rest, "/")
	} else {
		ref = strings.TrimPrefix(ref, "file://")
	}
	name, ok := strings.CutSuffix(ref, ".enc")
	if !ok || name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func decodeKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, errors.New("DATA_ENCRYPTION_KEY is empty")
	}
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
