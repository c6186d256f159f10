package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/ports"
)

var (
	// ErrNotSealed is returned when an encrypted store holds a snapshot without an envelope.
	ErrNotSealed = errors.New("snapshot is missing encrypted data envelope")

	// ErrDecrypt is returned when no configured key opens the envelope.
	ErrDecrypt = errors.New("decryption failed with all available keys")
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next      ports.RunStore
	active    cipher.AEAD
	fallbacks []cipher.AEAD
}

// NewEncryptionMiddleware creates a middleware that seals snapshots with AES-GCM.
//
// The stored envelope keeps only the run identity and counters in clear (run id, workflow,
// user, timestamps, steps, tokens) so stores can still list and index runs. Everything else
// lives in the sealed payload, which is bound to its run id: a payload copied under another
// run id does not open.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	active := mustAEAD(config.ActiveKey)
	fallbacks := make([]cipher.AEAD, 0, len(config.FallbackKeys))
	for _, key := range config.FallbackKeys {
		fallbacks = append(fallbacks, mustAEAD(key))
	}

	return func(next ports.RunStore) ports.RunStore {
		return &encryptionMiddleware{
			next:      next,
			active:    active,
			fallbacks: fallbacks,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, snapshot *domain.RunSnapshot) error {
	if snapshot == nil {
		return m.next.Save(ctx, snapshot)
	}

	plainText, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	nonce := make([]byte, m.active.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to encrypt snapshot: %w", err)
	}
	sealed := m.active.Seal(nonce, nonce, plainText, []byte(snapshot.RunID))

	envelope := &domain.RunSnapshot{
		RunID:       snapshot.RunID,
		Workflow:    snapshot.Workflow,
		UserID:      snapshot.UserID,
		UserFrom:    snapshot.UserFrom,
		InvokeFrom:  snapshot.InvokeFrom,
		CallDepth:   snapshot.CallDepth,
		StartAt:     snapshot.StartAt,
		CapturedAt:  snapshot.CapturedAt,
		TotalTokens: snapshot.TotalTokens,
		Steps:       snapshot.Steps,
		Sealed:      base64.StdEncoding.EncodeToString(sealed),
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	envelope, err := m.next.Load(ctx, runID)
	if err != nil {
		return nil, err
	}

	// Fail closed: a configured encryption layer never serves plain snapshots.
	if envelope.Sealed == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotSealed, runID)
	}

	sealed, err := base64.StdEncoding.DecodeString(envelope.Sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := m.open(sealed, []byte(runID))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot %s: %w", runID, err)
	}

	var snap domain.RunSnapshot
	if err := json.Unmarshal(plainText, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted snapshot: %w", err)
	}
	return &snap, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// open tries the active key, then each fallback in order.
func (m *encryptionMiddleware) open(sealed, runID []byte) ([]byte, error) {
	for _, aead := range append([]cipher.AEAD{m.active}, m.fallbacks...) {
		if len(sealed) < aead.NonceSize() {
			continue
		}
		nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
		if plain, err := aead.Open(nil, nonce, body, runID); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func mustAEAD(key []byte) cipher.AEAD {
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(fmt.Sprintf("invalid encryption key: %v", err))
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(fmt.Sprintf("invalid encryption key: %v", err))
	}
	return aead
}
