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

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// encryptedKey marks an envelope payload inside FormData.
const encryptedKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.DraftStore
	config EncryptionConfig
}

// payload is the sensitive part of a draft: everything a user typed plus
// their progress. Routing metadata (IDs, kind, SavedAt) stays plain so
// indexing and TTL expiry keep working on the envelope.
type payload struct {
	FormData      map[string]any  `json:"formData"`
	StepProgress  map[string]bool `json:"stepProgress,omitempty"`
	CurrentStepID string          `json:"currentStepId"`
}

// NewEncryptionMiddleware creates a middleware that encrypts draft form
// data using AES-GCM before it reaches the underlying store.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.DraftStore) ports.DraftStore {
		return &encryptionMiddleware{next: next, config: config}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, draft *domain.Draft) error {
	plainText, err := json.Marshal(payload{
		FormData:      draft.FormData,
		StepProgress:  draft.StepProgress,
		CurrentStepID: draft.CurrentStepID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal draft payload: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt draft: %w", err)
	}

	envelope := &domain.Draft{
		DraftID: draft.DraftID,
		UserID:  draft.UserID,
		Kind:    draft.Kind,
		SavedAt: draft.SavedAt,
		FormData: map[string]any{
			encryptedKey: base64.StdEncoding.EncodeToString(ciphertext),
		},
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, draftID string) (*domain.Draft, error) {
	envelope, err := m.next.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}

	encryptedStr, ok := envelope.FormData[encryptedKey].(string)
	if !ok {
		// Fail secure: with encryption configured, a plain draft in the
		// store is unexpected.
		return nil, errors.New("draft is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt draft: %w", err)
	}

	var p payload
	if err := json.Unmarshal(plainText, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted draft: %w", err)
	}

	out := *envelope
	out.FormData = p.FormData
	out.StepProgress = p.StepProgress
	out.CurrentStepID = p.CurrentStepID
	return &out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, draftID string) error {
	return m.next.Delete(ctx, draftID)
}

func (m *encryptionMiddleware) List(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	return m.next.List(ctx, kind, userID)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
