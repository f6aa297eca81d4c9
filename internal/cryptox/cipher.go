// Package cryptox implements the at-rest protection primitives: the
// authenticated field cipher used for PAN values and bcrypt password
// hashing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/panvault/internal/common"
	"golang.org/x/crypto/scrypt"
)

const (
	// ivSize is the per-value initialization vector length. 16 bytes to
	// stay wire-compatible with envelopes produced by earlier deployments.
	ivSize = 16

	// tagSize is the GCM authentication tag length.
	tagSize = 16

	keySize = 32

	// kdfSalt is fixed so the same operator secret always derives the same
	// field key; changing it makes every stored envelope undecryptable.
	kdfSalt = "salt"
)

// DeriveFieldKey stretches an operator-supplied secret into a 256-bit AES
// key using scrypt. The parameters (N=16384, r=8, p=1) must not change:
// together with the fixed salt they pin the derived key, and any deviation
// makes every stored envelope undecryptable.
func DeriveFieldKey(secret string) ([]byte, error) {
	return scrypt.Key([]byte(secret), []byte(kdfSalt), 1<<14, 8, 1, keySize)
}

// FieldCipher encrypts and decrypts individual sensitive values with
// AES-256-GCM. Envelopes are encoded as "ivHex:tagHex:ciphertextHex".
type FieldCipher struct {
	aead cipher.AEAD

	// RandomKey reports that no operator secret was configured and the key
	// was generated for this process only. Previously stored envelopes are
	// unreadable and new ones will not survive a restart; callers should
	// log this loudly at startup.
	RandomKey bool
}

// NewFieldCipher builds a FieldCipher from the operator secret. An empty
// secret falls back to a process-local random key, reported via RandomKey.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	var key []byte
	var random bool

	if secret == "" {
		key = common.GenerateRandByteArray(keySize)
		random = true
	} else {
		k, err := DeriveFieldKey(secret)
		if err != nil {
			return nil, fmt.Errorf("key derivation error: %w", err)
		}
		key = k
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, err
	}

	return &FieldCipher{aead: aead, RandomKey: random}, nil
}

// Encrypt seals the plaintext under a fresh random IV and returns the
// envelope. Output is non-deterministic: the same plaintext yields a
// different envelope on every call.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	iv := common.GenerateRandByteArray(ivSize)

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)

	// Seal appends the tag to the ciphertext; the envelope carries it as a
	// separate segment.
	ct := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv), hex.EncodeToString(tag), hex.EncodeToString(ct)), nil
}

// Decrypt opens an envelope. Returns common.ErrInvalidEnvelope when the
// value is not three hex segments, and common.ErrDecryptionFailed when the
// authentication tag does not verify (tampering or a rotated key).
func (c *FieldCipher) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", common.ErrInvalidEnvelope
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return "", common.ErrInvalidEnvelope
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", common.ErrInvalidEnvelope
	}
	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", common.ErrInvalidEnvelope
	}

	plaintext, err := c.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
