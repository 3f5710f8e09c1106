// Package cryptox implements the captlog cipher envelope: PBKDF2 key
// derivation, AES-256 in counter mode for entry content, and an
// HMAC-SHA256 digest over the ciphertext for integrity.
//
// The HMAC is keyed with the same master key as the cipher. Existing
// captlog stores were written that way, so the layout is kept for
// on-disk compatibility rather than deriving a separate MAC subkey.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/captlog/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the KDF salt size in bytes.
	SaltSize = 32
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// NonceSize is the per-record nonce size, one AES block.
	NonceSize = aes.BlockSize
	// Iterations is the PBKDF2 iteration count written at store creation.
	// Unlock always honors the count stored in the verification record.
	Iterations = 20000

	// Algorithm identifiers persisted in the store. Anything else read
	// back from disk is rejected, never interpreted.
	KDFName    = "PBKDF2"
	CipherName = "AES-256"
	MACName    = "HMAC-SHA256"

	// ReferenceText is the fixed plaintext behind the passphrase verifier.
	ReferenceText = "CAPTAINS LOG"
)

// DeriveKey derives a 256-bit master key from a passphrase, salt and
// iteration count using PBKDF2-HMAC-SHA256.
func DeriveKey(passphrase, salt []byte, iterations int) []byte {
	return pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
}

// newCTR builds an AES-CTR stream whose initial counter is the nonce
// interpreted as a little-endian integer. Go's CTR mode increments the IV
// big-endian, so the IV is the nonce with its bytes reversed.
func newCTR(key, nonce []byte) (cipher.Stream, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	iv := make([]byte, NonceSize)
	for i, b := range nonce {
		iv[NonceSize-1-i] = b
	}
	return cipher.NewCTR(block, iv), nil
}

// Encrypt encrypts plaintext under key with a freshly generated random
// nonce and returns ciphertext and nonce. A nonce is never reused: every
// call draws a new one.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = common.RandBytes(NonceSize)
	ciphertext, err = EncryptWithNonce(key, nonce, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, nonce, nil
}

// EncryptWithNonce encrypts plaintext under key with the given nonce.
// Callers other than Encrypt and the store-creation path must not supply
// their own nonces.
func EncryptWithNonce(key, nonce, plaintext []byte) ([]byte, error) {
	stream, err := newCTR(key, nonce)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)
	return ciphertext, nil
}

// Decrypt reverses EncryptWithNonce. CTR mode is symmetric, so this is
// the same keystream XOR. Integrity is not checked here; callers verify
// the digest first.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	stream, err := newCTR(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// Digest returns the hex-encoded HMAC-SHA256 of ciphertext under key.
func Digest(key, ciphertext []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(ciphertext)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyDigest recomputes the digest over ciphertext and compares it to
// the stored hex digest in constant time.
func VerifyDigest(key, ciphertext []byte, digest string) bool {
	return hmac.Equal([]byte(Digest(key, ciphertext)), []byte(digest))
}
