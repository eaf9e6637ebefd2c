// Package cryptox seals small blobs (the persisted session snapshot) with a
// passphrase: argon2id derives the key, AES-GCM encrypts.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

var ErrMalformed = errors.New("sealed blob is malformed")

// KDF turns a passphrase and salt into a keySize key.
type KDF func(passphrase, salt []byte) []byte

func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// Sealer keeps the derived key for one salt so repeated seals cost a single
// AES-GCM pass. The output format is salt || nonce || ciphertext.
//
// The salt is picked on the first Seal, or adopted from the first blob that
// Open authenticates. Safe for concurrent use.
type Sealer struct {
	mu         sync.Mutex
	passphrase []byte
	kdf        KDF
	salt       []byte
	key        []byte
	aead       cipher.AEAD
}

// NewSealer returns a Sealer for passphrase. A nil kdf means DeriveKey.
func NewSealer(passphrase []byte, kdf KDF) *Sealer {
	if kdf == nil {
		kdf = DeriveKey
	}
	return &Sealer{passphrase: append([]byte(nil), passphrase...), kdf: kdf}
}

// Seal marshals v to JSON and encrypts it.
func (s *Sealer) Seal(v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aead == nil {
		salt := make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		if err := s.useSalt(salt); err != nil {
			return nil, err
		}
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, s.salt...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, nil), nil
}

// Open decrypts sealed into v. A blob under another salt costs one key
// derivation; once it authenticates, its salt replaces the current one.
func (s *Sealer) Open(sealed []byte, v any) error {
	if len(sealed) < saltSize {
		return ErrMalformed
	}
	salt, rest := sealed[:saltSize], sealed[saltSize:]

	s.mu.Lock()
	defer s.mu.Unlock()

	aead := s.aead
	var key []byte
	if aead == nil || !bytes.Equal(salt, s.salt) {
		key = s.kdf(s.passphrase, salt)
		var err error
		if aead, err = newAEAD(key); err != nil {
			Wipe(key)
			return err
		}
	}

	if len(rest) < aead.NonceSize() {
		Wipe(key)
		return ErrMalformed
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		Wipe(key)
		return fmt.Errorf("decrypt: %w", err)
	}
	if key != nil {
		Wipe(s.key)
		s.salt = append([]byte(nil), salt...)
		s.key, s.aead = key, aead
	}
	return json.Unmarshal(plaintext, v)
}

// Forget wipes the cached key and passphrase. The Sealer is unusable after.
func (s *Sealer) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	Wipe(s.key)
	Wipe(s.passphrase)
	s.key, s.salt, s.aead = nil, nil, nil
}

func (s *Sealer) useSalt(salt []byte) error {
	key := s.kdf(s.passphrase, salt)
	aead, err := newAEAD(key)
	if err != nil {
		Wipe(key)
		return err
	}
	s.salt, s.key, s.aead = salt, key, aead
	return nil
}

// Seal encrypts v under a fresh salt. Callers sealing repeatedly should keep
// a Sealer instead.
func Seal(v any, passphrase []byte) ([]byte, error) {
	s := NewSealer(passphrase, nil)
	defer s.Forget()
	return s.Seal(v)
}

// Open reverses Seal into v. A wrong passphrase fails authentication.
func Open(sealed []byte, passphrase []byte, v any) error {
	s := NewSealer(passphrase, nil)
	defer s.Forget()
	return s.Open(sealed, v)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
