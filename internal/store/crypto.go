package store

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/go-crypt/x/argon2"
)

var (
	// ErrPassphraseRequired is returned when an encrypted file is opened without a passphrase.
	ErrPassphraseRequired = errors.New("data file is encrypted; passphrase required")
	// ErrBadPassphrase is returned when decryption fails.
	ErrBadPassphrase = errors.New("wrong passphrase or corrupted data file")
)

// Sealed file layout: magic | salt | nonce | ciphertext.
var sealMagic = []byte("COCOON1\n")

const (
	saltSize = 16
	keySize  = 32
)

// Argon2id parameters.
var (
	kdfTime    uint32 = 1
	kdfMemory  uint32 = 64 * 1024
	kdfThreads uint32 = 4
)

func isSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealMagic)
}

func deriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, kdfTime, kdfMemory, kdfThreads, keySize)
}

func seal(plain, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealMagic)+saltSize+len(nonce)+len(plain)+gcm.Overhead())
	out = append(out, sealMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plain, sealMagic), nil
}

func unseal(data, passphrase []byte) ([]byte, error) {
	body := data[len(sealMagic):]
	if len(body) < saltSize {
		return nil, ErrBadPassphrase
	}
	salt, body := body[:saltSize], body[saltSize:]
	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	if len(body) < gcm.NonceSize() {
		return nil, ErrBadPassphrase
	}
	nonce, ciphertext := body[:gcm.NonceSize()], body[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, sealMagic)
	if err != nil {
		return nil, ErrBadPassphrase
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
