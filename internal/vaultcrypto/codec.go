// Package vaultcrypto provides the encryption primitives for Satchel:
// an age-based codec keyed by raw symmetric keys, secure byte buffers
// for key material, and entropy helpers.
package vaultcrypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// ErrEmptyKey indicates an empty symmetric key was provided.
var ErrEmptyKey = errors.New("symmetric key is empty")

// scryptWorkFactor is the age scrypt log2(N) parameter. Keys passed to
// this codec are high-entropy random bytes, not human passphrases, so a
// light work factor is sufficient.
const scryptWorkFactor = 15

// Encrypt encrypts plaintext with age, using the hex encoding of the raw
// symmetric key as the scrypt passphrase.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	recipient, err := age.NewScryptRecipient(hex.EncodeToString(key))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts ciphertext produced by Encrypt with the same key.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	identity, err := age.NewScryptIdentity(hex.EncodeToString(key))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}

// DecryptSecure decrypts ciphertext into a SecureBytes container,
// zeroing the intermediate plaintext on all paths.
func DecryptSecure(ciphertext, key []byte) (*SecureBytes, error) {
	plaintext, err := Decrypt(ciphertext, key)
	if err != nil {
		return nil, err
	}

	defer Zero(plaintext)
	return FromSlice(plaintext), nil
}
