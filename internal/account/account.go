// Package account manages the account key: a secret derived from the
// user's passphrase that encrypts the wallet registry and every wallet
// metadata document. Only public derivation inputs and a verifier are
// stored on disk; the key itself never is.
package account

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/satchelwallet/satchel/internal/fileutil"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

const (
	// FileName is the account document inside the data home.
	FileName = "account.json"

	filePermissions = 0o600

	saltLength = 16
	keyLength  = 32

	// Interactive-login scrypt cost, matching the work factor used for
	// the metadata codec (2^15 iterations).
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

// document is the on-disk account file.
type document struct {
	// Version is the document schema version.
	Version int `json:"version"`

	// Salt is the hex-encoded scrypt salt.
	Salt string `json:"salt"`

	// ScryptN, ScryptR and ScryptP are the derivation parameters. Kept
	// in the document so older accounts keep unlocking if the defaults
	// ever change.
	ScryptN int `json:"scrypt_n"`
	ScryptR int `json:"scrypt_r"`
	ScryptP int `json:"scrypt_p"`

	// Verifier is the hex-encoded SHA-256 of the derived key.
	Verifier string `json:"verifier"`
}

// Manager derives and verifies the account key against the account
// document at path.
type Manager struct {
	path string
}

// NewManager creates a manager for the account document at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Exists reports whether the account document is present.
func (m *Manager) Exists() bool {
	return fileutil.Exists(m.path)
}

// Init creates the account document for a new passphrase and returns
// the derived account key. It refuses to overwrite an existing
// document.
func (m *Manager) Init(passphrase string) (*vaultcrypto.SecureBytes, error) {
	if m.Exists() {
		return nil, satchelerr.Wrap(satchelerr.ErrAccountExists, "account document %s", m.path)
	}

	salt, err := vaultcrypto.RandomBytes(saltLength)
	if err != nil {
		return nil, satchelerr.Wrap(err, "generating account salt")
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, satchelerr.Wrap(err, "deriving account key")
	}
	defer vaultcrypto.Zero(key)

	verifier := sha256.Sum256(key)
	doc := document{
		Version:  1,
		Salt:     hex.EncodeToString(salt),
		ScryptN:  scryptN,
		ScryptR:  scryptR,
		ScryptP:  scryptP,
		Verifier: hex.EncodeToString(verifier[:]),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, satchelerr.Wrap(err, "marshaling account document")
	}

	if err := fileutil.WriteAtomic(m.path, data, filePermissions); err != nil {
		return nil, satchelerr.Wrap(err, "writing account document")
	}

	return vaultcrypto.FromSlice(key), nil
}

// Unlock derives the account key from passphrase and checks it against
// the stored verifier. A wrong passphrase returns ErrAuthentication.
func (m *Manager) Unlock(passphrase string) (*vaultcrypto.SecureBytes, error) {
	doc, err := m.read()
	if err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(doc.Salt)
	if err != nil {
		return nil, satchelerr.Wrap(satchelerr.ErrInvalidInput, "account document salt is not base16")
	}

	wantVerifier, err := hex.DecodeString(doc.Verifier)
	if err != nil {
		return nil, satchelerr.Wrap(satchelerr.ErrInvalidInput, "account document verifier is not base16")
	}

	key, err := scrypt.Key([]byte(passphrase), salt, doc.ScryptN, doc.ScryptR, doc.ScryptP, keyLength)
	if err != nil {
		return nil, satchelerr.Wrap(err, "deriving account key")
	}
	defer vaultcrypto.Zero(key)

	gotVerifier := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(gotVerifier[:], wantVerifier) != 1 {
		return nil, satchelerr.WithSuggestion(
			satchelerr.Wrap(satchelerr.ErrAuthentication, "account key verification failed"),
			"Check the account passphrase and try again",
		)
	}

	return vaultcrypto.FromSlice(key), nil
}

func (m *Manager) read() (*document, error) {
	// #nosec G304 -- path is fixed at construction from the data home
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, satchelerr.WithSuggestion(
				satchelerr.Wrap(satchelerr.ErrAccountNotFound, "account document %s", m.path),
				"Run 'satchel account init' to create one",
			)
		}
		return nil, satchelerr.Wrap(err, "reading account document")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, satchelerr.Wrap(satchelerr.ErrInvalidInput, "account document is not valid JSON")
	}

	return &doc, nil
}
