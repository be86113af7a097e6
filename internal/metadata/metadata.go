// Package metadata reads and writes the small encrypted JSON documents
// holding a wallet's user-visible fields. Each field lives in its own
// file inside the wallet sync directory, so one document can be missing
// or corrupted independently of the other.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/satchelwallet/satchel/internal/fileutil"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// Document file names inside a wallet sync directory.
const (
	NameFile     = "WalletName.json"
	CurrencyFile = "Currency.json"

	nameField     = "walletName"
	currencyField = "num"

	filePerm = 0o600
)

// ReadName returns the display name stored in syncDir.
func ReadName(syncDir string, masterKey []byte) (string, error) {
	return ReadStringField(filepath.Join(syncDir, NameFile), masterKey, nameField)
}

// WriteName persists the display name into syncDir.
func WriteName(syncDir string, masterKey []byte, name string) error {
	return WriteStringField(filepath.Join(syncDir, NameFile), masterKey, nameField, name)
}

// ReadCurrency returns the currency number stored in syncDir.
func ReadCurrency(syncDir string, masterKey []byte) (int, error) {
	return ReadIntField(filepath.Join(syncDir, CurrencyFile), masterKey, currencyField)
}

// WriteCurrency persists the currency number into syncDir.
func WriteCurrency(syncDir string, masterKey []byte, num int) error {
	return WriteIntField(filepath.Join(syncDir, CurrencyFile), masterKey, currencyField, num)
}

// ReadStringField decrypts the document at path with the master key and
// extracts a single named string field.
func ReadStringField(path string, masterKey []byte, field string) (string, error) {
	doc, err := readDocument(path, masterKey)
	if err != nil {
		return "", err
	}

	raw, ok := doc[field]
	if !ok {
		return "", fieldMissing(path, field)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fieldMissing(path, field)
	}
	return value, nil
}

// ReadIntField decrypts the document at path with the master key and
// extracts a single named integer field.
func ReadIntField(path string, masterKey []byte, field string) (int, error) {
	doc, err := readDocument(path, masterKey)
	if err != nil {
		return 0, err
	}

	raw, ok := doc[field]
	if !ok {
		return 0, fieldMissing(path, field)
	}

	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, fieldMissing(path, field)
	}
	return value, nil
}

// WriteStringField serializes {field: value}, encrypts it with the master
// key, and writes it atomically to path.
func WriteStringField(path string, masterKey []byte, field, value string) error {
	return writeDocument(path, masterKey, map[string]any{field: value})
}

// WriteIntField serializes {field: value}, encrypts it with the master
// key, and writes it atomically to path.
func WriteIntField(path string, masterKey []byte, field string, value int) error {
	return writeDocument(path, masterKey, map[string]any{field: value})
}

func readDocument(path string, masterKey []byte) (map[string]json.RawMessage, error) {
	base := filepath.Base(path)

	// #nosec G304 -- path is built from a validated wallet id
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, satchelerr.WithDetails(satchelerr.ErrMetadataNotFound, map[string]string{"file": base})
		}
		return nil, satchelerr.Wrap(err, "reading metadata file %s", base)
	}

	plaintext, err := vaultcrypto.Decrypt(ciphertext, masterKey)
	if err != nil {
		return nil, satchelerr.WithDetails(satchelerr.ErrDecryptFailed, map[string]string{"file": base})
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, satchelerr.WithDetails(satchelerr.ErrMetadataInvalid, map[string]string{"file": base})
	}

	return doc, nil
}

func writeDocument(path string, masterKey []byte, doc map[string]any) error {
	base := filepath.Base(path)

	plaintext, err := json.Marshal(doc)
	if err != nil {
		return satchelerr.Wrap(err, "encoding metadata document %s", base)
	}

	ciphertext, err := vaultcrypto.Encrypt(plaintext, masterKey)
	if err != nil {
		return satchelerr.WithDetails(satchelerr.ErrEncryptFailed, map[string]string{"file": base})
	}

	if err := fileutil.WriteAtomic(path, ciphertext, filePerm); err != nil {
		return satchelerr.Wrap(err, "writing metadata file %s", base)
	}

	return nil
}

func fieldMissing(path, field string) error {
	return satchelerr.WithDetails(satchelerr.ErrFieldMissing, map[string]string{
		"file":  filepath.Base(path),
		"field": field,
	})
}
