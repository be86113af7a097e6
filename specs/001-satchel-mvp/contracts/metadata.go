// Package contracts defines the interface contracts for the Satchel MVP.
// These are design artifacts - not compiled code.
// Actual implementations go in internal/metadata/ and internal/vaultcrypto/

package contracts

// MetadataStore reads and writes single-field JSON documents encrypted
// under a wallet's master key.
type MetadataStore interface {
	// ReadStringField decrypts the file and extracts one string field.
	ReadStringField(path string, masterKey []byte, field string) (string, error)

	// ReadIntField decrypts the file and extracts one integer field.
	ReadIntField(path string, masterKey []byte, field string) (int, error)

	// WriteStringField builds {field: value}, encrypts, and writes the
	// file atomically.
	WriteStringField(path string, masterKey []byte, field, value string) error

	// WriteIntField is WriteStringField for integer values.
	WriteIntField(path string, masterKey []byte, field string, value int) error
}

// Wallet metadata documents and their fields. These names are part of
// the on-disk format and must not change.
const (
	// NameFile holds {"walletName": <string>} in the sync directory.
	NameFile = "WalletName.json"
	// NameField is the JSON key inside NameFile.
	NameField = "walletName"

	// CurrencyFile holds {"num": <integer>} in the sync directory.
	CurrencyFile = "Currency.json"
	// CurrencyField is the JSON key inside CurrencyFile.
	CurrencyField = "num"
)

// Codec encrypts and decrypts byte payloads under a raw symmetric key.
type Codec interface {
	// Encrypt seals plaintext under the key.
	Encrypt(plaintext, key []byte) ([]byte, error)

	// Decrypt opens ciphertext produced by Encrypt. Fails when the key
	// is wrong or the payload was tampered with.
	Decrypt(ciphertext, key []byte) ([]byte, error)
}

// SecureBuffer holds sensitive bytes that are locked in memory and
// zeroed on destruction.
type SecureBuffer interface {
	// WithBytes runs fn with the raw bytes while holding the buffer's
	// lock. The slice must not escape the callback.
	WithBytes(fn func(b []byte) error) error

	// Destroy zeros and releases the underlying memory.
	Destroy()
}

// Metadata-related errors.
var (
	ErrMetadataNotFound = Error{Code: "METADATA_NOT_FOUND", Message: "metadata file not found"}
	ErrDecryptFailed    = Error{Code: "DECRYPT_FAILED", Message: "decryption failed - wrong key or corrupted file"}
	ErrMetadataInvalid  = Error{Code: "METADATA_INVALID", Message: "metadata file holds malformed JSON"}
	ErrFieldMissing     = Error{Code: "FIELD_MISSING", Message: "metadata document lacks the requested field"}
	ErrEncryptFailed    = Error{Code: "ENCRYPT_FAILED", Message: "encryption failed"}
)
