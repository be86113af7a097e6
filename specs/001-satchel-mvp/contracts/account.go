// Package contracts defines the interface contracts for the Satchel MVP.
// These are design artifacts - not compiled code.
// Actual implementations go in internal/account/ and internal/registry/

package contracts

// AccountService manages the account passphrase and the account data
// key derived from it.
type AccountService interface {
	// Init derives a fresh account key from the passphrase and writes
	// the account document. Refuses to overwrite an existing account.
	Init(passphrase string) (SecureBuffer, error)

	// Unlock re-derives the key and verifies it against the stored
	// verifier. The returned buffer must be destroyed after use.
	Unlock(passphrase string) (SecureBuffer, error)

	// Exists reports whether an account document is present.
	Exists() bool
}

// AccountDocument is the plaintext on-disk account record. It holds
// derivation parameters and a verifier, never the key itself.
type AccountDocument struct {
	Version  int    `json:"version"`
	Salt     string `json:"salt"`
	ScryptN  int    `json:"scryptN"`
	ScryptR  int    `json:"scryptR"`
	ScryptP  int    `json:"scryptP"`
	Verifier string `json:"verifier"`
}

// RegistryService stores per-wallet key documents encrypted under the
// account data key.
type RegistryService interface {
	// WalletKeys returns the key material for a wallet.
	WalletKeys(walletID string) (KeyMaterial, error)

	// Create provisions a wallet: new id, fresh keys, and a recovery
	// mnemonic encoding the bitcoin seed.
	Create() (id, mnemonic string, err error)

	// List returns every registered wallet id, sorted.
	List() ([]string, error)

	// IsArchived reads the wallet's archive flag.
	IsArchived(walletID string) (bool, error)

	// SetArchived updates the wallet's archive flag.
	SetArchived(walletID string, archived bool) error
}

// RegistryDocument is the encrypted per-wallet record. Field names are
// part of the on-disk format and must not change.
type RegistryDocument struct {
	MK          string `json:"MK"`
	SyncKey     string `json:"SyncKey"`
	BitcoinSeed string `json:"BitcoinSeed"`
	Archived    bool   `json:"Archived"`
}

// Account-related errors.
var (
	ErrAccountExists   = Error{Code: "ACCOUNT_EXISTS", Message: "account already initialized"}
	ErrAccountNotFound = Error{Code: "ACCOUNT_NOT_FOUND", Message: "account not initialized"}
	ErrAuthentication  = Error{Code: "AUTHENTICATION_FAILED", Message: "authentication failed"}
)
