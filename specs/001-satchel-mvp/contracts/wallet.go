// Package contracts defines the interface contracts for the Satchel MVP.
// These are design artifacts - not compiled code.
// Actual implementations go in internal/walletdata/ and internal/service/wallet/
package contracts

// CacheService defines the interface for the decrypted wallet cache.
type CacheService interface {
	// GetOrLoad returns the cached entry for a wallet id, hydrating it
	// from the key source and metadata files on first access. Repeated
	// calls for the same id return the identical entry until Clear.
	GetOrLoad(walletID string) (*Entry, error)

	// Clear destroys every cached entry, zeroing key material.
	Clear()
}

// KeySource supplies per-wallet key material to the cache.
type KeySource interface {
	// WalletKeys returns the hex-encoded key material for a wallet.
	WalletKeys(walletID string) (KeyMaterial, error)
}

// KeyMaterial carries hex-encoded wallet keys. Empty strings mark
// absent material.
type KeyMaterial struct {
	// MasterKeyHex is the symmetric key protecting the wallet's
	// metadata files.
	MasterKeyHex string

	// BitcoinSeedHex is the spending seed, opaque to the cache.
	BitcoinSeedHex string

	// SyncKeyHex identifies the wallet's sync repository.
	SyncKeyHex string
}

// Entry is a hydrated cache entry. Key material is reachable only
// through scoped callbacks; the raw buffers are never exposed.
type Entry struct {
	ID             string
	Name           string // "" means unset
	CurrencyNumber int    // -1 means unset
	SyncKey        string
	SyncDir        string
}

// WalletService defines the facade over the cache, registry, and
// balance source.
type WalletService interface {
	// Create provisions a wallet with fresh keys and returns its id
	// and recovery mnemonic (display once to user).
	Create(req CreateRequest) (*CreateResult, error)

	// SetName updates the display name in memory and on disk.
	// The in-memory name changes even when the write fails.
	SetName(walletID, name string) error

	// SetCurrencyNumber updates the ISO 4217 currency number in memory
	// and on disk, with the same failure semantics as SetName.
	SetCurrencyNumber(walletID string, num int) error

	// Info returns a snapshot of the wallet. Name and currency come
	// from the cache; archived and balance are read fresh.
	Info(walletID string) (*WalletInfo, error)

	// List returns a summary of every registered wallet.
	List() ([]WalletSummary, error)

	// SetArchived toggles the archive flag in the registry.
	SetArchived(walletID string, archived bool) error

	// ClearCache drops every decrypted entry.
	ClearCache()
}

// CreateRequest contains parameters for wallet creation.
type CreateRequest struct {
	// Name is the optional initial display name.
	Name string

	// CurrencyNumber is the optional ISO 4217 number (-1 to skip).
	CurrencyNumber int
}

// CreateResult contains the created wallet and its recovery phrase.
type CreateResult struct {
	ID             string
	Name           string
	CurrencyNumber int

	// RecoveryPhrase is the BIP39 mnemonic encoding the bitcoin seed
	// (display once, then discard).
	RecoveryPhrase string
}

// WalletInfo is the full wallet snapshot returned by Info.
type WalletInfo struct {
	ID             string
	Name           string
	CurrencyNumber int
	Archived       bool
	Balance        int64 // satoshis
}

// WalletSummary is a lightweight wallet representation for listing.
type WalletSummary struct {
	ID       string
	Name     string
	Archived bool
}

// BalanceSource computes a wallet's spendable balance.
type BalanceSource interface {
	// Balance returns the sum of unspent outputs in satoshis.
	Balance(walletID string) (int64, error)
}

// Wallet-related errors.
var (
	ErrWalletNotFound = Error{Code: "WALLET_NOT_FOUND", Message: "wallet not found"}
	ErrWalletExists   = Error{Code: "WALLET_EXISTS", Message: "wallet already exists"}
	ErrKeySource      = Error{Code: "KEY_SOURCE_MISSING", Message: "wallet registry lacks required key material"}
	ErrKeyDecode      = Error{Code: "KEY_DECODE", Message: "wallet key material is not valid hex"}
	ErrEntryReleased  = Error{Code: "ENTRY_RELEASED", Message: "wallet entry was released from the cache"}
	ErrInvalidID      = Error{Code: "INVALID_INPUT", Message: "wallet id must be alphanumeric with hyphens"}
)

// Error is a structured error with code for programmatic handling.
type Error struct {
	Code    string
	Message string
	Details map[string]string
}

func (e Error) Error() string {
	return e.Message
}
