// Package walletdata implements the process cache of decrypted wallet
// key material and user-visible metadata. Entries are hydrated lazily
// from the account registry and the wallet's encrypted metadata
// documents, and live until the cache is cleared.
package walletdata

import (
	"errors"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// CurrencyUnset is the sentinel currency number for wallets whose
// currency has never been persisted. Distinct from any ISO 4217 code.
const CurrencyUnset = -1

// walletIDRegex constrains wallet ids to path-safe identifiers.
// Mirrored in internal/registry; keep in sync.
var walletIDRegex = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// ValidateWalletID checks that id is safe to embed in filesystem paths.
func ValidateWalletID(id string) error {
	if !walletIDRegex.MatchString(id) {
		return satchelerr.WithDetails(satchelerr.ErrInvalidInput, map[string]string{"wallet": id})
	}
	return nil
}

// SyncDir returns the sync directory for a wallet id under walletsDir.
func SyncDir(walletsDir, id string) string {
	return filepath.Join(walletsDir, id, "sync")
}

// Entry is the per-wallet cache record: identity, decoded keys, and the
// user-visible fields loaded from the wallet's metadata documents. Key
// material never leaves the entry; consumers borrow it through the
// With* callbacks.
type Entry struct {
	id      string
	syncKey string
	syncDir string

	masterKey   *vaultcrypto.SecureBytes
	bitcoinSeed *vaultcrypto.SecureBytes

	mu             sync.RWMutex
	name           string
	currencyNumber int
}

// ID returns the wallet id.
func (e *Entry) ID() string { return e.id }

// SyncKey returns the wallet's sync repository id.
func (e *Entry) SyncKey() string { return e.syncKey }

// SyncDir returns the wallet's local sync directory.
func (e *Entry) SyncDir() string { return e.syncDir }

// Name returns the display name, "" when unset.
func (e *Entry) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// SetName updates the in-memory display name. Persisting it is the
// caller's responsibility.
func (e *Entry) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// CurrencyNumber returns the currency number, CurrencyUnset when unset.
func (e *Entry) CurrencyNumber() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currencyNumber
}

// SetCurrencyNumber updates the in-memory currency number. Persisting
// it is the caller's responsibility.
func (e *Entry) SetCurrencyNumber(num int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currencyNumber = num
}

// WithMasterKey runs fn with the wallet's master key. The key is scoped
// to the callback and cannot be zeroed mid-use; once the entry has been
// released from the cache this returns ErrEntryReleased.
func (e *Entry) WithMasterKey(fn func(key []byte) error) error {
	return e.borrow(e.masterKey, fn)
}

// WithBitcoinSeed runs fn with the wallet's private seed material, with
// the same scoping rules as WithMasterKey.
func (e *Entry) WithBitcoinSeed(fn func(seed []byte) error) error {
	return e.borrow(e.bitcoinSeed, fn)
}

func (e *Entry) borrow(sb *vaultcrypto.SecureBytes, fn func([]byte) error) error {
	err := sb.WithBytes(fn)
	if errors.Is(err, vaultcrypto.ErrBufferDestroyed) {
		return satchelerr.Wrap(satchelerr.ErrEntryReleased, "wallet %s", e.id)
	}
	return err
}

// release zeroes the entry's key material. Called by the cache on Clear.
func (e *Entry) release() {
	e.masterKey.Destroy()
	e.bitcoinSeed.Destroy()
}
