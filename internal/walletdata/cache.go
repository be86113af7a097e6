package walletdata

import (
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/satchelwallet/satchel/internal/fileutil"
	"github.com/satchelwallet/satchel/internal/metadata"
	"github.com/satchelwallet/satchel/internal/metrics"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// KeyMaterial is the hex-encoded key set for one wallet as stored in
// the account registry. An empty field means the registry document has
// no such key.
type KeyMaterial struct {
	MasterKeyHex   string
	BitcoinSeedHex string
	SyncKeyHex     string
}

// KeySource supplies wallet key material, typically from the encrypted
// account registry.
type KeySource interface {
	WalletKeys(id string) (KeyMaterial, error)
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

// Config contains the cache dependencies.
type Config struct {
	// Keys supplies per-wallet key material.
	Keys KeySource
	// WalletsDir is the root directory holding per-wallet sync dirs.
	WalletsDir string
	// Logger for debug output. Optional.
	Logger LogWriter
	// Metrics receives hit/miss counters. Optional, defaults to the
	// global instance.
	Metrics *metrics.Metrics
}

// Cache holds hydrated wallet entries keyed by wallet id. Lookup,
// insert and clear run under the collection lock; hydration runs
// outside it, deduplicated per id, so distinct wallets hydrate in
// parallel while concurrent loads of one wallet share a single flight.
type Cache struct {
	keys       KeySource
	walletsDir string
	logger     LogWriter
	stats      *metrics.Metrics

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewCache creates an empty cache.
func NewCache(cfg *Config) *Cache {
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	stats := cfg.Metrics
	if stats == nil {
		stats = metrics.Global
	}

	return &Cache{
		keys:       cfg.Keys,
		walletsDir: cfg.WalletsDir,
		logger:     logger,
		stats:      stats,
		entries:    make(map[string]*Entry),
	}
}

// GetOrLoad returns the cached entry for id, hydrating and inserting
// one first on a miss. Repeated calls return the same entry until
// Clear. A failed hydration caches nothing; the next call retries from
// scratch.
func (c *Cache) GetOrLoad(id string) (*Entry, error) {
	if err := ValidateWalletID(id); err != nil {
		return nil, err
	}

	if entry := c.findByID(id); entry != nil {
		c.stats.RecordCacheHit()
		return entry, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		// A previous flight may have inserted while we waited.
		if entry := c.findByID(id); entry != nil {
			c.stats.RecordCacheHit()
			return entry, nil
		}

		c.stats.RecordCacheMiss()
		entry, err := c.hydrate(id)
		if err != nil {
			c.stats.RecordHydrationError()
			return nil, err
		}

		if err := c.insert(entry); err != nil {
			entry.release()
			c.stats.RecordHydrationError()
			return nil, err
		}

		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Entry), nil
}

// WithMasterKey borrows the master key of the wallet, hydrating its
// entry on demand. Convenience for consumers that hold a cache but no
// entry.
func (c *Cache) WithMasterKey(id string, fn func(key []byte) error) error {
	entry, err := c.GetOrLoad(id)
	if err != nil {
		return err
	}

	return entry.WithMasterKey(fn)
}

// Clear zeroes the key material of every cached entry and empties the
// collection. Entries handed out earlier become unusable.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.entries {
		entry.release()
	}

	c.entries = make(map[string]*Entry)
	c.stats.RecordCacheClear()
	c.logger.Debug("wallet cache cleared, hit rate %.1f%%", c.stats.CacheHitRate())
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// findByID returns the cached entry for id, nil on a miss.
func (c *Cache) findByID(id string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[id]
}

// insert adds a fully assembled entry to the collection. GetOrLoad
// already deduplicates in-flight loads, so a duplicate here indicates a
// bug; the check stays because hydration runs outside the collection
// lock.
func (c *Cache) insert(entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.id]; exists {
		return satchelerr.Wrap(satchelerr.ErrWalletExists, "cache entry %s", entry.id)
	}

	c.entries[entry.id] = entry
	return nil
}

// hydrate assembles a fresh entry: fetch and decode the wallet's key
// material, then load the metadata documents when the wallet's sync
// directory exists. A missing sync directory or missing individual
// document yields sentinel defaults; a document that exists but cannot
// be decrypted or parsed aborts the whole load.
func (c *Cache) hydrate(id string) (*Entry, error) {
	material, err := c.keys.WalletKeys(id)
	if err != nil {
		return nil, err
	}

	masterKey, err := decodeKeyHex(material.MasterKeyHex, "master key")
	if err != nil {
		return nil, err
	}

	bitcoinSeed, err := decodeKeyHex(material.BitcoinSeedHex, "bitcoin seed")
	if err != nil {
		masterKey.Destroy()
		return nil, err
	}

	if err := validateSyncKey(material.SyncKeyHex); err != nil {
		masterKey.Destroy()
		bitcoinSeed.Destroy()
		return nil, err
	}

	entry := &Entry{
		id:             id,
		syncKey:        material.SyncKeyHex,
		syncDir:        SyncDir(c.walletsDir, id),
		masterKey:      masterKey,
		bitcoinSeed:    bitcoinSeed,
		name:           "",
		currencyNumber: CurrencyUnset,
	}

	if !fileutil.DirExists(entry.syncDir) {
		// Freshly provisioned wallet, nothing persisted yet.
		c.logger.Debug("wallet %s has no sync dir, using defaults", id)
		return entry, nil
	}

	if err := c.loadMetadata(entry); err != nil {
		entry.release()
		c.logger.Error("wallet %s metadata load failed: %v", id, err)
		return nil, err
	}

	return entry, nil
}

// loadMetadata fills name and currency from the sync dir documents.
// Each document is optional independently of the other. The entry is
// not yet published, so plain field writes are safe.
func (c *Cache) loadMetadata(entry *Entry) error {
	return entry.masterKey.WithBytes(func(key []byte) error {
		name, err := metadata.ReadName(entry.syncDir, key)
		switch {
		case err == nil:
			entry.name = name
		case satchelerr.Is(err, satchelerr.ErrMetadataNotFound):
			// Keep the sentinel default.
		default:
			return err
		}

		num, err := metadata.ReadCurrency(entry.syncDir, key)
		switch {
		case err == nil:
			entry.currencyNumber = num
		case satchelerr.Is(err, satchelerr.ErrMetadataNotFound):
		default:
			return err
		}

		return nil
	})
}

// decodeKeyHex decodes one base16 key into a secure buffer. The
// intermediate plaintext slice is zeroed before returning.
func decodeKeyHex(s, which string) (*vaultcrypto.SecureBytes, error) {
	if s == "" {
		return nil, satchelerr.WithDetails(satchelerr.ErrKeySource, map[string]string{"key": which})
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, satchelerr.WithDetails(satchelerr.ErrKeyDecode, map[string]string{"key": which})
	}
	defer vaultcrypto.Zero(raw)

	return vaultcrypto.FromSlice(raw), nil
}

// validateSyncKey checks the sync repository id is well formed base16.
// It stays a string on the entry; only its shape is enforced here.
func validateSyncKey(s string) error {
	if s == "" {
		return satchelerr.WithDetails(satchelerr.ErrKeySource, map[string]string{"key": "sync key"})
	}

	if _, err := hex.DecodeString(s); err != nil {
		return satchelerr.WithDetails(satchelerr.ErrKeyDecode, map[string]string{"key": "sync key"})
	}

	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
