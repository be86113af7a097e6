package walletdata_test

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelwallet/satchel/internal/metadata"
	"github.com/satchelwallet/satchel/internal/metrics"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// stubKeySource serves canned key material and counts lookups per id.
type stubKeySource struct {
	mu    sync.Mutex
	calls map[string]int
	keys  map[string]walletdata.KeyMaterial
}

func newStubKeySource() *stubKeySource {
	return &stubKeySource{
		calls: make(map[string]int),
		keys:  make(map[string]walletdata.KeyMaterial),
	}
}

func (s *stubKeySource) WalletKeys(id string) (walletdata.KeyMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[id]++

	material, ok := s.keys[id]
	if !ok {
		return walletdata.KeyMaterial{}, satchelerr.Wrap(satchelerr.ErrWalletNotFound, "wallet %s", id)
	}

	return material, nil
}

func (s *stubKeySource) callCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[id]
}

func (s *stubKeySource) register(id string) walletdata.KeyMaterial {
	material := walletdata.KeyMaterial{
		MasterKeyHex:   randomHex(32),
		BitcoinSeedHex: randomHex(32),
		SyncKeyHex:     randomHex(20),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[id] = material
	return material
}

func (s *stubKeySource) override(id string, material walletdata.KeyMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[id] = material
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}

	return hex.EncodeToString(buf)
}

func newTestCache(t *testing.T) (*walletdata.Cache, *stubKeySource, string) {
	t.Helper()

	walletsDir := t.TempDir()
	source := newStubKeySource()
	cache := walletdata.NewCache(&walletdata.Config{
		Keys:       source,
		WalletsDir: walletsDir,
	})

	return cache, source, walletsDir
}

// makeSyncDir creates the wallet's sync directory so hydration reads
// metadata instead of falling back to defaults.
func makeSyncDir(t *testing.T, walletsDir, id string) string {
	t.Helper()

	dir := walletdata.SyncDir(walletsDir, id)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	return dir
}

func masterKeyOf(t *testing.T, material walletdata.KeyMaterial) []byte {
	t.Helper()

	key, err := hex.DecodeString(material.MasterKeyHex)
	require.NoError(t, err)

	return key
}

func TestGetOrLoadDefaultsWithoutSyncDir(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")

	entry, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	assert.Equal(t, "alpha", entry.ID())
	assert.Equal(t, "", entry.Name())
	assert.Equal(t, walletdata.CurrencyUnset, entry.CurrencyNumber())
	assert.NotEmpty(t, entry.SyncKey())
}

func TestGetOrLoadReadsPersistedMetadata(t *testing.T) {
	t.Parallel()

	cache, source, walletsDir := newTestCache(t)
	material := source.register("alpha")
	syncDir := makeSyncDir(t, walletsDir, "alpha")
	key := masterKeyOf(t, material)

	require.NoError(t, metadata.WriteName(syncDir, key, "Spending Money"))
	require.NoError(t, metadata.WriteCurrency(syncDir, key, 840))

	entry, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	assert.Equal(t, "Spending Money", entry.Name())
	assert.Equal(t, 840, entry.CurrencyNumber())
}

func TestGetOrLoadMissingDocumentsAreIndependent(t *testing.T) {
	t.Parallel()

	t.Run("OnlyName", func(t *testing.T) {
		t.Parallel()

		cache, source, walletsDir := newTestCache(t)
		material := source.register("alpha")
		syncDir := makeSyncDir(t, walletsDir, "alpha")

		require.NoError(t, metadata.WriteName(syncDir, masterKeyOf(t, material), "Solo Name"))

		entry, err := cache.GetOrLoad("alpha")
		require.NoError(t, err)

		assert.Equal(t, "Solo Name", entry.Name())
		assert.Equal(t, walletdata.CurrencyUnset, entry.CurrencyNumber())
	})

	t.Run("OnlyCurrency", func(t *testing.T) {
		t.Parallel()

		cache, source, walletsDir := newTestCache(t)
		material := source.register("alpha")
		syncDir := makeSyncDir(t, walletsDir, "alpha")

		require.NoError(t, metadata.WriteCurrency(syncDir, masterKeyOf(t, material), 978))

		entry, err := cache.GetOrLoad("alpha")
		require.NoError(t, err)

		assert.Equal(t, "", entry.Name())
		assert.Equal(t, 978, entry.CurrencyNumber())
	})
}

func TestGetOrLoadReturnsSameEntry(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")

	first, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	second, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.callCount("alpha"))
}

func TestGetOrLoadConcurrentSameWallet(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")

	const workers = 16

	entries := make([]*walletdata.Entry, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			entry, err := cache.GetOrLoad("alpha")
			assert.NoError(t, err)
			entries[slot] = entry
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, entries[0], entries[i])
	}

	assert.Equal(t, 1, source.callCount("alpha"))
	assert.Equal(t, 1, cache.Len())
}

func TestGetOrLoadConcurrentDistinctWallets(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")
	source.register("beta")

	var wg sync.WaitGroup
	for _, id := range []string{"alpha", "beta"} {
		wg.Add(1)
		go func(walletID string) {
			defer wg.Done()

			_, err := cache.GetOrLoad(walletID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 1, source.callCount("alpha"))
	assert.Equal(t, 1, source.callCount("beta"))
}

func TestGetOrLoadUnknownWallet(t *testing.T) {
	t.Parallel()

	cache, _, _ := newTestCache(t)

	_, err := cache.GetOrLoad("ghost")
	require.Error(t, err)

	assert.ErrorIs(t, err, satchelerr.ErrWalletNotFound)
	assert.Equal(t, 0, cache.Len())
}

func TestGetOrLoadRejectsBadKeyMaterial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		material walletdata.KeyMaterial
		wantErr  error
	}{
		{
			name: "MissingMasterKey",
			material: walletdata.KeyMaterial{
				BitcoinSeedHex: randomHex(32),
				SyncKeyHex:     randomHex(20),
			},
			wantErr: satchelerr.ErrKeySource,
		},
		{
			name: "MissingSeed",
			material: walletdata.KeyMaterial{
				MasterKeyHex: randomHex(32),
				SyncKeyHex:   randomHex(20),
			},
			wantErr: satchelerr.ErrKeySource,
		},
		{
			name: "MissingSyncKey",
			material: walletdata.KeyMaterial{
				MasterKeyHex:   randomHex(32),
				BitcoinSeedHex: randomHex(32),
			},
			wantErr: satchelerr.ErrKeySource,
		},
		{
			name: "MalformedMasterKey",
			material: walletdata.KeyMaterial{
				MasterKeyHex:   "not-base16",
				BitcoinSeedHex: randomHex(32),
				SyncKeyHex:     randomHex(20),
			},
			wantErr: satchelerr.ErrKeyDecode,
		},
		{
			name: "MalformedSeed",
			material: walletdata.KeyMaterial{
				MasterKeyHex:   randomHex(32),
				BitcoinSeedHex: "zz",
				SyncKeyHex:     randomHex(20),
			},
			wantErr: satchelerr.ErrKeyDecode,
		},
		{
			name: "MalformedSyncKey",
			material: walletdata.KeyMaterial{
				MasterKeyHex:   randomHex(32),
				BitcoinSeedHex: randomHex(32),
				SyncKeyHex:     "xyz",
			},
			wantErr: satchelerr.ErrKeyDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache, source, _ := newTestCache(t)
			source.override("alpha", tt.material)

			_, err := cache.GetOrLoad("alpha")
			require.Error(t, err)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, cache.Len())
		})
	}
}

func TestGetOrLoadCorruptMetadataIsFatal(t *testing.T) {
	t.Parallel()

	cache, source, walletsDir := newTestCache(t)
	source.register("alpha")
	syncDir := makeSyncDir(t, walletsDir, "alpha")

	namePath := filepath.Join(syncDir, metadata.NameFile)
	require.NoError(t, os.WriteFile(namePath, []byte("not an age file"), 0o600))

	_, err := cache.GetOrLoad("alpha")
	require.Error(t, err)

	assert.ErrorIs(t, err, satchelerr.ErrDecryptFailed)
	assert.Equal(t, 0, cache.Len())

	// Nothing was cached, so a later call starts over.
	_, err = cache.GetOrLoad("alpha")
	require.Error(t, err)
	assert.Equal(t, 2, source.callCount("alpha"))
}

func TestGetOrLoadWrongKeyIsFatal(t *testing.T) {
	t.Parallel()

	cache, source, walletsDir := newTestCache(t)
	source.register("alpha")
	syncDir := makeSyncDir(t, walletsDir, "alpha")

	// Encrypted under a key the registry does not hold.
	otherKey := make([]byte, 32)
	require.NoError(t, metadata.WriteName(syncDir, otherKey, "Unreachable"))

	_, err := cache.GetOrLoad("alpha")
	require.Error(t, err)

	assert.ErrorIs(t, err, satchelerr.ErrDecryptFailed)
}

func TestGetOrLoadValidatesWalletID(t *testing.T) {
	t.Parallel()

	cache, _, _ := newTestCache(t)

	for _, id := range []string{"", "../etc", "has space", "a/b"} {
		_, err := cache.GetOrLoad(id)
		assert.ErrorIs(t, err, satchelerr.ErrInvalidInput, "id %q", id)
	}
}

func TestClearEmptiesAndReleases(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")
	source.register("beta")

	first, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	_, err = cache.GetOrLoad("beta")
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	cache.Clear()

	assert.Equal(t, 0, cache.Len())

	// Released entries refuse to hand out key material.
	err = first.WithMasterKey(func([]byte) error { return nil })
	assert.ErrorIs(t, err, satchelerr.ErrEntryReleased)
}

func TestClearForcesRehydration(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")

	first, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	cache.Clear()

	second, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, source.callCount("alpha"))
}

func TestClearOnEmptyCache(t *testing.T) {
	t.Parallel()

	cache, _, _ := newTestCache(t)

	cache.Clear()
	cache.Clear()

	assert.Equal(t, 0, cache.Len())
}

func TestCacheMetricsAccounting(t *testing.T) {
	t.Parallel()

	stats := &metrics.Metrics{}
	source := newStubKeySource()
	source.register("alpha")

	cache := walletdata.NewCache(&walletdata.Config{
		Keys:       source,
		WalletsDir: t.TempDir(),
		Metrics:    stats,
	})

	_, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	_, err = cache.GetOrLoad("alpha")
	require.NoError(t, err)

	// A failed hydration counts as a miss plus an error.
	_, err = cache.GetOrLoad("missing")
	require.Error(t, err)

	cache.Clear()

	snap := stats.Snapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
	assert.Equal(t, int64(1), snap.HydrationErrors)
	assert.Equal(t, int64(1), snap.CacheClears)
}

func TestWithMasterKeyBorrowsDecodedKey(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	material := source.register("alpha")
	want := masterKeyOf(t, material)

	var got []byte

	err := cache.WithMasterKey("alpha", func(key []byte) error {
		got = append([]byte(nil), key...)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 1, cache.Len())
}

func TestWithBitcoinSeedBorrowsDecodedSeed(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	material := source.register("alpha")

	seed, err := hex.DecodeString(material.BitcoinSeedHex)
	require.NoError(t, err)

	entry, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	var got []byte

	require.NoError(t, entry.WithBitcoinSeed(func(b []byte) error {
		got = append([]byte(nil), b...)
		return nil
	}))

	assert.Equal(t, seed, got)
}

func TestSetNameIsInMemoryOnly(t *testing.T) {
	t.Parallel()

	cache, source, walletsDir := newTestCache(t)
	source.register("alpha")

	entry, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	entry.SetName("Renamed")
	assert.Equal(t, "Renamed", entry.Name())

	// No file appeared; the accessor touched memory only.
	syncDir := walletdata.SyncDir(walletsDir, "alpha")
	_, statErr := os.Stat(filepath.Join(syncDir, metadata.NameFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetCurrencyNumberIsInMemoryOnly(t *testing.T) {
	t.Parallel()

	cache, source, _ := newTestCache(t)
	source.register("alpha")

	entry, err := cache.GetOrLoad("alpha")
	require.NoError(t, err)

	entry.SetCurrencyNumber(840)
	assert.Equal(t, 840, entry.CurrencyNumber())
}

func TestValidateWalletID(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "alpha", "wallet-1", "ABC-123", "0f2e9d"}
	for _, id := range valid {
		assert.NoError(t, walletdata.ValidateWalletID(id), "id %q", id)
	}

	invalid := []string{"", "has space", "a/b", "../x", "dot.dot", strings.Repeat("a", 65)}
	for _, id := range invalid {
		assert.Error(t, walletdata.ValidateWalletID(id), "id %q", id)
	}
}

func TestSyncDirLayout(t *testing.T) {
	t.Parallel()

	got := walletdata.SyncDir("/data/wallets", "alpha")
	assert.Equal(t, filepath.Join("/data/wallets", "alpha", "sync"), got)
}
