// Package utxostore tracks each wallet's transaction outputs in an
// encrypted ledger inside the wallet's sync directory and answers
// balance queries from it.
package utxostore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/satchelwallet/satchel/internal/fileutil"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

const (
	// FileName is the output ledger inside a wallet's sync directory.
	FileName = "Outputs.json"

	// currentVersion is the ledger file format version.
	currentVersion = 1

	filePermissions = 0o600
)

// Output is one transaction output tracked for a wallet. Amounts are
// satoshis.
type Output struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Amount int64  `json:"amount"`
	Spent  bool   `json:"spent"`
}

// Key returns the unique identifier for this output (txid:vout).
func (o *Output) Key() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Vout)
}

// ledgerFile is the decrypted JSON file structure (versioned).
type ledgerFile struct {
	Version   int                `json:"version"`
	UpdatedAt time.Time          `json:"updated_at"`
	Outputs   map[string]*Output `json:"outputs"`
}

// KeyProvider borrows a wallet's master key for the duration of a
// callback. The wallet cache implements this.
type KeyProvider interface {
	WithMasterKey(id string, fn func(key []byte) error) error
}

// Store reads and writes per-wallet output ledgers under walletsDir.
type Store struct {
	walletsDir string
	keys       KeyProvider
}

// New creates a store over walletsDir.
func New(walletsDir string, keys KeyProvider) *Store {
	return &Store{walletsDir: walletsDir, keys: keys}
}

// Balance returns the wallet's balance in satoshis: the sum of its
// unspent outputs. A wallet with no ledger has balance zero.
func (s *Store) Balance(id string) (int64, error) {
	var total int64

	err := s.keys.WithMasterKey(id, func(key []byte) error {
		ledger, err := s.load(id, key)
		if err != nil {
			return err
		}

		for _, out := range ledger.Outputs {
			if !out.Spent {
				total += out.Amount
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// Record replaces the wallet's tracked outputs, as after a sync pass
// delivers a fresh output set.
func (s *Store) Record(id string, outputs []*Output) error {
	return s.keys.WithMasterKey(id, func(key []byte) error {
		ledger := &ledgerFile{
			Version:   currentVersion,
			UpdatedAt: time.Now().UTC(),
			Outputs:   make(map[string]*Output, len(outputs)),
		}

		for _, out := range outputs {
			ledger.Outputs[out.Key()] = out
		}

		return s.save(id, key, ledger)
	})
}

// load reads and decrypts the wallet's ledger. A missing file yields an
// empty ledger.
func (s *Store) load(id string, key []byte) (*ledgerFile, error) {
	// #nosec G304 -- path is built from a validated wallet id
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return &ledgerFile{
				Version: currentVersion,
				Outputs: make(map[string]*Output),
			}, nil
		}
		return nil, satchelerr.Wrap(err, "reading output ledger for wallet %s", id)
	}

	plaintext, err := vaultcrypto.Decrypt(data, key)
	if err != nil {
		return nil, satchelerr.WithDetails(satchelerr.ErrDecryptFailed, map[string]string{"file": FileName})
	}
	defer vaultcrypto.Zero(plaintext)

	var ledger ledgerFile
	if err := json.Unmarshal(plaintext, &ledger); err != nil {
		return nil, satchelerr.WithDetails(satchelerr.ErrMetadataInvalid, map[string]string{"file": FileName})
	}

	if ledger.Outputs == nil {
		ledger.Outputs = make(map[string]*Output)
	}

	return &ledger, nil
}

// save encrypts and atomically replaces the wallet's ledger.
func (s *Store) save(id string, key []byte, ledger *ledgerFile) error {
	plaintext, err := json.Marshal(ledger)
	if err != nil {
		return satchelerr.Wrap(err, "marshaling output ledger for wallet %s", id)
	}
	defer vaultcrypto.Zero(plaintext)

	ciphertext, err := vaultcrypto.Encrypt(plaintext, key)
	if err != nil {
		return satchelerr.WithDetails(satchelerr.ErrEncryptFailed, map[string]string{"file": FileName})
	}

	return fileutil.WriteAtomic(s.filePath(id), ciphertext, filePermissions)
}

func (s *Store) filePath(id string) string {
	return filepath.Join(walletdata.SyncDir(s.walletsDir, id), FileName)
}
