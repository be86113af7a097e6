// Package registry stores per-wallet key documents under the account's
// registry directory, one age-encrypted JSON file per wallet. It is the
// key source behind the wallet cache and owns wallet provisioning.
package registry

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/tyler-smith/go-bip39"

	"github.com/satchelwallet/satchel/internal/fileutil"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

const (
	// documentExtension is the suffix of registry documents.
	documentExtension = ".json"

	filePermissions = 0o600
	dirPermissions  = 0o750

	masterKeyLength = 32
	syncKeyLength   = 20

	// seedEntropyBits sizes the wallet seed; 256 bits yields a 24 word
	// recovery phrase.
	seedEntropyBits = 256

	// maxSuggestDistance is the largest Levenshtein distance between a
	// requested id and a known id worth suggesting.
	maxSuggestDistance = 2
)

// walletDoc is the decrypted registry document for one wallet. Field
// names match the document schema and must not change.
type walletDoc struct {
	MK          string `json:"MK"`
	SyncKey     string `json:"SyncKey"`
	BitcoinSeed string `json:"BitcoinSeed"`
	Archived    bool   `json:"Archived"`
}

// Registry reads and writes wallet key documents in dir, encrypted
// under the account key.
type Registry struct {
	dir string
	key *vaultcrypto.SecureBytes
}

// New creates a registry over dir using the unlocked account key.
func New(dir string, key *vaultcrypto.SecureBytes) *Registry {
	return &Registry{dir: dir, key: key}
}

// WalletKeys returns the hex-encoded key material for a wallet.
func (r *Registry) WalletKeys(id string) (walletdata.KeyMaterial, error) {
	doc, err := r.read(id)
	if err != nil {
		return walletdata.KeyMaterial{}, err
	}

	return walletdata.KeyMaterial{
		MasterKeyHex:   doc.MK,
		BitcoinSeedHex: doc.BitcoinSeed,
		SyncKeyHex:     doc.SyncKey,
	}, nil
}

// IsArchived reports the wallet's archived flag.
func (r *Registry) IsArchived(id string) (bool, error) {
	doc, err := r.read(id)
	if err != nil {
		return false, err
	}

	return doc.Archived, nil
}

// SetArchived updates the wallet's archived flag.
func (r *Registry) SetArchived(id string, archived bool) error {
	doc, err := r.read(id)
	if err != nil {
		return err
	}

	doc.Archived = archived
	return r.write(id, doc)
}

// Create provisions a new wallet: a fresh id, master key, sync key and
// seed, written to the registry. It returns the id and the recovery
// phrase for the seed; the phrase is shown once and never stored.
func (r *Registry) Create() (id, mnemonic string, err error) {
	id = uuid.NewString()
	if fileutil.Exists(r.path(id)) {
		return "", "", satchelerr.Wrap(satchelerr.ErrWalletExists, "registry document %s", id)
	}

	masterKey, err := vaultcrypto.RandomBytes(masterKeyLength)
	if err != nil {
		return "", "", satchelerr.Wrap(err, "generating master key")
	}
	defer vaultcrypto.Zero(masterKey)

	syncKey, err := vaultcrypto.RandomBytes(syncKeyLength)
	if err != nil {
		return "", "", satchelerr.Wrap(err, "generating sync key")
	}

	entropy, err := bip39.NewEntropy(seedEntropyBits)
	if err != nil {
		return "", "", satchelerr.Wrap(err, "generating seed entropy")
	}
	defer vaultcrypto.Zero(entropy)

	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return "", "", satchelerr.Wrap(err, "encoding recovery phrase")
	}

	doc := &walletDoc{
		MK:          hex.EncodeToString(masterKey),
		SyncKey:     hex.EncodeToString(syncKey),
		BitcoinSeed: hex.EncodeToString(entropy),
		Archived:    false,
	}

	if err := r.write(id, doc); err != nil {
		return "", "", err
	}

	return id, mnemonic, nil
}

// List returns the known wallet ids, sorted.
func (r *Registry) List() ([]string, error) {
	return ListIDs(r.dir)
}

// ListIDs returns the wallet ids recorded under dir, sorted. Listing
// reads file names only and needs no account key.
func ListIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, satchelerr.Wrap(err, "reading registry directory")
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, documentExtension) {
			continue
		}

		ids = append(ids, strings.TrimSuffix(name, documentExtension))
	}

	sort.Strings(ids)
	return ids, nil
}

// read loads and decrypts one registry document.
func (r *Registry) read(id string) (*walletDoc, error) {
	if err := walletdata.ValidateWalletID(id); err != nil {
		return nil, err
	}

	// #nosec G304 -- path is built from a validated wallet id
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, r.notFound(id)
		}
		return nil, satchelerr.Wrap(err, "reading registry document for wallet %s", id)
	}

	var plaintext []byte
	err = r.key.WithBytes(func(key []byte) error {
		var decryptErr error
		plaintext, decryptErr = vaultcrypto.Decrypt(data, key)
		return decryptErr
	})
	if err != nil {
		return nil, satchelerr.Wrap(satchelerr.ErrKeySource, "decrypting registry document for wallet %s", id)
	}
	defer vaultcrypto.Zero(plaintext)

	var doc walletDoc
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, satchelerr.Wrap(satchelerr.ErrKeySource, "registry document for wallet %s is corrupt", id)
	}

	return &doc, nil
}

// write encrypts and atomically replaces one registry document.
func (r *Registry) write(id string, doc *walletDoc) error {
	if err := walletdata.ValidateWalletID(id); err != nil {
		return err
	}

	plaintext, err := json.Marshal(doc)
	if err != nil {
		return satchelerr.Wrap(err, "marshaling registry document for wallet %s", id)
	}
	defer vaultcrypto.Zero(plaintext)

	var ciphertext []byte
	err = r.key.WithBytes(func(key []byte) error {
		var encryptErr error
		ciphertext, encryptErr = vaultcrypto.Encrypt(plaintext, key)
		return encryptErr
	})
	if err != nil {
		return satchelerr.Wrap(satchelerr.ErrEncryptFailed, "encrypting registry document for wallet %s", id)
	}

	if err := os.MkdirAll(r.dir, dirPermissions); err != nil {
		return satchelerr.Wrap(err, "creating registry directory")
	}

	if err := fileutil.WriteAtomic(r.path(id), ciphertext, filePermissions); err != nil {
		return satchelerr.Wrap(err, "writing registry document for wallet %s", id)
	}

	return nil
}

// notFound builds the wallet-not-found error, suggesting the closest
// known id when one is within typo range.
func (r *Registry) notFound(id string) error {
	err := satchelerr.Wrap(satchelerr.ErrWalletNotFound, "wallet %s", id)

	if closest := r.closestID(id); closest != "" {
		return satchelerr.WithSuggestion(err, "Did you mean wallet '"+closest+"'?")
	}

	return satchelerr.WithSuggestion(err, "Run 'satchel wallet list' to see known wallets")
}

// closestID returns the known id nearest to input by Levenshtein
// distance, or "" when none is within maxSuggestDistance.
func (r *Registry) closestID(input string) string {
	ids, err := r.List()
	if err != nil {
		return ""
	}

	minDist := math.MaxInt
	var closest string

	for _, id := range ids {
		dist := levenshtein.ComputeDistance(input, id)
		if dist < minDist {
			minDist = dist
			closest = id
		}
	}

	if minDist <= maxSuggestDistance {
		return closest
	}

	return ""
}

func (r *Registry) path(id string) string {
	return filepath.Join(r.dir, id+documentExtension)
}
