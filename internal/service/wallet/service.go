package wallet

import (
	"os"

	"github.com/satchelwallet/satchel/internal/metadata"
	"github.com/satchelwallet/satchel/internal/metrics"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

const syncDirPermissions = 0o750

// Service provides wallet operations without CLI dependencies.
type Service struct {
	cache      EntryCache
	registry   RegistryProvider
	balance    BalanceSource
	walletsDir string
	logger     LogWriter
}

// Config contains dependencies for creating a wallet service.
type Config struct {
	Cache      EntryCache
	Registry   RegistryProvider
	Balance    BalanceSource
	WalletsDir string
	Logger     LogWriter
}

// NewService creates a new wallet service instance.
func NewService(cfg *Config) *Service {
	return &Service{
		cache:      cfg.Cache,
		registry:   cfg.Registry,
		balance:    cfg.Balance,
		walletsDir: cfg.WalletsDir,
		logger:     cfg.Logger,
	}
}

// SetName renames the wallet. The cached entry changes first and the
// name is then persisted; if the write fails the entry keeps the new
// name while disk keeps the old one, and the next cache clear resolves
// the divergence in favor of disk.
func (s *Service) SetName(id, name string) error {
	entry, err := s.cache.GetOrLoad(id)
	if err != nil {
		return err
	}

	entry.SetName(name)

	err = entry.WithMasterKey(func(key []byte) error {
		return metadata.WriteName(entry.SyncDir(), key, name)
	})
	metrics.Global.RecordDocumentWrite(err)
	if err != nil {
		s.logger.Error("wallet %s: name write failed, cache is ahead of disk: %v", id, err)
		return satchelerr.Wrap(err, "persisting name for wallet %s", id)
	}

	s.logger.Debug("wallet %s renamed", id)
	return nil
}

// SetCurrencyNumber changes the wallet's currency, with the same
// update-then-persist behavior as SetName.
func (s *Service) SetCurrencyNumber(id string, num int) error {
	entry, err := s.cache.GetOrLoad(id)
	if err != nil {
		return err
	}

	entry.SetCurrencyNumber(num)

	err = entry.WithMasterKey(func(key []byte) error {
		return metadata.WriteCurrency(entry.SyncDir(), key, num)
	})
	metrics.Global.RecordDocumentWrite(err)
	if err != nil {
		s.logger.Error("wallet %s: currency write failed, cache is ahead of disk: %v", id, err)
		return satchelerr.Wrap(err, "persisting currency for wallet %s", id)
	}

	s.logger.Debug("wallet %s currency set to %d", id, num)
	return nil
}

// Info returns the wallet's current view. Name and currency come from
// the cached entry; the archive flag and balance are read fresh so the
// answer tracks registry edits and ledger updates made since
// hydration.
func (s *Service) Info(id string) (*WalletInfo, error) {
	entry, err := s.cache.GetOrLoad(id)
	if err != nil {
		return nil, err
	}

	archived, err := s.registry.IsArchived(id)
	if err != nil {
		return nil, err
	}

	balance, err := s.balance.Balance(id)
	if err != nil {
		return nil, err
	}

	return &WalletInfo{
		ID:             entry.ID(),
		Name:           entry.Name(),
		CurrencyNumber: entry.CurrencyNumber(),
		Archived:       archived,
		Balance:        balance,
	}, nil
}

// List returns a summary row per registry wallet, hydrating entries as
// needed for display names.
func (s *Service) List() ([]WalletSummary, error) {
	ids, err := s.registry.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]WalletSummary, 0, len(ids))
	for _, id := range ids {
		entry, err := s.cache.GetOrLoad(id)
		if err != nil {
			return nil, err
		}

		archived, err := s.registry.IsArchived(id)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, WalletSummary{
			ID:       id,
			Name:     entry.Name(),
			Archived: archived,
		})
	}

	return summaries, nil
}

// Create provisions a wallet in the registry, prepares its sync
// directory and writes the requested initial metadata.
func (s *Service) Create(req *CreateRequest) (*CreateResult, error) {
	id, mnemonic, err := s.registry.Create()
	if err != nil {
		return nil, err
	}

	syncDir := walletdata.SyncDir(s.walletsDir, id)
	if err := os.MkdirAll(syncDir, syncDirPermissions); err != nil {
		return nil, satchelerr.Wrap(err, "creating sync directory for wallet %s", id)
	}

	result := &CreateResult{
		ID:             id,
		CurrencyNumber: walletdata.CurrencyUnset,
		RecoveryPhrase: mnemonic,
	}

	if req.Name != "" {
		if err := s.SetName(id, req.Name); err != nil {
			return nil, err
		}
		result.Name = req.Name
	}

	if req.CurrencyNumber != walletdata.CurrencyUnset {
		if err := s.SetCurrencyNumber(id, req.CurrencyNumber); err != nil {
			return nil, err
		}
		result.CurrencyNumber = req.CurrencyNumber
	}

	s.logger.Debug("created wallet %s", id)
	return result, nil
}

// SetArchived flips the wallet's archive flag in the registry. The
// flag lives outside the cached entry, so no cache update is needed.
func (s *Service) SetArchived(id string, archived bool) error {
	if err := s.registry.SetArchived(id, archived); err != nil {
		return err
	}

	s.logger.Debug("wallet %s archived=%t", id, archived)
	return nil
}

// ClearCache drops every cached entry and zeroes its key material.
// Subsequent operations re-hydrate from disk.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Debug("wallet cache cleared")
}
