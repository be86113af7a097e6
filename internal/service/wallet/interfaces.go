// Package wallet provides the wallet operations behind the CLI:
// cached entry access, metadata updates, balance views and wallet
// provisioning.
package wallet

import (
	"github.com/satchelwallet/satchel/internal/walletdata"
)

// EntryCache serves hydrated wallet entries and owns their lifetime.
type EntryCache interface {
	GetOrLoad(id string) (*walletdata.Entry, error)
	Clear()
}

// RegistryProvider exposes the account's wallet registry.
type RegistryProvider interface {
	Create() (id, mnemonic string, err error)
	List() ([]string, error)
	IsArchived(id string) (bool, error)
	SetArchived(id string, archived bool) error
}

// BalanceSource answers balance queries from the output ledgers.
type BalanceSource interface {
	Balance(id string) (int64, error)
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}
