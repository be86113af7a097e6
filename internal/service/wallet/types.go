package wallet

// WalletInfo is a point-in-time view of one wallet. Name and
// CurrencyNumber come from the cached entry; Archived and Balance are
// read fresh on every call.
type WalletInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CurrencyNumber int    `json:"currency_number"`
	Archived       bool   `json:"archived"`
	Balance        int64  `json:"balance"`
}

// WalletSummary is one row of a wallet listing.
type WalletSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// CreateRequest carries the optional initial metadata for a new
// wallet. Leave Name empty or CurrencyNumber at CurrencyUnset to skip
// writing the corresponding document.
type CreateRequest struct {
	Name           string
	CurrencyNumber int
}

// CreateResult describes a freshly created wallet. RecoveryPhrase is
// shown once and never persisted.
type CreateResult struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	CurrencyNumber int    `json:"currency_number"`
	RecoveryPhrase string `json:"recovery_phrase"`
}
