package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/satchelwallet/satchel/internal/account"
	"github.com/satchelwallet/satchel/internal/config"
	"github.com/satchelwallet/satchel/internal/registry"
	walletservice "github.com/satchelwallet/satchel/internal/service/wallet"
	"github.com/satchelwallet/satchel/internal/utxostore"
	"github.com/satchelwallet/satchel/internal/vaultcrypto"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// minPassphraseLength is the shortest accepted account passphrase.
const minPassphraseLength = 8

// promptPasswordFn is a variable for test injection.
//
//nolint:gochecknoglobals // Prompt functions are variables so tests can stub them
var promptPasswordFn = promptPassword

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// writeJSON encodes the value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// walletStack bundles the per-invocation service assembly: unlocked
// account key, registry, entry cache, ledger store and the service
// facade over them.
type walletStack struct {
	svc        *walletservice.Service
	cache      *walletdata.Cache
	store      *utxostore.Store
	accountKey *vaultcrypto.SecureBytes
}

// Close zeroes every piece of key material the stack holds.
func (s *walletStack) Close() {
	s.cache.Clear()
	s.accountKey.Destroy()
}

// openWalletStack unlocks the account and wires the full wallet stack
// over the configured home directory.
func openWalletStack() (*walletStack, error) {
	passphrase, err := resolvePassphrase()
	if err != nil {
		return nil, err
	}

	mgr := account.NewManager(cfg.AccountPath())
	accountKey, err := mgr.Unlock(passphrase)
	if err != nil {
		return nil, err
	}

	reg := registry.New(cfg.RegistryDir(), accountKey)
	cache := walletdata.NewCache(&walletdata.Config{
		Keys:       reg,
		WalletsDir: cfg.WalletsDir(),
		Logger:     logger,
	})
	store := utxostore.New(cfg.WalletsDir(), cache)

	svc := walletservice.NewService(&walletservice.Config{
		Cache:      cache,
		Registry:   reg,
		Balance:    store,
		WalletsDir: cfg.WalletsDir(),
		Logger:     logger,
	})

	return &walletStack{
		svc:        svc,
		cache:      cache,
		store:      store,
		accountKey: accountKey,
	}, nil
}

// resolvePassphrase reads the account passphrase from the environment
// or prompts for it on the terminal.
func resolvePassphrase() (string, error) {
	if pass := os.Getenv(config.EnvPassphrase); pass != "" {
		return pass, nil
	}

	raw, err := promptPasswordFn("Account passphrase: ")
	if err != nil {
		return "", err
	}
	defer vaultcrypto.Zero(raw)

	return string(raw), nil
}

// resolveNewPassphrase reads a fresh account passphrase from the
// environment or prompts twice, enforcing the minimum length.
func resolveNewPassphrase() (string, error) {
	if pass := os.Getenv(config.EnvPassphrase); pass != "" {
		if len(pass) < minPassphraseLength {
			return "", satchelerr.WithSuggestion(
				satchelerr.ErrInvalidInput,
				fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLength),
			)
		}
		return pass, nil
	}

	passphrase, err := promptPasswordFn("Enter account passphrase: ")
	if err != nil {
		return "", err
	}

	if len(passphrase) < minPassphraseLength {
		vaultcrypto.Zero(passphrase)
		return "", satchelerr.WithSuggestion(
			satchelerr.ErrInvalidInput,
			fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLength),
		)
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		vaultcrypto.Zero(passphrase)
		return "", err
	}
	defer vaultcrypto.Zero(confirm)

	if string(passphrase) != string(confirm) {
		vaultcrypto.Zero(passphrase)
		return "", satchelerr.WithSuggestion(
			satchelerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	result := string(passphrase)
	vaultcrypto.Zero(passphrase)
	return result, nil
}

// promptPassword prompts for a passphrase with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	return password, nil
}
