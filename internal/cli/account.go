package cli

import (
	"github.com/spf13/cobra"

	"github.com/satchelwallet/satchel/internal/account"
	"github.com/satchelwallet/satchel/internal/output"
	"github.com/satchelwallet/satchel/internal/registry"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

// accountCmd is the parent command for account operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the account",
	Long:  `Initialize and inspect the account that encrypts all wallet data.`,
}

// accountInitCmd creates the account document.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the account",
	Long: `Create the account document and derive the account key from a
passphrase. The key encrypts the wallet registry and every wallet
metadata document; only derivation parameters are stored on disk.

Example:
  satchel account init`,
	RunE: runAccountInit,
}

// accountStatusCmd reports account presence and wallet count.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show account status",
	Long: `Show whether the account exists and how many wallets it holds.
Does not require the passphrase.

Example:
  satchel account status
  satchel account status -o json`,
	RunE: runAccountStatus,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountInitCmd)
	accountCmd.AddCommand(accountStatusCmd)
}

func runAccountInit(cmd *cobra.Command, _ []string) error {
	mgr := account.NewManager(cfg.AccountPath())
	if mgr.Exists() {
		return satchelerr.WithSuggestion(
			satchelerr.Wrap(satchelerr.ErrAccountExists, "account document %s", cfg.AccountPath()),
			"An account already exists; re-initializing would orphan every wallet",
		)
	}

	passphrase, err := resolveNewPassphrase()
	if err != nil {
		return err
	}

	key, err := mgr.Init(passphrase)
	if err != nil {
		return err
	}
	key.Destroy()

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]string{
			"status":  "initialized",
			"account": cfg.AccountPath(),
		})
	}

	out(w, "Account initialized at %s\n", cfg.AccountPath())
	outln(w)
	outln(w, "Create a wallet with: satchel wallet create")

	return nil
}

func runAccountStatus(cmd *cobra.Command, _ []string) error {
	mgr := account.NewManager(cfg.AccountPath())

	ids, err := registry.ListIDs(cfg.RegistryDir())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]any{
			"home":    cfg.Home,
			"exists":  mgr.Exists(),
			"wallets": len(ids),
		})
	}

	out(w, "Home: %s\n", cfg.Home)
	if mgr.Exists() {
		outln(w, "Account: initialized")
	} else {
		outln(w, "Account: not initialized")
		outln(w, "Create one with: satchel account init")
	}
	out(w, "Wallets: %d\n", len(ids))

	return nil
}
