package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satchelwallet/satchel/internal/output"
	walletservice "github.com/satchelwallet/satchel/internal/service/wallet"
	"github.com/satchelwallet/satchel/internal/walletdata"
	satchelerr "github.com/satchelwallet/satchel/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// createCurrency is the ISO 4217 currency number for wallet creation.
	createCurrency int
)

// walletCmd is the parent command for wallet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
	Long:  `Create, list, rename and inspect wallets.`,
}

// walletCreateCmd creates a new wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new wallet",
	Long: `Create a new wallet with fresh key material.

The recovery phrase for the wallet seed is displayed once - write it
down and store it securely. The optional name and currency are written
to the wallet's encrypted metadata.

Example:
  satchel wallet create
  satchel wallet create "Spending Money" --currency 840`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalletCreate,
}

// walletListCmd lists all wallets.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	Long: `List all wallets in the account registry.

Example:
  satchel wallet list
  satchel wallet list -o json`,
	Aliases: []string{"ls"},
	RunE:    runWalletList,
}

// walletInfoCmd shows one wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show wallet details",
	Long: `Show a wallet's name, currency, archive flag and balance.

Example:
  satchel wallet info 3f2e9d1c-5a4b-4c3d-9e8f-7a6b5c4d3e2f`,
	Args: cobra.ExactArgs(1),
	RunE: runWalletInfo,
}

// walletRenameCmd renames a wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a wallet",
	Long: `Set a wallet's display name. The name is written to the wallet's
encrypted metadata.

Example:
  satchel wallet rename 3f2e9d1c-5a4b-4c3d-9e8f-7a6b5c4d3e2f "Rainy Day"`,
	Args: cobra.ExactArgs(2),
	RunE: runWalletRename,
}

// walletSetCurrencyCmd sets a wallet's currency number.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletSetCurrencyCmd = &cobra.Command{
	Use:   "set-currency <id> <number>",
	Short: "Set a wallet's fiat currency",
	Long: `Set the ISO 4217 currency number the wallet displays amounts in.

Example:
  satchel wallet set-currency 3f2e9d1c-5a4b-4c3d-9e8f-7a6b5c4d3e2f 840`,
	Args: cobra.ExactArgs(2),
	RunE: runWalletSetCurrency,
}

// walletArchiveCmd archives a wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a wallet",
	Long: `Mark a wallet archived. Archived wallets stay in the registry but
are flagged in listings.

Example:
  satchel wallet archive 3f2e9d1c-5a4b-4c3d-9e8f-7a6b5c4d3e2f`,
	Args: cobra.ExactArgs(1),
	RunE: runWalletArchive,
}

// walletUnarchiveCmd restores an archived wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>",
	Short: "Unarchive a wallet",
	Long: `Clear a wallet's archived flag.

Example:
  satchel wallet unarchive 3f2e9d1c-5a4b-4c3d-9e8f-7a6b5c4d3e2f`,
	Args: cobra.ExactArgs(1),
	RunE: runWalletUnarchive,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletInfoCmd)
	walletCmd.AddCommand(walletRenameCmd)
	walletCmd.AddCommand(walletSetCurrencyCmd)
	walletCmd.AddCommand(walletArchiveCmd)
	walletCmd.AddCommand(walletUnarchiveCmd)

	walletCreateCmd.Flags().IntVar(&createCurrency, "currency", walletdata.CurrencyUnset,
		"ISO 4217 currency number for the new wallet")
}

func runWalletCreate(cmd *cobra.Command, args []string) error {
	if createCurrency != walletdata.CurrencyUnset && createCurrency < 0 {
		return satchelerr.WithSuggestion(
			satchelerr.ErrInvalidInput,
			"currency must be a non-negative ISO 4217 number, e.g. 840 for USD",
		)
	}

	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	var name string
	if len(args) == 1 {
		name = args[0]
	}

	result, err := stack.svc.Create(&walletservice.CreateRequest{
		Name:           name,
		CurrencyNumber: createCurrency,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, result)
	}

	displayCreateText(w, result)
	return nil
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	summaries, err := stack.svc.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		if summaries == nil {
			summaries = []walletservice.WalletSummary{}
		}
		return writeJSON(w, summaries)
	}

	if len(summaries) == 0 {
		outln(w, "No wallets found.")
		outln(w, "Create one with: satchel wallet create")
		return nil
	}

	displayWalletListText(w, summaries)
	return nil
}

func runWalletInfo(cmd *cobra.Command, args []string) error {
	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	info, err := stack.svc.Info(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, info)
	}

	displayWalletInfoText(w, info)
	return nil
}

func runWalletRename(cmd *cobra.Command, args []string) error {
	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	id, name := args[0], args[1]
	if err := stack.svc.SetName(id, name); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]string{
			"status": "renamed",
			"id":     id,
			"name":   name,
		})
	}

	out(w, "Wallet %s renamed to %q\n", id, name)
	return nil
}

func runWalletSetCurrency(cmd *cobra.Command, args []string) error {
	num, err := strconv.Atoi(args[1])
	if err != nil || num < 0 {
		return satchelerr.WithSuggestion(
			satchelerr.ErrInvalidInput,
			"currency must be a non-negative ISO 4217 number, e.g. 840 for USD",
		)
	}

	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	id := args[0]
	if err := stack.svc.SetCurrencyNumber(id, num); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]any{
			"status":          "updated",
			"id":              id,
			"currency_number": num,
		})
	}

	out(w, "Wallet %s currency set to %d\n", id, num)
	return nil
}

func runWalletArchive(cmd *cobra.Command, args []string) error {
	return setArchived(cmd, args[0], true)
}

func runWalletUnarchive(cmd *cobra.Command, args []string) error {
	return setArchived(cmd, args[0], false)
}

func setArchived(cmd *cobra.Command, id string, archived bool) error {
	stack, err := openWalletStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	if err := stack.svc.SetArchived(id, archived); err != nil {
		return err
	}

	verb := "archived"
	if !archived {
		verb = "unarchived"
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]string{
			"status": verb,
			"id":     id,
		})
	}

	out(w, "Wallet %s %s\n", id, verb)
	return nil
}

// displayCreateText shows a creation result in text format.
func displayCreateText(w io.Writer, result *walletservice.CreateResult) {
	out(w, "Wallet created: %s\n", result.ID)
	if result.Name != "" {
		out(w, "Name: %s\n", result.Name)
	}
	if result.CurrencyNumber != walletdata.CurrencyUnset {
		out(w, "Currency: %d\n", result.CurrencyNumber)
	}
	outln(w)
	outln(w, "Recovery phrase (shown once, write it down):")
	out(w, "  %s\n", result.RecoveryPhrase)
}

// displayWalletListText shows wallet summaries as a text list.
func displayWalletListText(w io.Writer, summaries []walletservice.WalletSummary) {
	outln(w, "Wallets:")
	for _, s := range summaries {
		marker := ""
		if s.Archived {
			marker = " (archived)"
		}
		out(w, "  %s  %s%s\n", s.ID, displayName(s.Name), marker)
	}
}

// displayWalletInfoText shows one wallet's details in text format.
func displayWalletInfoText(w io.Writer, info *walletservice.WalletInfo) {
	out(w, "Wallet: %s\n", info.ID)
	out(w, "Name: %s\n", displayName(info.Name))
	if info.CurrencyNumber == walletdata.CurrencyUnset {
		outln(w, "Currency: (unset)")
	} else {
		out(w, "Currency: %d\n", info.CurrencyNumber)
	}
	out(w, "Archived: %t\n", info.Archived)
	out(w, "Balance: %s\n", formatSats(info.Balance))
}

// displayName substitutes a placeholder for the empty name.
func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

// formatSats renders a satoshi amount.
func formatSats(amount int64) string {
	return fmt.Sprintf("%d sats", amount)
}
