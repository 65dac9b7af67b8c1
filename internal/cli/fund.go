package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/money"
)

// maxFundAmount mirrors the server-side funding cap so obviously bad
// requests never leave the client.
var maxFundAmount = money.MustParse("10000")

var fundCmd = &cobra.Command{
	Use:   "fund <amount>",
	Short: "Add funds to the wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runFund,
}

func runFund(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	amount, err := money.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	if amount.Cmp(maxFundAmount) > 0 {
		return fmt.Errorf("maximum funding amount is %s", maxFundAmount.Format())
	}

	fmt.Println("🔄 Adding funds...")
	wallet, err := a.api.Fund(context.Background(), amount)
	if err != nil {
		return fmt.Errorf("failed to add funds: %s", notice(err))
	}

	if a.db != nil {
		_ = a.db.SaveWalletSnapshot(*wallet)
	}

	fmt.Printf("✅ Added %s. New balance: %s %s\n",
		amount.Format(), wallet.Balance.Format(), wallet.Currency)
	return nil
}
