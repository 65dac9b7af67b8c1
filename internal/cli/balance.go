package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/api"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	wallet, err := a.api.Wallet(context.Background())
	if err != nil {
		// Fall back to the last-known balance when the server cannot be
		// reached, clearly marked stale.
		if errors.Is(err, api.ErrNetwork) && a.db != nil {
			if snap, ok := a.db.LoadWalletSnapshot(); ok {
				fmt.Printf("💰 %s %s (stale, as of %s)\n",
					snap.Wallet.Balance.Format(), snap.Wallet.Currency,
					snap.FetchedAt.Format(time.RFC822))
				fmt.Println("⚠️  " + notice(err))
				return nil
			}
		}
		return fmt.Errorf("failed to fetch balance: %s", notice(err))
	}

	if a.db != nil {
		_ = a.db.SaveWalletSnapshot(*wallet)
	}

	fmt.Printf("💰 %s %s\n", wallet.Balance.Format(), wallet.Currency)
	return nil
}
