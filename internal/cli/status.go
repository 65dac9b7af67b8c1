package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and server status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	fmt.Printf("Server: %s\n", a.cfg.ServerURL)

	if !a.session.IsValid() {
		fmt.Println("Session: not logged in")
		return nil
	}

	fmt.Printf("Session: logged in as @%s\n", a.session.Handle())

	if a.db != nil {
		if snap, ok := a.db.LoadWalletSnapshot(); ok {
			fmt.Printf("Last known balance: %s %s (as of %s)\n",
				snap.Wallet.Balance.Format(), snap.Wallet.Currency,
				snap.FetchedAt.Format(time.RFC822))
		}
	}
	return nil
}
