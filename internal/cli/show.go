package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/api"
)

var showCmd = &cobra.Command{
	Use:   "show <transaction-id>",
	Short: "Show one transaction in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	tx, err := a.api.Transaction(context.Background(), args[0])
	if err != nil {
		// 404 is this command's to present, not a global failure.
		if errors.Is(err, api.ErrNotFound) {
			fmt.Println("Transaction not found.")
			return nil
		}
		return fmt.Errorf("failed to load transaction: %s", notice(err))
	}

	fmt.Printf("Transaction %s\n", tx.ID)
	fmt.Printf("  from:    @%s\n", tx.SenderHandle)
	fmt.Printf("  to:      @%s\n", tx.ReceiverHandle)
	fmt.Printf("  amount:  %s %s\n", tx.Amount.Format(), tx.Currency)
	fmt.Printf("  status:  %s\n", tx.Status)
	if tx.Note != "" {
		fmt.Printf("  note:    %s\n", tx.Note)
	}
	fmt.Printf("  date:    %s\n", tx.CreatedAt.Format("Jan 2, 2006 15:04"))
	if tx.FailureReason != "" {
		fmt.Printf("  ❌ failed: %s\n", tx.FailureReason)
	}
	return nil
}
