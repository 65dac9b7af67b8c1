package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/api"
	"github.com/wallyhq/wally/internal/money"
)

var sendNote string

var sendCmd = &cobra.Command{
	Use:   "send <handle> <amount>",
	Short: "Send money to another user",
	Long: `Send money to another user by handle.

Examples:
  wally send alice 25
  wally send bob 9.99 --note "lunch"`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendNote, "note", "n", "", "Optional note attached to the transfer")
}

func runSend(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	recipient := strings.TrimPrefix(args[0], "@")
	if recipient == "" {
		return fmt.Errorf("recipient handle required")
	}
	if strings.EqualFold(recipient, a.session.Handle()) {
		return fmt.Errorf("you cannot send money to yourself")
	}

	amount, err := money.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}

	fmt.Printf("🔄 Sending %s to @%s...\n", amount.Format(), recipient)
	tx, err := a.api.Send(context.Background(), recipient, amount, sendNote)
	if err != nil {
		// A 400 here is a transfer-specific rejection (insufficient
		// funds, unknown recipient); show the server's reason inline.
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && errors.Is(err, api.ErrClient) && apiErr.Message != "" {
			return fmt.Errorf("transfer rejected: %s", apiErr.Message)
		}
		return fmt.Errorf("transfer failed: %s", notice(err))
	}

	fmt.Printf("✅ Sent %s to @%s (%s)\n", tx.Amount.Format(), tx.ReceiverHandle, tx.Status)
	fmt.Printf("   transaction: %s\n", tx.ID)
	return nil
}
