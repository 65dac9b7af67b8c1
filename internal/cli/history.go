package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/api"
	"github.com/wallyhq/wally/internal/model"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "List transactions",
	Long: `List transactions, newest first.

Examples:
  wally history
  wally history --page 2 --limit 20
  wally history --filter sent --search alice`,
	RunE: runHistory,
}

var (
	historyPage   int
	historyLimit  int
	historySearch string
	historyFilter string
)

func init() {
	historyCmd.Flags().IntVarP(&historyPage, "page", "p", 1, "Page number")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Transactions per page")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Search by handle or note")
	historyCmd.Flags().StringVarP(&historyFilter, "filter", "f", "all", "Filter: all, sent, received")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	txs, page, err := a.api.History(context.Background(), api.HistoryParams{
		Page:   historyPage,
		Limit:  historyLimit,
		Search: historySearch,
		Filter: historyFilter,
	})
	if err != nil {
		return fmt.Errorf("failed to load transactions: %s", notice(err))
	}

	if len(txs) == 0 {
		fmt.Println("No transactions yet. Start by sending money to someone.")
		return nil
	}

	handle := a.session.Handle()

	fmt.Printf("\n📒 Transactions (page %d of %d)\n", page.Page, page.TotalPages)
	fmt.Println(strings.Repeat("─", 72))
	for _, tx := range txs {
		printTransaction(handle, tx)
	}
	fmt.Println()
	return nil
}

func printTransaction(selfHandle string, tx model.Transaction) {
	dir := "⬇ from @" + tx.SenderHandle
	sign := "+"
	if tx.Outgoing(selfHandle) {
		dir = "⬆ to   @" + tx.ReceiverHandle
		sign = "-"
	}

	note := tx.Note
	if len(note) > 24 {
		note = note[:21] + "..."
	}

	shortID := tx.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Printf("  %-8s  %-24s  %s%-12s  %-9s  %-24s  %s\n",
		shortID, dir, sign, tx.Amount.Format(), tx.Status,
		note, tx.CreatedAt.Format("Jan 2 15:04"))
}
