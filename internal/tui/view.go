package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		if m.notice != "" {
			return m.notice + "\n"
		}
		return ""
	}

	switch m.mode {
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	handle := m.session.Handle()
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("💸 wally — @%s", handle)))
	b.WriteString("\n\n")

	// Balance card
	switch {
	case m.wallet != nil && m.walletStale:
		b.WriteString(BalanceStyle.Render(m.wallet.Balance.Format() + " " + m.wallet.Currency))
		b.WriteString(" " + StaleStyle.Render("(stale)"))
	case m.wallet != nil:
		b.WriteString(BalanceStyle.Render(m.wallet.Balance.Format() + " " + m.wallet.Currency))
	case m.loading:
		b.WriteString(BalanceStyle.Render(m.spin.View() + " loading..."))
	default:
		b.WriteString(BalanceStyle.Render("—"))
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(NoticeStyle.Render("⚠ " + m.notice))
		b.WriteString("\n")
	}

	// Transactions
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render("Recent transactions"))
	b.WriteString("\n")

	if len(m.txs) == 0 {
		if m.loading {
			b.WriteString(RowStyle.Render(m.spin.View() + " loading..."))
		} else {
			b.WriteString(RowStyle.Render("No transactions yet."))
		}
		b.WriteString("\n")
	}

	for i, tx := range m.txs {
		style := RowStyle
		prefix := "  "
		if i == m.cursor {
			style = RowSelectedStyle
			prefix = "› "
		}

		var dir, amount string
		if tx.Outgoing(handle) {
			dir = "⬆ @" + tx.ReceiverHandle
			amount = OutgoingStyle.Render("-" + tx.Amount.Format())
		} else {
			dir = "⬇ @" + tx.SenderHandle
			amount = IncomingStyle.Render("+" + tx.Amount.Format())
		}

		row := fmt.Sprintf("%s%-20s  %-14s  %s  %s",
			prefix, dir, amount,
			statusStyle(tx.Status).Render(tx.Status),
			tx.CreatedAt.Format("Jan 2 15:04"))
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑/↓ navigate · enter details · r refresh · ? help · q quit"))
	return b.String()
}

func (m Model) viewDetail() string {
	if m.detail == nil {
		return ""
	}
	tx := *m.detail

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Transaction %s\n\n", tx.ID))
	b.WriteString(fmt.Sprintf("from:    @%s\n", tx.SenderHandle))
	b.WriteString(fmt.Sprintf("to:      @%s\n", tx.ReceiverHandle))
	b.WriteString(fmt.Sprintf("amount:  %s %s\n", tx.Amount.Format(), tx.Currency))
	b.WriteString(fmt.Sprintf("status:  %s\n", statusStyle(tx.Status).Render(tx.Status)))
	if tx.Note != "" {
		b.WriteString(fmt.Sprintf("note:    %s\n", tx.Note))
	}
	b.WriteString(fmt.Sprintf("date:    %s\n", tx.CreatedAt.Format("Jan 2, 2006 15:04")))
	if tx.FailureReason != "" {
		b.WriteString(fmt.Sprintf("failed:  %s\n", tx.FailureReason))
	}

	return DetailStyle.Render(b.String()) + "\n" +
		FooterStyle.Render("esc back · q quit")
}

func (m Model) viewHelp() string {
	help := `wally dashboard

  ↑/k, ↓/j   move between transactions
  enter      show transaction details
  r          refresh balance and history
  ?          this help
  q          quit`

	return DetailStyle.Render(help) + "\n" +
		FooterStyle.Render("esc back")
}
