package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wallyhq/wally/internal/model"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin panel commands",
	Long:  `Commands for administrators: platform stats and user management.`,
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform statistics",
	RunE:  runAdminStats,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE:  runAdminUsers,
}

var adminBlockCmd = &cobra.Command{
	Use:   "block <user-id>",
	Short: "Block a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminBlock,
}

var adminUnblockCmd = &cobra.Command{
	Use:   "unblock <user-id>",
	Short: "Unblock a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUnblock,
}

var (
	adminUsersPage   int
	adminUsersLimit  int
	adminUsersSearch string
)

// requireAdmin refuses early when the logged-in account is not an admin,
// saving a round trip that would end in a 403 anyway.
func requireAdmin(a *app) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.session.User().IsAdmin() {
		return fmt.Errorf("admin commands require an admin account")
	}
	return nil
}

func init() {
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminBlockCmd)
	adminCmd.AddCommand(adminUnblockCmd)

	adminUsersCmd.Flags().IntVarP(&adminUsersPage, "page", "p", 1, "Page number")
	adminUsersCmd.Flags().IntVarP(&adminUsersLimit, "limit", "l", 20, "Users per page")
	adminUsersCmd.Flags().StringVarP(&adminUsersSearch, "search", "s", "", "Search by handle or email")
}

func runAdminStats(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := requireAdmin(a); err != nil {
		return err
	}

	stats, err := a.api.AdminStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load stats: %s", notice(err))
	}

	fmt.Println("📊 Platform statistics")
	fmt.Printf("  users:        %d (%d active)\n", stats.TotalUsers, stats.ActiveUsers)
	fmt.Printf("  transactions: %d\n", stats.TotalTransactions)
	fmt.Printf("  volume:       %s\n", stats.TotalVolume.Format())
	return nil
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := requireAdmin(a); err != nil {
		return err
	}

	users, page, err := a.api.AdminUsers(context.Background(), adminUsersPage, adminUsersLimit, adminUsersSearch)
	if err != nil {
		return fmt.Errorf("failed to list users: %s", notice(err))
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	fmt.Printf("\n👥 Users (page %d of %d)\n", page.Page, page.TotalPages)
	fmt.Println(strings.Repeat("─", 72))
	for _, u := range users {
		flag := " "
		if u.Status == model.StatusBlocked {
			flag = "🚫"
		}
		fmt.Printf("  %s %-16s  %-28s  %-6s  %s\n",
			flag, "@"+u.Handle, u.Email, u.Role, u.ID)
	}
	fmt.Println()
	return nil
}

func runAdminBlock(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := requireAdmin(a); err != nil {
		return err
	}

	user, err := a.api.BlockUser(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to block user: %s", notice(err))
	}

	fmt.Printf("🚫 Blocked @%s\n", user.Handle)
	return nil
}

func runAdminUnblock(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := requireAdmin(a); err != nil {
		return err
	}

	user, err := a.api.UnblockUser(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to unblock user: %s", notice(err))
	}

	fmt.Printf("✅ Unblocked @%s\n", user.Handle)
	return nil
}
