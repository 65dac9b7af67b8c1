package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Log in, register, log out, or show the current account.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the wallet server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new wallet account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated account",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)
}

func readLine(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	email := readLine("Email: ")
	password := readPassword("Password: ")

	fmt.Println("🔄 Logging in...")
	user, err := a.api.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", notice(err))
	}

	fmt.Printf("✅ Logged in as @%s\n", user.Handle)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	email := readLine("Email: ")
	handle := readLine("Handle: ")
	password := readPassword("Password: ")
	confirm := readPassword("Confirm Password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	user, err := a.api.Register(context.Background(), email, password, handle)
	if err != nil {
		return fmt.Errorf("register failed: %s", notice(err))
	}

	fmt.Printf("✅ Account created, logged in as @%s\n", user.Handle)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if !a.session.IsValid() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	// Server notification is best-effort; the local session clears
	// regardless of the outcome.
	a.api.Logout(context.Background())
	if a.db != nil {
		_ = a.db.ClearWalletSnapshot()
	}

	fmt.Println("✅ Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	user, err := a.api.Me(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch account: %s", notice(err))
	}

	fmt.Printf("@%s <%s>\n", user.Handle, user.Email)
	fmt.Printf("  role:   %s\n", user.Role)
	fmt.Printf("  status: %s\n", user.Status)
	fmt.Printf("  since:  %s\n", user.CreatedAt.Format("Jan 2, 2006"))
	return nil
}
