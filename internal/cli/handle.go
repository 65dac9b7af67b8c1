package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var handleCmd = &cobra.Command{
	Use:   "handle <new-handle>",
	Short: "Change your handle",
	Args:  cobra.ExactArgs(1),
	RunE:  runHandle,
}

func runHandle(cmd *cobra.Command, args []string) error {
	a := newApp()
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	newHandle := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
	if newHandle == "" {
		return fmt.Errorf("handle required")
	}

	user, err := a.api.UpdateHandle(context.Background(), newHandle)
	if err != nil {
		return fmt.Errorf("failed to update handle: %s", notice(err))
	}

	fmt.Printf("✅ You are now @%s\n", user.Handle)
	return nil
}
