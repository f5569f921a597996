package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciphera/internal/domain"
)

// whoamiCmd prints the locally cached pre-key bundle for a username, without
// contacting the relay.
func whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami <username>",
		Short: "Show the locally cached pre-key bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			usernameValue := domain.Username(args[0])

			bundle, found, err := appCtx.PreKeyService.CachedBundle(usernameValue)
			if err != nil {
				return fmt.Errorf("loading cached bundle: %w", err)
			}
			if !found {
				fmt.Println("No cached bundle. Run 'register' first.")
				return nil
			}

			fmt.Printf("Username:        %s\n", bundle.Username)
			fmt.Printf("Signed pre-key:  %s\n", bundle.SignedPreKey.ID)
			fmt.Printf("One-time keys:   %d\n", len(bundle.OneTimePreKeys))
			return nil
		},
	}
	return cmd
}
