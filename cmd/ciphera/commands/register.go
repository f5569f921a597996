package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciphera/internal/domain"
)

// registerCmd generates a signed pre-key and a batch of one-time pre-keys,
// assembles them into a pre-key bundle, and publishes it to the relay.
func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Publish your prekey bundle to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			usernameValue := domain.Username(args[0])

			// Generate and store a signed pre-key plus N one-time pre-keys.
			if _, _, err := appCtx.PreKeyService.GenerateAndStorePreKeys(passphrase, 10); err != nil {
				return fmt.Errorf("generating prekeys: %w", err)
			}

			// Assemble the bundle and publish it to the configured relay.
			if _, err := appCtx.PreKeyService.LoadPreKeyBundle(passphrase, usernameValue, relayURL); err != nil {
				return fmt.Errorf("publishing bundle for %q: %w", usernameValue, err)
			}

			fmt.Println("Registered pre-keys with relay")
			return nil
		},
	}
	return cmd
}
