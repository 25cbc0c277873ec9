package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cipherchat/internal/client"
)

// keygen <label>: generate an X25519 keypair and store it locally.
func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <label>",
		Short: "Generate a keypair for public-key mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := homeDir()
			if err != nil {
				return err
			}

			id, err := client.NewIdentity(args[0])
			if err != nil {
				return err
			}
			if err := client.SaveIdentity(dir, id); err != nil {
				return err
			}

			fmt.Printf("Generated keypair for %s\n", id.UserLabel)
			fmt.Printf("Public key: %s\n", id.PublicKey)
			fmt.Printf("Stored in %s (run 'chat signup' to publish)\n", dir)
			return nil
		},
	}
}
