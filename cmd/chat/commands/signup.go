package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cipherchat/internal/client"
)

// signup: publish the stored public key to the relay's directory.
func signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Publish your public key to the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := homeDir()
			if err != nil {
				return err
			}
			id, err := client.LoadIdentity(dir)
			if err != nil {
				return err
			}
			pub, err := id.Public()
			if err != nil {
				return err
			}

			if err := client.NewDirectory(serverURL).Signup(id.UserLabel, pub); err != nil {
				return err
			}
			fmt.Printf("Published public key for %s\n", id.UserLabel)
			return nil
		},
	}
}
