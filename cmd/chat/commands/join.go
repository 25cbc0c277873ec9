package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cipherchat/internal/client"
	"cipherchat/internal/crypto"
)

// join <roomId>: enter a room and chat until EOF or interrupt.
func joinCmd() *cobra.Command {
	var (
		password string
		name     string
		peer     string
	)

	cmd := &cobra.Command{
		Use:   "join <roomId>",
		Short: "Join a room and chat",
		Long: `Join a room on the relay. The first join for an unknown room creates it
and pins its password.

By default the message key is derived from the room password. With --peer,
the peer's public key is fetched from the directory and an X25519 exchange
derives the key instead; the room password then only gates admission.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			key, label, err := establishKey(password, name, peer)
			if err != nil {
				return err
			}

			chat, err := client.Dial(serverURL, key, label)
			if err != nil {
				return err
			}
			defer chat.Close()

			if err := chat.Join(roomID, password); err != nil {
				return err
			}
			fmt.Printf("Joined %s as %s (%s key)\n", roomID, label, key.Mode)

			go func() {
				for ev := range chat.Events() {
					if ev.System {
						fmt.Printf("* %s\n", ev.Text)
						continue
					}
					fmt.Printf("%s: %s\n", ev.Sender, ev.Text)
				}
				fmt.Println("* connection closed")
				os.Exit(0)
			}()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			go func() {
				<-interrupt
				chat.Close()
				os.Exit(0)
			}()

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				if err := chat.Send(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "room password")
	cmd.Flags().StringVar(&name, "name", "", "display name (default: identity label, or anonymous)")
	cmd.Flags().StringVar(&peer, "peer", "", "peer label for public-key mode")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// establishKey picks the key-establishment mode. Password mode needs nothing
// but the room password; public-key mode needs a local identity and the
// peer's directory entry.
func establishKey(password, name, peer string) (crypto.KeyMaterial, string, error) {
	if peer == "" {
		label := name
		if label == "" {
			label = "anonymous"
		}
		return client.PasswordKey(password), label, nil
	}

	dir, err := homeDir()
	if err != nil {
		return crypto.KeyMaterial{}, "", err
	}
	id, err := client.LoadIdentity(dir)
	if err != nil {
		return crypto.KeyMaterial{}, "", err
	}
	priv, err := id.Private()
	if err != nil {
		return crypto.KeyMaterial{}, "", err
	}

	key, err := client.ExchangeKey(client.NewDirectory(serverURL), peer, priv)
	if err != nil {
		return crypto.KeyMaterial{}, "", err
	}

	label := name
	if label == "" {
		label = id.UserLabel
	}
	return key, label, nil
}
