package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	home      string
)

func Execute() {
	root := &cobra.Command{
		Use:   "chat",
		Short: "End-to-end encrypted room chat over an untrusted relay",
		Long: `chat talks to a relay that only ever sees ciphertext. Keys are derived
from the shared room password, or negotiated via X25519 using public keys
published in the relay's directory. Either way the relay cannot read a word.`,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:4000", "relay base URL")
	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.cipherchat)")

	root.AddCommand(keygenCmd(), signupCmd(), roomsCmd(), joinCmd())

	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func homeDir() (string, error) {
	if home != "" {
		return home, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".cipherchat"), nil
}
