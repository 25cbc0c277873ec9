package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cipherchat/internal/client"
)

// rooms: list live rooms on the relay.
func roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List live rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := client.NewDirectory(serverURL).ListRooms()
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Println("No rooms yet. Join one to create it.")
				return nil
			}
			for _, r := range rooms {
				fmt.Printf("%-24s %d/%d\n", r.RoomID, r.Count, r.Capacity)
			}
			return nil
		},
	}
}
