package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	lobbyCmd := &cobra.Command{
		Use:   "lobby",
		Short: "Inspect lobbies",
	}

	lobbyCmd.AddCommand(newLobbyGetCmd())

	return lobbyCmd
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a lobby's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby
			path := fmt.Sprintf("/api/v1/lobbies/%s", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
