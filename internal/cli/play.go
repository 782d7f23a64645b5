package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Connect to the game server and play interactively",
		Long: `play opens a persistent connection to the game server and relays
the line protocol between your terminal and the server: server prompts go
to stdout, your input lines go to the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cfg.GameAddr)
		},
	}
}

func runPlay(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	fmt.Printf("Connected to %s\n", addr)

	// Server to terminal; a read error means the server hung up and the
	// session is over
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(os.Stdout, conn)
	}()

	// Terminal to server
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if _, err := fmt.Fprintln(conn, scanner.Text()); err != nil {
				return
			}
		}
		// Stdin closed; hang up our side so the server cleans up
		_ = conn.Close()
	}()

	<-done
	fmt.Println("Connection closed.")
	return nil
}
