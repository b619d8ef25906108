package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bookdesk/internal/core"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive assistant session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close store: %v\n", err)
		}
	}()

	sessionID := core.NewSessionID()
	defer app.Router.Sessions().End(sessionID)

	fmt.Println("📚 Bookdesk — type your request, or 'exit' to quit.")
	fmt.Println()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the session cleanly
			fmt.Println()
			return nil
		}

		request := strings.TrimSpace(line)
		if request == "" {
			continue
		}
		if request == "exit" || request == "quit" {
			fmt.Println("👋 Bye!")
			return nil
		}

		reply := app.Router.Handle(ctx, sessionID, request)
		fmt.Printf("\n%s\n\n", reply)
	}
}
