package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookdesk/internal/core"
)

var rootCmd = &cobra.Command{
	Use:   "bookdesk",
	Short: "Conversational bookstore assistant",
	Long: `Bookdesk is a conversational assistant for a bookstore. It routes
free-text requests to one of four handlers:

- lookup: structured catalog questions (price, stock, author, category)
- recommend: suggestions via semantic similarity over book descriptions
- order: a multi-turn slot-filling dialogue that collects, confirms and
  places book orders against the inventory
- chat: general conversation for everything else

Requires OPENROUTER_API_KEY. See bookdesk.yaml for model and database
settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadApp loads configuration, installs logging and assembles the application.
func loadApp() (*core.App, error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	core.SetupLogger(cfg.LogLevel)

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set\n\nSet it with: export OPENROUTER_API_KEY=sk-or-v1-...")
	}

	return core.NewApp(cfg)
}

func main() {
	Execute()
}
