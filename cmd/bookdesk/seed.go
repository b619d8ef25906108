package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookdesk/internal/store"
)

var seedEmbed bool

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml>",
	Short: "Load a catalog file into the database",
	Long: `Seed loads books from a YAML catalog file into the SQLite database,
inserting new entries and updating existing ones by ID.

With --embed, descriptions of new or changed books are embedded via the
configured embedding model so they become available to the recommender.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(args[0])
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedEmbed, "embed", false, "Compute embeddings for book descriptions")
}

// catalogFile is the YAML shape of a seedable catalog.
type catalogFile struct {
	Books []catalogEntry `yaml:"books"`
}

type catalogEntry struct {
	ID          int64   `yaml:"id"`
	Title       string  `yaml:"title"`
	Author      string  `yaml:"author"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Stock       int64   `yaml:"stock"`
	Description string  `yaml:"description"`
}

func runSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}
	if len(catalog.Books) == 0 {
		return fmt.Errorf("catalog file contains no books")
	}

	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	for _, entry := range catalog.Books {
		if entry.ID <= 0 || entry.Title == "" {
			return fmt.Errorf("invalid catalog entry (id=%d title=%q): id and title are required", entry.ID, entry.Title)
		}

		err := app.Store.UpsertBook(ctx, &store.Book{
			ID:          entry.ID,
			Title:       entry.Title,
			Author:      entry.Author,
			Category:    entry.Category,
			Price:       entry.Price,
			Stock:       entry.Stock,
			Description: entry.Description,
		})
		if err != nil {
			return err
		}
	}
	fmt.Printf("✅ Seeded %d books\n", len(catalog.Books))

	if !seedEmbed {
		return nil
	}

	pending, err := app.Store.BooksWithoutEmbeddings(ctx)
	if err != nil {
		return err
	}

	for _, b := range pending {
		text := fmt.Sprintf("%s by %s (%s). %s", b.Title, b.Author, b.Category, b.Description)
		vector, err := app.LLM.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed book %d: %w", b.ID, err)
		}
		if err := app.Store.SetBookEmbedding(ctx, b.ID, vector); err != nil {
			return err
		}
	}
	fmt.Printf("✅ Embedded %d books\n", len(pending))

	return nil
}
