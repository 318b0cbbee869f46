package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/infra/memory"
	"beverage-quiz-service/internal/infra/postgres"
)

// NewSeedCmd loads catalog items into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog items into the database (built-in sample by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			items := memory.SampleCatalog()
			if file != "" {
				if items, err = readCatalogFile(file); err != nil {
					return err
				}
			}

			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			if err := migrateDB(cmd.Context(), db, log); err != nil {
				return err
			}
			n, err := postgres.NewCatalogStore(db).Upsert(cmd.Context(), items)
			if err != nil {
				return err
			}
			log.Info("catalog seeded", zap.Int("items", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of catalog items")
	return cmd
}

func readCatalogFile(path string) ([]domain.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, item := range items {
		if item.ID == "" || item.Name == "" || item.Category == "" {
			return nil, fmt.Errorf("item %d: id, name and category are required", i)
		}
	}
	return items, nil
}
