package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/questiongen"
)

// CatalogLoader reads the beverage catalog from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

// LoadCatalog returns the items of category, or every item when category is
// empty. Category labels are matched the same way question tables are picked,
// so "Вино" and "Wine" select the same rows.
func (l *CatalogLoader) LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, name, category, sweetness, color, country, style,
		       alcohol_percent, ingredients, serving_method, glassware, description
		FROM catalog_items
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Sweetness, &item.Color,
			&item.Country, &item.Style, &item.AlcoholPercent, &item.Ingredients,
			&item.ServingMethod, &item.Glassware, &item.Description,
		); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return questiongen.Candidates(items, category), nil
}
