package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"beverage-quiz-service/internal/domain"
)

// ResultStore keeps answer and session history in Postgres. It implements
// app.AnswerSubmitter and app.ResultPersister; both writes are idempotent.
type ResultStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

func (s *ResultStore) SubmitAnswer(ctx context.Context, userID string, sub domain.AnswerSubmission) error {
	row := toAnswerModel(userID, sub, s.now())
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (session_id, question_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *ResultStore) PersistResults(ctx context.Context, userID string, res domain.SessionResult) error {
	row := toResultModel(userID, res)
	answers := answersFromResult(userID, res)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(&row).
			On("CONFLICT (session_id) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		_, err := tx.NewInsert().
			Model(&answers).
			On("CONFLICT (session_id, question_id) DO NOTHING").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	return nil
}

// History lists a user's completed sessions, newest first.
func (s *ResultStore) History(ctx context.Context, userID string, limit int) ([]domain.SessionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []sessionResultModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]domain.SessionResult, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// CatalogStore writes catalog items; reads go through CatalogLoader.
type CatalogStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewCatalogStore(db *bun.DB) *CatalogStore {
	return &CatalogStore{db: db, now: time.Now}
}

// Upsert inserts items or refreshes existing ones by id.
func (s *CatalogStore) Upsert(ctx context.Context, items []domain.CatalogItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	now := s.now()
	rows := make([]catalogItemModel, len(items))
	for i, item := range items {
		rows[i] = toCatalogModel(item, now)
	}
	res, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("category = EXCLUDED.category").
		Set("sweetness = EXCLUDED.sweetness").
		Set("color = EXCLUDED.color").
		Set("country = EXCLUDED.country").
		Set("style = EXCLUDED.style").
		Set("alcohol_percent = EXCLUDED.alcohol_percent").
		Set("ingredients = EXCLUDED.ingredients").
		Set("serving_method = EXCLUDED.serving_method").
		Set("glassware = EXCLUDED.glassware").
		Set("description = EXCLUDED.description").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert catalog: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
