package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/supavacation/internal/model"
)

// PostgresHomeRepo はPostgreSQLを使用した物件リポジトリ。
type PostgresHomeRepo struct {
	db *sql.DB
}

// NewPostgresHomeRepo はPostgresHomeRepoを生成する。
func NewPostgresHomeRepo(db *sql.DB) *PostgresHomeRepo {
	return &PostgresHomeRepo{db: db}
}

// Create は物件を作成する。
// owner_idの外部キー制約違反（存在しないユーザー）はそのままエラーとして返す。
func (r *PostgresHomeRepo) Create(ctx context.Context, home *model.Home) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO homes (id, image, title, description, price, guests, beds, baths, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		home.ID, home.Image, home.Title, home.Description, home.Price,
		home.Guests, home.Beds, home.Baths, home.OwnerID, home.CreatedAt, home.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert home: %w", err)
	}
	return nil
}

// compile-time interface check
var _ HomeRepository = (*PostgresHomeRepo)(nil)
