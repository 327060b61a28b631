package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/supavacation/internal/model"
)

// PostgresLoginTokenRepo はPostgreSQLを使用したマジックリンクトークンリポジトリ。
type PostgresLoginTokenRepo struct {
	db *sql.DB
}

// NewPostgresLoginTokenRepo はPostgresLoginTokenRepoを生成する。
func NewPostgresLoginTokenRepo(db *sql.DB) *PostgresLoginTokenRepo {
	return &PostgresLoginTokenRepo{db: db}
}

// Create はトークンを作成する。同一メールアドレスの未使用トークンは
// 同一トランザクションで失効させる。
func (r *PostgresLoginTokenRepo) Create(ctx context.Context, token *model.LoginToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 既存の未使用トークンを失効させる
	_, err = tx.ExecContext(ctx,
		`UPDATE login_tokens SET consumed_at = now()
		 WHERE email = $1 AND consumed_at IS NULL`,
		token.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO login_tokens (id, email, token_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.Email, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByHash はトークンハッシュでトークンを検索する。見つからない場合はnilを返す。
func (r *PostgresLoginTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*model.LoginToken, error) {
	token := &model.LoginToken{}
	var consumedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, token_hash, expires_at, consumed_at, created_at
		 FROM login_tokens
		 WHERE token_hash = $1`,
		tokenHash,
	).Scan(&token.ID, &token.Email, &token.TokenHash, &token.ExpiresAt, &consumedAt, &token.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find login token: %w", err)
	}

	if consumedAt.Valid {
		token.ConsumedAt = &consumedAt.Time
	}

	return token, nil
}

// MarkConsumed は未使用のトークンを使用済みにする。
// UPDATE ... WHERE consumed_at IS NULLの行数で判定するため、
// 同一トークンの並行消費は一方だけが成功する。
func (r *PostgresLoginTokenRepo) MarkConsumed(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE login_tokens SET consumed_at = $2
		 WHERE token_hash = $1 AND consumed_at IS NULL`,
		tokenHash, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark login token consumed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteExpired は期限切れまたは使用済みのトークンを削除し、削除件数を返す。
func (r *PostgresLoginTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM login_tokens WHERE expires_at <= now() OR consumed_at IS NOT NULL`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired login tokens: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ LoginTokenRepository = (*PostgresLoginTokenRepo)(nil)
