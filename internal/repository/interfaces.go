// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/supavacation/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// LoginTokenRepository はマジックリンクトークンの永続化インターフェース。
type LoginTokenRepository interface {
	// Create はトークンを作成する。同一メールアドレスの未使用トークンは
	// 同時に失効させる（常に最新のリンクのみが有効）。
	Create(ctx context.Context, token *model.LoginToken) error

	// FindByHash はトークンハッシュでトークンを検索する。
	// 使用済み・期限切れもそのまま返す（状態判定はサービス層で行う）。
	// 見つからない場合はnilを返す。
	FindByHash(ctx context.Context, tokenHash string) (*model.LoginToken, error)

	// MarkConsumed は未使用のトークンを使用済みにする。
	// 既に使用済みの場合はfalseを返す。
	// ワンタイム性はUPDATE ... WHERE consumed_at IS NULLの行数で保証する。
	MarkConsumed(ctx context.Context, tokenHash string, now time.Time) (bool, error)

	// DeleteExpired は期限切れまたは使用済みのトークンを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// HomeRepository は物件データの永続化インターフェース。
type HomeRepository interface {
	// Create は物件を作成する。
	Create(ctx context.Context, home *model.Home) error
}
