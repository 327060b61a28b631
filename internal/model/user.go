// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// メールアドレスがサインイン識別子となる（パスワードは持たない）。
type User struct {
	ID        string
	Email     string
	Name      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// ランダムなIDをHTTP Only Cookieで持ち回り、DBで有効性を検証する。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginToken はマジックリンクのワンタイムトークンを表す。
// トークン本体は保存せず、SHA-256ハッシュのみを永続化する。
// ユーザー登録前のメールアドレスにも発行できるよう、user_idではなく
// emailに紐付ける。
type LoginToken struct {
	ID         string
	Email      string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
