// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は内部エラーの分類を表す。
// ハンドラー境界でHTTPステータスとフラットなレスポンスボディに変換する。
// クライアントにはCodeやCategoryは返さない（テストでの種別判定に使う）。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, persistence, mail
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInvalidEmail   = "INVALID_EMAIL"
	ErrCodeTokenInvalid   = "TOKEN_INVALID"
	ErrCodeTokenExpired   = "TOKEN_EXPIRED"
	ErrCodeTokenConsumed  = "TOKEN_CONSUMED"
	ErrCodeUserNotFound   = "USER_NOT_FOUND"
	ErrCodePersistence    = "PERSISTENCE_ERROR"
	ErrCodeMailDelivery   = "MAIL_DELIVERY_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "authentication required",
		Category: "auth",
	}
}

// NewInvalidEmailError は無効なメールアドレスエラーを生成する。
func NewInvalidEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  fmt.Sprintf("invalid email address: %s", email),
		Category: "validation",
	}
}

// NewTokenInvalidError は不正なトークンエラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "sign-in link is invalid",
		Category: "auth",
	}
}

// NewTokenExpiredError は期限切れトークンエラーを生成する。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenExpired,
		Message:  "sign-in link has expired",
		Category: "auth",
	}
}

// NewTokenConsumedError は使用済みトークンエラーを生成する。
func NewTokenConsumedError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenConsumed,
		Message:  "sign-in link has already been used",
		Category: "auth",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "user not found",
		Category: "persistence",
	}
}

// NewPersistenceError は永続化層の失敗を生成する。
// 詳細はログのみに記録し、クライアントには汎用メッセージを返す。
func NewPersistenceError(op string) *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  fmt.Sprintf("persistence operation failed: %s", op),
		Category: "persistence",
	}
}

// NewMailDeliveryError はメール配送失敗を生成する。
// 呼び出し側でログに記録するのみで、クライアントには伝播させない。
func NewMailDeliveryError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMailDelivery,
		Message:  fmt.Sprintf("mail delivery failed: %s", reason),
		Category: "mail",
	}
}
