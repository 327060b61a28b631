package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorResponseBody はAPIエラーレスポンスのフラットな統一フォーマット。
// 内部のエラー分類（コードやカテゴリ）はクライアントに公開しない。
type ErrorResponseBody struct {
	Message string `json:"message"`
}

// WriteMessageResponse は指定されたステータスコードとメッセージで
// JSONエラーレスポンスを書き込む。
func WriteMessageResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{Message: message})
}

// WriteUnauthorizedResponse は未認証の統一レスポンスを書き込む。
func WriteUnauthorizedResponse(w http.ResponseWriter) {
	WriteMessageResponse(w, http.StatusUnauthorized, "Unauthorized.")
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteMessageResponse(w, http.StatusInternalServerError, "Something went wrong")
}
