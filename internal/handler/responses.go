package handler

import (
	"errors"
	"net/http"

	"github.com/hitoshi/supavacation/internal/middleware"
	"github.com/hitoshi/supavacation/internal/model"
)

// writeMessage はフラットな {"message": ...} ボディを書き込む。
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	middleware.WriteMessageResponse(w, statusCode, message)
}

func writeUnauthorized(w http.ResponseWriter) {
	middleware.WriteUnauthorizedResponse(w)
}

func writeInternalServerError(w http.ResponseWriter) {
	middleware.WriteInternalServerError(w)
}

// asAPIError はerrをAPIErrorとして取り出す。
func asAPIError(err error, target **model.APIError) bool {
	return errors.As(err, target)
}
