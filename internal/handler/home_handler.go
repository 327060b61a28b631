package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/supavacation/internal/home"
	"github.com/hitoshi/supavacation/internal/middleware"
	"github.com/hitoshi/supavacation/internal/model"
)

// HomeServiceInterface は物件ハンドラーが必要とするサービスインターフェース。
type HomeServiceInterface interface {
	CreateHome(ctx context.Context, userID string, input home.CreateHomeInput) (*model.Home, error)
}

// HomeHandler は物件リスティング関連のHTTPハンドラー。
type HomeHandler struct {
	service HomeServiceInterface
}

// NewHomeHandler はHomeHandlerを生成する。
func NewHomeHandler(service HomeServiceInterface) *HomeHandler {
	return &HomeHandler{service: service}
}

// createHomeRequest は物件作成リクエストのボディ。
type createHomeRequest struct {
	Image       string  `json:"image"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Guests      int     `json:"guests"`
	Beds        int     `json:"beds"`
	Baths       int     `json:"baths"`
}

// homeResponse は作成済み物件のレスポンス表現。
type homeResponse struct {
	ID          string    `json:"id"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Guests      int       `json:"guests"`
	Beds        int       `json:"beds"`
	Baths       int       `json:"baths"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Handle は /api/homes への全リクエストを処理する。
// POST以外のメソッドは405を返す（Allowヘッダー付き）。
func (h *HomeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// セッションミドルウェアが設定したユーザーIDを取得
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeMessage(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("HTTP method %s is not supported.", r.Method))
		return
	}

	var req createHomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// ボディの異常も永続化失敗と同じ扱い（エラー詳細は開示しない）
		slog.Warn("failed to decode home request", slog.String("error", err.Error()))
		writeInternalServerError(w)
		return
	}

	created, err := h.service.CreateHome(r.Context(), userID, home.CreateHomeInput{
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Guests:      req.Guests,
		Beds:        req.Beds,
		Baths:       req.Baths,
	})
	if err != nil {
		slog.Error("failed to create home",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(homeResponse{
		ID:          created.ID,
		Image:       created.Image,
		Title:       created.Title,
		Description: created.Description,
		Price:       created.Price,
		Guests:      created.Guests,
		Beds:        created.Beds,
		Baths:       created.Baths,
		OwnerID:     created.OwnerID,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	})
}
