package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/supavacation/internal/middleware"
)

// HealthChecker は依存先の疎通確認インターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusRecorder    middleware.StatusRecorder
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 物件
	HomeService HomeServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → RecoveryMiddleware → LoggingMiddleware
//	→ (認証ルート: CSRF / サインイン専用レート制限)
//	→ (APIルート: SessionMiddleware → RateLimitMiddleware(General))
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	homeHandler := NewHomeHandler(deps.HomeService)

	// --- 認証ルート（セッション不要） ---
	r.Route("/auth", func(r chi.Router) {
		// CSRFトークン配布
		r.Method(http.MethodGet, "/csrf", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 状態変更ルートはCSRF検証を通す
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

			// マジックリンク発行（IP単位の専用レート制限を追加）
			r.With(deps.RateLimiter.SigninMiddleware()).Post("/signin", authHandler.Signin)
			r.Post("/logout", authHandler.Logout)
		})

		// マジックリンクのコールバック（メールから直接開かれるのでCSRF対象外）
		r.Get("/callback", authHandler.Callback)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 物件リスティング
		// メソッド分岐はハンドラー側で行う（POST以外は405 + Allowヘッダー）
		r.Route("/api/homes", func(r chi.Router) {
			r.HandleFunc("/", homeHandler.Handle)
		})
	})

	// ヘルスチェック
	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	return r
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeMessage(w, http.StatusServiceUnavailable, "Service unavailable.")
				return
			}
		}
		writeMessage(w, http.StatusOK, "ok")
	}
}
