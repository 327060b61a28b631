// Package auth はマジックリンク認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/supavacation/internal/email"
	"github.com/hitoshi/supavacation/internal/model"
	"github.com/hitoshi/supavacation/internal/repository"
)

// メール件名（original: SupaVacation）
const (
	subjectSignIn  = "Your sign-in link for SupaVacation"
	subjectWelcome = "Welcome to SupaVacation! 🎉"
)

// メール種別（メトリクスのラベル）
const (
	emailKindConfirm = "confirm"
	emailKindWelcome = "welcome"
)

// TemplateRenderer はメールテンプレートの描画インターフェース。
// email.Rendererの部分集合として定義する。
type TemplateRenderer interface {
	Render(name string, vars map[string]string) (string, error)
}

// MetricsRecorder は認証フローのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordMagicLinkIssued()
	RecordMagicLinkConsumed()
	RecordMagicLinkRejected(reason string)
	RecordEmailSent(kind string)
	RecordEmailFailed(kind string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BaseURL         string        // アプリケーションのルートURL（リンク生成に使用）
	SupportEmail    string        // ウェルカムメールに埋め込むサポート窓口
	SessionMaxAge   int           // セッション有効期間（秒）
	MagicLinkMaxAge time.Duration // マジックリンクの有効期間
}

// Service はマジックリンク認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokenRepo   repository.LoginTokenRepository
	sender      email.Sender
	renderer    TemplateRenderer
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokenRepo repository.LoginTokenRepository,
	sender email.Sender,
	renderer TemplateRenderer,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenRepo:   tokenRepo,
		sender:      sender,
		renderer:    renderer,
		metrics:     metrics,
		config:      config,
	}
}

// RequestSignIn はメールアドレスに対してマジックリンクを発行し、
// 確認メールの送信をディスパッチする。
//
// 送信はリクエストを待たせないよう非同期に行い、配送失敗はログと
// メトリクスにのみ記録する（クライアントには伝播しない）。アカウントの
// 存在有無を漏らさないため、ユーザー登録済みかどうかは確認しない。
func (s *Service) RequestSignIn(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if !isValidEmail(identifier) {
		return model.NewInvalidEmailError(identifier)
	}

	// トークンを発行（本体はメールにのみ載せ、DBにはハッシュを保存）
	rawToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate login token: %w", err)
	}

	now := time.Now()
	token := &model.LoginToken{
		ID:        uuid.New().String(),
		Email:     identifier,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(s.config.MagicLinkMaxAge),
		CreatedAt: now,
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to save login token: %w", err)
	}

	signinURL := fmt.Sprintf("%s/auth/callback?token=%s&email=%s",
		s.config.BaseURL, rawToken, url.QueryEscape(identifier))

	html, err := s.renderer.Render(email.TemplateConfirmEmail, map[string]string{
		"base_url":   s.config.BaseURL,
		"signin_url": signinURL,
		"email":      identifier,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirm email: %w", err)
	}

	slog.Info("magic link requested",
		slog.String("identifier", identifier),
		slog.Time("expires_at", token.ExpiresAt),
	)
	if s.metrics != nil {
		s.metrics.RecordMagicLinkIssued()
	}

	// 確認メールはレスポンスを待たせず送信する。
	// 失敗してもリクエスト自体は成功として扱う。
	go func() {
		if err := s.sender.Send(identifier, subjectSignIn, html); err != nil {
			slog.Error("failed to send confirm email",
				slog.String("identifier", identifier),
				slog.String("error", err.Error()),
			)
			if s.metrics != nil {
				s.metrics.RecordEmailFailed(emailKindConfirm)
			}
			return
		}
		if s.metrics != nil {
			s.metrics.RecordEmailSent(emailKindConfirm)
		}
	}()

	return nil
}

// VerifySignIn はマジックリンクのトークンを検証・消費し、セッションを発行する。
// 初回サインインの場合はユーザーを作成し、作成が確定した後に
// ウェルカムメールを送信する（失敗はログのみで、サインインは成功させる）。
func (s *Service) VerifySignIn(ctx context.Context, rawToken string) (*model.Session, error) {
	if rawToken == "" {
		s.rejectMagicLink("invalid")
		return nil, model.NewTokenInvalidError()
	}

	tokenHash := hashToken(rawToken)

	token, err := s.tokenRepo.FindByHash(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to find login token: %w", err)
	}
	if token == nil {
		s.rejectMagicLink("invalid")
		return nil, model.NewTokenInvalidError()
	}
	if token.ConsumedAt != nil {
		s.rejectMagicLink("consumed")
		return nil, model.NewTokenConsumedError()
	}
	if !token.ExpiresAt.After(time.Now()) {
		s.rejectMagicLink("expired")
		return nil, model.NewTokenExpiredError()
	}

	// ワンタイム消費。並行する同一リンクの検証は一方だけが成功する。
	consumed, err := s.tokenRepo.MarkConsumed(ctx, tokenHash, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to consume login token: %w", err)
	}
	if !consumed {
		s.rejectMagicLink("consumed")
		return nil, model.NewTokenConsumedError()
	}

	if s.metrics != nil {
		s.metrics.RecordMagicLinkConsumed()
	}

	// ユーザーを解決。初回サインインならここで作成する。
	user, err := s.userRepo.FindByEmail(ctx, token.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &model.User{
			ID:        uuid.New().String(),
			Email:     token.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)

		// ウェルカムメールはユーザー作成の確定後にのみ送信する。
		// 配送失敗はサインインを妨げない。
		s.sendWelcomeEmail(user.Email)
	} else {
		slog.Info("existing user signed in",
			slog.String("user_id", user.ID),
		)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// sendWelcomeEmail はウェルカムメールを送信する。
// 失敗はログとメトリクスにのみ記録し、呼び出し元には伝播させない。
func (s *Service) sendWelcomeEmail(to string) {
	html, err := s.renderer.Render(email.TemplateWelcome, map[string]string{
		"base_url":      s.config.BaseURL,
		"support_email": s.config.SupportEmail,
	})
	if err != nil {
		slog.Error("failed to render welcome email",
			slog.String("email", to),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordEmailFailed(emailKindWelcome)
		}
		return
	}

	if err := s.sender.Send(to, subjectWelcome, html); err != nil {
		slog.Error("failed to send welcome email",
			slog.String("email", to),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordEmailFailed(emailKindWelcome)
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordEmailSent(emailKindWelcome)
	}
}

// rejectMagicLink はマジックリンクの拒否を理由付きでメトリクスに記録する。
func (s *Service) rejectMagicLink(reason string) {
	if s.metrics != nil {
		s.metrics.RecordMagicLinkRejected(reason)
	}
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// isValidEmail はメールアドレスの形式を簡易チェックする。
// 厳密なバリデーションは行わない（実在確認はリンクの受信自体が担う）。
func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

// generateToken は暗号的に安全なワンタイムトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken はトークンの保存用SHA-256ハッシュを計算する。
func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
