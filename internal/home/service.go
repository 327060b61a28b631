// Package home は物件管理のドメインロジックを提供する。
package home

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/supavacation/internal/model"
	"github.com/hitoshi/supavacation/internal/repository"
)

// Sanitizer はユーザー入力のHTMLサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// MetricsRecorder は物件作成のメトリクス記録インターフェース。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordHomeCreated()
}

// CreateHomeInput は物件作成の入力。
// OwnerはここにはなくセッションのユーザーIDから解決する。
type CreateHomeInput struct {
	Image       string
	Title       string
	Description string
	Price       float64
	Guests      int
	Beds        int
	Baths       int
}

// Service は物件管理のサービス層。
type Service struct {
	homeRepo  repository.HomeRepository
	userRepo  repository.UserRepository
	sanitizer Sanitizer
	metrics   MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	homeRepo repository.HomeRepository,
	userRepo repository.UserRepository,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		homeRepo:  homeRepo,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// CreateHome はセッションから解決したユーザーを所有者として物件を作成する。
// セッションが参照するユーザーが存在しない場合（削除済み等）は
// USER_NOT_FOUNDを返し、ハンドラー境界では汎用の500として扱われる。
func (s *Service) CreateHome(ctx context.Context, userID string, input CreateHomeInput) (*model.Home, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	now := time.Now()
	home := &model.Home{
		ID:          uuid.New().String(),
		Image:       input.Image,
		Title:       s.sanitize(input.Title),
		Description: s.sanitize(input.Description),
		Price:       input.Price,
		Guests:      input.Guests,
		Beds:        input.Beds,
		Baths:       input.Baths,
		OwnerID:     user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.homeRepo.Create(ctx, home); err != nil {
		return nil, fmt.Errorf("failed to create home: %w", err)
	}

	slog.Info("home created",
		slog.String("home_id", home.ID),
		slog.String("owner_id", home.OwnerID),
	)
	if s.metrics != nil {
		s.metrics.RecordHomeCreated()
	}

	return home, nil
}

// sanitize はサニタイザーが設定されている場合のみ入力を通す。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}
