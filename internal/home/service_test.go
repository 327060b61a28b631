package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/supavacation/internal/model"
	"github.com/hitoshi/supavacation/internal/repository"
)

// --- モック定義 ---

type mockHomeRepo struct {
	createFn func(ctx context.Context, home *model.Home) error
}

func (m *mockHomeRepo) Create(ctx context.Context, home *model.Home) error {
	if m.createFn != nil {
		return m.createFn(ctx, home)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(_ context.Context, _ *model.User) error {
	return nil
}

type mockSanitizer struct {
	sanitizeFn func(rawHTML string) string
}

func (m *mockSanitizer) Sanitize(rawHTML string) string {
	if m.sanitizeFn != nil {
		return m.sanitizeFn(rawHTML)
	}
	return rawHTML
}

// --- compile-time interface checks ---
var _ repository.HomeRepository = (*mockHomeRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ Sanitizer = (*mockSanitizer)(nil)

func existingUserRepo(userID string) *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "owner@example.com"}, nil
		},
	}
}

// --- テスト ---

func TestCreateHome_OwnerComesFromSessionUser(t *testing.T) {
	ctx := context.Background()

	var savedHome *model.Home
	homeRepo := &mockHomeRepo{
		createFn: func(ctx context.Context, home *model.Home) error {
			savedHome = home
			return nil
		},
	}

	svc := NewService(homeRepo, existingUserRepo("user-1"), nil, nil)

	input := CreateHomeInput{
		Image:       "https://example.com/villa.jpg",
		Title:       "Ocean View Villa",
		Description: "A relaxing villa by the sea.",
		Price:       250,
		Guests:      4,
		Beds:        2,
		Baths:       1,
	}

	created, err := svc.CreateHome(ctx, "user-1", input)
	if err != nil {
		t.Fatalf("CreateHome() error = %v", err)
	}

	if created.ID == "" {
		t.Error("expected non-empty home ID")
	}
	// 所有者はリクエストボディではなくセッションのユーザーから決まる
	if created.OwnerID != "user-1" {
		t.Errorf("owner ID = %q, want user-1", created.OwnerID)
	}
	if created.Title != "Ocean View Villa" {
		t.Errorf("title = %q", created.Title)
	}
	if created.Price != 250 || created.Guests != 4 || created.Beds != 2 || created.Baths != 1 {
		t.Errorf("unexpected numeric fields: %+v", created)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	if savedHome == nil {
		t.Fatal("expected home to be persisted")
	}
	if savedHome.ID != created.ID {
		t.Error("persisted home should match the returned home")
	}
}

func TestCreateHome_SanitizesTitleAndDescription(t *testing.T) {
	ctx := context.Background()

	sanitizer := &mockSanitizer{
		sanitizeFn: func(rawHTML string) string {
			return strings.ReplaceAll(rawHTML, "<script>", "")
		},
	}

	svc := NewService(&mockHomeRepo{}, existingUserRepo("user-1"), sanitizer, nil)

	created, err := svc.CreateHome(ctx, "user-1", CreateHomeInput{
		Title:       "<script>Nice Place",
		Description: "<script>Cozy",
	})
	if err != nil {
		t.Fatalf("CreateHome() error = %v", err)
	}

	if strings.Contains(created.Title, "<script>") {
		t.Errorf("title should be sanitized: %q", created.Title)
	}
	if strings.Contains(created.Description, "<script>") {
		t.Errorf("description should be sanitized: %q", created.Description)
	}
}

func TestCreateHome_UserNotFound_ReturnsError(t *testing.T) {
	ctx := context.Background()

	// セッションが参照するユーザーが削除済みのケース
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(&mockHomeRepo{}, userRepo, nil, nil)

	_, err := svc.CreateHome(ctx, "deleted-user", CreateHomeInput{Title: "Villa"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("error = %v, want USER_NOT_FOUND", err)
	}
}

func TestCreateHome_PersistenceError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	homeRepo := &mockHomeRepo{
		createFn: func(ctx context.Context, home *model.Home) error {
			return errors.New("db error")
		},
	}

	svc := NewService(homeRepo, existingUserRepo("user-1"), nil, nil)

	if _, err := svc.CreateHome(ctx, "user-1", CreateHomeInput{Title: "Villa"}); err == nil {
		t.Fatal("expected error when persistence fails")
	}
}

func TestCreateHome_UserLookupError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, errors.New("db error")
		},
	}

	svc := NewService(&mockHomeRepo{}, userRepo, nil, nil)

	if _, err := svc.CreateHome(ctx, "user-1", CreateHomeInput{Title: "Villa"}); err == nil {
		t.Fatal("expected error when user lookup fails")
	}
}
