package users

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/mvalverde/imageflow-backend/pkg/auth"
	"github.com/mvalverde/imageflow-backend/pkg/config"
	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
	"github.com/mvalverde/imageflow-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "imageflow",
	Audience:          "imageflow-clients",
	ExpirationMinutes: 60,
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := buildUserService(t, repo)

	first, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if first.PasswordHash == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Username: "ana2",
		Email:    "ana@example.com",
		Password: "other",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterBlankPasswordRejected(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "   ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	repo := newStubUserRepo()
	svc := buildUserService(t, repo)

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "correct",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginIssuesTokenWithUserClaims(t *testing.T) {
	repo := newStubUserRepo()
	issued := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		JWTConfig: testJWTConfig,
		Now:       func() time.Time { return issued },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "correct",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.UserID != user.ID {
		t.Fatalf("expected userId %d, got %d", user.ID, resp.UserID)
	}

	claims, err := pkgAuth.ParseUnverified(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "ana@example.com" {
		t.Fatalf("expected subject to carry the email, got %q", claims.Subject)
	}
	if !claims.BelongsTo(user.ID) {
		t.Fatalf("expected UserId claim to match %d", user.ID)
	}
	ttl := claims.ExpiresAt.Time.Sub(issued)
	if ttl != time.Hour {
		t.Fatalf("expected 1h expiry, got %s", ttl)
	}
}

func TestLoginWithoutSecretFailsAsConfig(t *testing.T) {
	repo := newStubUserRepo()
	svc, err := NewService(ServiceParams{Repo: repo, JWTConfig: config.JWTConfig{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "correct",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "correct"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCreateStoresLoginCapableHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := buildUserService(t, repo)

	created, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PasswordHash == "" || created.PasswordHash == "hunter2" {
		t.Fatalf("expected hashed credentials, got %q", created.PasswordHash)
	}
	if !security.VerifyPassword("hunter2", created.PasswordHash) {
		t.Fatalf("stored hash does not verify the original password")
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "hunter2"}); err != nil {
		t.Fatalf("login after create: %v", err)
	}
}

func TestCreateBlankPasswordRejected(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateIDMismatchRejected(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	err := svc.Update(context.Background(), 1, &models.User{ID: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMissingUserNotFound(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	err := svc.Update(context.Background(), 42, &models.User{ID: 42, Username: "ghost"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingUserNotFound(t *testing.T) {
	svc := buildUserService(t, newStubUserRepo())

	err := svc.Delete(context.Background(), 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func buildUserService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1, users: map[int64]*models.User{}}
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Replace(ctx context.Context, user *models.User) (int64, error) {
	if _, ok := s.users[user.ID]; !ok {
		return 0, nil
	}
	s.users[user.ID] = user
	return 1, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := s.users[id]; !ok {
		return 0, nil
	}
	delete(s.users, id)
	return 1, nil
}

func (s *stubUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}
