package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/sofiaibarra/blendery-backend/pkg/auth"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/security"
)

type stubLoginUserRepo struct {
	data          map[string]*models.User
	lastLoginUser uuid.UUID
	lastLoginAt   time.Time
}

func newStubLoginUserRepo() *stubLoginUserRepo {
	return &stubLoginUserRepo{data: map[string]*models.User{}}
}

func (s *stubLoginUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginUser = id
	s.lastLoginAt = at
	return nil
}

type stubSessionManager struct {
	lastAccessID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.lastAccessID = accessID
	return "refresh-" + accessID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "blendery",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func seedActiveUser(t *testing.T, repo *stubLoginUserRepo, email, password string, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Maya",
		LastName:     "Osei",
		Role:         role,
		IsActive:     true,
	}
	repo.data[email] = user
	return user
}

func TestServiceLoginIssuesRoleClaim(t *testing.T) {
	repo := newStubLoginUserRepo()
	sessions := &stubSessionManager{}
	cfg := testJWTConfig()
	user := seedActiveUser(t, repo, "maya@example.com", "tea-time-42", enums.UserRoleCustomer)

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Maya@Example.com ", Password: "tea-time-42"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id claim mismatch")
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if resp.RefreshToken != "refresh-"+claims.ID {
		t.Fatalf("refresh token not bound to jti")
	}
	if repo.lastLoginUser != user.ID {
		t.Fatalf("expected last login to be recorded")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user payload in response")
	}
}

func TestServiceLoginAdminRole(t *testing.T) {
	repo := newStubLoginUserRepo()
	sessions := &stubSessionManager{}
	cfg := testJWTConfig()
	seedActiveUser(t, repo, "admin@example.com", "brew-master", enums.UserRoleAdmin)

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "brew-master"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubLoginUserRepo()
	sessions := &stubSessionManager{}
	seedActiveUser(t, repo, "maya@example.com", "tea-time-42", enums.UserRoleCustomer)

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []LoginRequest{
		{Email: "maya@example.com", Password: "wrong"},
		{Email: "unknown@example.com", Password: "tea-time-42"},
		{Email: "", Password: "tea-time-42"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %q, got %v", req.Email, err)
		}
	}
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	repo := newStubLoginUserRepo()
	sessions := &stubSessionManager{}
	user := seedActiveUser(t, repo, "dormant@example.com", "tea-time-42", enums.UserRoleCustomer)
	user.IsActive = false

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "dormant@example.com", Password: "tea-time-42"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
