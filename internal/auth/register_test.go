package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/internal/points"
	"github.com/sofiaibarra/blendery-backend/internal/users"
	pkgAuth "github.com/sofiaibarra/blendery-backend/pkg/auth"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	data    map[string]*models.User
	created *models.User
}

func newStubRegisterUserRepo() *stubRegisterUserRepo {
	return &stubRegisterUserRepo{data: map[string]*models.User{}}
}

func (s *stubRegisterUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

type stubBonusAwarder struct {
	awards []points.AdjustInput
}

func (s *stubBonusAwarder) AwardOnce(ctx context.Context, tx *gorm.DB, input points.AdjustInput) (bool, error) {
	s.awards = append(s.awards, input)
	return true, nil
}

type registerTestSetup struct {
	service  RegisterService
	userRepo *stubRegisterUserRepo
	awarder  *stubBonusAwarder
	sessions *stubSessionManager
}

func newRegisterTestSetup(t *testing.T, bonus int) *registerTestSetup {
	t.Helper()
	userRepo := newStubRegisterUserRepo()
	awarder := &stubBonusAwarder{}
	sessions := &stubSessionManager{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		PointsService:     awarder,
		SessionManager:    sessions,
		PasswordConfig:    config.PasswordConfig{},
		JWTConfig:         testJWTConfig(),
		RegistrationBonus: bonus,
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, userRepo: userRepo, awarder: awarder, sessions: sessions}
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     email,
		Password:  "Secret123!",
	}
}

func TestRegisterCreatesUserWithBonus(t *testing.T) {
	setup := newRegisterTestSetup(t, 100)

	resp, err := setup.service.Register(context.Background(), sampleRegisterRequest("New@Example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	created := setup.userRepo.created
	if created == nil {
		t.Fatalf("expected user to be created")
	}
	if created.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %s", created.Email)
	}
	if created.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", created.Role)
	}

	if len(setup.awarder.awards) != 1 {
		t.Fatalf("expected one bonus award, got %d", len(setup.awarder.awards))
	}
	award := setup.awarder.awards[0]
	if award.UserID != created.ID || award.Type != enums.PointsTxRegistrationBonus {
		t.Fatalf("unexpected award: %+v", award)
	}
	if !award.Delta.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected bonus of 100, got %s", award.Delta)
	}
	if award.ReferenceID == nil || *award.ReferenceID != created.ID {
		t.Fatalf("bonus must reference the new user")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("token not bound to new user")
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token")
	}
}

func TestRegisterSkipsBonusWhenDisabled(t *testing.T) {
	setup := newRegisterTestSetup(t, 0)

	if _, err := setup.service.Register(context.Background(), sampleRegisterRequest("quiet@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(setup.awarder.awards) != 0 {
		t.Fatalf("expected no award, got %d", len(setup.awarder.awards))
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t, 100)
	setup.userRepo.data["taken@example.com"] = &models.User{ID: uuid.New(), Email: "taken@example.com"}

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("taken@example.com"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(setup.awarder.awards) != 0 {
		t.Fatalf("no bonus on failed registration")
	}
}
