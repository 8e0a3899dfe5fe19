package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/internal/points"
	"github.com/sofiaibarra/blendery-backend/internal/users"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/security"
)

// RegisterRequest contains the payload required for onboarding a new user.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type bonusAwarder interface {
	AwardOnce(ctx context.Context, tx *gorm.DB, input points.AdjustInput) (bool, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner          registerTxRunner
	UserRepoFactory   func(tx *gorm.DB) registerUserRepository
	PointsService     bonusAwarder
	SessionManager    sessionManager
	PasswordConfig    config.PasswordConfig
	JWTConfig         config.JWTConfig
	RegistrationBonus int
}

type registerService struct {
	tx          registerTxRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	pointsSvc   bonusAwarder
	session     sessionManager
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
	bonus       int
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		params.UserRepoFactory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	if params.PointsService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "points service required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		pointsSvc:   params.PointsService,
		session:     params.SessionManager,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
		bonus:       params.RegistrationBonus,
	}, nil
}

// Register creates the user, credits the signup bonus in the same
// transaction and logs the new account in.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err = userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if s.bonus > 0 {
			userRef := user.ID
			if _, err := s.pointsSvc.AwardOnce(ctx, tx, points.AdjustInput{
				UserID:      user.ID,
				Delta:       decimal.NewFromInt(int64(s.bonus)),
				Type:        enums.PointsTxRegistrationBonus,
				ReferenceID: &userRef,
				Notes:       "registration bonus",
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit registration bonus")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := issueTokenPair(ctx, s.session, s.jwtCfg, time.Now().UTC(), user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}
