// Package auth implements signup, login, token refresh and session resolution.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/internal/users"
	pkgAuth "github.com/procifarmed/storefront-api/pkg/auth"
	"github.com/procifarmed/storefront-api/pkg/auth/session"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
	"github.com/procifarmed/storefront-api/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers and guards.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Result, error)
	Login(ctx context.Context, req LoginRequest) (*Result, error)
	Refresh(ctx context.Context, req RefreshRequest) (*Result, error)
	Logout(ctx context.Context, accessID string) error
	Session(ctx context.Context, userID uuid.UUID) (SessionState, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type profileEnsurer interface {
	Ensure(ctx context.Context, userID uuid.UUID, fullName *string) (*profiles.ProfileDTO, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB             txRunner
	UserRepo       userRepository
	Profiles       profileEnsurer
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	db          txRunner
	users       userRepository
	profiles    profileEnsurer
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile service is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		db:          params.DB,
		users:       params.UserRepo,
		profiles:    params.Profiles,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.CheckPassword(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"password": err.Error()})
	}
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := users.NewRepository(tx).Create(ctx, users.CreateUserDTO{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		fullName := strings.TrimSpace(req.FullName)
		profile, err := profiles.NewRepository(tx).Ensure(ctx, created.ID, &fullName)
		if err != nil {
			return err
		}
		if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
			phone := strings.TrimSpace(*req.Phone)
			if err := profiles.NewRepository(tx).UpdateContact(ctx, created.ID, profile.FullName, &phone); err != nil {
				return err
			}
		}
		user = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	return s.issue(ctx, user, AccountPath)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	return s.issue(ctx, user, SanitizeRedirect(req.From))
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*Result, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.ID, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		_ = s.session.Revoke(ctx, newAccessID)
		return nil, err
	}
	state := s.resolve(ctx, user)
	access, err := s.mint(user, state.IsAdmin, newAccessID)
	if err != nil {
		return nil, err
	}
	return &Result{Tokens: s.pair(access, refreshToken), Session: state}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Session resolves the state for the authenticated user; uuid.Nil yields
// the anonymous state with no profile.
func (s *service) Session(ctx context.Context, userID uuid.UUID) (SessionState, error) {
	if userID == uuid.Nil {
		return SessionState{}, nil
	}
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			return SessionState{}, nil
		}
		return SessionState{}, err
	}
	return s.resolve(ctx, user), nil
}

// IsAdmin runs the privileged role check. Errors count as not admin.
func (s *service) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	ok, err := s.users.IsAdmin(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.admin_check_failed")
		return false
	}
	return ok
}

func (s *service) issue(ctx context.Context, user *models.User, redirect string) (*Result, error) {
	state := s.resolve(ctx, user)
	accessID := session.NewAccessID()
	access, err := s.mint(user, state.IsAdmin, accessID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &Result{Tokens: s.pair(access, refresh), Session: state, Redirect: redirect}, nil
}

// resolve ensures and loads the profile. Profile failures leave it nil.
func (s *service) resolve(ctx context.Context, user *models.User) SessionState {
	state := SessionState{User: users.FromModel(user)}
	profile, err := s.profiles.Ensure(ctx, user.ID, nil)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String(), "error": err.Error()}), "auth.profile_unavailable")
	} else {
		state.Profile = profile
	}
	state.IsAdmin = s.IsAdmin(ctx, user.ID)
	return state
}

func (s *service) mint(user *models.User, isAdmin bool, accessID string) (string, error) {
	role := enums.RoleCustomer
	if isAdmin {
		role = enums.RoleAdmin
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) pair(access, refresh string) TokenPair {
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) activeUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account disabled")
	}
	return user, nil
}
