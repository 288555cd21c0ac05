package auth

import (
	"context"
	"errors"
	"strings"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/user"
	"estate-crm/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Me(ctx context.Context, principal tenancy.Principal) (*MeResponse, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
	Sessions *SessionResolver
	Resolver *permission.Resolver
	Config   *config.Config
	Logger   *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, sessions *SessionResolver, resolver *permission.Resolver, cfg *config.Config, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
		Sessions: sessions,
		Resolver: resolver,
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	u, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Resolving up front rejects inactive users and tenants before a token
	// is ever issued.
	s.Sessions.Invalidate(u.ID)
	principal, err := s.Sessions.Resolve(ctx, u.ID)
	if err != nil {
		s.Logger.Info("login refused", zap.String("user_id", u.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, s.Config.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:       token,
		User:        *u,
		Permissions: s.Resolver.Table().GetPermissions(principal.Role),
	}, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, principal tenancy.Principal) (*MeResponse, error) {
	u, err := s.UserRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		User:        *u,
		Principal:   principal,
		Permissions: s.Resolver.Table().GetPermissions(principal.Role),
	}, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token       string                  `json:"token"`
	User        models.User             `json:"user"`
	Permissions []permission.Permission `json:"permissions"`
}

// MeResponse is what clients use to decide which views to render.
type MeResponse struct {
	User        models.User             `json:"user"`
	Principal   tenancy.Principal       `json:"principal"`
	Permissions []permission.Permission `json:"permissions"`
}
