package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionCache drops cached principals when the stored user changes.
type SessionCache interface {
	Invalidate(userID string)
}

type UserService interface {
	ListUsers(ctx context.Context, caller tenancy.Caller, role permission.Role) ([]models.User, error)
	GetUser(ctx context.Context, caller tenancy.Caller, id string) (*models.User, error)
	CreateUser(ctx context.Context, caller tenancy.Caller, req CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, caller tenancy.Caller, id string, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, caller tenancy.Caller, id string) error
	// CreateTenantAdmin provisions the first admin of a new tenant. It is
	// called from tenant creation on the platform branch.
	CreateTenantAdmin(ctx context.Context, tenantID string, req CreateUserRequest) (*models.User, error)
}

type UserServiceImpl struct {
	Repo      UserRepository
	Isolation *tenancy.Isolation
	Sessions  SessionCache
	Logger    *zap.Logger
}

func NewUserService(repo UserRepository, isolation *tenancy.Isolation, sessions SessionCache, logger *zap.Logger) UserService {
	return &UserServiceImpl{
		Repo:      repo,
		Isolation: isolation,
		Sessions:  sessions,
		Logger:    logger,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, caller tenancy.Caller, role permission.Role) ([]models.User, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceUsers, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) ([]models.User, error) {
			predicate := bson.M{}
			if role != "" {
				predicate["role"] = role
			}
			if access.Platform {
				// Platform view: the account directory, no business rows.
				return s.Repo.List(ctx, predicate)
			}
			filter, err := access.Filter(predicate)
			if err != nil {
				return nil, err
			}
			return s.Repo.List(ctx, filter)
		})
}

func (s *UserServiceImpl) GetUser(ctx context.Context, caller tenancy.Caller, id string) (*models.User, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceUsers, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*models.User, error) {
			if access.Platform {
				return s.Repo.FindByID(ctx, id)
			}
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			return s.Repo.FindOne(ctx, filter)
		})
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, caller tenancy.Caller, req CreateUserRequest) (*models.User, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceUsers, permission.ActionCreate),
		func(ctx context.Context, access tenancy.Access) (*models.User, error) {
			if !canAssignRole(caller.Role, req.Role) {
				return nil, &errs.AuthorizationError{
					Role: string(caller.Role), Resource: permission.ResourceUsers, Action: permission.ActionCreate,
					Reason: fmt.Sprintf("cannot create a %s", req.Role),
				}
			}
			return s.create(ctx, access.TenantID, req)
		})
}

func (s *UserServiceImpl) CreateTenantAdmin(ctx context.Context, tenantID string, req CreateUserRequest) (*models.User, error) {
	if tenantID == "" {
		return nil, errs.ErrMissingTenantContext
	}
	req.Role = permission.RoleAdmin
	req.SupervisorID = ""
	return s.create(ctx, tenantID, req)
}

func (s *UserServiceImpl) create(ctx context.Context, tenantID string, req CreateUserRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, errs.Invalid("password must be at least %d characters", minPasswordLength)
	}
	if err := s.checkSupervisor(ctx, tenantID, req.Role, req.SupervisorID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		SupervisorID: req.SupervisorID,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.Info("user created",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, caller tenancy.Caller, id string, req UpdateUserRequest) (*models.User, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceUsers, permission.ActionUpdate),
		func(ctx context.Context, access tenancy.Access) (*models.User, error) {
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return nil, err
			}
			existing, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return nil, err
			}
			if !canAssignRole(caller.Role, existing.Role) {
				return nil, &errs.AuthorizationError{
					Role: string(caller.Role), Resource: permission.ResourceUsers, Action: permission.ActionUpdate,
					Reason: fmt.Sprintf("cannot modify a %s", existing.Role),
				}
			}

			updates := bson.M{}
			if req.FirstName != nil {
				updates["first_name"] = *req.FirstName
			}
			if req.LastName != nil {
				updates["last_name"] = *req.LastName
			}
			if req.Password != nil {
				if len(*req.Password) < minPasswordLength {
					return nil, errs.Invalid("password must be at least %d characters", minPasswordLength)
				}
				hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
				if err != nil {
					return nil, fmt.Errorf("hash password: %w", err)
				}
				updates["password_hash"] = string(hash)
			}

			role := existing.Role
			if req.Role != nil {
				if !canAssignRole(caller.Role, *req.Role) {
					return nil, &errs.AuthorizationError{
						Role: string(caller.Role), Resource: permission.ResourceUsers, Action: permission.ActionUpdate,
						Reason: fmt.Sprintf("cannot grant %s", *req.Role),
					}
				}
				role = *req.Role
				updates["role"] = role
			}
			supervisorID := existing.SupervisorID
			if req.SupervisorID != nil {
				supervisorID = *req.SupervisorID
			}
			if role != permission.RoleSales {
				supervisorID = ""
			}
			if req.SupervisorID != nil || req.Role != nil {
				if err := s.checkSupervisor(ctx, existing.TenantID, role, supervisorID); err != nil {
					return nil, err
				}
				updates["supervisor_id"] = supervisorID
			}
			if req.IsActive != nil {
				if id == caller.UserID && !*req.IsActive {
					return nil, errs.Invalid("cannot deactivate your own account")
				}
				updates["is_active"] = *req.IsActive
			}

			if len(updates) > 0 {
				if err := s.Repo.Update(ctx, filter, updates); err != nil {
					return nil, err
				}
				s.Sessions.Invalidate(id)
			}
			return s.Repo.FindOne(ctx, filter)
		})
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, caller tenancy.Caller, id string) error {
	_, err := tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceUsers, permission.ActionDelete),
		func(ctx context.Context, access tenancy.Access) (struct{}, error) {
			if id == caller.UserID {
				return struct{}{}, errs.Invalid("cannot delete your own account")
			}
			filter, err := access.Filter(bson.M{"_id": id})
			if err != nil {
				return struct{}{}, err
			}
			existing, err := s.Repo.FindOne(ctx, filter)
			if err != nil {
				return struct{}{}, err
			}
			if !canAssignRole(caller.Role, existing.Role) {
				return struct{}{}, &errs.AuthorizationError{
					Role: string(caller.Role), Resource: permission.ResourceUsers, Action: permission.ActionDelete,
					Reason: fmt.Sprintf("cannot delete a %s", existing.Role),
				}
			}
			if err := s.Repo.Delete(ctx, filter); err != nil {
				return struct{}{}, err
			}
			s.Sessions.Invalidate(id)
			return struct{}{}, nil
		})
	return err
}

// checkSupervisor enforces the team join: only sales users reference a
// supervisor, and that supervisor lives in the same tenant.
func (s *UserServiceImpl) checkSupervisor(ctx context.Context, tenantID string, role permission.Role, supervisorID string) error {
	if supervisorID == "" {
		return nil
	}
	if role != permission.RoleSales {
		return errs.Invalid("only sales users report to a supervisor")
	}
	_, err := s.Repo.FindOne(ctx, bson.M{
		"_id":       supervisorID,
		"tenant_id": tenantID,
		"role":      permission.RoleSupervisor,
	})
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Invalid("supervisor %s not found in tenant", supervisorID)
	}
	return err
}

// canAssignRole: a caller may only manage roles strictly below its own, and
// nobody hands out superadmin.
func canAssignRole(caller, target permission.Role) bool {
	if !target.Valid() || target == permission.RoleSuperAdmin {
		return false
	}
	return caller.Rank() > target.Rank()
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", errs.Invalid("invalid email %q", raw)
	}
	return strings.ToLower(addr.Address), nil
}

// TeamDirectory adapts the repository to the isolation filter's team lookup.
func TeamDirectory(repo UserRepository) tenancy.TeamDirectory {
	return repo
}
