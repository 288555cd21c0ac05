package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/database"
	"estate-crm/internal/features/auth"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/tenant"
	"estate-crm/internal/features/user"
	"estate-crm/internal/logger"
	"estate-crm/internal/metrics"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	user.CreateUserRequest
	SupervisorEmail string `json:"supervisorEmail,omitempty"`
}

type seedData struct {
	Tenant tenant.CreateTenantRequest `json:"tenant"`
	Users  []seedUser                 `json:"users"`
}

// Seed provisions the platform superadmin and a demo tenant
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	userService user.UserService,
	tenantService tenant.TenantService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				logger.Info("🌱 Starting Database Seeding from JSON...")

				root, err := seedSuperAdmin(ctx, userRepo, logger)
				if err != nil {
					logger.Error("Failed to seed superadmin", zap.Error(err))
					return
				}

				// Data path (assuming running from backend root)
				var data seedData
				b, err := os.ReadFile("cmd/seed/data/demo.json")
				if err != nil {
					logger.Error("Failed to read demo data", zap.Error(err))
					return
				}
				if err := json.Unmarshal(b, &data); err != nil {
					logger.Error("Failed to parse demo data", zap.Error(err))
					return
				}

				if err := seedTenant(ctx, root, data, userRepo, userService, tenantService, logger); err != nil {
					logger.Error("Failed to seed demo tenant", zap.Error(err))
					return
				}
				logger.Info("✅ Seeding complete")
			}()
			return nil
		},
	})
}

func seedSuperAdmin(ctx context.Context, userRepo user.UserRepository, logger *zap.Logger) (*models.User, error) {
	email := strings.ToLower(getEnv("SEED_SUPERADMIN_EMAIL", "superadmin@estate-crm.local"))
	existing, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		logger.Info("Superadmin exists, skipping", zap.String("email", email))
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(getEnv("SEED_SUPERADMIN_PASSWORD", "superadmin123")), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	root := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Platform",
		LastName:     "Owner",
		Role:         permission.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, root); err != nil {
		return nil, err
	}
	logger.Info("Created superadmin", zap.String("email", email))
	return root, nil
}

func seedTenant(
	ctx context.Context,
	root *models.User,
	data seedData,
	userRepo user.UserRepository,
	userService user.UserService,
	tenantService tenant.TenantService,
	logger *zap.Logger,
) error {
	platformCaller := tenancy.Caller{Principal: tenancy.Principal{UserID: root.ID, Role: root.Role}}

	tenants, err := tenantService.ListTenants(ctx, platformCaller)
	if err != nil {
		return err
	}
	for _, t := range tenants {
		if t.Subdomain == data.Tenant.Subdomain {
			logger.Info("Tenant exists, skipping", zap.String("subdomain", t.Subdomain))
			return nil
		}
	}

	created, err := tenantService.CreateTenant(ctx, platformCaller, data.Tenant)
	if err != nil {
		return err
	}
	if created.Admin == nil {
		return fmt.Errorf("tenant %s was created without an admin", created.Tenant.ID)
	}
	logger.Info("Created tenant", zap.String("tenant_id", created.Tenant.ID), zap.String("admin", created.Admin.Email))

	adminCaller := tenancy.Caller{Principal: tenancy.Principal{
		UserID:   created.Admin.ID,
		Role:     created.Admin.Role,
		TenantID: created.Tenant.ID,
	}}
	for _, su := range data.Users {
		req := su.CreateUserRequest
		if su.SupervisorEmail != "" {
			supervisor, err := userRepo.FindByEmail(ctx, su.SupervisorEmail)
			if err != nil {
				return fmt.Errorf("supervisor %s: %w", su.SupervisorEmail, err)
			}
			req.SupervisorID = supervisor.ID
		}
		u, err := userService.CreateUser(ctx, adminCaller, req)
		if err != nil {
			return fmt.Errorf("user %s: %w", req.Email, err)
		}
		logger.Info("Created user", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			metrics.NewMetrics,
			permission.NewDefaultTable,
			permission.NewResolver,
			tenancy.NewIsolation,
			user.TeamDirectory,
			user.NewUserRepository,
			tenant.NewTenantRepository,
			auth.NewSessionResolver,
			user.NewUserService,
			tenant.NewTenantService,
			func(s *auth.SessionResolver) user.SessionCache { return s },
			func(s *auth.SessionResolver) tenant.SessionCache { return s },
			func(r tenant.TenantRepository) auth.TenantDirectory { return r },
			func(s user.UserService) tenant.AdminProvisioner { return s },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
