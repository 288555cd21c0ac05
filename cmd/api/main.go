package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "estate-crm/internal/common/api"
	"estate-crm/internal/config"
	"estate-crm/internal/database"
	"estate-crm/internal/features/access"
	"estate-crm/internal/features/activity"
	"estate-crm/internal/features/auth"
	"estate-crm/internal/features/dashboard"
	"estate-crm/internal/features/deal"
	"estate-crm/internal/features/exchange_rate"
	"estate-crm/internal/features/lead"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/platform"
	"estate-crm/internal/features/property"
	"estate-crm/internal/features/report"
	"estate-crm/internal/features/system"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/features/tenant"
	"estate-crm/internal/features/user"
	"estate-crm/internal/logger"
	"estate-crm/internal/metrics"
	"estate-crm/internal/middleware"
	"estate-crm/pkg/utils"

	_ "estate-crm/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log, m),
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// X-Tenant-ID is only ever compared against the session tenant
	app.Use(middleware.TenantHeaderMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, logger *zap.Logger, userRepo user.UserRepository, tenantRepo tenant.TenantRepository, rateRepo exchange_rate.ExchangeRateRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure user indexes", zap.Error(err))
				}
				if err := tenantRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure tenant indexes", zap.Error(err))
				}
				if err := rateRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure exchange rate indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// ConfigureTokens hands the signing secret to the token helpers
func ConfigureTokens(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

// @title           Estate CRM API
// @version         1.0
// @description     Multi-tenant real-estate CRM with role based access control.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,
			metrics.NewMetrics,

			// Initialize Fiber Server
			NewFiberServer,

			// Authorization core
			permission.NewDefaultTable,
			permission.NewResolver,
			tenancy.NewIsolation,
			user.TeamDirectory,
			auth.NewSessionResolver,
			activity.NewHub,

			// Initialize Repository
			user.NewUserRepository,
			tenant.NewTenantRepository,
			activity.NewActivityRepository,
			activity.NewEntityRepository,
			lead.NewLeadRepository,
			property.NewPropertyRepository,
			deal.NewDealRepository,
			exchange_rate.NewExchangeRateRepository,
			dashboard.NewStatsRepository,
			platform.NewPlatformRepository,

			activity.NewActivityRecorder,
			activity.NewActivityService,
			auth.NewAuthService,
			user.NewUserService,
			tenant.NewTenantService,
			tenant.NewShareRates,
			lead.NewLeadService,
			property.NewPropertyService,
			deal.NewDealService,
			exchange_rate.NewExchangeRateService,
			platform.NewPlatformService,
			platform.NewSnapshotScheduler,
			dashboard.NewDashboardService,
			report.NewReportService,
			access.NewAccessService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s *auth.SessionResolver) middleware.PrincipalResolver { return s },
			func(s *auth.SessionResolver) user.SessionCache { return s },
			func(s *auth.SessionResolver) tenant.SessionCache { return s },
			func(r tenant.TenantRepository) auth.TenantDirectory { return r },
			func(s user.UserService) tenant.AdminProvisioner { return s },
			func(s platform.PlatformService) dashboard.PlatformStats { return s },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			tenant.NewTenantController,
			activity.NewActivityController,
			lead.NewLeadController,
			property.NewPropertyController,
			deal.NewDealController,
			exchange_rate.NewExchangeRateController,
			platform.NewPlatformController,
			dashboard.NewDashboardController,
			report.NewReportController,
			access.NewAccessController,
			system.NewHealthController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(tenant.NewTenantApi),
			AsRoute(activity.NewActivityApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(property.NewPropertyApi),
			AsRoute(deal.NewDealApi),
			AsRoute(exchange_rate.NewExchangeRateApi),
			AsRoute(platform.NewPlatformApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(report.NewReportApi),
			AsRoute(access.NewAccessApi),
			AsRoute(system.NewSystemApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureTokens,
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			platform.RegisterSnapshotScheduler,
			InitializeIndexes,
		),
	)

	app.Run()
}
