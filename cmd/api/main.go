package main

import (
	"context"
	"fmt"
	"time"

	common_api "mineaction/internal/common/api"
	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/database"
	"mineaction/internal/features/access"
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/audit"
	"mineaction/internal/features/auth"
	"mineaction/internal/features/dashboard"
	"mineaction/internal/features/export"
	"mineaction/internal/features/project"
	"mineaction/internal/features/role"
	"mineaction/internal/features/system"
	"mineaction/internal/features/user"
	"mineaction/internal/identity"
	"mineaction/internal/logger"
	"mineaction/internal/middleware"
	"mineaction/internal/storage"
	"mineaction/pkg/utils"

	_ "mineaction/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             20 * 1024 * 1024, // evidence uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	app.Use(middleware.MetricsMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("Listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatal("Server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

type indexed interface {
	EnsureIndexes(ctx context.Context) error
}

// IndexParams collects every repository that owns indexes.
type IndexParams struct {
	fx.In

	Audit    audit.AuditRepository
	Roles    role.RoleRepository
	Sessions auth.SessionRepository
	Projects project.ProjectRepository
	Activity activity.ActivityRepository
	Actions  action.ActionRepository
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, p IndexParams, log *zap.Logger) {
	repos := map[string]indexed{
		"audit_logs": p.Audit,
		"roles":      p.Roles,
		"sessions":   p.Sessions,
		"projects":   p.Projects,
		"activities": p.Activity,
		"actions":    p.Actions,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, repo := range repos {
					if err := repo.EnsureIndexes(ctx); err != nil {
						log.Error("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// StartDigest runs the daily audit digest while the app is up.
func StartDigest(lc fx.Lifecycle, digest *audit.Digest) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return digest.Start()
		},
		OnStop: func(ctx context.Context) error {
			digest.Stop()
			return nil
		},
	})
}

// @title           MineAction API
// @version         1.0
// @description     Projects, field activities and follow-up actions for mine action operations.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// External services
			identity.NewOIDCProvider,
			storage.NewS3Store,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			role.NewRoleRepository,
			auth.NewSessionRepository,
			project.NewProjectRepository,
			activity.NewActivityRepository,
			action.NewActionRepository,

			// Initialize Service
			audit.NewAuditService,
			audit.NewDigest,
			user.NewUserService,
			role.NewRoleService,
			auth.NewAuthService,
			access.NewRouteGuard,
			project.NewProjectService,
			activity.NewActivityService,
			action.NewActionService,
			export.NewExportService,
			dashboard.NewDashboardService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s auth.AuthService) middleware.SessionResolver { return s },
			func(s role.RoleService) user.RoleFinder { return s },
			func(s project.ProjectService) activity.ProjectFinder { return s },
			func(s activity.ActivityService) action.ActivityFinder { return s },
			func(s project.ProjectService) export.ProjectLister { return s },
			func(s activity.ActivityService) export.ActivityLister { return s },
			func(s action.ActionService) export.ActionLister { return s },
			func(s project.ProjectService) dashboard.ProjectSource { return s },
			func(s activity.ActivityService) dashboard.ActivitySource { return s },
			func(s action.ActionService) dashboard.ActionSource { return s },

			// Initialize Controller
			auth.NewAuthController,
			access.NewAccessController,
			role.NewRoleController,
			user.NewUserController,
			audit.NewAuditController,
			project.NewProjectController,
			activity.NewActivityController,
			action.NewActionController,
			export.NewExportController,
			dashboard.NewDashboardController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(access.NewAccessApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(project.NewProjectApi),
			AsRoute(activity.NewActivityApi),
			AsRoute(action.NewActionApi),
			AsRoute(export.NewExportApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
				models.SetLocation(cfg.Location)
			},
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartDigest,
			InitializeIndexes,
		),
	)

	app.Run()
}
