package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/database"
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/audit"
	"mineaction/internal/features/project"
	"mineaction/internal/features/role"
	"mineaction/internal/features/user"
	"mineaction/internal/logger"
	"mineaction/internal/storage"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type seedAction struct {
	action.CreateActionRequest
	Comments []string `json:"comments"`
}

type seedActivity struct {
	activity.CreateActivityRequest
	Actions []seedAction `json:"actions"`
}

type seedProject struct {
	project.CreateProjectRequest
	Activities []seedActivity `json:"activities"`
}

type seedData struct {
	Users    []seedUser    `json:"users"`
	Projects []seedProject `json:"projects"`
}

// SeedParams is everything the seeder touches.
type SeedParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *zap.Logger

	RoleRepo   role.RoleRepository
	Users      user.UserService
	Projects   project.ProjectService
	Activities activity.ActivityService
	Actions    action.ActionService
}

// Seed runs the database seeding
func Seed(p SeedParams) {
	logger := p.Logger
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := p.Shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				// Lifecycle ctx ends with OnStart
				ctx := context.Background()
				logger.Info("Starting database seeding")

				var data seedData
				b, err := os.ReadFile("cmd/seed/data/demo.json")
				if err != nil {
					logger.Error("Failed to read seed data", zap.Error(err))
					return
				}
				if err := json.Unmarshal(b, &data); err != nil {
					logger.Error("Failed to parse seed data", zap.Error(err))
					return
				}

				if err := p.RoleRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure role indexes", zap.Error(err))
				}

				var author *models.Identity
				for _, u := range data.Users {
					identity := &models.Identity{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName}
					current, err := p.Users.InitializeUser(ctx, identity, u.Role)
					if err != nil {
						logger.Error("Failed to initialize user", zap.String("user_id", u.UID), zap.Error(err))
						continue
					}
					if current != u.Role {
						if err := p.Users.SetRole(ctx, u.UID, u.Role); err != nil {
							logger.Error("Failed to set role", zap.String("user_id", u.UID), zap.Error(err))
							continue
						}
					}
					logger.Info("User ready", zap.String("user_id", u.UID), zap.String("role", u.Role))
					if u.Role == models.RoleSupervisor && author == nil {
						author = identity
					}
				}
				if author == nil {
					logger.Warn("No supervisor in seed data, skipping demo projects")
					return
				}

				existing, err := p.Projects.ListProjects(ctx)
				if err != nil {
					logger.Error("Failed to list projects", zap.Error(err))
					return
				}
				if len(existing) > 0 {
					logger.Info("Projects exist, skipping demo data", zap.Int("projects", len(existing)))
					return
				}

				// Demo records are written as the supervisor so audit entries
				// carry a real actor.
				roleName := models.RoleSupervisor
				ctx = models.WithSession(ctx, models.NewSession("seed", author, &roleName, nil))
				seedProjects(ctx, p, data.Projects)

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedProjects(ctx context.Context, p SeedParams, projects []seedProject) {
	logger := p.Logger
	for _, sp := range projects {
		created, err := p.Projects.CreateProject(ctx, sp.CreateProjectRequest)
		if err != nil {
			logger.Error("Failed to create project", zap.String("project", sp.Name), zap.Error(err))
			continue
		}
		logger.Info("Project created", zap.String("entity_id", created.ID.Hex()), zap.String("project", created.Name))

		for _, sa := range sp.Activities {
			act, err := p.Activities.CreateActivity(ctx, created.ID.Hex(), sa.CreateActivityRequest)
			if err != nil {
				logger.Error("Failed to create activity", zap.String("project", sp.Name), zap.Error(err))
				continue
			}

			for _, sx := range sa.Actions {
				x, err := p.Actions.CreateAction(ctx, act.ID.Hex(), sx.CreateActionRequest)
				if err != nil {
					logger.Error("Failed to create action", zap.String("issue", sx.Issue), zap.Error(err))
					continue
				}
				for _, comment := range sx.Comments {
					if _, err := p.Actions.AddComment(ctx, x.ID.Hex(), comment); err != nil {
						logger.Error("Failed to add comment", zap.String("entity_id", x.ID.Hex()), zap.Error(err))
					}
				}
			}
		}
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			audit.NewAuditRepository,
			audit.NewAuditService,
			role.NewRoleRepository,
			user.NewUserRepository,
			user.NewUserService,
			project.NewProjectRepository,
			project.NewProjectService,
			activity.NewActivityRepository,
			activity.NewActivityService,
			action.NewActionRepository,
			action.NewActionService,
			storage.NewS3Store,
			func(s project.ProjectService) activity.ProjectFinder { return s },
			func(s activity.ActivityService) action.ActivityFinder { return s },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { models.SetLocation(cfg.Location) },
			Seed,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
