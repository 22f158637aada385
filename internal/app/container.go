package app

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/config"
	httpx "github.com/you/healthrecords/internal/http"
	"github.com/you/healthrecords/internal/http/handlers"
	"github.com/you/healthrecords/internal/http/middleware"
	"github.com/you/healthrecords/internal/infrastructure/audit"
	"github.com/you/healthrecords/internal/infrastructure/auth"
	"github.com/you/healthrecords/internal/infrastructure/database"
	"github.com/you/healthrecords/internal/infrastructure/notifications"
	"github.com/you/healthrecords/internal/infrastructure/repositories"
	"github.com/you/healthrecords/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    zerolog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Enforcer    *casbin.Enforcer

	// Repositories
	UserRepo    domain.UserRepository
	VisitRepo   domain.VisitRepository
	SessionRepo domain.SessionRepository

	// Services
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLogger     domain.AuditLogger
	AuthSvc         domain.AuthService
	UserSvc         domain.UserService
	VisitSvc        domain.VisitService
	AdminSvc        domain.AdminService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies. The caller must
// Close it.
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.bootstrap(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN, c.Log)
	if err != nil {
		return err
	}
	c.DB = db
	return database.AutoMigrate(db)
}

// initRedis connects only when an address is configured. Without redis
// there are no sessions and login returns no token.
func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		return nil
	}
	client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.RedisClient = client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.VisitRepo = repositories.NewVisitRepository(c.DB)
	if c.RedisClient != nil {
		c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.AccessTTL)
	}
}

func (c *Container) initServices() error {
	if c.Config.TokensEnabled() {
		c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	}
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Log,
	)
	c.AuditLogger = audit.NewLogger(c.Log)

	enforcer, err := auth.NewEnforcer(c.DB)
	if err != nil {
		return err
	}
	c.Enforcer = enforcer
	c.PolicySvc = services.NewPolicyService(enforcer)

	var sessions domain.SessionRepository
	if c.TokenSvc != nil {
		sessions = c.SessionRepo
	}
	c.AuthSvc = services.NewAuthService(c.UserRepo, sessions, c.TokenSvc, c.AuditLogger)
	c.UserSvc = services.NewUserService(c.UserRepo, c.VisitRepo, c.AuditLogger)
	c.VisitSvc = services.NewVisitService(c.VisitRepo, c.UserRepo, c.NotificationSvc, c.AuditLogger, c.Log)
	c.AdminSvc = services.NewAdminService(c.UserRepo, c.VisitRepo)
	return nil
}

// bootstrap seeds the policy table and the first admin account
func (c *Container) bootstrap(ctx context.Context) error {
	seed, err := seedPolicies(c.Config.Policies)
	if err != nil {
		return err
	}
	if err := c.PolicySvc.SeedDefaults(seed); err != nil {
		return fmt.Errorf("failed to seed policies: %w", err)
	}

	created, err := services.BootstrapAdmin(ctx, c.UserSvc, c.UserRepo,
		c.Config.AdminName, c.Config.AdminEmail, c.Config.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		c.Log.Info().Str("email", c.Config.AdminEmail).Msg("bootstrap admin created")
	}
	return nil
}

// seedPolicies converts configured rows, falling back to auth.DefaultPolicies
func seedPolicies(rules []config.PolicyRule) ([]domain.Policy, error) {
	if len(rules) == 0 {
		return auth.DefaultPolicies, nil
	}
	policies := make([]domain.Policy, 0, len(rules))
	for _, r := range rules {
		role, err := domain.ParseRole(r.Role)
		if err != nil {
			return nil, fmt.Errorf("invalid policy for path %q: %w", r.Path, err)
		}
		policies = append(policies, domain.Policy{Role: role, Path: r.Path, Method: r.Method, Rule: r.Rule})
	}
	return policies, nil
}

// Router builds the HTTP engine. JWT and casbin run only with auth.enforce.
func (c *Container) Router() *gin.Engine {
	opts := httpx.Options{
		Logger:      c.Log,
		CORSOrigins: c.Config.CORSOrigins,
		Audit:       c.AuditLogger,
	}
	if c.Config.EnforceAuth {
		opts.JWT = middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
		opts.Casbin = middleware.NewSimpleCasbinMW(c.PolicySvc, c.AuditLogger)
	}

	return httpx.BuildRouter(httpx.Handlers{
		Auth:     handlers.NewAuthHandlers(c.AuthSvc),
		Users:    handlers.NewUserHandlers(c.UserSvc),
		Visits:   handlers.NewVisitHandlers(c.VisitSvc),
		Admin:    handlers.NewAdminHandlers(c.AdminSvc),
		Policies: handlers.NewPolicyHandlers(c.PolicySvc),
	}, opts)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
