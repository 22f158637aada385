package httpx

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/http/handlers"
	"github.com/you/healthrecords/internal/http/middleware"
)

// Handlers groups every handler set the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandlers
	Users    *handlers.UserHandlers
	Visits   *handlers.VisitHandlers
	Admin    *handlers.AdminHandlers
	Policies *handlers.PolicyHandlers
}

// Options controls the middleware stack
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	// JWT and Casbin are nil when authorization is not enforced
	JWT    *middleware.AuthMW
	Casbin middleware.CasbinMiddleware
	Audit  domain.AuditLogger
}

// BuildRouter wires handlers onto a gin engine
func BuildRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger), cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	enforce := opts.JWT != nil && opts.Casbin != nil

	// login and patient registration stay open so a client can get started
	api.POST("/auth/login", h.Auth.Login)
	if enforce {
		api.POST("/users", opts.JWT.OptionalJWT(), middleware.RegistrationGuard(opts.Audit), h.Users.Create)
	} else {
		api.POST("/users", h.Users.Create)
	}

	protected := api.Group("")
	if enforce {
		protected.Use(opts.JWT.WithJWT(), opts.Casbin.Enforce())
	}

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/users", h.Users.List)
	protected.GET("/users/:id", h.Users.Get)
	protected.PUT("/users/:id", h.Users.Update)
	protected.DELETE("/users/:id", h.Users.Delete)

	protected.POST("/visits", h.Visits.Create)
	protected.GET("/visits", h.Visits.List)
	protected.GET("/visits/:id", h.Visits.Get)
	protected.GET("/visits/patient/:id", h.Visits.ByPatient)
	protected.GET("/visits/doctor/:id", h.Visits.ByDoctor)
	protected.DELETE("/visits/:id", h.Visits.Delete)

	adm := protected.Group("/admin")
	adm.GET("/stats", h.Admin.Stats)
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	r.NoRoute(func(c *gin.Context) {
		handlers.WriteError(c, http.StatusNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
