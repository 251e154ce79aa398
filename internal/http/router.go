package http

import (
	"log/slog"

	"github.com/geocoder89/techhive/internal/config"
	"github.com/geocoder89/techhive/internal/http/handlers"
	"github.com/geocoder89/techhive/internal/http/middlewares"
	"github.com/geocoder89/techhive/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the routes call into.
type Deps struct {
	Users  handlers.UsersManager
	Seed   handlers.Seeder
	Checks map[string]handlers.Pinger
	Prom   *observability.Prom

	// Draining reports whether shutdown has begun. Optional.
	Draining func() bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	ambient := []middlewares.Stage{
		{Name: "request_id", Handler: middlewares.RequestID()},
		{Name: "tracing", Handler: otelgin.Middleware(cfg.ServiceName)},
	}
	if deps.Prom != nil {
		ambient = append(ambient, middlewares.Stage{Name: "metrics", Handler: deps.Prom.GinHandleMiddleware()})
	}
	ambient = append(ambient,
		middlewares.Stage{Name: "security_headers", Handler: middlewares.SecurityHeaders(cfg.Env == "prod")},
		middlewares.Stage{Name: "cors", Handler: middlewares.CORSMiddleware(cfg.CORSAllowedOrigins)},
	)

	// error boundary -> ambient -> auth -> access log
	r.Use(middlewares.Handlers(middlewares.Pipeline(log, cfg.AuthToken, ambient...))...)

	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// docs
	r.GET("/", handlers.SwaggerUI)
	r.GET("/index.html", handlers.SwaggerUI)
	r.GET(handlers.SwaggerJSONPath, handlers.SwaggerDoc)

	// health
	h := handlers.NewHealthHandler(log, deps.Checks, deps.Draining)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Prom != nil {
		r.GET("/metrics", gin.WrapH(deps.Prom.Handler()))
	}

	api := r.Group("/api", middlewares.RequireJSON())

	usersHandler := handlers.NewUsersHandler(deps.Users)
	users := api.Group("/users")
	users.GET("", usersHandler.ListUsers)
	users.POST("", usersHandler.CreateUser)
	users.GET("/:id", usersHandler.GetUser)
	users.PUT("/:id", usersHandler.UpdateUser)
	users.DELETE("/:id", usersHandler.DeleteUser)

	dataHandler := handlers.NewDataHandler(deps.Seed)
	api.POST("/data/seed", dataHandler.Seed)

	return r
}
