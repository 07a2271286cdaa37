package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/middleware"
	"github.com/shelfwise/shelfwise/internal/notification"
	"github.com/shelfwise/shelfwise/internal/users"
)

// Deps aggregates shared dependencies required to wire routes. Users and
// Catalog override the repositories otherwise derived from DB.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Users   users.Repository
	Catalog catalog.Repository
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	// Enforce DB presence outside of dev, even though config.Load also checks.
	if !d.Cfg.IsDev() && d.DB == nil && (d.Users == nil || d.Catalog == nil) {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSAllowOrigins,
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept,
			fiber.HeaderAuthorization, "Idempotency-Key", "X-Request-ID",
		}, ", "),
	}))
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	userRepo := d.Users
	if userRepo == nil {
		if d.DB != nil {
			userRepo = users.NewPostgresRepository(d.DB)
		} else {
			userRepo = users.NewMemoryRepository()
		}
	}
	catalogRepo := d.Catalog
	if catalogRepo == nil {
		if d.DB != nil {
			catalogRepo = catalog.NewPostgresRepository(d.DB)
		} else {
			catalogRepo = catalog.NewMemoryRepository()
		}
	}

	codec, err := auth.NewCodec(auth.TokenConfig{
		Secret:    []byte(d.Cfg.JWTSecret),
		Algorithm: d.Cfg.JWTAlgorithm,
		TTL:       d.Cfg.JWTExpiration,
	})
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	hasher := auth.NewBcryptHasher(d.Cfg.BcryptCost)
	authn := auth.NewAuthenticator(userRepo, hasher, d.Logger)
	issuer := auth.NewIssuer(authn, codec)
	resolver := auth.NewResolver(codec, userRepo, d.Logger)

	userSvc := users.NewService(userRepo, hasher)
	catalogSvc := catalog.NewService(catalogRepo, notification.NewLoggerNotifier(d.Logger))

	guards := Guards{
		Auth:        middleware.RequireAuth(resolver),
		Admin:       middleware.RequireAdmin(),
		Idempotency: middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
	}

	RegisterHealthRoutes(app, d)
	RegisterAuthRoutes(app, auth.NewHandler(issuer, userSvc, d.Logger),
		middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger))
	RegisterUserRoutes(app, userSvc, catalogSvc, guards)
	RegisterCatalogRoutes(app, catalog.NewHandler(catalogSvc), guards)

	return nil
}

// Guards are the per-route middlewares shared by the route groups.
type Guards struct {
	Auth        fiber.Handler
	Admin       fiber.Handler
	Idempotency fiber.Handler
}
