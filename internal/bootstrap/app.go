package bootstrap

import (
	"fmt"

	"es-bug-demo/config"
	"es-bug-demo/middleware"
	"es-bug-demo/search/controllers"
	"es-bug-demo/search/repositories"
	"es-bug-demo/search/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Dependencies is everything NewApp wires together.
type Dependencies struct {
	App            *fiber.App
	DefaultRepo    *repositories.RecordRepository
	WorkaroundRepo *repositories.RecordRepository
}

// NewApp builds both Elasticsearch clients once and registers every route.
// The clients are shared by all requests.
func NewApp(cfg config.AppConfig, logger *zap.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	defaultOpts, workaroundOpts := config.ElasticsearchOptionsFromConfig(cfg)
	return NewAppWithOptions(cfg, defaultOpts, workaroundOpts, logger)
}

// NewAppWithOptions is NewApp with explicit client options.
func NewAppWithOptions(cfg config.AppConfig, defaultOpts, workaroundOpts config.ElasticsearchOptions, logger *zap.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultOpts.Logger == nil {
		defaultOpts.Logger = logger.Named("elasticsearch")
	}
	if workaroundOpts.Logger == nil {
		workaroundOpts.Logger = logger.Named("elasticsearch")
	}

	defaultClient, err := config.NewElasticsearchClient(defaultOpts)
	if err != nil {
		return nil, fmt.Errorf("building default client: %w", err)
	}
	workaroundClient, err := config.NewElasticsearchClient(workaroundOpts)
	if err != nil {
		return nil, fmt.Errorf("building workaround client: %w", err)
	}

	defaultRepo := repositories.NewRecordRepository(defaultClient, cfg.ElasticsearchIndex, logger.Named("default"))
	workaroundRepo := repositories.NewRecordRepository(workaroundClient, cfg.ElasticsearchIndex, logger.Named("workaround"))

	app := fiber.New(fiber.Config{
		AppName:      "es-bug-demo",
		ErrorHandler: middleware.ErrorHandler(logger),
	})
	// The request logger sits outside recover so panicking requests are logged too.
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	middleware.InitCors(app, cfg.CorsAllowOrigins)

	controller := controllers.NewBugDemoController(defaultRepo, workaroundRepo, logger)
	routes.InitMetricsRoutes(app)
	routes.InitBugDemoRoutes(app, controller)

	return &Dependencies{App: app, DefaultRepo: defaultRepo, WorkaroundRepo: workaroundRepo}, nil
}
