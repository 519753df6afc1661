package api

import (
	"errors"
	"strings"
	"time"

	"expenso/internal/api/handlers"
	"expenso/internal/apperr"
	"expenso/internal/dto"
	"expenso/pkg/config"
	"expenso/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// SetupRouter builds the fiber app: middleware chain, routes and the single
// error handler every failure flows through.
func SetupRouter(
	expenseHandler *handlers.ExpenseHandler,
	cfg *config.Config,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "expenso",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: newErrorHandler(cfg, appLogger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORS.Origins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(securityHeaders)
	app.Use(middleware.RequestLogger(appLogger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:      "ok",
			Environment: cfg.App.Env,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Expense routes; the stats route is registered before :id so it wins.
	expenses := app.Group("/expenses")
	expenses.Post("", expenseHandler.Create)
	expenses.Get("", expenseHandler.List)
	expenses.Get("/stats/category", expenseHandler.CategoryStats)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)

	// JSON 404 for everything unrouted.
	app.Use(func(c *fiber.Ctx) error {
		return apperr.Newf(apperr.KindNotFound, "not found - %s", c.OriginalURL())
	})

	return app
}

// newErrorHandler renders the uniform error shape. Internal detail is only
// attached outside production.
func newErrorHandler(cfg *config.Config, logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				switch fe.Code {
				case fiber.StatusNotFound:
					ae = apperr.New(apperr.KindNotFound, fe.Message)
				case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
					ae = apperr.New(apperr.KindBadRequest, fe.Message)
				default:
					ae = apperr.Wrap(fe, fe.Message)
				}
			} else {
				ae = apperr.Wrap(err, "internal server error")
			}
		}

		if ae.Kind == apperr.KindInternal {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}

		body := dto.ErrorResponse{
			Status:  "error",
			Message: ae.Message,
			Errors:  ae.Fields,
		}
		if ae.Kind == apperr.KindInternal && !cfg.IsProduction() {
			if cause := ae.Unwrap(); cause != nil {
				body.Detail = cause.Error()
			}
		}

		return c.Status(ae.Kind.HTTPStatus()).JSON(body)
	}
}

func securityHeaders(c *fiber.Ctx) error {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("X-Frame-Options", "DENY")
	c.Set("X-XSS-Protection", "1; mode=block")
	return c.Next()
}
