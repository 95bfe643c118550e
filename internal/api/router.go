package api

import (
	"github.com/gsaikumar-123/Personal-Finance-Assistant/docs"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/api/handlers"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/upload"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/auth"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	txHandler *handlers.TransactionHandler,
	receiptHandler *handlers.ReceiptHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		// Fiber's default body limit is 4 MiB; receipts may be up to 10 MiB
		// plus multipart overhead.
		BodyLimit: upload.MaxFileSize + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(logger.New())

	// Importing docs registers the generated OpenAPI spec via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/logout", authHandler.Logout)

	authRequired := middleware.AuthRequired(jwtManager, appLogger)

	api.Get("/profile", authRequired, authHandler.Profile)
	api.Post("/extract-receipt", authRequired, receiptHandler.ExtractReceipt)

	tx := api.Group("/transactions", authRequired)
	tx.Get("", txHandler.List)
	tx.Post("/add", txHandler.Add)
	tx.Get("/summary", txHandler.Summary)
	tx.Get("/type/:type", txHandler.ListByType)
	tx.Get("/filter/date", txHandler.FilterByDate)
	tx.Get("/filter/category/:category", txHandler.FilterByCategory)
	tx.Put("/update/:id", txHandler.Update)
	tx.Delete("/delete/:id", txHandler.Delete)

	return app
}
