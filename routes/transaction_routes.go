package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mshibata/fleamarket/handlers"
	"github.com/mshibata/fleamarket/middleware"
)

func TransactionRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Get("/transactions", handlers.GetTransactions)
}
