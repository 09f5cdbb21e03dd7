package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mshibata/fleamarket/handlers"
	"github.com/mshibata/fleamarket/middleware"
)

func ChatRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Get("/items/:item/chats", handlers.GetItemChats)
	api.Post("/items/:item/chats", handlers.CreateItemChat)

	api.Get("/chats/:chat", handlers.GetChat)
	api.Patch("/chats/:chat", handlers.UpdateChat)
	api.Delete("/chats/:chat", handlers.DeleteChat)
}
