package routes

import (
	"es-bug-demo/middleware"
	"es-bug-demo/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitBugDemoRoutes(app *fiber.App, controller *controllers.BugDemoController) {
	acceptJSON := middleware.AcceptJSON()

	app.Get("/ping", acceptJSON, controller.PingController)
	app.Get("/bug/example", acceptJSON, controller.BugExampleController)
	app.Get("/bug/workaround", acceptJSON, controller.WorkaroundController)
}
