package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's API registrar. Implementations are
// collected into the fx "routes" group and mounted on the shared Fiber app.
type Route interface {
	Setup(app *fiber.App)
}
