package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"hotfilm/pkg/sample"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData serves the most recent window's diagnostic and statistics.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		diag, stats, ok := app.latest.snapshot()
		if !ok {
			ctx.Status(http.StatusServiceUnavailable)
			return ctx.JSON(fiber.Map{"error": "no window finished yet"})
		}

		return ctx.JSON(struct {
			Diagnostic sample.Diagnostic `json:"diagnostic"`
			Stats      []sample.Stats    `json:"stats"`
		}{diag, stats})
	}
}
