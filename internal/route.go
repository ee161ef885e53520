package internal

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/metrics"
	"github.com/zapshots/shots-console-api/pkg/router"

	ctlChecks "github.com/zapshots/shots-console-api/internal/checks"
	ctlConnections "github.com/zapshots/shots-console-api/internal/connections"
	ctlContacts "github.com/zapshots/shots-console-api/internal/contacts"
	ctlDashboard "github.com/zapshots/shots-console-api/internal/dashboard"
	ctlDrafts "github.com/zapshots/shots-console-api/internal/drafts"
	ctlHeater "github.com/zapshots/shots-console-api/internal/heater"
	ctlIndex "github.com/zapshots/shots-console-api/internal/index"
	ctlSession "github.com/zapshots/shots-console-api/internal/session"
	ctlShots "github.com/zapshots/shots-console-api/internal/shots"
	ctlUsers "github.com/zapshots/shots-console-api/internal/users"
)

func Routes(app *fiber.App) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	// Route for Index
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index)
	} else {
		app.Get(router.BaseURL, ctlIndex.Index)
		app.Get(router.BaseURL+"/", ctlIndex.Index)
	}

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	app.Get(router.BaseURL+"/docs/swagger.json", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.json")
	})
	app.Get(router.BaseURL+"/docs/swagger.yaml", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.yaml")
	})
	app.Get(router.BaseURL+"/docs/*", swaggerHandler)

	// Route for Prometheus Metrics
	// ---------------------------------------------
	app.Get(router.BaseURL+"/metrics", metrics.Default.Handler())

	// Route for Session
	// ---------------------------------------------
	app.Post(router.BaseURL+"/auth/login", ctlSession.Login)

	sessionMiddleware := auth.SessionAuth()
	app.Get(router.BaseURL+"/auth/me", sessionMiddleware, ctlSession.Me)

	// Routes for Campaigns and the Message Editor
	// ---------------------------------------------
	shots := app.Group(router.BaseURL+"/shots", sessionMiddleware)
	shots.Post("/editor/attach", ctlShots.Attach)
	shots.Post("/editor/detach", ctlShots.Detach)
	shots.Post("/editor/preview", ctlShots.Preview)
	shots.Get("/", ctlShots.List)
	shots.Post("/", ctlShots.Create)
	shots.Put("/:id", ctlShots.Update)
	shots.Post("/:id/:action", ctlShots.Action)

	// Routes for Drafts
	// ---------------------------------------------
	drafts := app.Group(router.BaseURL+"/drafts", sessionMiddleware)
	drafts.Get("/", ctlDrafts.List)
	drafts.Post("/", ctlDrafts.Create)
	drafts.Get("/:id", ctlDrafts.Get)
	drafts.Put("/:id", ctlDrafts.Update)
	drafts.Delete("/:id", ctlDrafts.Delete)

	// Routes for Connections
	// ---------------------------------------------
	connections := app.Group(router.BaseURL+"/connections", sessionMiddleware)
	connections.Get("/selectable", ctlConnections.ListSelectable)
	connections.Get("/:scope", ctlConnections.List)
	connections.Post("/", ctlConnections.Create)
	connections.Delete("/:id", ctlConnections.Delete)
	connections.Get("/:id/status", ctlConnections.Check)
	connections.Put("/:id/heater", ctlConnections.UpdateHeater)
	connections.Get("/:id/qrcode", ctlConnections.QRCode)
	connections.Put("/:id/disconnect", ctlConnections.Disconnect)

	// Routes for Contact Lists
	// ---------------------------------------------
	contacts := app.Group(router.BaseURL+"/contacts", sessionMiddleware)
	contacts.Get("/", ctlContacts.List)
	contacts.Post("/:name", ctlContacts.Upload)
	contacts.Get("/:listId", ctlContacts.Get)
	contacts.Put("/:listId", ctlContacts.DeleteByIDs)
	contacts.Delete("/:listId", ctlContacts.DeleteList)

	// Routes for Number Verification
	// ---------------------------------------------
	checks := app.Group(router.BaseURL+"/checks", sessionMiddleware)
	checks.Get("/", ctlChecks.List)
	checks.Post("/:name", ctlChecks.Upload)
	checks.Post("/:id/cancel", ctlChecks.Cancel)
	checks.Get("/:id/csv", ctlChecks.DownloadCSV)

	// Routes for Warm-up Runs
	// ---------------------------------------------
	heaters := app.Group(router.BaseURL+"/heaters", sessionMiddleware)
	heaters.Get("/", ctlHeater.List)
	heaters.Post("/", ctlHeater.Create)
	heaters.Put("/:id/cancel", ctlHeater.Cancel)

	// Routes for Users
	// ---------------------------------------------
	users := app.Group(router.BaseURL+"/users", sessionMiddleware)
	users.Get("/", ctlUsers.List)
	users.Post("/", ctlUsers.Create)
	users.Put("/:id", ctlUsers.Update)
	users.Delete("/:id", ctlUsers.Delete)

	// Routes for Dashboard
	// ---------------------------------------------
	dashboard := app.Group(router.BaseURL+"/dashboard", sessionMiddleware)
	dashboard.Get("/connections", ctlDashboard.Connections)
	dashboard.Post("/shots", ctlDashboard.Shots)
}
