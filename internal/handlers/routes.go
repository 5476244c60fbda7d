package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires every handler under /api.
func RegisterRoutes(app *fiber.App, forms *FormHandler, responses *ResponseHandler, playback *PlaybackHandler) {
	api := app.Group("/api")

	f := api.Group("/forms")
	f.Post("/", forms.Create)
	f.Get("/", forms.List)
	f.Get("/:id", forms.Get)
	f.Put("/:id", forms.Update)
	f.Delete("/:id", forms.Delete)
	f.Get("/:id/logic/check", forms.CheckLogic)

	f.Post("/:id/responses", responses.Create)
	f.Get("/:id/responses", responses.ListByForm)
	f.Get("/:id/responses/summary", responses.Summary)
	f.Post("/:id/responses/filter", responses.Filter)

	f.Post("/:id/playback/next", playback.Next)
	f.Post("/:id/playback/answer", playback.Answer)
	f.Post("/:id/playback/submit", playback.Submit)

	api.Get("/responses/:id", responses.Get)
	api.Delete("/responses/:id", responses.Delete)
}
