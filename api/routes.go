package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupAPIRoutes mounts the contact and tag endpoints under /api
func setupAPIRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route("/api", func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware(log.Logger))
		r.Use(RequestCache)

		// Contact Handler endpoints
		r.Get("/contact", handlers.contactHandler.listContacts())
		r.Post("/contact", handlers.contactHandler.createContact())
		r.Get("/contact/{contactID}", handlers.contactHandler.getContact())
		r.Put("/contact/{contactID}", handlers.contactHandler.updateContact())
		r.Delete("/contact/{contactID}", handlers.contactHandler.deleteContact())

		// Tag Handler endpoints
		r.Get("/tags", handlers.tagHandler.listAllTags())
		r.Get("/tag", handlers.tagHandler.listTags())
		r.Post("/tag", handlers.tagHandler.createTag())
		r.Put("/tag/{tagID}", handlers.tagHandler.updateTag())
		r.Delete("/tag/{tagID}", handlers.tagHandler.deleteTag())
	})
}
