package api

import (
	"time"

	"github.com/rpupo63/quickdialer/config"
	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/validation"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, cfg config.Config, startupTime time.Time) *routeHandlers {
	validator := validation.New()

	return &routeHandlers{
		contactHandler: newContactHandler(database.ContactRepo(), validator, cfg.MaxPageSize),
		tagHandler:     newTagHandler(database.TagRepo(), validator, cfg.MaxPageSize),
		healthHandler:  newHealthHandler(database, startupTime),
	}
}
