package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rs/zerolog/log"
)

const healthPingTimeout = 2 * time.Second

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	return healthHandler{
		responder:   NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
		database:    database,
		startupTime: startupTime,
	}
}

// health reports uptime, or 503 when the store does not answer
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := h.database.Ping(ctx); err != nil {
			apiErr := errs.NewApiErr(http.StatusServiceUnavailable, "Database unavailable")
			apiErr.Cause = err
			h.responder.WriteError(w, apiErr)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
