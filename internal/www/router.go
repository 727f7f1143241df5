package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sarlink/internal/mission"
)

// Status describes the planning backend for /api/health.
type Status struct {
	Backend   string
	Model     string
	Available bool
}

type Handlers struct {
	coord    *mission.Coordinator
	status   Status
	eventHub *EventHub
	wsHub    *WSHub
}

// NewRouter builds the HTTP API. The returned func stops the stream hubs.
func NewRouter(coord *mission.Coordinator, status Status) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	ws := NewWSHub()
	go ws.Run()
	if bus := coord.Bus(); bus != nil {
		hub.SetupListeners(bus)
		ws.SetupListeners(bus)
	}

	h := &Handlers{coord: coord, status: status, eventHub: hub, wsHub: ws}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/events", hub.SSEHandler)
	r.Get("/ws", ws.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealthCheck)
		r.Get("/fleet", h.apiFleet)
		r.Get("/fleet/{id}", h.apiRobot)
		r.Get("/logs", h.apiLogs)
		r.Get("/plan", h.apiCurrentPlan)
		r.Post("/plan", h.apiSubmitPlan)
		r.Post("/plan/{id}/execute", h.apiExecutePlan)
		r.Post("/plan/{id}/discard", h.apiDiscardPlan)
	})

	stopFn := func() {
		hub.Stop()
		ws.Stop()
	}
	return r, stopFn
}
