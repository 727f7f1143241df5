package www

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sarlink/internal/mission"
	"sarlink/internal/planner"
)

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"status":            "ok",
		"backend":           h.status.Backend,
		"model":             h.status.Model,
		"planner_available": h.status.Available,
		"planner_busy":      h.coord.Busy(),
		"robots":            len(h.coord.Fleet()),
		"sse_clients":       h.eventHub.ClientCount(),
		"ws_clients":        h.wsHub.ClientCount(),
	})
}

func (h *Handlers) apiFleet(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.coord.Fleet())
}

func (h *Handlers) apiRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, robot := range h.coord.Fleet() {
		if robot.ID == id {
			h.jsonOK(w, robot)
			return
		}
	}
	h.jsonError(w, "robot not found", http.StatusNotFound)
}

func (h *Handlers) apiLogs(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.coord.Logs())
}

func (h *Handlers) apiCurrentPlan(w http.ResponseWriter, r *http.Request) {
	p := h.coord.Current()
	if p == nil {
		h.jsonError(w, mission.ErrNoProposal.Error(), http.StatusNotFound)
		return
	}
	h.jsonOK(w, p)
}

func (h *Handlers) apiSubmitPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.coord.Submit(r.Context(), req.Instruction)
	switch {
	case errors.Is(err, planner.ErrEmptyInstruction):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, planner.ErrBusy):
		h.jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, p)
}

func (h *Handlers) apiExecutePlan(w http.ResponseWriter, r *http.Request) {
	exec, err := h.coord.Execute(proposalID(r))
	if err != nil {
		h.proposalError(w, err)
		return
	}
	h.jsonOK(w, exec)
}

func (h *Handlers) apiDiscardPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.coord.Discard(proposalID(r))
	if err != nil {
		h.proposalError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"status": "discarded", "id": p.ID})
}

// proposalID treats "current" as the proposal awaiting confirmation.
func proposalID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if id == "current" {
		return ""
	}
	return id
}

func (h *Handlers) proposalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mission.ErrNoProposal):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, mission.ErrStaleProposal):
		h.jsonError(w, err.Error(), http.StatusConflict)
	default:
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
