package cli

import (
	"fmt"

	"sarlink/internal/config"
	"sarlink/internal/events"
	"sarlink/internal/fleet"
	"sarlink/internal/journal"
	"sarlink/internal/llm_client"
	"sarlink/internal/logger"
	"sarlink/internal/mission"
	"sarlink/internal/planner"
	"sarlink/internal/sim"
)

type app struct {
	cfg   *config.Config
	llm   *llm_client.Client
	bus   *events.Bus
	coord *mission.Coordinator
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := fleet.NewStore(cfg.Fleet)
	if err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	j := journal.New(journal.DefaultCapacity)
	s := sim.New(store, j, cfg.Sim, nil)

	client := llm_client.New(cfg.Planner.Config)
	if err := client.Err(); err != nil {
		logger.Log.Printf("Planner unavailable (%s): %v", client.Backend(), err)
	} else {
		logger.Log.Printf("Planner backend %s, model %s", client.Backend(), client.Model())
	}

	bus := events.NewBus()
	coord := mission.New(store, j, s, planner.NewRequester(client), bus, mission.Options{
		Tunnel:  cfg.Tunnel,
		Timeout: cfg.Planner.Timeout,
	})
	return &app{cfg: cfg, llm: client, bus: bus, coord: coord}, nil
}

// loadPlans reads a plans file and keeps the named ones, reporting any missing names.
func loadPlans(path string, names []string) ([]planner.NamedPlan, []string, error) {
	plans, err := planner.LoadPlansFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	selected, missing := planner.SelectPlansByNames(plans, names)
	if len(selected) == 0 {
		return nil, missing, fmt.Errorf("no matching plans in %s", path)
	}
	return selected, missing, nil
}
