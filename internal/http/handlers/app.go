package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
)

// JobCreator is the slice of the orchestrator the gateway needs.
type JobCreator interface {
	CreateJob(ctx context.Context, destination string, durationDays int, locale string) (string, error)
}

// App bundles handler dependencies.
type App struct {
	Planner JobCreator
	Jobs    domain.JobStore
	Config  *infra.Config
	Logger  infra.Logger
}

func NewApp(planner JobCreator, jobs domain.JobStore, cfg *infra.Config, logger infra.Logger) *App {
	return &App{Planner: planner, Jobs: jobs, Config: cfg, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// NotFound keeps unmatched routes on the JSON contract.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusNotFound, "Not Found")
}
