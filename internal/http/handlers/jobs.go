package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
)

type createItineraryRequest struct {
	Destination  string `json:"destination"`
	DurationDays int    `json:"durationDays"`
}

type createItineraryResponse struct {
	JobID string `json:"jobId"`
}

// jobResponse is the polled record. The itinerary field is the day-plan
// sequence itself, null until the job completes.
type jobResponse struct {
	JobID        string           `json:"jobId"`
	Status       domain.JobStatus `json:"status"`
	Destination  string           `json:"destination"`
	DurationDays int              `json:"durationDays"`
	CreatedAt    time.Time        `json:"createdAt"`
	CompletedAt  *time.Time       `json:"completedAt"`
	Itinerary    []domain.DayPlan `json:"itinerary"`
	Error        *string          `json:"error"`
}

// CreateItinerary accepts a generation request and answers immediately with
// the job id; the slow generation runs in the background and clients poll the
// record.
func (a *App) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req createItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	jobID, err := a.Planner.CreateJob(r.Context(), req.Destination, req.DurationDays, locale)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			a.error(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: create job failed")
		a.error(w, http.StatusInternalServerError, "failed to create job")
		return
	}
	a.json(w, http.StatusAccepted, createItineraryResponse{JobID: jobID})
}

// GetItinerary returns the current job record for polling clients.
func (a *App) GetItinerary(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "job id is required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: load job failed")
		a.error(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

func toJobResponse(job *domain.Job) jobResponse {
	resp := jobResponse{
		JobID:        job.ID,
		Status:       job.Status,
		Destination:  job.Destination,
		DurationDays: job.DurationDays,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
	if job.Itinerary != nil {
		resp.Itinerary = job.Itinerary.Days
	}
	if job.ErrorMessage != "" {
		msg := job.ErrorMessage
		resp.Error = &msg
	}
	return resp
}
