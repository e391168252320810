package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Tracker defines the interface for triggering a tracking cycle.
type Tracker interface {
	RunTrackingCycle(ctx context.Context) error
}

// DigestRunner defines the interface for triggering the daily digest.
type DigestRunner interface {
	RunDailyDigest(ctx context.Context) error
}

// TrackHandler handles manual tracking cycle trigger requests.
type TrackHandler struct {
	tracker Tracker
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(t Tracker) *TrackHandler {
	return &TrackHandler{tracker: t}
}

// TrackOutput is the response body for the track endpoint.
type TrackOutput struct {
	Body struct {
		Status string `json:"status" example:"tracking cycle completed" doc:"Cycle status"`
	}
}

// Track triggers a full tracking cycle run.
func (h *TrackHandler) Track(ctx context.Context, _ *struct{}) (*TrackOutput, error) {
	if err := h.tracker.RunTrackingCycle(ctx); err != nil {
		return nil, huma.Error500InternalServerError("tracking cycle failed: " + err.Error())
	}

	resp := &TrackOutput{}
	resp.Body.Status = "tracking cycle completed"
	return resp, nil
}

// DigestHandler handles manual digest trigger requests.
type DigestHandler struct {
	runner DigestRunner
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(r DigestRunner) *DigestHandler {
	return &DigestHandler{runner: r}
}

// DigestOutput is the response body for the digest endpoint.
type DigestOutput struct {
	Body struct {
		Status string `json:"status" example:"digest sent" doc:"Digest status"`
	}
}

// Digest renders and sends the daily digest immediately.
func (h *DigestHandler) Digest(ctx context.Context, _ *struct{}) (*DigestOutput, error) {
	if err := h.runner.RunDailyDigest(ctx); err != nil {
		return nil, huma.Error500InternalServerError("digest failed: " + err.Error())
	}

	resp := &DigestOutput{}
	resp.Body.Status = "digest sent"
	return resp, nil
}

// RegisterTriggerRoutes registers trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, trackH *TrackHandler, digestH *DigestHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-track",
		Method:      http.MethodPost,
		Path:        "/api/v1/track",
		Summary:     "Trigger a tracking cycle",
		Description: "Runs the full tracking cycle: look up ranks, store observations, " +
			"classify changes, detect patterns, and deliver alerts.",
		Tags:   []string{"tracking"},
		Errors: []int{http.StatusInternalServerError},
	}, trackH.Track)

	huma.Register(api, huma.Operation{
		OperationID: "trigger-digest",
		Method:      http.MethodPost,
		Path:        "/api/v1/digest",
		Summary:     "Send the daily digest now",
		Description: "Renders the digest from the last 24 hours of recorded alerts and sends it.",
		Tags:        []string{"tracking"},
		Errors:      []int{http.StatusInternalServerError},
	}, digestH.Digest)
}
