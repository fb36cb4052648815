package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/api/validation"
	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/service"
	"github.com/blaisecz/vitality-tracker/pkg/problem"
)

type SampleHandler struct {
	service service.SampleService
}

func NewSampleHandler(service service.SampleService) *SampleHandler {
	return &SampleHandler{service: service}
}

// Ingest handles POST /v1/samples
// @Summary Ingest raw samples
// @Description Accept a batch of raw physiological samples. Scores for the affected dates recompute asynchronously.
// @Tags samples
// @Accept json
// @Produce json
// @Param request body domain.IngestRequest true "Batch of samples"
// @Success 202 {object} domain.IngestResponse "Samples accepted"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 503 {object} problem.Problem "Storage temporarily unavailable, retry"
// @Router /samples [post]
func (h *SampleHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req domain.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	response, err := h.service.Ingest(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("Samples are inconsistent: stage samples need a stage and an interval, numeric samples need a positive value").Write(w)
			return
		}
		if errors.Is(err, domain.ErrPersistence) {
			problem.ServiceUnavailable("Storage is temporarily unavailable; retry the request").Write(w)
			return
		}
		problem.InternalError("Failed to ingest samples").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// List handles GET /v1/samples
// @Summary List raw samples
// @Description Fetch paginated raw samples. Filter by metric type and time range. Sorted by start_at descending.
// @Tags samples
// @Produce json
// @Param metric_type query string false "Metric type filter" Enums(SLEEP_STAGE, HRV, RESTING_HEART_RATE, WALKING_HEART_RATE, RESPIRATORY_RATE, OXYGEN_SATURATION)
// @Param from query string false "Start of time range (RFC3339)" format(date-time) example(2024-03-01T00:00:00Z)
// @Param to query string false "End of time range (RFC3339)" format(date-time) example(2024-03-31T23:59:59Z)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.SampleListResponse "Samples with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 503 {object} problem.Problem "Storage temporarily unavailable, retry"
// @Router /samples [get]
func (h *SampleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := parseSampleFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			problem.ServiceUnavailable("Storage is temporarily unavailable; retry the request").Write(w)
			return
		}
		problem.InternalError("Failed to list samples").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseSampleFilter(r *http.Request) (domain.SampleFilter, []problem.FieldError) {
	var filter domain.SampleFilter
	var fieldErrors []problem.FieldError

	if metricStr := r.URL.Query().Get("metric_type"); metricStr != "" {
		metric := domain.MetricType(metricStr)
		valid := false
		for _, m := range append([]domain.MetricType{domain.MetricSleepStage}, domain.RecoveryMetrics...) {
			if metric == m {
				valid = true
			}
		}
		if !valid {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "metric_type",
				Message: "must be a known metric type",
			})
		} else {
			filter.MetricType = &metric
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
