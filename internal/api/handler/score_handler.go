package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/service"
	"github.com/blaisecz/vitality-tracker/pkg/problem"
	"github.com/go-chi/chi/v5"
)

type ScoreHandler struct {
	service service.ScoreService
}

func NewScoreHandler(service service.ScoreService) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// Get handles GET /v1/scores/{date}/{kind}
// @Summary Get a daily score
// @Description Fetch the sleep or recovery score for one calendar date. The first read of a date computes and persists the score; later reads return the same stored record.
// @Tags scores
// @Produce json
// @Param date path string true "Calendar date (UTC)" format(date) example(2024-03-10)
// @Param kind path string true "Score kind" Enums(sleep, recovery)
// @Success 200 {object} domain.ScoreRecord "Score with component breakdown"
// @Failure 400 {object} problem.Problem "Invalid date or kind"
// @Failure 404 {object} problem.Problem "Score not yet available (no sleep session detected for the date)"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 503 {object} problem.Problem "Storage temporarily unavailable, retry"
// @Router /scores/{date}/{kind} [get]
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	kind := domain.ScoreKind(strings.ToUpper(chi.URLParam(r, "kind")))

	record, err := h.service.GetScore(r.Context(), date, kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("Date must be YYYY-MM-DD and kind must be sleep or recovery").Write(w)
			return
		}
		if errors.Is(err, domain.ErrScoreNotYetAvailable) {
			problem.NotYetAvailable("No sleep session detected for this date yet; the score will appear once sleep data arrives").Write(w)
			return
		}
		if errors.Is(err, domain.ErrPersistence) {
			problem.ServiceUnavailable("Storage is temporarily unavailable; retry the request").Write(w)
			return
		}
		problem.InternalError("Failed to get score").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// List handles GET /v1/scores
// @Summary List stored scores
// @Description Fetch stored score records in a date range. Listing never computes missing dates; days without a stored record are simply absent.
// @Tags scores
// @Produce json
// @Param from query string true "Start date, inclusive" format(date) example(2024-03-01)
// @Param to query string true "End date, inclusive" format(date) example(2024-03-31)
// @Param kind query string false "Score kind filter" Enums(sleep, recovery)
// @Success 200 {object} domain.ScoreListResponse "Stored score records, ordered by date"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 503 {object} problem.Problem "Storage temporarily unavailable, retry"
// @Router /scores [get]
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	var fieldErrors []problem.FieldError
	for _, p := range []struct{ name, value string }{{"from", from}, {"to", to}} {
		if _, err := time.Parse(domain.ScoreDateLayout, p.value); err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   p.name,
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	var kind *domain.ScoreKind
	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		k := domain.ScoreKind(strings.ToUpper(kindStr))
		if k != domain.ScoreKindSleep && k != domain.ScoreKindRecovery {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "kind",
				Message: "must be one of: sleep recovery",
			})
		} else {
			kind = &k
		}
	}

	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	records, err := h.service.ListRange(r.Context(), from, to, kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("Dates must be YYYY-MM-DD").Write(w)
			return
		}
		if errors.Is(err, domain.ErrPersistence) {
			problem.ServiceUnavailable("Storage is temporarily unavailable; retry the request").Write(w)
			return
		}
		problem.InternalError("Failed to list scores").Write(w)
		return
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.ScoreListResponse{Data: records})
}
