package plans

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

type planService interface {
	RegenerateWeek(ctx context.Context, userID int, weekStart Date) (*GeneratedWeek, error)
	GetWeek(ctx context.Context, userID int, weekStart Date) ([]PlanDay, error)
	Tips(sport, position string) []string
}

type Handler struct {
	service planService
	now     func() time.Time
}

func NewHandler(service planService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for the default week start.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/users/{id:[0-9]+}/plans", h.HandleGetWeek).Methods("GET", "OPTIONS").Name("get-week-plan")
	r.HandleFunc("/api/users/{id:[0-9]+}/plans/generate", h.HandleGenerate).Methods("POST", "OPTIONS").Name("generate-week-plan")
	r.HandleFunc("/api/tips/{sport}", h.HandleTips).Methods("GET", "OPTIONS").Name("sport-tips")
	r.HandleFunc("/api/tips/{sport}/{position}", h.HandleTips).Methods("GET", "OPTIONS").Name("position-tips")
}

func (h *Handler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.getweek")
	defer span.End()

	userID, weekStart, ok := h.parseParams(w, r)
	if !ok {
		return
	}

	days, err := h.service.GetWeek(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get week %s for user %d: %s", weekStart, userID, err)
		http.Error(w, "failed to get plans", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, days, http.StatusOK)
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "POST, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.generate")
	defer span.End()

	userID, weekStart, ok := h.parseParams(w, r)
	if !ok {
		return
	}

	week, err := h.service.RegenerateWeek(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("generate week %s for user %d: %s", weekStart, userID, err)
		http.Error(w, "failed to generate plan", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, week, http.StatusOK)
}

func (h *Handler) HandleTips(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, OPTIONS") {
		return
	}
	vars := mux.Vars(r)
	pkg.WriteJSON(w, h.service.Tips(vars["sport"], vars["position"]), http.StatusOK)
}

func (h *Handler) parseParams(w http.ResponseWriter, r *http.Request) (int, Date, bool) {
	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, Date{}, false
	}

	raw := r.URL.Query().Get("weekStart")
	if raw == "" {
		return userID, DefaultWeekStart(h.now()), true
	}

	weekStart, err := ParseDate(raw)
	if err != nil {
		http.Error(w, "weekStart must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return 0, Date{}, false
	}
	return userID, weekStart, true
}

func preflight(w http.ResponseWriter, r *http.Request, allow string) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Add("Allow", allow)
	w.WriteHeader(http.StatusOK)
	return true
}
