package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/5con/fittrack/internal/middleware"
	"github.com/5con/fittrack/internal/telemetry/metrics"
	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	msgEmailTakenOnCreate = "An account with this email already exists. Please try logging in instead, or use a different email address."
	msgEmailTakenOnUpdate = "Email is already in use by another account"
	msgInvalidCredentials = "Invalid email or password"
	msgRegistered         = "Registration successful"
	msgLoggedIn           = "Login successful"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type userService interface {
	List(ctx context.Context, email string) ([]User, error)
	Get(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, in Input) (*User, error)
	Register(ctx context.Context, in Input) (*User, error)
	Update(ctx context.Context, id int, in Input) error
	Delete(ctx context.Context, id int) error
	Login(ctx context.Context, email, password string) (*User, error)
}

type Handler struct {
	service userService
}

func NewHandler(service userService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the user routes. Register and login are rate limited per client
// when a limiter is given.
func (h *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
	trustProxyHeaders bool,
) {
	limited := func(name string, hf http.HandlerFunc) http.Handler {
		if rateLimiter == nil {
			return hf
		}
		return middleware.RateLimit(rateLimiter, metricsManager, name, allowedPerMin, trustProxyHeaders)(hf)
	}

	r.Handle("/api/users/register", limited("register", h.HandleRegister)).Methods("POST", "OPTIONS").Name("register-user")
	r.Handle("/api/users/login", limited("login", h.HandleLogin)).Methods("POST", "OPTIONS").Name("login-user")
	r.HandleFunc("/api/users", h.HandleList).Methods("GET", "OPTIONS").Name("list-users")
	r.HandleFunc("/api/users", h.HandleCreate).Methods("POST", "OPTIONS").Name("create-user")
	r.HandleFunc("/api/users/{id:[0-9]+}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
	r.HandleFunc("/api/users/{id:[0-9]+}", h.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-user")
	r.HandleFunc("/api/users/{id:[0-9]+}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-user")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, POST, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	users, err := h.service.List(ctx, r.URL.Query().Get("email"))
	if err != nil {
		log.Errorf("list users: %s", err)
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, PUT, DELETE, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get user %d: %s", id, err)
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, POST, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.create")
	defer span.End()

	user, ok := h.create(ctx, w, r, h.service.Create)
	if !ok {
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "POST, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	user, ok := h.create(ctx, w, r, h.service.Register)
	if !ok {
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", user.ID))
	pkg.WriteJSON(w, AuthResponse{User: user, Message: msgRegistered}, http.StatusCreated)
}

func (h *Handler) create(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	createFn func(context.Context, Input) (*User, error),
) (*User, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create user, unmarshal json: %s", err)
		pkg.WriteJSONMessage(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	user, err := createFn(ctx, in)
	switch {
	case err == nil:
		return user, true
	case errors.Is(err, ErrEmailTaken):
		pkg.WriteJSONMessage(w, msgEmailTakenOnCreate, http.StatusBadRequest)
	case errors.Is(err, ErrValidation):
		pkg.WriteJSONMessage(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("create user: %s", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
	}
	return nil, false
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, PUT, DELETE, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update user %d, unmarshal json: %s", id, err)
		pkg.WriteJSONMessage(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.Update(ctx, id, in)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		pkg.WriteJSONMessage(w, msgEmailTakenOnUpdate, http.StatusBadRequest)
	case errors.Is(err, ErrValidation):
		pkg.WriteJSONMessage(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("update user %d: %s", id, err)
		http.Error(w, "failed to update user", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "GET, PUT, DELETE, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.delete")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete user %d: %s", id, err)
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r, "POST, OPTIONS") {
		return
	}
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("login, unmarshal json: %s", err)
		pkg.WriteJSONMessage(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			pkg.WriteJSONMessage(w, msgInvalidCredentials, http.StatusBadRequest)
			return
		}
		log.Errorf("login: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, AuthResponse{User: user, Message: msgLoggedIn}, http.StatusOK)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func preflight(w http.ResponseWriter, r *http.Request, allow string) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Add("Allow", allow)
	w.WriteHeader(http.StatusOK)
	return true
}
