package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/5con/fittrack/internal/auth"
	"github.com/5con/fittrack/internal/telemetry/metrics"
	"github.com/5con/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users

type userRepo interface {
	Create(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, email string) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int) error
}

// DeleteListener is notified after a user is removed.
type DeleteListener interface {
	UserDeleted(ctx context.Context, userID int)
}

type Service struct {
	repo           userRepo
	metricsManager *metrics.Manager
	listeners      []DeleteListener

	// swappable for tests
	hashPassword   func(password string) (string, error)
	verifyPassword func(password, hash string) (bool, error)
}

func NewService(repo userRepo, metricsManager *metrics.Manager, listeners ...DeleteListener) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
		listeners:      listeners,
		hashPassword:   auth.HashPassword,
		verifyPassword: auth.VerifyPassword,
	}
}

func (s *Service) List(ctx context.Context, email string) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.list")
	defer tracing.EndSpan(span, &err)

	users, err := s.repo.List(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.get")
	defer tracing.EndSpan(span, &err)

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Create adds a new user. Emails are unique regardless of case.
// A missing password is hashed as the empty string, so the account cannot log in until one is set.
func (s *Service) Create(ctx context.Context, in Input) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.create")
	defer tracing.EndSpan(span, &err)

	if err := in.validate(false); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

// Register is Create for self sign-up, where a password is mandatory.
func (s *Service) Register(ctx context.Context, in Input) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer tracing.EndSpan(span, &err)

	if err := in.validate(true); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in Input) (*User, error) {
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{PasswordHash: hash}
	in.apply(user)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterUsersRegistered.Inc()
	}
	log.Debugf("user %d created", created.ID)

	return created, nil
}

// Update replaces the profile of user id. Uniqueness is re-checked only when the email changes.
func (s *Service) Update(ctx context.Context, id int, in Input) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.update")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.Int("id", id))

	if err := in.validate(false); err != nil {
		return err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get user %d: %w", id, err)
	}

	if !sameEmail(existing.Email, in.Email) {
		if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
			return err
		}
	}

	in.apply(existing)
	existing.PasswordHash = ""
	if in.Password != "" {
		if existing.PasswordHash, err = s.hashPassword(in.Password); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.delete")
	defer tracing.EndSpan(span, &err)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	for _, l := range s.listeners {
		l.UserDeleted(ctx, id)
	}
	return nil
}

// Login checks the credentials. Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.login")
	defer tracing.EndSpan(span, &err)

	result := "error"
	defer func() {
		if s.metricsManager != nil {
			s.metricsManager.CounterLogins.WithLabelValues(result).Inc()
		}
	}()

	// accounts created without a password hold the hash of ""
	if password == "" {
		result = "rejected"
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			result = "rejected"
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	ok, err := s.verifyPassword(password, user.PasswordHash)
	if err != nil {
		log.Warnf("login user %d, verify password: %s", user.ID, err)
		result = "rejected"
		return nil, ErrInvalidCredentials
	}
	if !ok {
		result = "rejected"
		return nil, ErrInvalidCredentials
	}

	result = "ok"
	return user, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, ownerID int) error {
	other, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case other.ID != ownerID:
		return ErrEmailTaken
	default:
		return nil
	}
}
