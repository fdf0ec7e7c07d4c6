package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/5con/fittrack/internal/cache"
	"github.com/5con/fittrack/internal/planner"
	"github.com/5con/fittrack/internal/telemetry/metrics"
	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/internal/users"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=plans

type planRepo interface {
	ReplaceWeek(ctx context.Context, userID int, weekStart Date, days []PlanDay) ([]PlanDay, error)
	ListWeek(ctx context.Context, userID int, weekStart Date) ([]PlanDay, error)
}

type profileSource interface {
	Get(ctx context.Context, id int) (*users.User, error)
}

type Service struct {
	repo           planRepo
	profiles       profileSource
	cache          cache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
}

func NewService(
	repo planRepo,
	profiles profileSource,
	weekCache cache.Cache,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Service {
	if weekCache == nil {
		weekCache = cache.Noop{}
	}
	return &Service{
		repo:           repo,
		profiles:       profiles,
		cache:          weekCache,
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
	}
}

// RegenerateWeek builds a fresh plan for the user and replaces whatever was stored for that week.
func (s *Service) RegenerateWeek(ctx context.Context, userID int, weekStart Date) (_ *GeneratedWeek, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.regenerateweek")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.String("week-start", weekStart.String()),
	)

	user, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	generated := planner.Generate(profileOf(user), weekStart.Time)

	stored, err := s.repo.ReplaceWeek(ctx, userID, weekStart, fromPlanner(userID, generated.Days))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("replace week: %w", err)
	}

	s.refresh(ctx, weekKey(userID, weekStart), stored)
	if s.metricsManager != nil {
		s.metricsManager.CounterPlansGenerated.Inc()
	}

	return &GeneratedWeek{
		Plan:   stored,
		Advice: generated.Advice,
	}, nil
}

// GetWeek returns what is stored for the week, possibly nothing. It never generates.
// The owner is looked up on every call, so a deleted user is never served from the cache.
func (s *Service) GetWeek(ctx context.Context, userID int, weekStart Date) (_ []PlanDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.getweek")
	defer tracing.EndSpan(span, &err)

	if _, err := s.profile(ctx, userID); err != nil {
		return nil, err
	}

	key := weekKey(userID, weekStart)
	if days, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return days, nil
	}

	days, err := s.repo.ListWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("list week: %w", err)
	}

	// a regeneration that committed after ListWeek has already written its week
	s.fill(ctx, key, days)
	return days, nil
}

func (s *Service) Tips(sport, position string) []string {
	return planner.Tips(sport, position)
}

// UserDeleted drops all cached weeks of the user.
func (s *Service) UserDeleted(ctx context.Context, userID int) {
	s.invalidate(ctx, userPrefix(userID))
}

func (s *Service) profile(ctx context.Context, userID int) (*users.User, error) {
	user, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]PlanDay, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("plan cache get %s: %s", key, err)
		}
		s.countCache("miss")
		return nil, false
	}

	var days []PlanDay
	if err := json.Unmarshal(raw, &days); err != nil {
		log.Errorf("plan cache, unmarshal %s: %s", key, err)
		s.countCache("miss")
		return nil, false
	}

	s.countCache("hit")
	return days, true
}

// fill caches days unless the key is already set.
func (s *Service) fill(ctx context.Context, key string, days []PlanDay) {
	raw, err := json.Marshal(days)
	if err != nil {
		log.Errorf("plan cache, marshal %s: %s", key, err)
		return
	}
	if _, err := s.cache.SetIfAbsent(ctx, key, raw, s.cacheTTL); err != nil {
		log.Warnf("plan cache fill %s: %s", key, err)
	}
}

// refresh overwrites the cached week with a freshly stored one.
// When that fails the entry is dropped instead.
func (s *Service) refresh(ctx context.Context, key string, days []PlanDay) {
	raw, err := json.Marshal(days)
	if err == nil {
		err = s.cache.Set(ctx, key, raw, s.cacheTTL)
	}
	if err != nil {
		log.Warnf("plan cache refresh %s: %s", key, err)
		s.invalidate(ctx, key)
	}
}

func (s *Service) invalidate(ctx context.Context, prefix string) {
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		log.Warnf("plan cache invalidate %s: %s", prefix, err)
	}
}

func (s *Service) countCache(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterPlanCache.WithLabelValues(result).Inc()
	}
}

func profileOf(u *users.User) planner.Profile {
	p := planner.Profile{
		Sport:    u.Sport,
		Level:    u.Level,
		WeightKg: u.WeightKg,
	}
	if u.Position != nil {
		p.Position = *u.Position
	}
	return p
}

func userPrefix(userID int) string {
	return fmt.Sprintf("plans:%d:", userID)
}

func weekKey(userID int, weekStart Date) string {
	return userPrefix(userID) + weekStart.String()
}
