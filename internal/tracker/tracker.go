package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/5con/fittrack/internal/plans"
	"github.com/5con/fittrack/internal/users"

	log "github.com/sirupsen/logrus"
)

var ErrNoProfile = errors.New("no profile saved yet")

const (
	SourceServer = "server"
	SourceLocal  = "local"
)

type api interface {
	UpsertUserFromProfile(ctx context.Context, email string, profile Profile) (*users.User, error)
	Register(ctx context.Context, in users.Input) (*users.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*users.AuthResponse, error)
	GetPlan(ctx context.Context, userID int, weekStart string) ([]plans.PlanDay, error)
	GeneratePlan(ctx context.Context, userID int, weekStart string) (*plans.GeneratedWeek, error)
	Tips(ctx context.Context, sport, position string) ([]string, error)
}

// Week is the plan shown for one Monday-based week.
type Week struct {
	Key    string     `json:"key"`
	Days   []DayEntry `json:"days"`
	Source string     `json:"source"`
	Tips   []string   `json:"tips,omitempty"`
}

// Tracker mirrors the server plan locally and keeps completion state next to it.
// With a nil api it works fully offline.
type Tracker struct {
	api   api
	store *Store
	now   func() time.Time
}

func New(client api, store *Store) *Tracker {
	return &Tracker{
		api:   client,
		store: store,
		now:   time.Now,
	}
}

func (t *Tracker) Register(ctx context.Context, email, password string, profile Profile) (*users.User, error) {
	if t.api == nil {
		return nil, errors.New("registering requires the api")
	}
	in := profile.toInput(email)
	in.Password = password

	resp, err := t.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := t.signIn(resp.User, profile); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (t *Tracker) Login(ctx context.Context, email, password string) (*users.User, error) {
	if t.api == nil {
		return nil, errors.New("login requires the api")
	}
	resp, err := t.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, ok := t.store.Profile()
	if !ok {
		profile = profileFromUser(resp.User)
	}
	if err := t.signIn(resp.User, profile); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (t *Tracker) Logout() error {
	return t.store.ClearSession()
}

func (t *Tracker) signIn(u *users.User, profile Profile) error {
	if err := t.store.SetSession(Session{Email: u.Email, UserID: u.ID, TS: t.now().UTC()}); err != nil {
		return err
	}
	profile.Email = u.Email
	return t.store.SetProfile(profile)
}

// SaveProfile stores the profile and regenerates the current week, on the server when
// possible and locally otherwise.
func (t *Tracker) SaveProfile(ctx context.Context, profile Profile) (*Week, error) {
	if session, ok := t.store.Session(); ok {
		profile.Email = session.Email
	}
	if err := t.store.SetProfile(profile); err != nil {
		return nil, err
	}

	weekStart := StartOfWeek(t.now())
	key := ISODate(weekStart)

	if t.useServer(profile) {
		week, err := t.generateOnServer(ctx, profile, key)
		if err == nil {
			return week, nil
		}
		log.Warnf("generate plan on server, falling back to local plan: %s", err)
	}

	return t.localWeek(profile, weekStart, true)
}

// CurrentWeek returns the plan of the week containing today.
func (t *Tracker) CurrentWeek(ctx context.Context) (*Week, error) {
	return t.WeekOf(ctx, t.now())
}

// WeekAt returns the plan offset weeks away from the current one, -1 being last week.
func (t *Tracker) WeekAt(ctx context.Context, offset int) (*Week, error) {
	return t.WeekOf(ctx, StartOfWeek(t.now()).AddDate(0, 0, 7*offset))
}

// WeekOf returns the stored server plan for the week containing day, generating one if the
// server has none. Any API failure falls back to the locally kept or generated plan.
func (t *Tracker) WeekOf(ctx context.Context, day time.Time) (*Week, error) {
	profile, ok := t.store.Profile()
	if !ok {
		return nil, ErrNoProfile
	}

	weekStart := StartOfWeek(day)
	key := ISODate(weekStart)

	if t.useServer(profile) {
		week, err := t.fetchFromServer(ctx, profile, key)
		if err == nil {
			return week, nil
		}
		log.Warnf("fetch plan from server, falling back to local plan: %s", err)
	}

	return t.localWeek(profile, weekStart, false)
}

// SetDone toggles the completion mark of a date, YYYY-MM-DD.
func (t *Tracker) SetDone(date string, done bool) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.store.SetCompletion(date, done)
}

func (t *Tracker) Completions() map[string]bool {
	return t.store.Completions()
}

func (t *Tracker) Streak() int {
	return CurrentStreak(t.store.Completions(), t.now())
}

func (t *Tracker) useServer(profile Profile) bool {
	return t.api != nil && profile.Email != ""
}

func (t *Tracker) fetchFromServer(ctx context.Context, profile Profile, key string) (*Week, error) {
	u, err := t.api.UpsertUserFromProfile(ctx, profile.Email, profile)
	if err != nil {
		return nil, err
	}

	stored, err := t.api.GetPlan(ctx, u.ID, key)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		generated, err := t.api.GeneratePlan(ctx, u.ID, key)
		if err != nil {
			return nil, err
		}
		stored = generated.Plan
	}

	return t.keepServerWeek(ctx, profile, key, stored)
}

func (t *Tracker) generateOnServer(ctx context.Context, profile Profile, key string) (*Week, error) {
	u, err := t.api.UpsertUserFromProfile(ctx, profile.Email, profile)
	if err != nil {
		return nil, err
	}
	generated, err := t.api.GeneratePlan(ctx, u.ID, key)
	if err != nil {
		return nil, err
	}
	return t.keepServerWeek(ctx, profile, key, generated.Plan)
}

func (t *Tracker) keepServerWeek(ctx context.Context, profile Profile, key string, days []plans.PlanDay) (*Week, error) {
	entries := make([]DayEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, DayEntry{
			Date:    d.Date.String(),
			Day:     d.DayName,
			Workout: d.Workout,
			Type:    d.Type,
		})
	}
	if err := t.store.SetPlan(key, entries); err != nil {
		return nil, err
	}

	tips, err := t.api.Tips(ctx, profile.Sport, profile.Position)
	if err != nil {
		log.Warnf("get tips for %s: %s", profile.Sport, err)
	}

	return &Week{
		Key:    key,
		Days:   entries,
		Source: SourceServer,
		Tips:   tips,
	}, nil
}

// localWeek returns the kept plan for the week, generating it from the local template when
// missing or when regenerate is set.
func (t *Tracker) localWeek(profile Profile, weekStart time.Time, regenerate bool) (*Week, error) {
	key := ISODate(weekStart)
	days, ok := t.store.Plan(key)
	if !ok || regenerate {
		days = GenerateLocalPlan(profile, weekStart)
		if err := t.store.SetPlan(key, days); err != nil {
			return nil, err
		}
	}
	return &Week{
		Key:    key,
		Days:   days,
		Source: SourceLocal,
	}, nil
}

func profileFromUser(u *users.User) Profile {
	p := Profile{
		Email: u.Email,
		Sport: u.Sport,
		Level: u.Level,
	}
	if u.HeightCm != nil {
		p.HeightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		p.WeightKg = *u.WeightKg
	}
	if u.Position != nil {
		p.Position = *u.Position
	}
	return p
}
