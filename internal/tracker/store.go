package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/5con/fittrack/internal/users"

	log "github.com/sirupsen/logrus"
)

// Session marks the local user as signed in.
type Session struct {
	Email  string    `json:"email"`
	UserID int       `json:"userId,omitempty"`
	TS     time.Time `json:"ts"`
}

type Profile struct {
	Email    string  `json:"email,omitempty"`
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
	Sport    string  `json:"sport"`
	Level    string  `json:"level"`
	Position string  `json:"position,omitempty"`
}

func (p Profile) toInput(email string) users.Input {
	in := users.Input{
		Email: email,
		Sport: p.Sport,
		Level: p.Level,
	}
	if p.HeightCm > 0 {
		h := p.HeightCm
		in.HeightCm = &h
	}
	if p.WeightKg > 0 {
		w := p.WeightKg
		in.WeightKg = &w
	}
	if pos := strings.TrimSpace(p.Position); pos != "" {
		in.Position = &pos
	}
	return in
}

// DayEntry is one day of a week plan as kept on disk.
type DayEntry struct {
	Date    string `json:"date"`
	Day     string `json:"day"`
	Workout string `json:"workout"`
	Type    string `json:"type"`
}

type state struct {
	Auth        *Session              `json:"ft_auth_v1,omitempty"`
	Profile     *Profile              `json:"ft_profile_v1,omitempty"`
	Plans       map[string][]DayEntry `json:"ft_plans_v1"`
	Completions map[string]bool       `json:"ft_completions_v1"`
}

// Store keeps the tracker state in a single JSON file. Every mutation is written through.
type Store struct {
	mu    sync.Mutex
	path  string
	state state
}

// OpenStore reads the state file at path. A missing or unreadable file starts empty.
func OpenStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		state: state{
			Plans:       map[string][]DayEntry{},
			Completions: map[string]bool{},
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var loaded state
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Warnf("tracker state file %s is corrupt, starting fresh: %s", path, err)
		return s, nil
	}
	if loaded.Plans == nil {
		loaded.Plans = map[string][]DayEntry{}
	}
	if loaded.Completions == nil {
		loaded.Completions = map[string]bool{}
	}
	s.state = loaded
	return s, nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Auth != nil
}

func (s *Store) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Auth == nil {
		return Session{}, false
	}
	return *s.state.Auth, true
}

func (s *Store) SetSession(session Session) error {
	return s.update(func(st *state) {
		st.Auth = &session
	})
}

func (s *Store) ClearSession() error {
	return s.update(func(st *state) {
		st.Auth = nil
	})
}

func (s *Store) Profile() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Profile == nil {
		return Profile{}, false
	}
	return *s.state.Profile, true
}

func (s *Store) SetProfile(profile Profile) error {
	return s.update(func(st *state) {
		st.Profile = &profile
	})
}

func (s *Store) Plan(weekKey string) ([]DayEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days, ok := s.state.Plans[weekKey]
	if !ok {
		return nil, false
	}
	return append([]DayEntry(nil), days...), true
}

func (s *Store) SetPlan(weekKey string, days []DayEntry) error {
	days = append([]DayEntry(nil), days...)
	return s.update(func(st *state) {
		st.Plans[weekKey] = days
	})
}

func (s *Store) Completions() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.state.Completions))
	for k, v := range s.state.Completions {
		out[k] = v
	}
	return out
}

// SetCompletion marks the date as done, or forgets it.
func (s *Store) SetCompletion(date string, done bool) error {
	return s.update(func(st *state) {
		if done {
			st.Completions[date] = true
		} else {
			delete(st.Completions, date)
		}
	})
}

func (s *Store) update(mutate func(*state)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.state)
	return s.save()
}

// save writes a temp file next to the state file and renames it over.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fittrack-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
