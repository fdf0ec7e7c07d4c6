package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/5con/fittrack/internal/planner"
)

const DateLayout = time.DateOnly

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidWeekStart = errors.New("invalid week start")
)

// Date is a calendar date, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{planner.DateOnly(t)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidWeekStart, s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

type PlanDay struct {
	ID      int    `json:"id"`
	UserID  int    `json:"userId"`
	Date    Date   `json:"date"`
	DayName string `json:"dayName"`
	Workout string `json:"workout"`
	Type    string `json:"type"`
}

type GeneratedWeek struct {
	Plan   []PlanDay      `json:"plan"`
	Advice planner.Advice `json:"advice"`
}

// DefaultWeekStart is the most recent Sunday (today included), in UTC.
func DefaultWeekStart(now time.Time) Date {
	today := planner.DateOnly(now.UTC())
	return Date{today.AddDate(0, 0, -int(today.Weekday()))}
}

func fromPlanner(userID int, days []planner.Day) []PlanDay {
	out := make([]PlanDay, 0, len(days))
	for _, d := range days {
		out = append(out, PlanDay{
			UserID:  userID,
			Date:    NewDate(d.Date),
			DayName: d.DayName,
			Workout: d.Workout,
			Type:    string(d.Type),
		})
	}
	return out
}
