// Package planner builds weekly workout plans and nutrition advice from an athlete profile.
// It is deterministic: the same profile and week start always yield the same plan.
package planner

import (
	"strings"
	"time"
)

type DayType string

const (
	Strength     DayType = "strength"
	Cardio       DayType = "cardio"
	Conditioning DayType = "conditioning"
	Skill        DayType = "skill"
	Mobility     DayType = "mobility"
	Rest         DayType = "rest"
)

const (
	SportBasketball = "basketball"
	SportFootball   = "football"
	SportTennis     = "tennis"
	SportGolf       = "golf"
	SportGeneric    = "generic"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

const (
	PositionQuarterback = "quarterback"
	PositionReceiver    = "receiver"
	PositionLinebacker  = "linebacker"
	PositionCornerback  = "cornerback"
)

const DaysInWeek = 7

var positionAliases = map[string]string{
	"qb": PositionQuarterback,
	"wr": PositionReceiver,
	"lb": PositionLinebacker,
	"cb": PositionCornerback,
}

type Profile struct {
	Sport    string
	Level    string
	Position string
	WeightKg *float64
}

type Day struct {
	Date    time.Time
	DayName string
	Type    DayType
	Workout string
}

type Macros struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

type Advice struct {
	Calories int      `json:"calories"`
	Macros   Macros   `json:"macros"`
	Tips     []string `json:"tips"`
}

type Plan struct {
	Days   []Day
	Advice Advice
}

// Generate returns seven consecutive days starting at weekStart (treated as day 0
// whatever its weekday) together with nutrition advice. It never fails; unknown
// sports, levels and positions fall back to generic sessions.
func Generate(profile Profile, weekStart time.Time) Plan {
	sport := NormalizeSport(profile.Sport)
	level := NormalizeLevel(profile.Level)
	position := ""
	if sport == SportFootball {
		position = NormalizePosition(profile.Position)
	}

	start := DateOnly(weekStart)
	days := make([]Day, 0, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		date := start.AddDate(0, 0, i)
		s := sessionFor(sport, level, position, i)
		days = append(days, Day{
			Date:    date,
			DayName: date.Format("Mon"),
			Type:    s.Type,
			Workout: s.Workout,
		})
	}

	calories, macros := Nutrition(profile.WeightKg, level)
	return Plan{
		Days: days,
		Advice: Advice{
			Calories: calories,
			Macros:   macros,
			Tips:     Tips(sport, position),
		},
	}
}

func sessionFor(sport, level, position string, dayIndex int) session {
	if level == LevelBeginner && (dayIndex == 3 || dayIndex == 6) {
		return session{Type: Rest, Workout: restWorkout}
	}

	if schedule, ok := positionSessions[position]; ok {
		return schedule[dayIndex]
	}

	pair, ok := sportSessions[sport]
	if !ok {
		pair = sportSessions[SportGeneric]
	}
	return pair[dayIndex%2]
}

// Tips returns diet tips for the sport. For football a known position gets its own
// list; an unknown or empty position gets the general football tips.
func Tips(sport, position string) []string {
	sport = NormalizeSport(sport)
	if sport == SportFootball {
		if tips, ok := positionTips[NormalizePosition(position)]; ok {
			return clone(tips)
		}
	}
	if tips, ok := sportTips[sport]; ok {
		return clone(tips)
	}
	return clone(sportTips[SportGeneric])
}

func NormalizeSport(sport string) string {
	sport = strings.ToLower(strings.TrimSpace(sport))
	if sport == "" {
		return SportGeneric
	}
	return sport
}

// NormalizeLevel maps anything unrecognized to beginner.
func NormalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case LevelIntermediate, LevelAdvanced:
		return l
	default:
		return LevelBeginner
	}
}

// NormalizePosition returns the canonical football position name, or "" if unknown.
func NormalizePosition(position string) string {
	p := strings.ToLower(strings.TrimSpace(position))
	if full, ok := positionAliases[p]; ok {
		return full
	}
	if _, ok := positionSessions[p]; ok {
		return p
	}
	return ""
}

// DateOnly drops the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
