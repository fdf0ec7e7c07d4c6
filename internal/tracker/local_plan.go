package tracker

import (
	"fmt"
	"strings"
	"time"
)

type intensity struct {
	volume   string
	duration int
}

var weekTemplate = [7]struct {
	title string
	block string
}{
	{"Mon", "strength"},
	{"Tue", "skills"},
	{"Wed", "conditioning"},
	{"Thu", "strength"},
	{"Fri", "skills"},
	{"Sat", "mobility"},
	{"Sun", "rest"},
}

var commonBlocks = map[string]string{
	"mobility":     "Mobility + activation",
	"strength":     "Full-body strength",
	"rest":         "Active recovery / rest",
	"conditioning": "Conditioning / cardio",
	"skills":       "Skills + drills",
}

var sportSkills = map[string]string{
	"baseball":   "Hitting + fielding drills",
	"basketball": "Shooting + ball handling",
	"football":   "Position-specific drills",
	"tennis":     "Serve + footwork drills",
	"golf":       "Swing mechanics + short game",
}

func intensityFor(level string) intensity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return intensity{"low", 30}
	case "intermediate":
		return intensity{"moderate", 45}
	case "advanced":
		return intensity{"high", 60}
	default:
		return intensity{"moderate", 40}
	}
}

func blocksFor(sport string) map[string]string {
	blocks := make(map[string]string, len(commonBlocks))
	for k, v := range commonBlocks {
		blocks[k] = v
	}
	if skills, ok := sportSkills[strings.ToLower(strings.TrimSpace(sport))]; ok {
		blocks["skills"] = skills
	}
	return blocks
}

// GenerateLocalPlan builds the offline week used when the API can't be reached.
// Day i of the result is weekStart+i, labeled with the template's fixed day title.
func GenerateLocalPlan(profile Profile, weekStart time.Time) []DayEntry {
	blocks := blocksFor(profile.Sport)
	it := intensityFor(profile.Level)

	days := make([]DayEntry, 0, len(weekTemplate))
	for i, t := range weekTemplate {
		days = append(days, DayEntry{
			Date:    ISODate(weekStart.AddDate(0, 0, i)),
			Day:     t.title,
			Workout: fmt.Sprintf("%s — %s • %d min", blocks[t.block], it.volume, it.duration),
			Type:    t.block,
		})
	}
	return days
}
