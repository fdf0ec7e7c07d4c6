package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/5con/fittrack/internal/logging"
	"github.com/5con/fittrack/internal/tracker"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: tracker [flags] <command> [args]

commands:
  register -email E -password P [profile flags]
  login -email E -password P
  logout
  profile [profile flags]    save the profile and regenerate this week
  week [-offset N | -date D] show a week's plan (default this week, -1 is last week)
  done [YYYY-MM-DD]          mark a day as done (default today)
  undo [YYYY-MM-DD]          clear a day's done mark (default today)
  streak                     print the current streak

flags:
`

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("FITTRACK_API_URL", "http://localhost:5226"), "fittrack api base url, empty to work offline")
	statePath := flag.String("state", defaultStatePath(), "local state file")
	logLevel := flag.String("log-level", "warn", "log level")
	asJSON := flag.Bool("json", false, "print json output")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetLevel(logging.GetLevel(*logLevel))

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := tracker.OpenStore(*statePath)
	if err != nil {
		log.Fatalf("open state: %s", err)
	}

	var t *tracker.Tracker
	if *apiURL == "" {
		t = tracker.New(nil, store)
	} else {
		t = tracker.New(tracker.NewClient(*apiURL, tracker.NewHTTPClient(10*time.Second)), store)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out := printer{json: *asJSON}
	if err := run(ctx, t, out, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, t *tracker.Tracker, out printer, cmd string, args []string) error {
	switch cmd {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		profile := profileFlags(fs)
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			return errors.New("register needs -email and -password")
		}
		u, err := t.Register(ctx, *email, *password, *profile)
		if err != nil {
			return err
		}
		out.line("registered %s (id %d)", u.Email, u.ID)
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		u, err := t.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		out.line("signed in as %s", u.Email)
		return nil

	case "logout":
		return t.Logout()

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		profile := profileFlags(fs)
		_ = fs.Parse(args)
		if profile.Sport == "" || profile.Level == "" {
			return errors.New("profile needs -sport and -level")
		}
		week, err := t.SaveProfile(ctx, *profile)
		if err != nil {
			return err
		}
		out.week(week, t.Completions())
		return nil

	case "week":
		fs := flag.NewFlagSet("week", flag.ExitOnError)
		offset := fs.Int("offset", 0, "weeks from the current one")
		date := fs.String("date", "", "any day of the week, YYYY-MM-DD")
		_ = fs.Parse(args)

		var (
			week *tracker.Week
			err  error
		)
		if *date != "" {
			day, parseErr := time.ParseInLocation(time.DateOnly, *date, time.Local)
			if parseErr != nil {
				return fmt.Errorf("invalid -date %q: %w", *date, parseErr)
			}
			week, err = t.WeekOf(ctx, day)
		} else {
			week, err = t.WeekAt(ctx, *offset)
		}
		if err != nil {
			return err
		}
		out.week(week, t.Completions())
		return nil

	case "done", "undo":
		date := tracker.ISODate(time.Now())
		if len(args) > 0 {
			date = args[0]
		}
		if err := t.SetDone(date, cmd == "done"); err != nil {
			return err
		}
		out.line("streak: %d", t.Streak())
		return nil

	case "streak":
		out.line("%d", t.Streak())
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func profileFlags(fs *flag.FlagSet) *tracker.Profile {
	p := &tracker.Profile{}
	fs.Float64Var(&p.HeightCm, "height", 0, "height in cm")
	fs.Float64Var(&p.WeightKg, "weight", 0, "weight in kg")
	fs.StringVar(&p.Sport, "sport", "", "sport, e.g. football")
	fs.StringVar(&p.Level, "level", "", "beginner | intermediate | advanced")
	fs.StringVar(&p.Position, "position", "", "football position, e.g. QB")
	return p
}

type printer struct {
	json bool
}

func (p printer) line(format string, args ...any) {
	if p.json {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"message": fmt.Sprintf(format, args...)})
		return
	}
	fmt.Printf(format+"\n", args...)
}

func (p printer) week(week *tracker.Week, completions map[string]bool) {
	if p.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(week)
		return
	}

	fmt.Printf("week of %s (%s)\n", week.Key, week.Source)
	days := append([]tracker.DayEntry(nil), week.Days...)
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	for _, d := range days {
		mark := " "
		if completions[d.Date] {
			mark = "x"
		}
		fmt.Printf("[%s] %s %s  %-12s %s\n", mark, d.Day, d.Date, d.Type, d.Workout)
	}
	if len(week.Tips) > 0 {
		fmt.Printf("tips: %s\n", strings.Join(week.Tips, " "))
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fittrack-state.json"
	}
	return filepath.Join(home, ".fittrack", "state.json")
}
