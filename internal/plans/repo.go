package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/5con/fittrack/internal/planner"
	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ReplaceWeek deletes the user's plan days in [weekStart, weekStart+7) and stores days
// instead, in one transaction. The owner row is locked so concurrent regenerations of
// the same user run one after another.
func (r *Repo) ReplaceWeek(ctx context.Context, userID int, weekStart Date, days []PlanDay) (_ []PlanDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.replaceweek")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.String("week-start", weekStart.String()),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("rollback: %w: %w", rollbackErr, err)
			}
			return
		}
		err = tx.Commit(ctx)
	}()

	var lockedID int
	err = tx.QueryRow(ctx, `SELECT id FROM app_user WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	from, to := weekBounds(weekStart)
	tag, err := tx.Exec(ctx, `
		DELETE FROM plan_day
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("delete week: %w", err)
	}
	span.SetAttributes(attribute.Int64("replaced", tag.RowsAffected()))

	stored := make([]PlanDay, 0, len(days))
	for _, day := range days {
		day.UserID = userID
		err = tx.QueryRow(ctx, `
			INSERT INTO plan_day (user_id, date, day_name, workout, type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			day.UserID,
			day.Date.Time,
			day.DayName,
			day.Workout,
			day.Type,
		).Scan(&day.ID)
		if err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("insert plan day %s: %w", day.Date, err)
		}
		stored = append(stored, day)
	}

	return stored, nil
}

// ListWeek returns the stored plan days in [weekStart, weekStart+7), by date.
func (r *Repo) ListWeek(ctx context.Context, userID int, weekStart Date) (_ []PlanDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.listweek")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.String("week-start", weekStart.String()),
	)

	from, to := weekBounds(weekStart)
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, day_name, workout, type
		FROM plan_day
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, id
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]PlanDay, 0, planner.DaysInWeek)
	for rows.Next() {
		var (
			day  PlanDay
			date time.Time
		)
		if err := rows.Scan(&day.ID, &day.UserID, &date, &day.DayName, &day.Workout, &day.Type); err != nil {
			return nil, err
		}
		day.Date = NewDate(date)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func weekBounds(weekStart Date) (time.Time, time.Time) {
	return weekStart.Time, weekStart.AddDate(0, 0, planner.DaysInWeek)
}
