package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const userColumns = `id, email, password_hash, height_cm, weight_kg, sport, level, position, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, user *User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer tracing.EndSpan(span, &err)

	err = r.db.QueryRow(ctx, `
		INSERT INTO app_user (email, password_hash, height_cm, weight_kg, sport, level, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		user.Email,
		user.PasswordHash,
		user.HeightCm,
		user.WeightKg,
		user.Sport,
		user.Level,
		user.Position,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.Int("id", id))

	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyemail")
	defer tracing.EndSpan(span, &err)

	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		WHERE lower(email) = lower($1)
	`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns all users, or only those whose email matches case-insensitively when email is set.
func (r *Repo) List(ctx context.Context, email string) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.Bool("by-email", email != ""))

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		WHERE ($1::text = '' OR lower(email) = lower($1))
		ORDER BY id
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Update overwrites the profile fields. The password hash is only replaced when non-empty.
func (r *Repo) Update(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.Int("id", user.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE app_user
		SET email = $1,
			password_hash = COALESCE(NULLIF($2, ''), password_hash),
			height_cm = $3,
			weight_kg = $4,
			sport = $5,
			level = $6,
			position = $7
		WHERE id = $8
	`,
		user.Email,
		user.PasswordHash,
		user.HeightCm,
		user.WeightKg,
		user.Sport,
		user.Level,
		user.Position,
		user.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user; plan days go with it (ON DELETE CASCADE).
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.HeightCm,
		&user.WeightKg,
		&user.Sport,
		&user.Level,
		&user.Position,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
