package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is the stored athlete profile. The password hash never leaves the service in JSON.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	HeightCm     *float64  `json:"heightCm"`
	WeightKg     *float64  `json:"weightKg"`
	Sport        string    `json:"sport"`
	Level        string    `json:"level"`
	Position     *string   `json:"position"`
	CreatedAt    time.Time `json:"createdAtUtc"`
}

// Input is what clients send on create, register and update.
// An empty Password on update leaves the stored one untouched.
type Input struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	HeightCm *float64 `json:"heightCm"`
	WeightKg *float64 `json:"weightKg"`
	Sport    string   `json:"sport"`
	Level    string   `json:"level"`
	Position *string  `json:"position"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
}

func (in Input) validate(requirePassword bool) error {
	var missing []string
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(in.Sport) == "" {
		missing = append(missing, "sport")
	}
	if strings.TrimSpace(in.Level) == "" {
		missing = append(missing, "level")
	}
	if requirePassword && in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func (in Input) apply(u *User) {
	u.Email = strings.TrimSpace(in.Email)
	u.HeightCm = in.HeightCm
	u.WeightKg = in.WeightKg
	u.Sport = strings.TrimSpace(in.Sport)
	u.Level = strings.TrimSpace(in.Level)
	u.Position = in.Position
	if u.Position != nil && strings.TrimSpace(*u.Position) == "" {
		u.Position = nil
	}
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
