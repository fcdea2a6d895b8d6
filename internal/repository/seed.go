package repository

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"restaurante/internal/model"

	"golang.org/x/crypto/bcrypt"
)

//go:embed seed/*.json
var seedFS embed.FS

func readSeed[T any](name string) ([]T, error) {
	data, err := seedFS.ReadFile("seed/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed %s: %w", name, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse seed %s: %w", name, err)
	}
	return items, nil
}

// Cuisines returns the fixed list of cuisines restaurants can be classified under.
func Cuisines() ([]model.Cuisine, error) {
	return readSeed[model.Cuisine]("cuisines.json")
}

// seedUser is a reference account with a plaintext password, hashed when seeded.
type seedUser struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

func seedUsers(cost int) ([]model.User, error) {
	raw, err := readSeed[seedUser]("users.json")
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(raw))
	for _, s := range raw {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of %s: %w", s.Email, err)
		}
		users = append(users, model.User{
			ID:           s.ID,
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: string(hash),
			Role:         s.Role,
			CreatedAt:    s.CreatedAt,
		})
	}
	return users, nil
}
