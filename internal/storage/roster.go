package storage

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/EncryptEx/ichack26/internal"
)

//go:embed roster.yaml
var defaultRoster []byte

// DefaultRoster returns the built-in users.
func DefaultRoster() ([]*internal.User, error) {
	return ParseRoster(defaultRoster)
}

// LoadRoster reads a YAML roster from disk. An empty path means the
// built-in roster.
func LoadRoster(path string) ([]*internal.User, error) {
	if path == "" {
		return DefaultRoster()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) ([]*internal.User, error) {
	var users []*internal.User
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("storage: parse roster: %w", err)
	}
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if u.ID == "" {
			return nil, fmt.Errorf("storage: roster entry %q has no id", u.Name)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("storage: duplicate roster id %q", u.ID)
		}
		seen[u.ID] = true
		if u.LongestStreak < u.Streak {
			u.LongestStreak = u.Streak
		}
	}
	return users, nil
}
