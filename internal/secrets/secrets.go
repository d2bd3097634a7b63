// Package secrets resolves API credentials for SUT construction. Values
// come from an optional dotenv file, with the process environment taking
// precedence so ad-hoc overrides still work.
package secrets

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Store struct {
	fromFile map[string]string
}

// Load reads the env file at path. An empty path yields a store backed by
// the process environment only.
func Load(path string) (*Store, error) {
	s := &Store{fromFile: map[string]string{}}
	if path == "" {
		return s, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets env file %s: %w", path, err)
	}
	s.fromFile = vars
	return s, nil
}

func (s *Store) Lookup(key string) (string, bool) {
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	v, ok := s.fromFile[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
