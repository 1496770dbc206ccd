package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnvPath is read when MEAL_PLANNER_ENV_FILE is not set.
const DefaultDotEnvPath = ".env"

// LoadDotEnv copies KEY=VALUE pairs from path into the process environment.
// Variables that are already set keep their values, and a missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvPath
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
