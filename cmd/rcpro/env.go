package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// dotEnvFiles are read in order; earlier files win since godotenv never
// overrides a variable that is already set.
var dotEnvFiles = []string{".env.local", ".env"}

// loadDotEnv loads the dotenv files that exist. The process environment
// always takes precedence.
func loadDotEnv(files ...string) error {
	for _, name := range files {
		err := godotenv.Load(name)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}
