package utils

import (
	"log"
	"maps"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads key/value pairs from multiple .env files and overlays the
// process environment on top. Later files take precedence over earlier ones.
// The process environment itself is left untouched
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			continue
		}
		maps.Copy(config, values)
	}

	for _, env := range os.Environ() {
		if key, value, ok := strings.Cut(env, "="); ok && key != "" {
			config[key] = value
		}
	}

	return config
}
