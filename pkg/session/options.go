package session

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Options tune the exercise without changing its rules
type Options struct {
	MaxRounds     int              `yaml:"max_rounds"`     // 0 means unbounded
	CatalogColumn string           `yaml:"catalog_column"` // Spreadsheet column holding the prompts
	SpeedLabels   map[Speed]string `yaml:"speed_labels"`   // Instruction shown for each speed
	SweepSchedule string           `yaml:"sweep_schedule"` // Cron spec for dropping idle sessions
}

// DefaultOptions returns the options used when no file is configured
func DefaultOptions() Options {
	return Options{
		CatalogColumn: "Texto",
		SpeedLabels: map[Speed]string{
			Paused: "Falar Pausadamente",
			Normal: "Falar Normal",
			Fast:   "Falar Rápido",
		},
		SweepSchedule: "@every 5m",
	}
}

// LoadOptions reads a YAML options file on top of the defaults. An empty path
// returns the defaults
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read exercise options file: %w", err)
	}

	var file Options
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("failed to parse exercise options file: %w", err)
	}

	if file.MaxRounds < 0 {
		return opts, fmt.Errorf("max_rounds must not be negative, got %d", file.MaxRounds)
	}
	opts.MaxRounds = file.MaxRounds

	if file.CatalogColumn != "" {
		opts.CatalogColumn = file.CatalogColumn
	}
	if file.SweepSchedule != "" {
		opts.SweepSchedule = file.SweepSchedule
	}
	for speed, label := range file.SpeedLabels {
		if !slices.Contains(Speeds, speed) {
			return opts, fmt.Errorf("unknown speed '%s' in speed_labels", speed)
		}
		opts.SpeedLabels[speed] = label
	}

	return opts, nil
}

// Label returns the instruction text for a speed, falling back to its value
func (o Options) Label(speed Speed) string {
	if label, ok := o.SpeedLabels[speed]; ok && label != "" {
		return label
	}
	return string(speed)
}
