package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the CLI flags for users who keep their analysis
// settings in a YAML file. Flags given explicitly on the command line
// win over file values.
type fileConfig struct {
	DataDir         string `yaml:"data_dir"`
	Timezone        string `yaml:"timezone"`
	DefaultTimezone string `yaml:"default_timezone"`
	VarianceWindow  int    `yaml:"variance_window"`
	OutlierCount    int    `yaml:"outlier_count"`
	BucketMinutes   int    `yaml:"bucket_minutes"`
	NightWindow     string `yaml:"night_window"` // "21:00-08:00"
	MinObservations int    `yaml:"min_observations"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
