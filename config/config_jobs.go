package config

import (
	"os"
	"path/filepath"
	"time"
)

type Jobs struct {
	Dir string

	Retention time.Duration
	Interval  time.Duration
}

type jobsConfig struct {
	Dir string `yaml:"dir"`

	Retention time.Duration `yaml:"retention"`
	Interval  time.Duration `yaml:"interval"`
}

func (cfg *Config) registerJobs(f *configFile) error {
	cfg.Jobs = Jobs{
		Dir: filepath.Join(os.TempDir(), "redactor"),

		Retention: 24 * time.Hour,
		Interval:  time.Hour,
	}

	if f.Jobs.Dir != "" {
		cfg.Jobs.Dir = f.Jobs.Dir
	}

	if f.Jobs.Retention > 0 {
		cfg.Jobs.Retention = f.Jobs.Retention
	}

	if f.Jobs.Interval > 0 {
		cfg.Jobs.Interval = f.Jobs.Interval
	}

	return os.MkdirAll(cfg.Jobs.Dir, 0o755)
}
