package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnsureUserConfig loads the config at path, writing the compiled-in defaults
// there first when the file does not exist yet.
func EnsureUserConfig(path string) (Config, error) {
	_, err := os.Stat(path)
	if err == nil {
		return Load(path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg := Default()
	if err := saveAtomic(path, cfg); err != nil {
		return Config{}, fmt.Errorf("bootstrap config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays JOBSWEEP_* environment variables on cfg, loading a .env
// file first when one is present.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "JOBSWEEP_"}); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}
	return nil
}

func saveAtomic(path string, cfg Config) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
