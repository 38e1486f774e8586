package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/dsolve/internal/toolchain"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Generator   string
	Solver      string
	ScratchDir  string
	KeepScratch bool
	Debug       bool
	History     HistoryConfig
	Toolchain   ToolchainConfig
}

// HistoryConfig controls the local run ledger.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// ToolchainConfig describes the version requirements checked by doctor.
type ToolchainConfig struct {
	MinVersion  string
	VersionFlag string
}

// LoadConfig loads configuration from the config file, .env files and
// DSOLVE_* environment variables. A non-empty explicit path must exist.
func LoadConfig(explicit string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	home, homeErr := homedir.Dir()

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(".dsolve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeErr == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "dsolve"))
		}
	}

	// Environment variables: DSOLVE_SOLVER, DSOLVE_HISTORY_ENABLED, ...
	v.SetEnvPrefix("DSOLVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("generator", toolchain.DefaultGenerator)
	v.SetDefault("solver", toolchain.DefaultSolver)
	v.SetDefault("scratch_dir", "")
	v.SetDefault("keep_scratch", false)
	v.SetDefault("debug", false)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath(home, homeErr))
	v.SetDefault("toolchain.min_version", "")
	v.SetDefault("toolchain.version_flag", "-version")

	// .env.local overrides .env; both lose to variables already set
	loadDotenv(".env", false)
	loadDotenv(".env.local", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Generator:   v.GetString("generator"),
		Solver:      v.GetString("solver"),
		ScratchDir:  v.GetString("scratch_dir"),
		KeepScratch: v.GetBool("keep_scratch"),
		Debug:       v.GetBool("debug"),
		History: HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    v.GetString("history.path"),
		},
		Toolchain: ToolchainConfig{
			MinVersion:  v.GetString("toolchain.min_version"),
			VersionFlag: v.GetString("toolchain.version_flag"),
		},
	}

	return cfg, nil
}

func defaultHistoryPath(home string, homeErr error) string {
	if homeErr != nil {
		return filepath.Join(os.TempDir(), "dsolve-history.db")
	}
	return filepath.Join(home, ".config", "dsolve", "history.db")
}

// loadDotenv applies the variables in name, if it exists. Unreadable files
// are ignored.
func loadDotenv(name string, overload bool) {
	f, err := AppFs.Open(name)
	if err != nil {
		return
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set && !overload {
			continue
		}
		os.Setenv(key, value)
	}
}
