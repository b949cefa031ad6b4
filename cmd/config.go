package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultBaseURL = "https://apix-two.vercel.app/api"

type config struct {
	BaseURL     string
	Timeout     time.Duration
	SessionPath string
	CachePath   string
}

// loadConfig reads ~/.config/pulso/config.toml when present and applies
// PULSO_* environment overrides (PULSO_API_BASE_URL, PULSO_HTTP_TIMEOUT,
// PULSO_SESSION_PATH, PULSO_CACHE_PATH).
func loadConfig() (config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return config{}, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("api.base_url", defaultBaseURL)
	v.SetDefault("http.timeout", "15s")
	v.SetDefault("session.path", filepath.Join(configDir, "session.json"))
	v.SetDefault("cache.path", filepath.Join(configDir, "feed.db"))

	v.SetEnvPrefix("PULSO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil {
		return config{}, fmt.Errorf("parse http.timeout: %w", err)
	}

	return config{
		BaseURL:     v.GetString("api.base_url"),
		Timeout:     timeout,
		SessionPath: v.GetString("session.path"),
		CachePath:   v.GetString("cache.path"),
	}, nil
}

func resolveConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pulso"), nil
}

type configFile struct {
	API struct {
		BaseURL string `toml:"base_url"`
	} `toml:"api"`
	HTTP struct {
		Timeout string `toml:"timeout"`
	} `toml:"http"`
	Session struct {
		Path string `toml:"path"`
	} `toml:"session"`
	Cache struct {
		Path string `toml:"path"`
	} `toml:"cache"`
}

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pulso configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(app))

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := resolveConfigDir()
			if err != nil {
				return err
			}
			configPath := filepath.Join(configDir, "config.toml")

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
				}
			}

			var file configFile
			file.API.BaseURL = app.config.BaseURL
			file.HTTP.Timeout = app.config.Timeout.String()
			file.Session.Path = app.config.SessionPath
			file.Cache.Path = app.config.CachePath

			encoded, err := toml.Marshal(file)
			if err != nil {
				return fmt.Errorf("encode config file: %w", err)
			}

			if err := os.MkdirAll(configDir, 0o700); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
