package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// OpenCommand opens files; empty selects xdg-open or open.
	OpenCommand string `mapstructure:"open_command"`
	// SelectionToFile makes opening a file write its path here and quit.
	SelectionToFile string `mapstructure:"selection_to_file_on_open"`
	// SelectionToStdout makes opening a file print its path and quit.
	SelectionToStdout bool `mapstructure:"selection_to_stdout_on_open"`
	ShowMarkSigns     bool `mapstructure:"show_mark_signs"`
	ShowQuickFixSigns bool `mapstructure:"show_quickfix_signs"`
	SignColumnWidth   int  `mapstructure:"sign_column_width"`
	// LineNumbers is "none", "absolute" or "relative".
	LineNumbers     string `mapstructure:"line_numbers"`
	LineNumberWidth int    `mapstructure:"line_number_width"`
	// CacheDir holds history, marks, quickfix and the register.
	CacheDir string `mapstructure:"cache_dir"`
	DebugLog string `mapstructure:"debug_log"`
	// Keys overrides default key bindings per action.
	Keys KeyBindings `mapstructure:"keys"`
}

// Load reads configuration from ~/.config/zfb/config.yaml (or TOML/JSON).
func Load() (*Config, error) {
	return LoadFrom(configDirectory())
}

// LoadFrom reads configuration from dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("ZFB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	keys := DefaultKeyBindings()
	for action, chords := range cfg.Keys {
		keys[action] = chords
	}
	cfg.Keys = keys

	if cfg.CacheDir == "" {
		cfg.CacheDir = cacheDirectory()
	}
	if cfg.OpenCommand == "" {
		cfg.OpenCommand = defaultOpener()
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "dark")
	v.SetDefault("open_command", "")
	v.SetDefault("selection_to_file_on_open", "")
	v.SetDefault("selection_to_stdout_on_open", false)
	v.SetDefault("show_mark_signs", true)
	v.SetDefault("show_quickfix_signs", true)
	v.SetDefault("sign_column_width", 2)
	v.SetDefault("line_numbers", "none")
	v.SetDefault("line_number_width", 3)
	v.SetDefault("cache_dir", "")
	v.SetDefault("debug_log", "")
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zfb")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zfb")
}

func cacheDirectory() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "zfb")
	}
	return filepath.Join(os.TempDir(), "zfb")
}

func defaultOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
