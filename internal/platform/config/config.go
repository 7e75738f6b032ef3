package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "MICROWINS"
	defaultAPIURL   = "http://localhost:7071/api"
	defaultUserID   = "guest"
	defaultBreakSec = 300
)

type Config struct {
	DataDir       string
	APIURL        string
	UserID        string
	HTTPTimeout   time.Duration
	SpeechCommand string
	LogLevel      string
	BreakSeconds  int
	NudgeBreaks   bool

	FilePath        string
	TaskPath        string
	PreferencesPath string
	HistoryDBPath   string
	FontClassPath   string
	LogPath         string
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"api-url": "api_url",
	"user":    "user_id",
}

// DefaultDataDir resolves the data directory when none is given explicitly.
func DefaultDataDir() string {
	if dir := os.Getenv(envPrefix + "_DATA_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".microwins"
	}
	return filepath.Join(base, "microwins")
}

// New loads configuration with defaults < config.yaml < MICROWINS_* env < flags.
// flags may be nil.
func New(dataDir string, flags *pflag.FlagSet) (Config, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("create data dir: %w", err)
	}

	v := viper.New()
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("user_id", defaultUserID)
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("speech_command", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("break_seconds", defaultBreakSec)
	v.SetDefault("nudge_breaks", true)

	path := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{
		DataDir:         dataDir,
		APIURL:          v.GetString("api_url"),
		UserID:          v.GetString("user_id"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		SpeechCommand:   v.GetString("speech_command"),
		LogLevel:        v.GetString("log_level"),
		BreakSeconds:    v.GetInt("break_seconds"),
		NudgeBreaks:     v.GetBool("nudge_breaks"),
		FilePath:        path,
		TaskPath:        filepath.Join(dataDir, "current-task.json"),
		PreferencesPath: filepath.Join(dataDir, "preferences.yaml"),
		HistoryDBPath:   filepath.Join(dataDir, "history.db"),
		FontClassPath:   filepath.Join(dataDir, "font-class"),
		LogPath:         filepath.Join(dataDir, "microwins.log"),
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("api url is required")
	}
	if cfg.BreakSeconds <= 0 {
		cfg.BreakSeconds = defaultBreakSec
	}
	return cfg, nil
}
