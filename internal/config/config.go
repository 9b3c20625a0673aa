// Package config loads voicestudio settings from the config file and the
// environment. File values come first, environment variables override
// them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// Config holds every runtime setting.
type Config struct {
	// Engine is the default synthesis backend, "cloud" or "local".
	Engine string `env:"VOICESTUDIO_ENGINE"`

	// Voice is the default persona (cloud) or platform voice (local).
	Voice string `env:"VOICESTUDIO_VOICE"`

	// APIKey authenticates cloud synthesis and casting requests.
	APIKey string `env:"GEMINI_API_KEY"`

	// Endpoint is the cloud API base URL.
	Endpoint string `env:"VOICESTUDIO_ENDPOINT"`

	// SpeechModel generates audio; CastingModel generates voice
	// recommendations.
	SpeechModel  string `env:"VOICESTUDIO_SPEECH_MODEL"`
	CastingModel string `env:"VOICESTUDIO_CASTING_MODEL"`

	// OutputDir receives downloaded WAV files. Empty means the current
	// directory.
	OutputDir string `env:"VOICESTUDIO_OUTPUT_DIR"`
}

const defaultConfig = `# default synthesis engine: cloud or local
engine: "cloud"
# default voice (persona name for cloud, platform voice for local)
voice: "Zephyr"

cloud:
  # endpoint: "https://generativelanguage.googleapis.com"
  # api_key: "your-api-key-here"
  speech_model: "gemini-2.5-flash-preview-tts"
  casting_model: "gemini-2.5-flash"

# directory for downloaded WAV files (default: current directory)
# output_dir: "~/voicestudio"
`

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Engine:       "cloud",
		Voice:        "Zephyr",
		Endpoint:     "https://generativelanguage.googleapis.com",
		SpeechModel:  "gemini-2.5-flash-preview-tts",
		CastingModel: "gemini-2.5-flash",
	}
}

// Load reads the config file (explicit path, or the default locations)
// and applies environment overrides on top.
func Load(configFile string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("voice", cfg.Voice)
	v.SetDefault("cloud.endpoint", cfg.Endpoint)
	v.SetDefault("cloud.speech_model", cfg.SpeechModel)
	v.SetDefault("cloud.casting_model", cfg.CastingModel)
	v.SetDefault("output_dir", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("voicestudio")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return cfg, fmt.Errorf("could not read config file: %w", err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("could not parse configuration file", "err", err)
		}
	} else {
		log.Debug("using configuration file", "path", v.ConfigFileUsed())
	}

	cfg.Engine = v.GetString("engine")
	cfg.Voice = v.GetString("voice")
	cfg.Endpoint = v.GetString("cloud.endpoint")
	cfg.SpeechModel = v.GetString("cloud.speech_model")
	cfg.CastingModel = v.GetString("cloud.casting_model")
	cfg.OutputDir = v.GetString("output_dir")
	if key := v.GetString("cloud.api_key"); key != "" {
		cfg.APIKey = key
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings no command could act on.
func (c Config) Validate() error {
	switch c.Engine {
	case "cloud", "local":
	default:
		return fmt.Errorf("unknown engine %q: use cloud or local", c.Engine)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("cloud endpoint must not be empty")
	}
	if c.SpeechModel == "" {
		return fmt.Errorf("speech model must not be empty")
	}
	return nil
}

// configDirs lists the config file search path, most specific first.
func configDirs() []string {
	scope := gap.NewScope(gap.User, "voicestudio")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		dirs = nil
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "voicestudio")}, dirs...)
	}
	if c := os.Getenv("VOICESTUDIO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs
}

// DefaultPath returns where a fresh config file should be written.
func DefaultPath() string {
	dirs := configDirs()
	if len(dirs) == 0 {
		return "voicestudio.yml"
	}
	return filepath.Join(dirs[0], "voicestudio.yml")
}

// EnsureFile writes the default config to path if nothing is there yet.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(defaultConfig); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}
