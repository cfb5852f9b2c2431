// Package config loads mathquest settings from an optional YAML file, a .env
// file and MATHQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/schema"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override, e.g. MATHQUEST_BATTLE_PLAYER_HP.
const EnvPrefix = "MATHQUEST"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env       string                    `json:"env" mapstructure:"env"`             // development or production
	LogLevel  string                    `json:"log_level" mapstructure:"log_level"` // debug, info, warn, error
	LogFile   string                    `json:"log_file" mapstructure:"log_file"`   // log destination for interactive commands
	DBPath    string                    `json:"db_path" mapstructure:"db_path"`     // empty means the default data dir
	Questions problemgen.QuestionConfig `json:"questions" mapstructure:"questions"`
	Battle    battle.Config             `json:"battle" mapstructure:"battle"`
	Settings  battle.Settings           `json:"settings" mapstructure:"settings"`
	Server    Server                    `json:"server" mapstructure:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Env:      "development",
		LogLevel: "info",
		Questions: problemgen.QuestionConfig{
			OperandCount:  problemgen.OperandsMixed,
			MinValue:      0,
			MaxValue:      100,
			Operations:    problemgen.AllOperations(),
			QuestionCount: 10,
		},
		Battle:   battle.DefaultConfig(),
		Settings: battle.Settings{SoundEnabled: true, MusicEnabled: true},
		Server:   Server{Addr: "127.0.0.1:8080"},
	}
}

// Load reads configuration. When path is empty, mathquest.yaml is searched
// for in the working directory and the user config dir; a missing file is
// not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mathquest")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config against its JSON schema and the cross-field
// rules the schema cannot express.
func (c *Config) Validate() error {
	if err := schema.ValidateValue(schema.Config, c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Questions.Validate(); err != nil {
		return fmt.Errorf("%w: questions: %v", ErrInvalidConfig, err)
	}
	if err := c.Battle.Validate(); err != nil {
		return fmt.Errorf("%w: battle: %v", ErrInvalidConfig, err)
	}
	return nil
}

// normalize canonicalises operation names. Environment values arrive as a
// single comma-separated string.
func (c *Config) normalize() error {
	var names []string
	for _, op := range c.Questions.Operations {
		for _, name := range strings.Split(string(op), ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	ops, err := problemgen.ParseOperations(names)
	if err != nil {
		return fmt.Errorf("questions.operations: %w", err)
	}
	c.Questions.Operations = ops
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("env", d.Env)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("db_path", d.DBPath)

	v.SetDefault("questions.operand_count", d.Questions.OperandCount.String())
	v.SetDefault("questions.min_value", d.Questions.MinValue)
	v.SetDefault("questions.max_value", d.Questions.MaxValue)
	ops := make([]string, len(d.Questions.Operations))
	for i, op := range d.Questions.Operations {
		ops[i] = string(op)
	}
	v.SetDefault("questions.operations", ops)
	v.SetDefault("questions.question_count", d.Questions.QuestionCount)

	v.SetDefault("battle.player_hp", d.Battle.PlayerHP)
	v.SetDefault("battle.enemy_hp", d.Battle.EnemyHP)
	v.SetDefault("battle.enemy_base_attack", d.Battle.EnemyBaseAttack)
	v.SetDefault("battle.prepare_time", d.Battle.PrepareTime)
	v.SetDefault("battle.question_time", d.Battle.QuestionTime)
	v.SetDefault("battle.enemy_attack_interval", d.Battle.EnemyAttackInterval)
	v.SetDefault("battle.question_count", d.Battle.QuestionCount)

	v.SetDefault("settings.sound_enabled", d.Settings.SoundEnabled)
	v.SetDefault("settings.music_enabled", d.Settings.MusicEnabled)

	v.SetDefault("server.addr", d.Server.Addr)
}

// loadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// configDir returns $XDG_CONFIG_HOME/mathquest or ~/.config/mathquest.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mathquest"), nil
}
