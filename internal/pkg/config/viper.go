package config

import (
	"bytes"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// Option customizes a Viper instance before the configuration is read.
type Option func(v *viper.Viper)

// WithDefaults registers default values used when neither the file nor the
// environment provides a key.
func WithDefaults(defaults map[string]any) Option {
	return func(v *viper.Viper) {
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
	}
}

// WithEnvAliases binds extra environment variable names to configuration keys,
// e.g. "bot.token" -> "BOT_TOKEN".
func WithEnvAliases(aliases map[string]string) Option {
	return func(v *viper.Viper) {
		for key, env := range aliases {
			//nolint:errcheck,gosec // only fails on empty input
			v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
		}
	}
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// Every key can be overridden from the environment: "bot.api_url" is read from
// BOT_API_URL. A missing file is not an error so the bot can run from the
// environment alone; a file that exists but cannot be parsed is.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	v := newViper(opts...)

	filename := path.Base(pathFile)
	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment", "path", pathFile)
		return &Viper{v: v}, nil
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "error", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte, opts ...Option) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper(opts...)
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper(opts ...Option) *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	return v
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetUint returns the value for key as uint.
func (vc *Viper) GetUint(key string) uint {
	return vc.v.GetUint(key)
}

// GetUint64 returns the value for key as uint64.
func (vc *Viper) GetUint64(key string) uint64 {
	return vc.v.GetUint64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetArray returns the value for key split by commas.
func (vc *Viper) GetArray(key string) []string {
	parts := lo.Map(strings.Split(vc.v.GetString(key), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})

	return lo.Compact(parts)
}

// IsSet reports whether key has any value, defaults included.
func (vc *Viper) IsSet(key string) bool {
	return vc.v.IsSet(key)
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
