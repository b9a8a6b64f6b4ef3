// Package config loads notir's settings the way the retrieval pack
// configures its services: an optional YAML file, overridable by
// environment variables, overridable by CLI flags -- all reconciled
// through spf13/viper with spf13/pflag bound in (the pattern
// niceyeti-tabular reaches for, and viper's own idiomatic use of
// pflag). The relay core itself never imports this package; main wires
// the result into relay.Config.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/timzaak/notir/internal/relay"
)

// Config is notir's full runtime configuration: transport settings
// plus the relay core's tunables.
type Config struct {
	Port              int           `mapstructure:"port"`
	DevMode           bool          `mapstructure:"dev_mode"`
	SendQueueSize     int           `mapstructure:"send_queue_size"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	HeartbeatGrace    time.Duration `mapstructure:"heartbeat_grace"`
	PingPongTimeout   time.Duration `mapstructure:"ping_pong_timeout"`
}

// RelayConfig projects the relay-relevant fields into relay.Config.
func (c Config) RelayConfig() relay.Config {
	return relay.Config{
		SendQueueSize:     c.SendQueueSize,
		HeartbeatInterval: c.HeartbeatInterval,
		HeartbeatGrace:    c.HeartbeatGrace,
		PingPongTimeout:   c.PingPongTimeout,
	}
}

// defaults mirrors notir's stated CLI default (port 5800) and the
// relay core's recommended pipeline tunables (relay.DefaultConfig).
func defaults() Config {
	rc := relay.DefaultConfig()
	return Config{
		Port:              5800,
		DevMode:           false,
		SendQueueSize:     rc.SendQueueSize,
		HeartbeatInterval: rc.HeartbeatInterval,
		HeartbeatGrace:    rc.HeartbeatGrace,
		PingPongTimeout:   rc.PingPongTimeout,
	}
}

// FlagSet returns notir's CLI surface (--port/-p), plus the ambient
// flags (--config, --dev). Parse it and pass it to Load, which binds
// the port and dev flags into viper.
func FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("notir", pflag.ContinueOnError)
	fs.IntP("port", "p", 5800, "bind port")
	fs.String("config", "", "path to an optional YAML config file")
	fs.Bool("dev", false, "disable WebSocket origin verification (local development only)")
	return fs
}

// Load builds a Config by layering, from lowest to highest priority:
// compiled-in defaults, an optional YAML file, environment variables
// prefixed NOTIR_, and flags already parsed into fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := defaults()
	v.SetDefault("port", def.Port)
	v.SetDefault("dev_mode", def.DevMode)
	v.SetDefault("send_queue_size", def.SendQueueSize)
	v.SetDefault("heartbeat_interval", def.HeartbeatInterval)
	v.SetDefault("heartbeat_grace", def.HeartbeatGrace)
	v.SetDefault("ping_pong_timeout", def.PingPongTimeout)

	v.SetEnvPrefix("notir")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	if err := v.BindPFlag("port", fs.Lookup("port")); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlag("dev_mode", fs.Lookup("dev")); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	// The ping-pong deadline may be shortened but never raised past the
	// default.
	if cfg.PingPongTimeout > def.PingPongTimeout {
		cfg.PingPongTimeout = def.PingPongTimeout
	}
	return cfg, nil
}
