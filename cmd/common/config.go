// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blinklabs-io/shardclient"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/jinzhu/copier"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ConfigName = "config"
	ConfigType = "toml"
	EnvPrefix  = "SHARDWATCH"

	configFileMode = 0o600
	configDirMode  = 0o700
)

// Config keys, as used in the config file and (upper-cased, with dots replaced by
// underscores) in SHARDWATCH_ environment variables
const (
	KeyNetwork          = "network"
	KeyBaseURL          = "base_url"
	KeyShards           = "shards"
	KeyRequestTimeout   = "request_timeout"
	KeyOutput           = "output"
	KeyLogLevel         = "log_level"
	KeyPollBaseInterval = "poll.base_interval"
	KeyPollMultiplier   = "poll.multiplier"
	KeyPollMaxInterval  = "poll.max_interval"
	KeyPollMaxAttempts  = "poll.max_attempts"
)

var configKeys = []string{
	KeyNetwork,
	KeyBaseURL,
	KeyShards,
	KeyRequestTimeout,
	KeyOutput,
	KeyLogLevel,
	KeyPollBaseInterval,
	KeyPollMultiplier,
	KeyPollMaxInterval,
	KeyPollMaxAttempts,
}

type Config struct {
	Network        string     `toml:"network" mapstructure:"network"`
	BaseURL        string     `toml:"base_url,omitempty" mapstructure:"base_url"`
	Shards         string     `toml:"shards" mapstructure:"shards"`
	RequestTimeout string     `toml:"request_timeout" mapstructure:"request_timeout"`
	Output         string     `toml:"output" mapstructure:"output"`
	LogLevel       string     `toml:"log_level" mapstructure:"log_level"`
	Poll           PollConfig `toml:"poll" mapstructure:"poll"`
}

type PollConfig struct {
	BaseInterval string  `toml:"base_interval" mapstructure:"base_interval"`
	Multiplier   float64 `toml:"multiplier" mapstructure:"multiplier"`
	MaxInterval  string  `toml:"max_interval" mapstructure:"max_interval"`
	MaxAttempts  int     `toml:"max_attempts" mapstructure:"max_attempts"`
}

func DefaultConfig() Config {
	pollDefaults := poller.DefaultConfig()
	return Config{
		Network:        shardclient.NetworkTestnet.Name,
		Shards:         "2,1,0",
		RequestTimeout: "10s",
		Output:         "text",
		LogLevel:       "warn",
		Poll: PollConfig{
			BaseInterval: pollDefaults.BaseInterval.String(),
			Multiplier:   pollDefaults.Multiplier,
			MaxInterval:  pollDefaults.MaxInterval.String(),
			MaxAttempts:  pollDefaults.MaxAttempts,
		},
	}
}

// DefaultConfigPath returns ~/.config/shardwatch/config.toml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "shardwatch", ConfigName+"."+ConfigType), nil
}

// LoadConfig reads the config file, the environment and any flags bound to v, and
// overlays the values that are set on top of DefaultConfig. A missing config file
// is not an error
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType(ConfigType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	var user Config
	if err := v.Unmarshal(&user); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return Merge(DefaultConfig(), user)
}

// Merge overlays the non-empty values of user on top of base
func Merge(base Config, user Config) (Config, error) {
	opt := copier.Option{IgnoreEmpty: true}
	ret := base
	if err := copier.CopyWithOption(&ret, &user, opt); err != nil {
		return Config{}, err
	}
	// Poll settings are merged per field
	ret.Poll = base.Poll
	if err := copier.CopyWithOption(&ret.Poll, &user.Poll, opt); err != nil {
		return Config{}, err
	}
	return ret, nil
}

// WriteConfig writes cfg as TOML. An existing file is only replaced with force
func WriteConfig(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return err
	}
	return os.WriteFile(path, data, configFileMode)
}

// MarshalTOML returns cfg in config file form
func (c Config) MarshalTOML() ([]byte, error) {
	return toml.Marshal(c)
}

// ClientOptions returns the client options described by the config
func (c Config) ClientOptions() ([]shardclient.ClientOptionFunc, error) {
	var opts []shardclient.ClientOptionFunc
	network := shardclient.NetworkByName(c.Network)
	if !network.Valid() && c.BaseURL == "" {
		return nil, fmt.Errorf("invalid network specified: %s", c.Network)
	}
	opts = append(opts, shardclient.WithNetwork(network))
	if c.BaseURL != "" {
		opts = append(opts, shardclient.WithBaseURL(c.BaseURL))
	}
	if c.Shards != "" {
		shards, err := ledger.ParseShardList(c.Shards)
		if err != nil {
			return nil, err
		}
		opts = append(opts, shardclient.WithShards(shards...))
	}
	if c.RequestTimeout != "" {
		timeout, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request timeout: %w", err)
		}
		opts = append(opts, shardclient.WithRequestTimeout(timeout))
	}
	pollOpts, err := c.Poll.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, shardclient.WithPollerOptions(pollOpts...))
	return opts, nil
}

// Options returns the poller options described by the config
func (p PollConfig) Options() ([]poller.OptionFunc, error) {
	var opts []poller.OptionFunc
	if p.BaseInterval != "" {
		d, err := time.ParseDuration(p.BaseInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll base interval: %w", err)
		}
		opts = append(opts, poller.WithBaseInterval(d))
	}
	if p.MaxInterval != "" {
		d, err := time.ParseDuration(p.MaxInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll max interval: %w", err)
		}
		opts = append(opts, poller.WithMaxInterval(d))
	}
	if p.Multiplier != 0 {
		opts = append(opts, poller.WithMultiplier(p.Multiplier))
	}
	if p.MaxAttempts != 0 {
		opts = append(opts, poller.WithMaxAttempts(p.MaxAttempts))
	}
	return opts, nil
}

// NewLogger returns a text logger writing to w at the named level
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	return slog.New(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
	), nil
}
