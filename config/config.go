// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/pebble"
)

const (
	defaultHTTPAddress       = "127.0.0.1:9650"
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultWSWriteTimeout    = 10 * time.Second
	defaultWSBacklog         = 1_024
	defaultLogMaxSizeMB      = 8
	defaultLogMaxFiles       = 5
	defaultLogMaxAgeDays     = 7
)

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"` // empty disables file logging
	LogMaxSizeMB    int           `json:"logMaxSizeMB"`
	LogMaxFiles     int           `json:"logMaxFiles"`
	LogMaxAgeDays   int           `json:"logMaxAgeDays"`
	LogCompress     bool          `json:"logCompress"`

	// Storage
	DBDir  string        `json:"dbDir"` // empty keeps state in memory
	Pebble pebble.Config `json:"pebble"`

	// API
	HTTPAddress       string        `json:"httpAddress"`
	MetricsNamespace  string        `json:"metricsNamespace"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`
	WSWriteTimeout    time.Duration `json:"wsWriteTimeout"`
	WSBacklog         int           `json:"wsBacklog"`

	// Genesis is applied once, on first boot.
	GenesisFile string `json:"genesisFile"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.LogDisplayLevel = logging.Info
	c.LogMaxSizeMB = defaultLogMaxSizeMB
	c.LogMaxFiles = defaultLogMaxFiles
	c.LogMaxAgeDays = defaultLogMaxAgeDays
	c.Pebble = pebble.NewDefaultConfig()
	c.HTTPAddress = defaultHTTPAddress
	c.MetricsNamespace = consts.Name
	c.ReadHeaderTimeout = defaultReadHeaderTimeout
	c.ShutdownTimeout = defaultShutdownTimeout
	c.WSWriteTimeout = defaultWSWriteTimeout
	c.WSBacklog = defaultWSBacklog
}

func (c *Config) verify() error {
	if c.WSBacklog <= 0 {
		return fmt.Errorf("%w: wsBacklog must be positive", ErrInvalidConfig)
	}
	if len(c.HTTPAddress) == 0 {
		return fmt.Errorf("%w: httpAddress must be set", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level          { return c.LogLevel }
func (c *Config) GetLogDisplayLevel() logging.Level   { return c.LogDisplayLevel }
func (c *Config) GetDBDir() string                    { return c.DBDir }
func (c *Config) GetPebbleConfig() pebble.Config      { return c.Pebble }
func (c *Config) GetMetricsNamespace() string         { return c.MetricsNamespace }
func (c *Config) GetHTTPAddress() string              { return c.HTTPAddress }
func (c *Config) GetReadHeaderTimeout() time.Duration { return c.ReadHeaderTimeout }
func (c *Config) GetShutdownTimeout() time.Duration   { return c.ShutdownTimeout }
func (c *Config) GetWSWriteTimeout() time.Duration    { return c.WSWriteTimeout }
func (c *Config) GetWSBacklog() int                   { return c.WSBacklog }
func (c *Config) GetGenesisFile() string              { return c.GenesisFile }
