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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/blinklabs-io/tonsurvey/toncenter"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvMainnetEndpoint = "TON_JSONRPC_MAINNET"
	EnvTestnetEndpoint = "TON_JSONRPC_TESTNET"
	EnvMainnetAPIKey   = "TONCENTER_MAINNET_API_KEY"
	EnvTestnetAPIKey   = "TONCENTER_TESTNET_API_KEY"
	EnvContractDir     = "TONSURVEY_CONTRACT_DIR"
)

// Config is the configuration of the tonsurvey tools
type Config struct {
	// Networks configures the JSON-RPC endpoint and key per network
	Networks NetworksConfig `yaml:"networks"`
	// RPC configures retries of JSON-RPC requests
	RPC RPCConfig `yaml:"rpc"`
	// Contract configures where the contract artifact is read from
	Contract ContractConfig `yaml:"contract"`
	// Survey holds defaults for survey runs
	Survey SurveyConfig `yaml:"survey"`
	// Logging configures the log output
	Logging LoggingConfig `yaml:"logging"`
}

type NetworksConfig struct {
	Mainnet NetworkConfig `yaml:"mainnet"`
	Testnet NetworkConfig `yaml:"testnet"`
}

type NetworkConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type RPCConfig struct {
	RetryMax     int           `yaml:"retry_max"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max"`
}

type ContractConfig struct {
	// Dir holds NftProccessing.compiled.json and NftProccessing.pkg
	Dir string `yaml:"dir"`
}

type SurveyConfig struct {
	Contract string         `yaml:"contract"`
	Network  survey.Network `yaml:"network"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn or error
	Level string `yaml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Networks: NetworksConfig{
			Mainnet: NetworkConfig{Endpoint: toncenter.MainnetEndpoint},
			Testnet: NetworkConfig{Endpoint: toncenter.TestnetEndpoint},
		},
		RPC: RPCConfig{
			RetryMax:     3,
			RetryWaitMin: 500 * time.Millisecond,
			RetryWaitMax: 5 * time.Second,
		},
		Contract: ContractConfig{
			Dir: "contract",
		},
		Survey: SurveyConfig{
			Contract: survey.NftProcessingID,
			Network:  survey.NetworkTestnet,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the configuration from the file at path merged over the defaults, followed by
// the environment overrides. An empty path skips the file
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values with the non-blank environment variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		name string
		dest *string
	}{
		{EnvMainnetEndpoint, &c.Networks.Mainnet.Endpoint},
		{EnvTestnetEndpoint, &c.Networks.Testnet.Endpoint},
		{EnvMainnetAPIKey, &c.Networks.Mainnet.APIKey},
		{EnvTestnetAPIKey, &c.Networks.Testnet.APIKey},
		{EnvContractDir, &c.Contract.Dir},
	}
	for _, override := range overrides {
		if value, ok := lookup(override.name); ok {
			if value = strings.TrimSpace(value); value != "" {
				*override.dest = value
			}
		}
	}
}

// Network returns the settings of a network
func (c *Config) Network(network survey.Network) NetworkConfig {
	if network == survey.NetworkMainnet {
		return c.Networks.Mainnet
	}
	return c.Networks.Testnet
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (slog.Level, error) {
	var ret slog.Level
	if err := ret.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return ret, nil
}

// ClientOptions returns the toncenter client options for a network
func (c *Config) ClientOptions(network survey.Network) []toncenter.ClientOptionFunc {
	netCfg := c.Network(network)
	return []toncenter.ClientOptionFunc{
		toncenter.WithEndpoint(netCfg.Endpoint),
		toncenter.WithAPIKey(netCfg.APIKey),
		toncenter.WithRetry(c.RPC.RetryMax, c.RPC.RetryWaitMin, c.RPC.RetryWaitMax),
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error
	if c.Networks.Mainnet.Endpoint == "" {
		errs = append(errs, errors.New("networks.mainnet.endpoint is required"))
	}
	if c.Networks.Testnet.Endpoint == "" {
		errs = append(errs, errors.New("networks.testnet.endpoint is required"))
	}
	if c.RPC.RetryMax < 0 {
		errs = append(errs, fmt.Errorf("rpc.retry_max must not be negative: %d", c.RPC.RetryMax))
	}
	if c.RPC.RetryWaitMin > c.RPC.RetryWaitMax {
		errs = append(
			errs,
			fmt.Errorf(
				"rpc.retry_wait_min %s exceeds rpc.retry_wait_max %s",
				c.RPC.RetryWaitMin,
				c.RPC.RetryWaitMax,
			),
		)
	}
	if c.Contract.Dir == "" {
		errs = append(errs, errors.New("contract.dir is required"))
	}
	if _, err := survey.ParseNetwork(string(c.Survey.Network)); err != nil {
		errs = append(errs, fmt.Errorf("survey.network: %w", err))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}
