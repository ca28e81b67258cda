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
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/tonsurvey/config"
	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/spf13/pflag"
)

type GlobalFlags struct {
	Flagset  *pflag.FlagSet
	Config   string
	Network  string
	Endpoint string
	APIKey   string
	LogLevel string
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: pflag.NewFlagSet(os.Args[0], pflag.ExitOnError),
	}
	// Flags after the subcommand belong to the subcommand
	f.Flagset.SetInterspersed(false)
	f.Flagset.StringVar(
		&f.Config,
		"config",
		"",
		"path to the YAML config file",
	)
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"",
		"network to query (mainnet or testnet). defaults to the configured survey network",
	)
	f.Flagset.StringVar(
		&f.Endpoint,
		"endpoint",
		"",
		"JSON-RPC endpoint. this overrides the configured endpoint of the network",
	)
	f.Flagset.StringVar(
		&f.APIKey,
		"api-key",
		"",
		"toncenter API key. this overrides the configured key of the network",
	)
	f.Flagset.StringVar(
		&f.LogLevel,
		"log-level",
		"",
		"log level (debug, info, warn or error)",
	)
	return f
}

// Parse parses the command line and loads the config. Any failure exits the process
func (f *GlobalFlags) Parse() *config.Config {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(f.Config)
	if err != nil {
		fmt.Printf("failed to load config: %s\n", err)
		os.Exit(1)
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Network != "" {
		network, err := survey.ParseNetwork(f.Network)
		if err != nil {
			fmt.Printf("Invalid network specified: %s\n", f.Network)
			os.Exit(1)
		}
		cfg.Survey.Network = network
	}
	netCfg := cfg.Network(cfg.Survey.Network)
	if f.Endpoint != "" {
		netCfg.Endpoint = f.Endpoint
	}
	if f.APIKey != "" {
		netCfg.APIKey = f.APIKey
	}
	if cfg.Survey.Network == survey.NetworkMainnet {
		cfg.Networks.Mainnet = netCfg
	} else {
		cfg.Networks.Testnet = netCfg
	}
	return cfg
}

// Args returns the subcommand and its arguments
func (f *GlobalFlags) Args() []string {
	return f.Flagset.Args()
}

// NewLogger returns a text logger on stderr at the configured level
func NewLogger(cfg *config.Config) *slog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		fmt.Printf("Invalid log level specified: %s\n", cfg.Logging.Level)
		os.Exit(1)
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}
