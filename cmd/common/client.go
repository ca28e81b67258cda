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
	"log/slog"

	"github.com/blinklabs-io/tonsurvey/config"
	"github.com/blinklabs-io/tonsurvey/contract"
	"github.com/blinklabs-io/tonsurvey/toncenter"
)

// NewClient returns a JSON-RPC client for the configured network
func NewClient(cfg *config.Config, logger *slog.Logger) *toncenter.Client {
	opts := append(
		cfg.ClientOptions(cfg.Survey.Network),
		toncenter.WithLogger(logger),
	)
	return toncenter.NewClient(cfg.Survey.Network, opts...)
}

// NewStore returns an artifact store reading the configured contract directory
func NewStore(cfg *config.Config, logger *slog.Logger) *contract.Store {
	return contract.NewStore(contract.FileSource{Dir: cfg.Contract.Dir}, logger)
}
